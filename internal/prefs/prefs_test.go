package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.yaml")

	store, err := Open(path)
	require.NoError(t, err)

	_, ok := store.ShowContext()
	assert.False(t, ok, "fresh store has no value")

	require.NoError(t, store.SetShowContext(false))

	value, ok := store.ShowContext()
	assert.True(t, ok)
	assert.False(t, value)

	_, err = os.Stat(path)
	require.NoError(t, err, "preference file is created on write")

	reopened, err := Open(path)
	require.NoError(t, err)

	value, ok = reopened.ShowContext()
	assert.True(t, ok)
	assert.False(t, value)
}

func TestFileStoreAddsExtension(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "prefs"))
	require.NoError(t, err)
	assert.Equal(t, ".yaml", filepath.Ext(store.Path()))
	require.NoError(t, store.SetShowContext(true))
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("card: [oops"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.ShowContext()
	assert.False(t, ok)

	require.NoError(t, store.SetShowContext(true))
	value, ok := store.ShowContext()
	assert.True(t, ok)
	assert.True(t, value)
}
