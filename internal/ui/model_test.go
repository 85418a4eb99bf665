package ui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/errcard/internal/card"
	"github.com/yildizm/errcard/internal/common"
	"github.com/yildizm/errcard/internal/emoji"
	"github.com/yildizm/errcard/internal/source"
	"github.com/yildizm/errcard/internal/theme"
)

func TestMain(m *testing.M) {
	theme.SetColorDisabled(true)
	emoji.SetEmojiDisabled(true)
	os.Exit(m.Run())
}

type stubSource struct {
	doc *source.Document
	err error
}

func (s *stubSource) Name() string { return "stub.json" }

func (s *stubSource) Load(context.Context) (*source.Document, error) {
	return s.doc, s.err
}

func resolvedEvent() *common.Event {
	line := 12
	return &common.Event{
		UUID:      "evt-1",
		Timestamp: "2026-01-02T10:00:00Z",
		Properties: map[string]interface{}{
			common.PropExceptionList: []common.Exception{{
				Type:  "TypeError",
				Value: "x is undefined",
				Stacktrace: &common.Stacktrace{
					Type:   common.StacktraceResolved,
					Frames: []common.Frame{{ResolvedName: "loadUser", Source: "src/user.ts", Line: &line, InApp: true, Resolved: true}},
				},
			}},
		},
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newLoadedModel(t *testing.T) *Model {
	t.Helper()
	c := card.New(card.Options{})
	c.Update(card.Props{Event: resolvedEvent(), Label: "checkout"})
	m := NewModel(context.Background(), c, nil, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestInitLoadsFromSource(t *testing.T) {
	c := card.New(card.Options{})
	src := &stubSource{doc: &source.Document{Event: resolvedEvent(), Issue: &common.Issue{ID: "iss-1", Name: "TypeError"}}}
	m := NewModel(context.Background(), c, src, nil)

	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.True(t, c.Store().State().Loading)
	assert.False(t, c.Store().IsExpanded())

	msg := LoadCommand(context.Background(), src)()
	m.Update(msg)

	assert.False(t, c.Store().State().Loading)
	assert.True(t, c.Store().IsExpanded())
	require.NotNil(t, c.Props().Issue)
	assert.Equal(t, "iss-1", c.Props().Issue.ID)
}

func TestLoadErrorClearsLoading(t *testing.T) {
	c := card.New(card.Options{})
	src := &stubSource{err: errors.New("boom")}
	m := NewModel(context.Background(), c, src, nil)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m.Update(LoadCommand(context.Background(), src)())

	assert.False(t, c.Store().State().Loading)
	assert.Contains(t, m.View(), "boom")
}

func TestToggleKeys(t *testing.T) {
	tests := []struct {
		key   string
		check func(t *testing.T, state card.ViewState)
	}{
		{key: "t", check: func(t *testing.T, s card.ViewState) { assert.True(t, s.ShowAsText) }},
		{key: "j", check: func(t *testing.T, s card.ViewState) { assert.True(t, s.ShowAsJSON) }},
		{key: "v", check: func(t *testing.T, s card.ViewState) { assert.True(t, s.ShowAllFrames) }},
		{key: "c", check: func(t *testing.T, s card.ViewState) {
			assert.False(t, s.ShowContext)
			assert.True(t, s.ShowDetails)
		}},
		{key: "d", check: func(t *testing.T, s card.ViewState) { assert.False(t, s.ShowDetails) }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newLoadedModel(t)
			m.Update(keyPress(tt.key))
			tt.check(t, m.Card().Store().State())
		})
	}
}

func TestToggleKeysDoNotExpand(t *testing.T) {
	m := newLoadedModel(t)
	require.True(t, m.Card().Store().State().ShowDetails)

	for _, k := range []string{"t", "j", "v"} {
		m.Update(keyPress(k))
		assert.True(t, m.Card().Store().State().ShowDetails, "key %q", k)
	}
}

func TestTextAndJSONStayExclusive(t *testing.T) {
	m := newLoadedModel(t)
	m.Update(keyPress("t"))
	m.Update(keyPress("j"))

	state := m.Card().Store().State()
	assert.True(t, state.ShowAsJSON)
	assert.False(t, state.ShowAsText)
	assert.Equal(t, card.DisplayJSON, m.Card().Store().Mode())
}

func TestExpandKeys(t *testing.T) {
	m := newLoadedModel(t)

	m.Update(keyPress("enter"))
	assert.False(t, m.Card().Store().State().ShowDetails)

	m.Update(keyPress(" "))
	assert.True(t, m.Card().Store().State().ShowDetails)
}

func TestFixModal(t *testing.T) {
	m := newLoadedModel(t)

	m.Update(keyPress("f"))
	assert.True(t, m.Card().Store().State().ShowFixModal)

	m.Update(keyPress("esc"))
	assert.False(t, m.Card().Store().State().ShowFixModal)
}

func TestFixUnavailableWithoutResolvedFrames(t *testing.T) {
	c := card.New(card.Options{})
	c.Update(card.Props{Event: &common.Event{Properties: map[string]interface{}{
		common.PropExceptionList: []common.Exception{{Type: "Error", Stacktrace: &common.Stacktrace{Type: common.StacktraceResolved, Frames: []common.Frame{{Resolved: false}}}}},
	}}})
	m := NewModel(context.Background(), c, nil, nil)

	m.Update(keyPress("f"))
	assert.False(t, c.Store().State().ShowFixModal)
}

func TestWatcherMessages(t *testing.T) {
	m := newLoadedModel(t)

	_, cmd := m.Update(eventLoadingMsg{})
	assert.NotNil(t, cmd)
	assert.True(t, m.Card().Store().State().Loading)
	assert.False(t, m.Card().Store().IsExpanded())

	m.Update(eventLoadedMsg{doc: &source.Document{Event: resolvedEvent()}})
	assert.False(t, m.Card().Store().State().Loading)
	assert.True(t, m.Card().Store().IsExpanded())
	assert.Equal(t, "checkout", m.Card().Props().Label)
}

func TestViewAndQuit(t *testing.T) {
	m := newLoadedModel(t)

	view := m.View()
	assert.Contains(t, view, "errcard")
	assert.Contains(t, view, "checkout")
	assert.Contains(t, view, "TypeError")

	m.Update(keyPress("?"))
	assert.True(t, m.help.ShowAll)

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, strings.TrimSpace(m.View()) == "")
}

func TestStoreDispatchRefreshesViewport(t *testing.T) {
	m := newLoadedModel(t)
	store := m.Card().Store()
	require.Contains(t, m.viewport.View(), "loadUser")
	require.NotContains(t, m.viewport.View(), `"resolved_name"`)

	store.SetShowAsJSON(true)
	assert.Contains(t, m.viewport.View(), `"resolved_name": "loadUser"`)

	forced := store.State()
	forced.ShowAsText = true
	store.Restore(forced)
	assert.NotContains(t, m.viewport.View(), "loadUser")

	m.Close()
	store.SetShowAsText(false)
	assert.NotContains(t, m.viewport.View(), "loadUser", "closed models stop following the store")
}
