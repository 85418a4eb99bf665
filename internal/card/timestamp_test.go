package card

import (
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"just now", now.Add(-10 * time.Second), "just now"},
		{"one minute", now.Add(-70 * time.Second), "a minute ago"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"one hour", now.Add(-time.Hour), "an hour ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
		{"days", now.Add(-72 * time.Hour), "3 days ago"},
		{"months", now.Add(-60 * 24 * time.Hour), "2 months ago"},
		{"years", now.Add(-800 * 24 * time.Hour), "2 years ago"},
		{"future", now.Add(2 * time.Hour), "in 2 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(now, tt.at))
		})
	}
}

func TestTimestampLabel(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))

	label := TimestampLabel(mock, "2026-01-02T09:30:00Z", time.RFC3339)
	assert.True(t, strings.HasPrefix(label, "30 minutes ago ("))

	mock.Add(2 * time.Hour)
	assert.True(t, strings.HasPrefix(TimestampLabel(mock, "2026-01-02T09:30:00Z", ""), "3 hours ago"))

	assert.True(t, strings.HasPrefix(TimestampLabel(mock, "2026-01-02 11:00:00", ""), "an hour ago"))

	assert.Equal(t, "not a time", TimestampLabel(mock, "not a time", ""))
	assert.Empty(t, TimestampLabel(mock, "", ""))
}
