package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/go-logparser"
)

const sampleProperties = `{
  "$exception_list": [
    {
      "type": "TypeError",
      "value": "Cannot read properties of undefined (reading 'id')",
      "mechanism": {"handled": false, "synthetic": false, "type": "onerror"},
      "stacktrace": {
        "type": "resolved",
        "frames": [
          {"raw_id": "a1", "mangled_name": "e", "resolved_name": "loadUser", "source": "src/user.ts", "line": 12, "column": 4, "lang": "javascript", "in_app": true, "resolved": true},
          {"raw_id": "a2", "mangled_name": "r", "source": "node_modules/react/index.js", "lang": "javascript", "in_app": false, "resolved": false, "resolve_failure": "no sourcemap"}
        ]
      }
    }
  ],
  "$session_id": "sess-1",
  "$lib": "posthog-js",
  "$lib_version": "1.200.0",
  "$browser": "Chrome",
  "$browser_version": "129",
  "$os": "Mac OS X",
  "$current_url": "https://app.example.com/users/1",
  "$cymbal_errors": ["frame resolution timed out"],
  "level": "error",
  "team": "growth",
  "plan": "scale"
}`

func loadProperties(t *testing.T) map[string]interface{} {
	t.Helper()
	var props map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(sampleProperties), &props))
	return props
}

func TestNewErrorProperties(t *testing.T) {
	props := NewErrorProperties(loadProperties(t), "2026-01-02T10:00:00Z", "issue-1")

	assert.Equal(t, "issue-1", props.ID)
	assert.Equal(t, "sess-1", props.SessionID)
	require.Len(t, props.ExceptionList, 1)

	exception := props.ExceptionList[0]
	assert.Equal(t, "TypeError", exception.Type)
	require.NotNil(t, exception.Stacktrace)
	assert.Equal(t, StacktraceResolved, exception.Stacktrace.Type)
	require.Len(t, exception.Frames(), 2)
	require.NotNil(t, exception.Frames()[0].Line)
	assert.Equal(t, 12, *exception.Frames()[0].Line)

	attrs := props.ExceptionAttributes
	assert.Equal(t, "TypeError", attrs.Type)
	assert.Equal(t, "javascript", attrs.Runtime)
	assert.Equal(t, "posthog-js", attrs.Library)
	assert.Equal(t, "Chrome", attrs.Browser)
	assert.Equal(t, "error", attrs.Level)
	assert.Equal(t, []string{"frame resolution timed out"}, attrs.IngestionErrors)
	require.NotNil(t, attrs.Handled)
	assert.False(t, *attrs.Handled)

	assert.Equal(t, map[string]interface{}{"team": "growth", "plan": "scale"}, props.AdditionalProperties)
}

func TestNewErrorPropertiesDefaults(t *testing.T) {
	props := NewErrorProperties(nil, "", "")

	assert.Equal(t, "error", props.ID)
	assert.NotNil(t, props.Properties)
	assert.Empty(t, props.ExceptionList)
	assert.Empty(t, props.SessionID)
	assert.Equal(t, "unknown", props.ExceptionAttributes.Runtime)
}

func TestParseExceptionList(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want int
	}{
		{name: "nil", raw: nil, want: 0},
		{name: "malformed", raw: map[string]interface{}{"type": "x"}, want: 0},
		{name: "json string", raw: `[{"type":"Error","value":"boom"}]`, want: 1},
		{name: "bad json string", raw: `[{`, want: 0},
		{name: "typed", raw: []Exception{{Type: "A"}, {Type: "B"}}, want: 2},
		{name: "decoded", raw: []interface{}{map[string]interface{}{"type": "Error", "value": "boom"}}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseExceptionList(tt.raw)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestRuntimeFallsBackToLibrary(t *testing.T) {
	props := NewErrorProperties(map[string]interface{}{
		PropLib:           "posthog-python",
		PropExceptionList: []Exception{{Type: "ValueError"}},
	}, "", "")
	assert.Equal(t, "python", props.ExceptionAttributes.Runtime)
}

func TestMightHaveRecording(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]interface{}
		want  bool
	}{
		{name: "no session", props: map[string]interface{}{}, want: false},
		{name: "empty session", props: map[string]interface{}{PropSessionID: ""}, want: false},
		{name: "session without status", props: map[string]interface{}{PropSessionID: "s"}, want: true},
		{name: "active", props: map[string]interface{}{PropSessionID: "s", PropRecordingStatus: "active"}, want: true},
		{name: "sampled", props: map[string]interface{}{PropSessionID: "s", PropRecordingStatus: "sampled"}, want: true},
		{name: "buffering", props: map[string]interface{}{PropSessionID: "s", PropRecordingStatus: "buffering"}, want: true},
		{name: "disabled", props: map[string]interface{}{PropSessionID: "s", PropRecordingStatus: "disabled"}, want: false},
		{name: "nil map", props: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MightHaveRecording(tt.props))
		})
	}
}

func TestHasResolvedFrames(t *testing.T) {
	resolved := Exception{Stacktrace: &Stacktrace{Type: StacktraceResolved, Frames: []Frame{{Resolved: false}, {Resolved: true}}}}
	unresolved := Exception{Stacktrace: &Stacktrace{Type: StacktraceResolved, Frames: []Frame{{Resolved: false}}}}
	raw := Exception{Stacktrace: &Stacktrace{Type: StacktraceRaw, Frames: []Frame{{Resolved: true}}}}

	assert.True(t, resolved.HasResolvedFrames())
	assert.False(t, unresolved.HasResolvedFrames())
	assert.False(t, raw.HasResolvedFrames())
	assert.False(t, Exception{}.HasResolvedFrames())
}

func TestFrameName(t *testing.T) {
	assert.Equal(t, "loadUser", Frame{Resolved: true, ResolvedName: "loadUser", MangledName: "e"}.Name())
	assert.Equal(t, "e", Frame{ResolvedName: "loadUser", MangledName: "e"}.Name())
	assert.Equal(t, "<anonymous>", Frame{}.Name())
}

func TestEventTime(t *testing.T) {
	event := &Event{Timestamp: "2026-01-02T10:00:00.123Z"}
	ts, ok := event.Time()
	require.True(t, ok)
	assert.Equal(t, 2026, ts.Year())

	_, ok = (&Event{Timestamp: "yesterday"}).Time()
	assert.False(t, ok)

	var missing *Event
	_, ok = missing.Time()
	assert.False(t, ok)

	ts, ok = ParseTimestamp("2026-01-02 10:00:00.5")
	require.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, time.Duration(ts.Nanosecond()))
}

func TestEventFromLogEntry(t *testing.T) {
	entry := &logparser.LogEntry{
		Timestamp: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
		Level:     "ERROR",
		Message:   "unhandled exception",
		Fields: map[string]interface{}{
			"exception_list": []interface{}{map[string]interface{}{"type": "Error", "value": "boom"}},
			"service":        "api",
		},
	}

	logEvent, ok := EventFromLogEntry(entry, 7)
	require.True(t, ok)
	assert.Equal(t, 7, logEvent.LineNumber)
	assert.Equal(t, "line-7", logEvent.Event.UUID)
	assert.Equal(t, "2026-01-02T10:00:00Z", logEvent.Event.Timestamp)
	assert.Equal(t, "ERROR", logEvent.Event.Properties[PropLevel])
	assert.NotContains(t, logEvent.Event.Properties, "exception_list")

	props := NewErrorProperties(logEvent.Event.Properties, logEvent.Event.Timestamp, "")
	assert.Len(t, props.ExceptionList, 1)

	_, ok = EventFromLogEntry(&logparser.LogEntry{Message: "plain line"}, 1)
	assert.False(t, ok)
}
