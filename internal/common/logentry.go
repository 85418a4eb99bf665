package common

import (
	"fmt"
	"time"

	"github.com/yildizm/go-logparser"
)

// LogEvent is an exception event recovered from a structured log line
type LogEvent struct {
	Event      *Event
	LineNumber int
	Message    string
}

// EventFromLogEntry converts a parsed log entry into an Event when the entry
// carries an exception list. Entries without one are reported as not found.
func EventFromLogEntry(entry *logparser.LogEntry, lineNumber int) (*LogEvent, bool) {
	if entry == nil || entry.Fields == nil {
		return nil, false
	}

	raw, ok := entry.Fields[PropExceptionList]
	if !ok {
		raw, ok = entry.Fields["exception_list"]
	}
	if !ok || len(ParseExceptionList(raw)) == 0 {
		return nil, false
	}

	properties := make(map[string]interface{}, len(entry.Fields)+1)
	for key, value := range entry.Fields {
		properties[key] = value
	}
	properties[PropExceptionList] = raw
	delete(properties, "exception_list")
	if _, set := properties[PropLevel]; !set && entry.Level != "" {
		properties[PropLevel] = entry.Level
	}

	event := &Event{
		UUID:       stringProp(properties, "uuid"),
		Properties: properties,
	}
	if event.UUID == "" {
		event.UUID = fmt.Sprintf("line-%d", lineNumber)
	}
	if !entry.Timestamp.IsZero() {
		event.Timestamp = entry.Timestamp.UTC().Format(time.RFC3339Nano)
	}

	return &LogEvent{Event: event, LineNumber: lineNumber, Message: entry.Message}, true
}
