package common

import (
	"time"
)

// StacktraceType tells whether frames went through symbol resolution
type StacktraceType string

const (
	StacktraceRaw      StacktraceType = "raw"
	StacktraceResolved StacktraceType = "resolved"
)

// Issue is a deduplicated group of similar exception events
type Issue struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Event is one occurrence of an exception with its raw property bag
type Event struct {
	UUID       string                 `json:"uuid,omitempty"`
	Timestamp  string                 `json:"timestamp,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Time parses the event timestamp
func (e *Event) Time() (time.Time, bool) {
	if e == nil {
		return time.Time{}, false
	}
	return ParseTimestamp(e.Timestamp)
}

// ParseTimestamp accepts RFC 3339 and the space or T separated forms without a zone
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Exception is one entry of an event's exception list
type Exception struct {
	ID         string      `json:"id,omitempty"`
	Type       string      `json:"type"`
	Value      string      `json:"value"`
	Module     string      `json:"module,omitempty"`
	Mechanism  *Mechanism  `json:"mechanism,omitempty"`
	Stacktrace *Stacktrace `json:"stacktrace,omitempty"`
}

// Mechanism describes how the exception was captured
type Mechanism struct {
	Handled   *bool  `json:"handled,omitempty"`
	Synthetic bool   `json:"synthetic,omitempty"`
	Type      string `json:"type,omitempty"`
}

// Stacktrace holds the frames of one exception, innermost call last
type Stacktrace struct {
	Type   StacktraceType `json:"type"`
	Frames []Frame        `json:"frames"`
}

// Frame is a single stack frame, optionally augmented with resolved symbols
type Frame struct {
	RawID          string        `json:"raw_id,omitempty"`
	MangledName    string        `json:"mangled_name,omitempty"`
	ResolvedName   string        `json:"resolved_name,omitempty"`
	Source         string        `json:"source,omitempty"`
	Line           *int          `json:"line,omitempty"`
	Column         *int          `json:"column,omitempty"`
	Lang           string        `json:"lang,omitempty"`
	InApp          bool          `json:"in_app"`
	Resolved       bool          `json:"resolved"`
	ResolveFailure string        `json:"resolve_failure,omitempty"`
	Context        *FrameContext `json:"context,omitempty"`
}

// FrameContext carries source lines around a frame
type FrameContext struct {
	Pre  []ContextLine `json:"pre,omitempty"`
	Line ContextLine   `json:"line"`
	Post []ContextLine `json:"post,omitempty"`
}

// ContextLine is one numbered source line
type ContextLine struct {
	Number int    `json:"number"`
	Line   string `json:"line"`
}

// Name returns the best available function name for the frame
func (f Frame) Name() string {
	switch {
	case f.Resolved && f.ResolvedName != "":
		return f.ResolvedName
	case f.MangledName != "":
		return f.MangledName
	case f.ResolvedName != "":
		return f.ResolvedName
	default:
		return "<anonymous>"
	}
}

// HasResolvedFrames reports whether a resolved stacktrace has at least one resolved frame
func (e Exception) HasResolvedFrames() bool {
	if e.Stacktrace == nil || e.Stacktrace.Type != StacktraceResolved {
		return false
	}
	for _, frame := range e.Stacktrace.Frames {
		if frame.Resolved {
			return true
		}
	}
	return false
}

// Frames returns the exception frames, or nil when there is no stacktrace
func (e Exception) Frames() []Frame {
	if e.Stacktrace == nil {
		return nil
	}
	return e.Stacktrace.Frames
}
