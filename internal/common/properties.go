package common

import (
	"encoding/json"
	"strings"

	"github.com/samber/lo"
)

// Well-known event property keys
const (
	PropExceptionList   = "$exception_list"
	PropSessionID       = "$session_id"
	PropRecordingStatus = "$recording_status"
	PropLevel           = "$level"
	PropLib             = "$lib"
	PropLibVersion      = "$lib_version"
	PropBrowser         = "$browser"
	PropBrowserVersion  = "$browser_version"
	PropOS              = "$os"
	PropOSVersion       = "$os_version"
	PropCurrentURL      = "$current_url"
	PropAppNamespace    = "$app_namespace"
	PropIngestionErrors = "$cymbal_errors"
)

// Keys consumed by ExceptionAttributes even though they are not $-prefixed
var attributeKeys = []string{"level", "app_namespace"}

var libRuntimes = map[string]string{
	"web":                  "web",
	"posthog-js":           "web",
	"posthog-node":         "node",
	"posthog-python":       "python",
	"posthog-ruby":         "ruby",
	"posthog-go":           "go",
	"posthog-android":      "android",
	"posthog-ios":          "ios",
	"posthog-flutter":      "flutter",
	"posthog-react-native": "react-native",
}

var recordingStatuses = []string{"active", "sampled", "buffering"}

// ExceptionAttributes are the summary attributes shown next to a stack trace
type ExceptionAttributes struct {
	Type            string   `json:"type,omitempty"`
	Value           string   `json:"value,omitempty"`
	Synthetic       bool     `json:"synthetic,omitempty"`
	Handled         *bool    `json:"handled,omitempty"`
	Level           string   `json:"level,omitempty"`
	Runtime         string   `json:"runtime,omitempty"`
	Library         string   `json:"library,omitempty"`
	LibraryVersion  string   `json:"libraryVersion,omitempty"`
	Browser         string   `json:"browser,omitempty"`
	BrowserVersion  string   `json:"browserVersion,omitempty"`
	OS              string   `json:"os,omitempty"`
	OSVersion       string   `json:"osVersion,omitempty"`
	URL             string   `json:"url,omitempty"`
	AppNamespace    string   `json:"appNamespace,omitempty"`
	IngestionErrors []string `json:"ingestionErrors,omitempty"`
}

// ErrorProperties is the view of one event's property bag used while rendering a card
type ErrorProperties struct {
	ID                   string
	Timestamp            string
	Properties           map[string]interface{}
	ExceptionList        []Exception
	ExceptionAttributes  ExceptionAttributes
	AdditionalProperties map[string]interface{}
	SessionID            string
}

// NewErrorProperties derives ErrorProperties from a raw property bag.
// A nil map is treated as empty; a malformed exception list yields no exceptions.
func NewErrorProperties(properties map[string]interface{}, timestamp, id string) ErrorProperties {
	if properties == nil {
		properties = map[string]interface{}{}
	}
	if id == "" {
		id = "error"
	}

	exceptions := ParseExceptionList(properties[PropExceptionList])

	return ErrorProperties{
		ID:                   id,
		Timestamp:            timestamp,
		Properties:           properties,
		ExceptionList:        exceptions,
		ExceptionAttributes:  buildAttributes(properties, exceptions),
		AdditionalProperties: additionalProperties(properties),
		SessionID:            stringProp(properties, PropSessionID),
	}
}

// ParseExceptionList decodes a $exception_list value. It accepts the already
// decoded JSON form ([]interface{}), a typed slice, or a JSON string.
func ParseExceptionList(raw interface{}) []Exception {
	if raw == nil {
		return []Exception{}
	}

	switch v := raw.(type) {
	case []Exception:
		return v
	case string:
		var exceptions []Exception
		if err := json.Unmarshal([]byte(v), &exceptions); err != nil || exceptions == nil {
			return []Exception{}
		}
		return exceptions
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return []Exception{}
	}
	var exceptions []Exception
	if err := json.Unmarshal(data, &exceptions); err != nil {
		return []Exception{}
	}
	if exceptions == nil {
		return []Exception{}
	}
	return exceptions
}

// MightHaveRecording reports whether a session recording could exist for the event
func MightHaveRecording(properties map[string]interface{}) bool {
	if stringProp(properties, PropSessionID) == "" {
		return false
	}
	status, ok := properties[PropRecordingStatus]
	if !ok || status == nil {
		return true
	}
	s, isString := status.(string)
	return isString && lo.Contains(recordingStatuses, s)
}

func buildAttributes(properties map[string]interface{}, exceptions []Exception) ExceptionAttributes {
	ingestionErrors := lo.FilterMap(sliceProp(properties, PropIngestionErrors), func(item interface{}, _ int) (string, bool) {
		s, ok := item.(string)
		return s, ok && s != ""
	})

	attrs := ExceptionAttributes{
		Level:           firstString(properties, PropLevel, "level"),
		Library:         stringProp(properties, PropLib),
		LibraryVersion:  stringProp(properties, PropLibVersion),
		Browser:         stringProp(properties, PropBrowser),
		BrowserVersion:  stringProp(properties, PropBrowserVersion),
		OS:              stringProp(properties, PropOS),
		OSVersion:       stringProp(properties, PropOSVersion),
		URL:             stringProp(properties, PropCurrentURL),
		AppNamespace:    firstString(properties, PropAppNamespace, "app_namespace"),
		IngestionErrors: ingestionErrors,
	}

	if len(exceptions) > 0 {
		first := exceptions[0]
		attrs.Type = first.Type
		attrs.Value = first.Value
		if first.Mechanism != nil {
			attrs.Synthetic = first.Mechanism.Synthetic
			attrs.Handled = first.Mechanism.Handled
		}
	}

	attrs.Runtime = detectRuntime(exceptions, attrs.Library)
	return attrs
}

func detectRuntime(exceptions []Exception, library string) string {
	for _, exception := range exceptions {
		frame, found := lo.Find(exception.Frames(), func(f Frame) bool { return f.Lang != "" })
		if found {
			return frame.Lang
		}
	}
	if runtime, ok := libRuntimes[library]; ok {
		return runtime
	}
	return "unknown"
}

func additionalProperties(properties map[string]interface{}) map[string]interface{} {
	return lo.PickBy(properties, func(key string, _ interface{}) bool {
		return !strings.HasPrefix(key, "$") && !lo.Contains(attributeKeys, key)
	})
}

func stringProp(properties map[string]interface{}, key string) string {
	if s, ok := properties[key].(string); ok {
		return s
	}
	return ""
}

func firstString(properties map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := stringProp(properties, key); s != "" {
			return s
		}
	}
	return ""
}

func sliceProp(properties map[string]interface{}, key string) []interface{} {
	switch v := properties[key].(type) {
	case []interface{}:
		return v
	case []string:
		return lo.Map(v, func(s string, _ int) interface{} { return s })
	default:
		return nil
	}
}
