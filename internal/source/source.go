// Package source loads exception events and their issues from files, stdin
// or an HTTP endpoint.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/yildizm/errcard/internal/common"
)

var (
	// ErrNoEvent is returned when a document decodes but carries no event
	ErrNoEvent = errors.New("document contains no event")
	// ErrUnsupportedDocument is returned for JSON that is neither a document nor an event
	ErrUnsupportedDocument = errors.New("unsupported document shape")
)

// Document is an event together with the issue it belongs to
type Document struct {
	Event *common.Event `json:"event"`
	Issue *common.Issue `json:"issue,omitempty"`
}

// Source produces documents
type Source interface {
	Load(ctx context.Context) (*Document, error)
	Name() string
}

// Decode parses either a {"event": ..., "issue": ...} document or a bare event
func Decode(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrUnsupportedDocument
		}
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	if _, wrapped := raw["event"]; wrapped {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		if doc.Event == nil {
			return nil, ErrNoEvent
		}
		normalize(doc.Event)
		return &doc, nil
	}

	if _, bare := raw["properties"]; !bare {
		return nil, ErrUnsupportedDocument
	}

	var event common.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	normalize(&event)
	return &Document{Event: &event}, nil
}

// ReadDocument decodes a document from r
func ReadDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return Decode(data)
}

// ReadIssue decodes an issue summary from r
func ReadIssue(r io.Reader) (*common.Issue, error) {
	var issue common.Issue
	if err := json.NewDecoder(r).Decode(&issue); err != nil {
		return nil, fmt.Errorf("failed to decode issue: %w", err)
	}
	return &issue, nil
}

func normalize(event *common.Event) {
	if event.Properties == nil {
		event.Properties = map[string]interface{}{}
	}
}
