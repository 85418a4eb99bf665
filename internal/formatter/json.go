package formatter

import (
	"encoding/json"

	"github.com/yildizm/errcard/internal/card"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	Count int             `json:"count"`
	Cards []card.Snapshot `json:"cards"`
}

func (f *jsonFormatter) Format(cards []card.Snapshot) ([]byte, error) {
	if cards == nil {
		cards = []card.Snapshot{}
	}
	return json.MarshalIndent(&JSONOutput{Count: len(cards), Cards: cards}, "", "  ")
}
