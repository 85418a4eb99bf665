package formatter

import (
	"fmt"

	"github.com/yildizm/errcard/internal/card"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(cards []card.Snapshot) ([]byte, error)
}

// Formats lists the supported output formats
func Formats() []string {
	return []string{"text", "json", "markdown", "table"}
}

// New returns the formatter for the named output format
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text", "terminal":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "table":
		return NewTable(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (available: text, json, markdown, table)", format)
	}
}
