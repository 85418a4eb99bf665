package formatter

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/yildizm/errcard/internal/card"
)

// tableFormatter renders one row per visible frame
type tableFormatter struct{}

// NewTable creates a new table formatter
func NewTable() Formatter {
	return &tableFormatter{}
}

func (f *tableFormatter) Format(cards []card.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.Header([]string{"Card", "Exception", "#", "Function", "Location"})

	var rows [][]string
	for i := range cards {
		rows = append(rows, f.cardRows(&cards[i], i+1)...)
	}

	if err := table.Bulk(rows); err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}
	if err := table.Render(); err != nil {
		return nil, fmt.Errorf("failed to render table: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *tableFormatter) cardRows(snap *card.Snapshot, index int) [][]string {
	id := fmt.Sprintf("%d", index)
	if snap.State.Loading {
		return [][]string{{id, "loading", "", "", ""}}
	}
	if len(snap.Exceptions) == 0 {
		return [][]string{{id, "No stacktrace available", "", "", ""}}
	}

	var rows [][]string
	for _, exception := range snap.Exceptions {
		title := exceptionTitle(exception)
		frames, hidden := frameRows(exception, snap.State.ShowAllFrames)
		if len(frames) == 0 {
			rows = append(rows, []string{id, title, "", "", ""})
		}
		for n, frame := range frames {
			rows = append(rows, []string{id, title, fmt.Sprintf("%d", n+1), frame[0], frame[1]})
		}
		if hidden > 0 {
			rows = append(rows, []string{id, title, "", pluralize(hidden, "vendor frame") + " hidden", ""})
		}
	}
	return rows
}
