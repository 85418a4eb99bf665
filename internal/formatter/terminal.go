package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/errcard/internal/card"
	"github.com/yildizm/errcard/internal/emoji"
)

// terminalFormatter formats cards as plain text trees using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(cards []card.Snapshot) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, len(cards))
	for i := range cards {
		if i > 0 {
			b.WriteString(strings.Repeat("─", 50) + "\n\n")
		}
		f.writeCard(&b, &cards[i])
	}

	return []byte(b.String()), nil
}

// writeHeader writes a box drawing header
func (f *terminalFormatter) writeHeader(b *strings.Builder, count int) {
	header := "Exception Card"
	if count > 1 {
		header = fmt.Sprintf("Exception Cards (%d)", count)
	}
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *terminalFormatter) writeCard(b *strings.Builder, snap *card.Snapshot) {
	if snap.Label != "" {
		b.WriteString(snap.Label + "\n")
	}
	if snap.Issue != nil && snap.Issue.Name != "" {
		fmt.Fprintf(b, "Issue: %s\n", snap.Issue.Name)
	}

	f.writeExceptions(b, snap)
	if snap.State.ShowContext {
		f.writeContext(b, snap)
	}
	f.writeActions(b, snap)
}

// writeExceptions writes one tree per exception with its visible frames
func (f *terminalFormatter) writeExceptions(b *strings.Builder, snap *card.Snapshot) {
	if snap.State.Loading {
		b.WriteString("Loading exception...\n\n")
		return
	}
	if len(snap.Exceptions) == 0 {
		b.WriteString("No stacktrace available\n\n")
		return
	}

	symbol := getSeverityEmoji(snap.Attributes.Level, f.opts)
	for _, exception := range snap.Exceptions {
		fmt.Fprintf(b, "%s %s\n", symbol, exceptionTitle(exception))

		rows, hidden := frameRows(exception, snap.State.ShowAllFrames)
		items := make([]termfmt.TreeItem, 0, len(rows)+1)
		for _, row := range rows {
			items = append(items, termfmt.TreeItem{Label: row[0], Value: row[1]})
		}
		if hidden > 0 {
			items = append(items, termfmt.TreeItem{Label: "Hidden", Value: pluralize(hidden, "vendor frame")})
		}
		if len(items) == 0 {
			b.WriteString("\n")
			continue
		}
		items[len(items)-1].Last = true

		b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
	}
}

// writeContext writes exception attributes and additional properties
func (f *terminalFormatter) writeContext(b *strings.Builder, snap *card.Snapshot) {
	attributes := card.AttributeRows(snap.Attributes)
	additional := card.AdditionalRows(snap.AdditionalProperties)
	if len(attributes) == 0 && len(additional) == 0 {
		return
	}

	symbol := termfmt.GetEmoji("info", f.opts)
	b.WriteString(symbol + " Context\n")

	items := make([]termfmt.TreeItem, 0, len(attributes)+1)
	for _, row := range attributes {
		items = append(items, termfmt.TreeItem{Label: row[0], Value: row[1]})
	}
	if len(additional) > 0 {
		children := make([]termfmt.TreeItem, 0, len(additional))
		for i, row := range additional {
			children = append(children, termfmt.TreeItem{Label: row[0], Value: row[1], Last: i == len(additional)-1})
		}
		items = append(items, termfmt.TreeItem{Label: "Properties", Value: pluralize(len(additional), "key"), Children: children})
	}
	items[len(items)-1].Last = true

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeActions writes timestamp, fix and recording availability
func (f *terminalFormatter) writeActions(b *strings.Builder, snap *card.Snapshot) {
	items := make([]termfmt.TreeItem, 0, 3)
	if snap.TimestampLabel != "" {
		items = append(items, termfmt.TreeItem{Label: "Seen", Value: snap.TimestampLabel})
	}
	fix := "no resolved frames"
	if snap.ShowFixButton {
		fix = "available (errcard fix)"
	}
	items = append(items,
		termfmt.TreeItem{Label: "Fix prompt", Value: fix},
		termfmt.TreeItem{Label: "Recording", Value: recordingStatus(snap.Recording), Last: true},
	)

	symbol := termfmt.GetEmoji("help", f.opts)
	b.WriteString(symbol + " Actions\n")
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
}
