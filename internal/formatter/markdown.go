package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/errcard/internal/card"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(cards []card.Snapshot) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Exception Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	for i := range cards {
		f.writeCard(&b, &cards[i])
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeCard(b *strings.Builder, snap *card.Snapshot) {
	title := "Exception"
	if snap.Issue != nil && snap.Issue.Name != "" {
		title = snap.Issue.Name
	} else if len(snap.Exceptions) > 0 {
		title = exceptionTitle(snap.Exceptions[0])
	}
	fmt.Fprintf(b, "## %s\n\n", escapeMarkdown(title))

	if snap.Label != "" {
		fmt.Fprintf(b, "_%s_\n\n", escapeMarkdown(snap.Label))
	}
	if snap.TimestampLabel != "" {
		fmt.Fprintf(b, "Seen: %s\n\n", snap.TimestampLabel)
	}

	f.writeStacktrace(b, snap)
	if snap.State.ShowContext {
		f.writeAttributes(b, snap)
	}
	f.writeActions(b, snap)
}

// writeStacktrace writes the traceback in a fenced block
func (f *markdownFormatter) writeStacktrace(b *strings.Builder, snap *card.Snapshot) {
	b.WriteString("### Stack Trace\n\n")
	switch {
	case snap.State.Loading:
		b.WriteString("Loading exception...\n\n")
	case len(snap.Exceptions) == 0:
		b.WriteString("No stacktrace available\n\n")
	default:
		b.WriteString("```\n" + snap.Traceback + "\n```\n\n")
		for _, exception := range snap.Exceptions {
			if _, hidden := frameRows(exception, snap.State.ShowAllFrames); hidden > 0 {
				fmt.Fprintf(b, "> %s hidden for %s\n\n", pluralize(hidden, "vendor frame"), escapeMarkdown(exception.Type))
			}
		}
	}
}

// writeAttributes writes the context panel as a table
func (f *markdownFormatter) writeAttributes(b *strings.Builder, snap *card.Snapshot) {
	rows := append(card.AttributeRows(snap.Attributes), card.AdditionalRows(snap.AdditionalProperties)...)
	if len(rows) == 0 {
		return
	}

	b.WriteString("### Context\n\n")
	b.WriteString("| Key | Value |\n")
	b.WriteString("|-----|-------|\n")
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", escapeMarkdown(row[0]), escapeMarkdown(row[1]))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeActions(b *strings.Builder, snap *card.Snapshot) {
	b.WriteString("### Actions\n\n")
	if snap.ShowFixButton {
		b.WriteString("- **Fix**: prompt available (`errcard fix`)\n")
	} else {
		b.WriteString("- **Fix**: no resolved frames\n")
	}
	fmt.Fprintf(b, "- **Recording**: %s\n\n", recordingStatus(snap.Recording))
}

// escapeMarkdown escapes characters that break table cells and emphasis
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer("|", "\\|", "_", "\\_", "*", "\\*", "\n", " ")
	return replacer.Replace(s)
}
