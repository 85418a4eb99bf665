package formatter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/errcard/internal/card"
	"github.com/yildizm/errcard/internal/common"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func sampleSnapshot() card.Snapshot {
	return card.Snapshot{
		CardID:      "card-1",
		Label:       "Latest event",
		State:       card.ViewState{ShowDetails: true, ShowContext: true},
		DisplayMode: "generic",
		Expanded:    true,
		Issue:       &common.Issue{ID: "issue-1", Name: "TypeError in loadUser"},
		Exceptions: []common.Exception{{
			Type:  "TypeError",
			Value: "Cannot read properties of undefined",
			Stacktrace: &common.Stacktrace{Type: common.StacktraceResolved, Frames: []common.Frame{
				{MangledName: "r", Source: "node_modules/lib.js", ResolveFailure: "no sourcemap"},
				{ResolvedName: "loadUser", Source: "src/user.ts", Line: intPtr(12), Column: intPtr(4), InApp: true, Resolved: true},
			}},
		}},
		Attributes:           common.ExceptionAttributes{Type: "TypeError", Handled: boolPtr(false), Runtime: "javascript", Browser: "Chrome"},
		AdditionalProperties: map[string]interface{}{"team": "growth"},
		ShowFixButton:        true,
		Recording:            card.Recording{DisabledReason: card.NoRecordingReason},
		Traceback:            "TypeError: Cannot read properties of undefined\n  at loadUser (src/user.ts:12:4)",
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range Formats() {
		if _, err := New(format, false); err != nil {
			t.Errorf("Expected format %s to be supported: %v", format, err)
		}
	}
	if _, err := New("csv", false); err == nil {
		t.Error("Expected csv to be rejected")
	}
}

func TestTerminalFormatter(t *testing.T) {
	out, err := NewTerminal(false).Format([]card.Snapshot{sampleSnapshot()})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	output := string(out)

	for _, want := range []string{"Exception Card", "TypeError: Cannot read properties of undefined", "loadUser", "src/user.ts:12:4", "1 vendor frame", "Context", "Chrome", "growth", card.NoRecordingReason} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	if strings.Contains(output, "node_modules/lib.js") {
		t.Error("Expected vendor frames to be hidden")
	}
}

func TestTerminalFormatterShowAllFramesAndHiddenContext(t *testing.T) {
	snap := sampleSnapshot()
	snap.State.ShowAllFrames = true
	snap.State.ShowContext = false

	out, err := NewTerminal(false).Format([]card.Snapshot{snap})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	output := string(out)

	if !strings.Contains(output, "node_modules/lib.js (no sourcemap)") {
		t.Error("Expected vendor frame with resolve failure")
	}
	if strings.Contains(output, "growth") {
		t.Error("Expected context to be omitted")
	}
}

func TestTerminalFormatterEmptyAndLoading(t *testing.T) {
	empty := sampleSnapshot()
	empty.Exceptions = nil
	loading := sampleSnapshot()
	loading.State.Loading = true

	out, err := NewTerminal(false).Format([]card.Snapshot{empty, loading})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	output := string(out)

	if !strings.Contains(output, "Exception Cards (2)") {
		t.Error("Expected plural header")
	}
	if !strings.Contains(output, "No stacktrace available") || !strings.Contains(output, "Loading exception") {
		t.Error("Expected empty and loading placeholders")
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSON().Format([]card.Snapshot{sampleSnapshot()})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded JSONOutput
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Count != 1 || decoded.Cards[0].CardID != "card-1" {
		t.Errorf("Unexpected decoded output: %+v", decoded)
	}
	if !decoded.Cards[0].ShowFixButton {
		t.Error("Expected show_fix_button to round trip")
	}

	empty, err := NewJSON().Format(nil)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(string(empty), `"cards": []`) {
		t.Errorf("Expected empty card list, got %s", empty)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	f := &markdownFormatter{now: func() time.Time { return time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC) }}
	out, err := f.Format([]card.Snapshot{sampleSnapshot()})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	output := string(out)

	for _, want := range []string{
		"# Exception Report",
		"Generated: 2026-01-02 10:00:00",
		"## TypeError in loadUser",
		"```\nTypeError: Cannot read properties of undefined\n  at loadUser (src/user.ts:12:4)\n```",
		"> 1 vendor frame hidden for TypeError",
		"| Browser | Chrome |",
		"| team | growth |",
		"- **Fix**: prompt available",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestEscapeMarkdown(t *testing.T) {
	if got := escapeMarkdown("a|b_c*d\ne"); got != `a\|b\_c\*d e` {
		t.Errorf("Unexpected escape result %q", got)
	}
}

func TestTableFormatter(t *testing.T) {
	snap := sampleSnapshot()
	out, err := NewTable().Format([]card.Snapshot{snap})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	output := string(out)

	if !strings.Contains(output, "loadUser") || !strings.Contains(output, "src/user.ts:12:4") {
		t.Errorf("Expected frame row in table:\n%s", output)
	}
	if !strings.Contains(output, "1 vendor frame hidden") {
		t.Errorf("Expected hidden frame row in table:\n%s", output)
	}
}

func TestTableRowsForEmptyCard(t *testing.T) {
	snap := sampleSnapshot()
	snap.Exceptions = nil

	rows := (&tableFormatter{}).cardRows(&snap, 3)
	if len(rows) != 1 || rows[0][0] != "3" || rows[0][1] != "No stacktrace available" {
		t.Errorf("Unexpected rows %v", rows)
	}
}
