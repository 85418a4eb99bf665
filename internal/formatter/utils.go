package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/errcard/internal/card"
	"github.com/yildizm/errcard/internal/common"
	"github.com/yildizm/errcard/internal/stacktrace"
)

// exceptionTitle formats "Type: value" on one line
func exceptionTitle(exception common.Exception) string {
	title := exception.Type
	if title == "" {
		title = "Error"
	}
	if value := firstLine(exception.Value); value != "" {
		title += ": " + value
	}
	return title
}

func firstLine(s string) string {
	if idx := strings.IndexAny(s, "\r\n"); idx >= 0 {
		return s[:idx]
	}
	return s
}

// frameRows returns the visible frames of an exception as name/location
// pairs plus the number of hidden vendor frames
func frameRows(exception common.Exception, showAllFrames bool) ([][2]string, int) {
	frames, hidden := stacktrace.VisibleFrames(exception.Frames(), showAllFrames)
	rows := make([][2]string, 0, len(frames))
	for _, frame := range frames {
		location := stacktrace.Location(frame)
		if !frame.Resolved && frame.ResolveFailure != "" {
			location += " (" + frame.ResolveFailure + ")"
		}
		rows = append(rows, [2]string{frame.Name(), location})
	}
	return rows, hidden
}

// recordingStatus describes the view-recording action in words
func recordingStatus(rec card.Recording) string {
	if rec.DisabledReason != "" {
		return rec.DisabledReason
	}
	if rec.Loading {
		return "loading"
	}
	return "available (session " + rec.SessionID + ")"
}

// getSeverityEmoji returns an emoji for the exception level using go-termfmt
func getSeverityEmoji(level string, opts *termfmt.TerminalOptions) string {
	switch strings.ToLower(level) {
	case "warning", "warn":
		return termfmt.GetEmoji("warning", opts)
	case "info", "debug", "log":
		return termfmt.GetEmoji("info", opts)
	default:
		return termfmt.GetEmoji("error", opts)
	}
}

func pluralize(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}
