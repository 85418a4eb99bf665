// Package stacktrace renders exception lists as generic, plain-text or JSON
// stack trace displays.
package stacktrace

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/samber/lo"

	"github.com/yildizm/errcard/internal/common"
	"github.com/yildizm/errcard/internal/emoji"
	"github.com/yildizm/errcard/internal/theme"
)

// EmptyMessage is shown when an event carries no exceptions
const EmptyMessage = "No stacktrace available"

// HeaderProps describes one exception header line
type HeaderProps struct {
	Type     string
	Value    string
	Loading  bool
	Truncate bool
}

// Props are shared by every display
type Props struct {
	Exceptions       []common.Exception
	Loading          bool
	ShowAllFrames    bool
	ShowFrameContext bool
	TruncateMessage  bool
	Width            int
	Styles           *theme.Styles

	// RenderLoading is called while the event is loading. It receives the
	// header renderer so callers can show issue level information instead.
	RenderLoading func(renderHeader func(HeaderProps) string) string

	// RenderEmpty is called when the loaded event has no exceptions
	RenderEmpty func() string
}

// Display renders an exception list
type Display interface {
	Render(props Props) string
}

// Generic, Text and JSON are the available displays
var (
	Generic Display = GenericDisplay{}
	Text    Display = TextDisplay{}
	JSON    Display = JSONDisplay{}
)

// RenderEmpty returns the default empty display
func RenderEmpty(styles *theme.Styles) string {
	if styles == nil {
		styles = theme.GetStyles()
	}
	return styles.Muted.Render(EmptyMessage)
}

// RenderHeader renders "Type: value" for an exception
func RenderHeader(header HeaderProps, styles *theme.Styles, width int) string {
	if styles == nil {
		styles = theme.GetStyles()
	}
	if header.Loading {
		return styles.Muted.Render(emoji.Prefix("loading") + "Loading exception...")
	}

	excType := header.Type
	if excType == "" {
		excType = "Error"
	}

	value := header.Value
	if header.Truncate {
		value = truncateLine(value, width-len(excType)-2)
	}

	if value == "" {
		return styles.ExceptionType.Render(excType)
	}
	return styles.ExceptionType.Render(excType+":") + " " + styles.ExceptionValue.Render(value)
}

// render applies the loading and empty gates shared by all displays
func render(props Props, body func(props Props) string) string {
	if props.Styles == nil {
		props.Styles = theme.GetStyles()
	}

	if props.Loading {
		if props.RenderLoading == nil {
			return RenderHeader(HeaderProps{Loading: true}, props.Styles, props.Width)
		}
		return props.RenderLoading(func(h HeaderProps) string {
			return RenderHeader(h, props.Styles, props.Width)
		})
	}

	if len(props.Exceptions) == 0 {
		if props.RenderEmpty == nil {
			return RenderEmpty(props.Styles)
		}
		return props.RenderEmpty()
	}

	return body(props)
}

// VisibleFrames returns the frames to show in call order, innermost first,
// and how many vendor frames were hidden.
func VisibleFrames(frames []common.Frame, showAllFrames bool) ([]common.Frame, int) {
	ordered := lo.Reverse(append([]common.Frame(nil), frames...))
	if showAllFrames {
		return ordered, 0
	}
	visible := lo.Filter(ordered, func(f common.Frame, _ int) bool { return f.InApp })
	return visible, len(ordered) - len(visible)
}

// Location formats source:line:column, omitting missing parts
func Location(frame common.Frame) string {
	loc := frame.Source
	if frame.Line != nil {
		loc += fmt.Sprintf(":%d", *frame.Line)
		if frame.Column != nil {
			loc += fmt.Sprintf(":%d", *frame.Column)
		}
	}
	return loc
}

func truncateLine(value string, width int) string {
	if idx := strings.IndexAny(value, "\r\n"); idx >= 0 {
		value = value[:idx]
	}
	if width <= 0 {
		return value
	}
	return ansi.Truncate(value, width, "…")
}
