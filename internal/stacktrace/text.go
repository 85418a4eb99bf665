package stacktrace

import (
	"encoding/json"
	"strings"
)

// TextDisplay renders a plain-text traceback suitable for copying
type TextDisplay struct{}

// Render implements Display
func (TextDisplay) Render(props Props) string {
	return render(props, func(props Props) string {
		return FormatText(props)
	})
}

// FormatText returns the unstyled traceback for the exceptions in props
func FormatText(props Props) string {
	var b strings.Builder
	for i, exception := range props.Exceptions {
		if i > 0 {
			b.WriteString("\n")
		}

		value := exception.Value
		if props.TruncateMessage {
			value = truncateLine(value, props.Width-len(exception.Type)-2)
		}
		b.WriteString(exception.Type)
		if value != "" {
			b.WriteString(": " + value)
		}
		b.WriteString("\n")

		frames, _ := VisibleFrames(exception.Frames(), props.ShowAllFrames)
		for _, frame := range frames {
			b.WriteString("  at " + frame.Name())
			if loc := Location(frame); loc != "" {
				b.WriteString(" (" + loc + ")")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// JSONDisplay renders the raw exception list
type JSONDisplay struct{}

// Render implements Display
func (JSONDisplay) Render(props Props) string {
	return render(props, func(props Props) string {
		data, err := json.MarshalIndent(props.Exceptions, "", "  ")
		if err != nil {
			return props.Styles.Error.Render("failed to encode exceptions: " + err.Error())
		}
		return string(data)
	})
}
