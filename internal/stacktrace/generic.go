package stacktrace

import (
	"fmt"
	"strings"

	"github.com/yildizm/errcard/internal/common"
	"github.com/yildizm/errcard/internal/emoji"
	"github.com/yildizm/errcard/internal/theme"
)

// GenericDisplay renders a styled frame list per exception
type GenericDisplay struct{}

// Render implements Display
func (GenericDisplay) Render(props Props) string {
	return render(props, renderGeneric)
}

func renderGeneric(props Props) string {
	var b strings.Builder

	for i, exception := range props.Exceptions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(RenderHeader(HeaderProps{
			Type:     exception.Type,
			Value:    exception.Value,
			Truncate: props.TruncateMessage,
		}, props.Styles, props.Width))
		b.WriteString("\n")

		frames, hidden := VisibleFrames(exception.Frames(), props.ShowAllFrames)
		for _, frame := range frames {
			b.WriteString(renderFrame(frame, props))
		}
		if hidden > 0 {
			label := "frames"
			if hidden == 1 {
				label = "frame"
			}
			b.WriteString(props.Styles.Muted.Render(fmt.Sprintf("  %s%d vendor %s hidden", emoji.Prefix("vendor"), hidden, label)))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderFrame(frame common.Frame, props Props) string {
	styles := props.Styles
	nameStyle := styles.FrameName
	if !frame.InApp {
		nameStyle = styles.VendorFrame
	}

	var line string
	if frame.Resolved {
		line = fmt.Sprintf("  %s%s  %s", emoji.Prefix("frame"), nameStyle.Render(frame.Name()), styles.FrameSource.Render(Location(frame)))
	} else {
		name := frame.MangledName
		if name == "" {
			name = frame.Name()
		}
		line = fmt.Sprintf("  %s%s  %s", emoji.Prefix("frame"), nameStyle.Render(name), styles.FrameSource.Render(frame.Source))
		if frame.ResolveFailure != "" {
			line += " " + styles.Warning.Render("("+frame.ResolveFailure+")")
		}
	}
	line += "\n"

	if props.ShowFrameContext && frame.Context != nil {
		line += renderContext(frame.Context, styles)
	}
	return line
}

func renderContext(ctx *common.FrameContext, styles *theme.Styles) string {
	var b strings.Builder
	for _, pre := range ctx.Pre {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("      %4d | %s", pre.Number, pre.Line)))
		b.WriteString("\n")
	}
	b.WriteString(styles.ContextLine.Render(fmt.Sprintf("    > %4d | %s", ctx.Line.Number, ctx.Line.Line)))
	b.WriteString("\n")
	for _, post := range ctx.Post {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("      %4d | %s", post.Number, post.Line)))
		b.WriteString("\n")
	}
	return b.String()
}
