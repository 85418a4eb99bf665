package card

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/yildizm/go-promptfmt"

	"github.com/yildizm/errcard/internal/common"
	"github.com/yildizm/errcard/internal/stacktrace"
)

// DefaultFixFrames bounds how many resolved frames go into a fix prompt
const DefaultFixFrames = 10

// ShowFixButton reports whether any exception has a resolved stacktrace
// with at least one resolved frame
func ShowFixButton(exceptions []common.Exception) bool {
	return lo.SomeBy(exceptions, func(e common.Exception) bool {
		return e.HasResolvedFrames()
	})
}

// FixPromptPattern builds an AI prompt asking for a fix of the exceptions on a card
type FixPromptPattern struct {
	promptfmt.BasePattern
	Properties     common.ErrorProperties
	Issue          *common.Issue
	MaxFrames      int
	IncludeContext bool
}

// NewFixPromptPattern creates a pattern with default limits
func NewFixPromptPattern(props common.ErrorProperties) *FixPromptPattern {
	return &FixPromptPattern{
		BasePattern: promptfmt.BasePattern{
			Description: "Asks for a code fix for an exception with resolved stack frames",
			Tags:        []string{"error-tracking", "fix", "stacktrace"},
		},
		Properties:     props,
		MaxFrames:      DefaultFixFrames,
		IncludeContext: true,
	}
}

func (p *FixPromptPattern) WithIssue(issue *common.Issue) *FixPromptPattern {
	p.Issue = issue
	return p
}

func (p *FixPromptPattern) WithMaxFrames(n int) *FixPromptPattern {
	if n > 0 {
		p.MaxFrames = n
	}
	return p
}

func (p *FixPromptPattern) WithoutSourceContext() *FixPromptPattern {
	p.IncludeContext = false
	return p
}

// Build renders the prompt with the error-analysis pattern and adds the
// resolved frames as a separate context section
func (p *FixPromptPattern) Build() *promptfmt.Prompt {
	base := promptfmt.ErrorAnalysis().
		WithError(p.errorText()).
		WithContext(p.runtimeContext()).
		Build()

	frames := p.framesText()
	if frames == "" {
		return base
	}

	pb := promptfmt.New().
		System("%s", base.SystemPrompt).
		User("%s", UserPrompt(base)).
		AddContext("stack_frames", frames)
	if base.JSONSchema != nil {
		pb.ExpectJSON(base.JSONSchema)
	}
	return pb.Build()
}

func (p *FixPromptPattern) errorText() string {
	var b strings.Builder
	if p.Issue != nil && p.Issue.Name != "" {
		fmt.Fprintf(&b, "Issue: %s\n", p.Issue.Name)
		if p.Issue.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", p.Issue.Description)
		}
	}
	for _, exception := range p.Properties.ExceptionList {
		fmt.Fprintf(&b, "%s: %s\n", exception.Type, exception.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *FixPromptPattern) runtimeContext() string {
	attrs := p.Properties.ExceptionAttributes
	parts := []string{fmt.Sprintf("Runtime: %s", attrs.Runtime)}
	if attrs.Library != "" {
		parts = append(parts, fmt.Sprintf("Library: %s %s", attrs.Library, attrs.LibraryVersion))
	}
	if attrs.Browser != "" {
		parts = append(parts, fmt.Sprintf("Browser: %s %s", attrs.Browser, attrs.BrowserVersion))
	}
	if attrs.OS != "" {
		parts = append(parts, fmt.Sprintf("OS: %s %s", attrs.OS, attrs.OSVersion))
	}
	if attrs.URL != "" {
		parts = append(parts, "URL: "+attrs.URL)
	}
	if attrs.Handled != nil {
		parts = append(parts, fmt.Sprintf("Handled: %t", *attrs.Handled))
	}
	return strings.Join(lo.Map(parts, func(s string, _ int) string { return strings.TrimSpace(s) }), "\n")
}

// framesText lists resolved frames only, innermost first
func (p *FixPromptPattern) framesText() string {
	var b strings.Builder
	written := 0
	for _, exception := range p.Properties.ExceptionList {
		if !exception.HasResolvedFrames() {
			continue
		}
		frames, _ := stacktrace.VisibleFrames(exception.Frames(), true)
		resolved := lo.Filter(frames, func(f common.Frame, _ int) bool { return f.Resolved })

		fmt.Fprintf(&b, "%s:\n", exception.Type)
		for _, frame := range resolved {
			if written >= p.MaxFrames {
				break
			}
			fmt.Fprintf(&b, "- %s at %s\n", frame.Name(), stacktrace.Location(frame))
			if p.IncludeContext && frame.Context != nil {
				fmt.Fprintf(&b, "    %d | %s\n", frame.Context.Line.Number, frame.Context.Line.Line)
			}
			written++
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// UserPrompt joins the user messages of p, leaving out the system prompt
func UserPrompt(p *promptfmt.Prompt) string {
	userText := lo.FilterMap(p.Messages, func(m promptfmt.Message, _ int) (string, bool) {
		return m.Content, m.Role == "user"
	})
	return strings.Join(userText, "\n\n")
}

// BuildFixPrompt renders the fix prompt for the given properties and issue
func BuildFixPrompt(props common.ErrorProperties, issue *common.Issue) *promptfmt.Prompt {
	return NewFixPromptPattern(props).WithIssue(issue).Build()
}
