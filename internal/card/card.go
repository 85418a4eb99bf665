package card

import (
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/go-promptfmt"

	"github.com/yildizm/errcard/internal/common"
	"github.com/yildizm/errcard/internal/emoji"
	"github.com/yildizm/errcard/internal/logger"
	"github.com/yildizm/errcard/internal/prefs"
	"github.com/yildizm/errcard/internal/stacktrace"
	"github.com/yildizm/errcard/internal/theme"
)

const (
	// DefaultWidth is the card width when none is configured
	DefaultWidth = 100

	// NoRecordingReason is shown on the disabled recording button
	NoRecordingReason = "No recording available"

	collapsedLines = 2
	minInnerWidth  = 20
)

// Props is the externally supplied data for one card
type Props struct {
	Issue        *common.Issue
	IssueLoading bool
	Label        string
	Event        *common.Event
	EventLoading bool
}

// Options configures a card
type Options struct {
	Store           *Store
	Preferences     prefs.Store
	Logger          *logger.Logger
	Clock           clock.Clock
	Width           int
	TimestampFormat string
	MaxFixFrames    int
	OmitFixContext  bool
	InitialState    *ViewState
}

// Card renders one exception event
type Card struct {
	store           *Store
	props           Props
	clock           clock.Clock
	width           int
	timestampFormat string
	maxFixFrames    int
	omitFixContext  bool
}

// New mounts a card. Without a store in opts a new one is created over the
// configured preference store.
func New(opts Options) *Card {
	store := opts.Store
	if store == nil {
		storeOpts := []StoreOption{WithPreferences(opts.Preferences), WithLogger(opts.Logger)}
		if opts.InitialState != nil {
			storeOpts = append(storeOpts, WithInitialState(*opts.InitialState))
		}
		store = NewStore(storeOpts...)
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.MaxFixFrames <= 0 {
		opts.MaxFixFrames = DefaultFixFrames
	}

	return &Card{
		store:           store,
		clock:           opts.Clock,
		width:           opts.Width,
		timestampFormat: opts.TimestampFormat,
		maxFixFrames:    opts.MaxFixFrames,
		omitFixContext:  opts.OmitFixContext,
	}
}

// Store returns the card view-state store
func (c *Card) Store() *Store {
	return c.store
}

// Props returns the current props
func (c *Card) Props() Props {
	return c.props
}

// Update replaces the props and forwards the event loading flag to the store
// before anything is rendered
func (c *Card) Update(props Props) {
	c.props = props
	c.store.SetLoading(props.EventLoading)
}

// SetWidth sets the render width
func (c *Card) SetWidth(width int) {
	if width > 0 {
		c.width = width
	}
}

// Width returns the render width
func (c *Card) Width() int {
	return c.width
}

// Properties derives the error properties for the current props. A new value
// is built for every call.
func (c *Card) Properties() common.ErrorProperties {
	var properties map[string]interface{}
	var timestamp string
	if c.props.Event != nil {
		properties = c.props.Event.Properties
		timestamp = c.props.Event.Timestamp
	}
	id := "error"
	if c.props.Issue != nil && c.props.Issue.ID != "" {
		id = c.props.Issue.ID
	}
	return common.NewErrorProperties(properties, timestamp, id)
}

// ShowFixButton reports whether the Fix action is offered
func (c *Card) ShowFixButton() bool {
	return ShowFixButton(c.Properties().ExceptionList)
}

// FixPrompt builds the AI fix prompt for the current event
func (c *Card) FixPrompt() *promptfmt.Prompt {
	pattern := NewFixPromptPattern(c.Properties()).
		WithIssue(c.props.Issue).
		WithMaxFrames(c.maxFixFrames)
	if c.omitFixContext {
		pattern = pattern.WithoutSourceContext()
	}
	return pattern.Build()
}

// ActivateFix opens the fix modal. It does nothing when the button is not shown.
func (c *Card) ActivateFix() bool {
	if !c.ShowFixButton() {
		return false
	}
	c.store.SetShowFixModal(true)
	return true
}

// CloseFixModal closes the fix modal
func (c *Card) CloseFixModal() {
	c.store.SetShowFixModal(false)
}

// ToggleExpanded is the card-level expand handler
func (c *Card) ToggleExpanded() {
	c.store.SetShowDetails(!c.store.State().ShowDetails)
}

// Recording describes the view-recording action
type Recording struct {
	SessionID      string `json:"session_id,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
	Loading        bool   `json:"loading"`
	DisabledReason string `json:"disabled_reason,omitempty"`
}

// Enabled reports whether the recording can be opened
func (r Recording) Enabled() bool {
	return r.DisabledReason == "" && !r.Loading
}

// Recording returns the state of the view-recording action
func (c *Card) Recording() Recording {
	props := c.Properties()
	rec := Recording{
		SessionID: props.SessionID,
		Timestamp: props.Timestamp,
		Loading:   c.store.State().Loading,
	}
	if !common.MightHaveRecording(props.Properties) {
		rec.DisabledReason = NoRecordingReason
	}
	return rec
}

// TimestampLabel returns the relative and absolute event time
func (c *Card) TimestampLabel() string {
	if c.props.Event == nil {
		return ""
	}
	return TimestampLabel(c.clock, c.props.Event.Timestamp, c.timestampFormat)
}

// View renders the whole card
func (c *Card) View() string {
	state := c.store.State()
	props := c.Properties()
	styles := theme.GetStyles()

	inner := c.width - styles.Card.GetHorizontalFrameSize()
	if inner < minInnerWidth {
		inner = minInnerWidth
	}

	sections := []string{
		lipgloss.PlaceHorizontal(inner, lipgloss.Right, c.renderToggles(styles)),
		c.renderBody(state, props, styles, inner),
		c.renderActions(state, props, styles, inner),
	}
	view := styles.Card.Width(c.width - styles.Card.GetHorizontalBorderSize()).Render(strings.Join(sections, "\n"))

	if state.ShowFixModal {
		view = lipgloss.JoinVertical(lipgloss.Left, view, c.renderFixModal(styles))
	}
	return view
}

// renderBody lays out the stack region and the context panel
func (c *Card) renderBody(state ViewState, props common.ErrorProperties, styles *theme.Styles, width int) string {
	expanded := state.IsExpanded()
	showPanel := state.ShowContext && expanded

	stackWidth := width
	if showPanel {
		stackWidth = width * 2 / 3
	}

	stack := c.renderStack(state, props, styles, stackWidth)
	if !expanded {
		stack = clipLines(stack, collapsedLines)
	}
	stackBlock := lipgloss.NewStyle().Width(stackWidth).Render(stack)

	if !showPanel {
		return stackBlock
	}

	panel := styles.Panel.Width(width - stackWidth).Render(renderContextPanel(props, state.Loading, styles))
	return lipgloss.JoinHorizontal(lipgloss.Top, stackBlock, panel)
}

// renderStack selects the display from the text/json flags
func (c *Card) renderStack(state ViewState, props common.ErrorProperties, styles *theme.Styles, width int) string {
	var display stacktrace.Display
	switch state.Mode() {
	case DisplayGeneric:
		display = stacktrace.Generic
	case DisplayText:
		display = stacktrace.Text
	case DisplayJSON:
		display = stacktrace.JSON
	default:
		return ""
	}

	issue := c.props.Issue
	return display.Render(stacktrace.Props{
		Exceptions:       props.ExceptionList,
		Loading:          state.Loading,
		ShowAllFrames:    state.ShowAllFrames,
		ShowFrameContext: state.IsExpanded(),
		TruncateMessage:  !state.IsExpanded(),
		Width:            width,
		Styles:           styles,
		RenderLoading: func(renderHeader func(stacktrace.HeaderProps) string) string {
			header := stacktrace.HeaderProps{Loading: c.props.IssueLoading, Truncate: true}
			if issue != nil {
				header.Type = issue.Name
				header.Value = issue.Description
			}
			return renderHeader(header)
		},
		RenderEmpty: func() string {
			return stacktrace.RenderEmpty(styles)
		},
	})
}

// Toggle identifies one of the card toggles
type Toggle int

const (
	ToggleDetails Toggle = iota
	ToggleText
	ToggleJSON
	ToggleAllFrames
	ToggleContext
)

func (t Toggle) String() string {
	if name, ok := toggleNames[t]; ok {
		return name
	}
	return "unknown"
}

// ToggleView is the rendered state of one toggle
type ToggleView struct {
	Toggle  Toggle
	Label   string
	Checked bool
}

// Toggles returns the toggle group in display order
func (c *Card) Toggles() []ToggleView {
	state := c.store.State()
	details := "Show details"
	if state.ShowDetails {
		details = "Hide details"
	}
	return []ToggleView{
		{Toggle: ToggleDetails, Label: details, Checked: state.ShowDetails},
		{Toggle: ToggleText, Label: "Show as text", Checked: state.ShowAsText},
		{Toggle: ToggleJSON, Label: "Show as json", Checked: state.ShowAsJSON},
		{Toggle: ToggleAllFrames, Label: "Show vendor frames", Checked: state.ShowAllFrames},
		{Toggle: ToggleContext, Label: "Show context", Checked: state.ShowContext},
	}
}

// Activate flips a toggle through its setter. Toggles never go through the
// card-level expand handler.
func (c *Card) Activate(toggle Toggle) {
	state := c.store.State()
	switch toggle {
	case ToggleDetails:
		c.store.SetShowDetails(!state.ShowDetails)
	case ToggleText:
		c.store.SetShowAsText(!state.ShowAsText)
	case ToggleJSON:
		c.store.SetShowAsJSON(!state.ShowAsJSON)
	case ToggleAllFrames:
		c.store.SetShowAllFrames(!state.ShowAllFrames)
	case ToggleContext:
		c.store.SetShowContext(!state.ShowContext)
	}
}

var toggleNames = map[Toggle]string{
	ToggleDetails:   "details",
	ToggleText:      "text",
	ToggleJSON:      "json",
	ToggleAllFrames: "vendor",
	ToggleContext:   "context",
}

func (c *Card) renderToggles(styles *theme.Styles) string {
	parts := make([]string, 0, 5)
	for _, toggle := range c.Toggles() {
		mark, style := emoji.GetEmoji("uncheck"), styles.ToggleOff
		if toggle.Checked {
			mark, style = emoji.GetEmoji("check"), styles.ToggleOn
		}
		label := emoji.GetEmoji(toggleNames[toggle.Toggle])
		if toggle.Toggle == ToggleDetails {
			label = toggle.Label
		}
		parts = append(parts, style.Render(mark+" "+label))
	}
	return strings.Join(parts, " ")
}

// renderActions renders the label row with the timestamp, fix and recording actions
func (c *Card) renderActions(state ViewState, props common.ErrorProperties, styles *theme.Styles, width int) string {
	var left []string
	if c.props.Label != "" {
		left = append(left, styles.Title.Render(c.props.Label))
	}
	if state.Loading {
		left = append(left, styles.Muted.Render(emoji.Prefix("loading")+"Loading..."))
	} else if preview := AttributesPreview(props.ExceptionAttributes); preview != "" {
		left = append(left, styles.Muted.Render(preview))
	}

	var right []string
	if label := c.TimestampLabel(); label != "" {
		right = append(right, styles.Muted.Render(emoji.Prefix("clock")+label))
	}
	if ShowFixButton(props.ExceptionList) {
		right = append(right, styles.Button.Render(emoji.Prefix("fix")+"Fix"))
	}
	rec := c.Recording()
	if rec.Enabled() {
		right = append(right, styles.Button.Render(emoji.Prefix("recording")+"View recording"))
	} else {
		text := emoji.Prefix("recording") + "View recording"
		if rec.DisabledReason != "" {
			text += " (" + rec.DisabledReason + ")"
		}
		right = append(right, styles.ButtonDisabled.Render(text))
	}

	leftText := strings.Join(left, " ")
	rightText := strings.Join(right, "  ")
	gap := width - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if gap < 1 {
		return leftText + "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Right, rightText)
	}
	return leftText + strings.Repeat(" ", gap) + rightText
}

func (c *Card) renderFixModal(styles *theme.Styles) string {
	prompt := c.FixPrompt()
	title := styles.Header.Render(emoji.Prefix("fix") + "Fix prompt")
	hint := styles.Help.Render("esc: close")
	body := lipgloss.NewStyle().Width(c.width - styles.Modal.GetHorizontalFrameSize()).Render(prompt.String())
	return styles.Modal.Width(c.width - styles.Modal.GetHorizontalBorderSize()).Render(strings.Join([]string{title, body, hint}, "\n\n"))
}

func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
