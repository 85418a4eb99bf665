// Package ui runs the interactive exception card on Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/errcard/internal/card"
	"github.com/yildizm/errcard/internal/emoji"
	"github.com/yildizm/errcard/internal/logger"
	"github.com/yildizm/errcard/internal/source"
	"github.com/yildizm/errcard/internal/theme"
)

// Spinner characters
var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the interactive card model
type Model struct {
	card   *card.Card
	source source.Source
	log    *logger.Logger
	ctx    context.Context

	keys     keyMap
	help     help.Model
	viewport viewport.Model

	width    int
	height   int
	ready    bool
	quitting bool
	ticking  bool
	err      error

	spinnerFrame int
	unsubscribe  func()
}

// NewModel creates a model for c. src may be nil when the card already has its event.
func NewModel(ctx context.Context, c *card.Card, src source.Source, log *logger.Logger) *Model {
	if log == nil {
		log = logger.Nop()
	}
	keys := defaultKeyMap()
	vp := viewport.New(card.DefaultWidth, 20)
	vp.KeyMap = viewportKeyMap(keys)

	m := &Model{
		card:     c,
		source:   src,
		log:      log.WithComponent("ui"),
		ctx:      ctx,
		keys:     keys,
		help:     help.New(),
		viewport: vp,
	}
	// Every store dispatch re-renders the card into the viewport.
	m.unsubscribe = c.Store().Subscribe(func(card.ViewState) {
		m.refresh()
	})
	m.refresh()
	return m
}

// Close detaches the model from the card store
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Card returns the wrapped card
func (m *Model) Card() *card.Card {
	return m.card
}

// Init starts the initial load
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.source != nil {
		m.setLoading(true)
		cmds = append(cmds, LoadCommand(m.ctx, m.source))
	}
	if m.card.Store().State().Loading {
		m.ticking = true
		cmds = append(cmds, tick())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		return m.handleTick()
	case eventLoadingMsg:
		return m.handleLoading()
	case eventLoadedMsg:
		return m.handleLoaded(msg)
	case eventErrorMsg:
		return m.handleError(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.help.Width = msg.Width
	m.card.SetWidth(msg.Width)
	m.layout()
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.card.Store().State()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Close):
		if state.ShowFixModal {
			m.card.CloseFixModal()
		}
		return m, nil
	}

	// Toggle keys are consumed here so they never reach the expand handler.
	if toggle, ok := m.toggleFor(msg); ok {
		m.card.Activate(toggle)
		m.log.Debug("Toggle %s -> %s", toggle, m.card.Store().Mode())
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Fix):
		if !m.card.ActivateFix() {
			m.log.Debug("Fix prompt unavailable, no resolved frames")
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.source == nil {
			return m, nil
		}
		m.err = nil
		return m, tea.Batch(m.startLoading(), LoadCommand(m.ctx, m.source))

	case key.Matches(msg, m.keys.Expand):
		m.card.ToggleExpanded()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) toggleFor(msg tea.KeyMsg) (card.Toggle, bool) {
	switch {
	case key.Matches(msg, m.keys.Details):
		return card.ToggleDetails, true
	case key.Matches(msg, m.keys.Text):
		return card.ToggleText, true
	case key.Matches(msg, m.keys.JSON):
		return card.ToggleJSON, true
	case key.Matches(msg, m.keys.AllFrames):
		return card.ToggleAllFrames, true
	case key.Matches(msg, m.keys.Context):
		return card.ToggleContext, true
	}
	return 0, false
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.card.Store().State().Loading {
		m.ticking = false
		return m, nil
	}
	m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerChars)
	return m, tick()
}

func (m *Model) handleLoading() (tea.Model, tea.Cmd) {
	return m, m.startLoading()
}

func (m *Model) handleLoaded(msg eventLoadedMsg) (tea.Model, tea.Cmd) {
	props := m.card.Props()
	props.Event = msg.doc.Event
	if msg.doc.Issue != nil {
		props.Issue = msg.doc.Issue
	}
	props.IssueLoading = false
	props.EventLoading = false
	m.card.Update(props)
	m.err = nil

	m.log.DebugWithFields("Event loaded", []logger.Field{logger.F("uuid", msg.doc.Event.UUID)})
	return m, nil
}

func (m *Model) handleError(msg eventErrorMsg) (tea.Model, tea.Cmd) {
	m.err = msg.err
	m.setLoading(false)
	m.log.WarnWithFields("Failed to load event", []logger.Field{logger.Error(msg.err)})
	return m, nil
}

// startLoading marks the card as loading and starts the spinner if it is idle
func (m *Model) startLoading() tea.Cmd {
	m.setLoading(true)
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tick()
}

func (m *Model) setLoading(loading bool) {
	props := m.card.Props()
	props.EventLoading = loading
	if props.Issue == nil {
		props.IssueLoading = loading
	}
	m.card.Update(props)
}

func (m *Model) layout() {
	if !m.ready {
		return
	}
	chrome := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter())
	m.viewport.Width = m.width
	m.viewport.Height = max(1, m.height-chrome)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.card.View())
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m *Model) renderHeader() string {
	styles := theme.GetStyles()

	parts := []string{styles.Title.Render(emoji.Prefix("error") + "errcard")}
	if m.source != nil {
		parts = append(parts, styles.Muted.Render(m.source.Name()))
	}
	if label := m.card.Props().Label; label != "" {
		parts = append(parts, styles.Header.Render(label))
	}
	if ts := m.card.TimestampLabel(); ts != "" {
		parts = append(parts, styles.Muted.Render(ts))
	}
	if m.card.Store().State().Loading {
		parts = append(parts, styles.Info.Render(spinnerChars[m.spinnerFrame]+" loading"))
	}
	return strings.Join(parts, styles.Muted.Render(" · "))
}

func (m *Model) renderFooter() string {
	styles := theme.GetStyles()
	var lines []string
	if m.err != nil {
		lines = append(lines, styles.Error.Render(fmt.Sprintf("%sError: %v", emoji.Prefix("error"), m.err)))
	}
	lines = append(lines, styles.Help.Render(m.help.View(m.keys)))
	return strings.Join(lines, "\n")
}
