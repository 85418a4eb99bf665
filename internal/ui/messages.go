package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/errcard/internal/source"
)

// Messages delivered to the card model by loaders and watchers
type eventLoadingMsg struct{}

type eventLoadedMsg struct {
	doc *source.Document
}

type eventErrorMsg struct {
	err error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// LoadCommand creates a tea command that loads a document from src
func LoadCommand(ctx context.Context, src source.Source) tea.Cmd {
	return func() tea.Msg {
		doc, err := src.Load(ctx)
		if err != nil {
			return eventErrorMsg{err: err}
		}
		return eventLoadedMsg{doc: doc}
	}
}
