package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/errcard/internal/card"
	"github.com/yildizm/errcard/internal/logger"
	"github.com/yildizm/errcard/internal/source"
)

// RunOptions configures an interactive session
type RunOptions struct {
	Card   *card.Card
	Source source.Source
	Watch  bool
	Logger *logger.Logger
}

// Run starts the interactive card and blocks until the user quits
func Run(ctx context.Context, opts RunOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, opts.Card, opts.Source, opts.Logger)
	defer model.Close()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Watch {
		fileSource, ok := opts.Source.(*source.FileSource)
		if !ok {
			return fmt.Errorf("watch requires a file source")
		}
		watcher, err := source.NewWatcher(fileSource, source.WatchHandler{
			OnLoading: func() { p.Send(eventLoadingMsg{}) },
			OnLoaded:  func(doc *source.Document) { p.Send(eventLoadedMsg{doc: doc}) },
			OnError:   func(err error) { p.Send(eventErrorMsg{err: err}) },
		}, opts.Logger)
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()

		go func() {
			if err := watcher.Run(ctx); err != nil {
				p.Send(eventErrorMsg{err: err})
			}
		}()
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("interactive card failed: %w", err)
	}
	return nil
}
