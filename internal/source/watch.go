package source

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yildizm/errcard/internal/logger"
)

// WatchHandler receives reload notifications. Any callback may be nil.
type WatchHandler struct {
	OnLoading func()
	OnLoaded  func(*Document)
	OnError   func(error)
}

// Watcher reloads a FileSource whenever the file is written
type Watcher struct {
	source  *FileSource
	handler WatchHandler
	log     *logger.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching the source file. Close must be called to release it.
func NewWatcher(src *FileSource, handler WatchHandler, log *logger.Logger) (*Watcher, error) {
	if src.fromStdin() {
		return nil, fmt.Errorf("cannot watch stdin")
	}
	if err := ValidateFilePath(src.Path); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}

	watcher, err := createWatcher(src.Path)
	if err != nil {
		return nil, err
	}

	return &Watcher{source: src, handler: handler, log: log, watcher: watcher}, nil
}

// Run processes file events until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	w.log.DebugWithFields("Watching file", []logger.Field{logger.F("path", w.source.Path)})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.WarnWithFields("Watcher error", []logger.Field{logger.Error(err)})
		}
	}
}

// Close stops the underlying fsnotify watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write, event.Op&fsnotify.Create == fsnotify.Create:
		w.reload(ctx)
	case event.Op&(fsnotify.Rename|fsnotify.Remove) != 0:
		// editors that save by rename drop the watch
		if err := w.watcher.Add(w.source.Path); err == nil {
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	start := time.Now()
	if w.handler.OnLoading != nil {
		w.handler.OnLoading()
	}

	doc, err := w.source.Load(ctx)
	if err != nil {
		w.log.WarnWithFields("Reload failed", []logger.Field{logger.F("path", w.source.Path), logger.Error(err)})
		if w.handler.OnError != nil {
			w.handler.OnError(err)
		}
		return
	}

	w.log.DebugWithFields("Reloaded event", []logger.Field{logger.F("path", w.source.Path), logger.Duration(time.Since(start))})
	if w.handler.OnLoaded != nil {
		w.handler.OnLoaded(doc)
	}
}

// createWatcher creates and configures a new file system watcher
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filename); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}
