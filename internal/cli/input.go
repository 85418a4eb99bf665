package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yildizm/errcard/internal/card"
	"github.com/yildizm/errcard/internal/config"
	"github.com/yildizm/errcard/internal/logger"
	"github.com/yildizm/errcard/internal/prefs"
	"github.com/yildizm/errcard/internal/source"
)

// sourceFlags are shared by the commands that load a single event
type sourceFlags struct {
	issuePath string
	url       string
}

// resolveSource picks the event source: a file argument wins over --url,
// which wins over the configured endpoint. Without either, stdin is read.
func resolveSource(args []string, flags sourceFlags, cfg *config.Config) source.Source {
	if len(args) > 0 {
		return source.NewFileSource(filepath.Clean(args[0]), flags.issuePath)
	}

	url := flags.url
	if url == "" {
		url = cfg.Source.URL
	}
	if url != "" {
		return source.NewHTTPSource(url, source.HTTPOptions{
			Token:   cfg.Source.Token,
			Timeout: cfg.Source.Timeout,
			Retries: cfg.Source.Retries,
		})
	}

	return source.NewFileSource("-", flags.issuePath)
}

// commandContext returns the command context, which is unset when a command runs outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadDocument loads the document once, with the configured timeout for remote sources
func loadDocument(ctx context.Context, src source.Source, cfg *config.Config) (*source.Document, error) {
	if _, remote := src.(*source.HTTPSource); remote && cfg.Source.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Source.Timeout)
		defer cancel()
	}

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Loading event from %s...\n", src.Name())
	}

	doc, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return doc, nil
}

// openPreferences returns the preference store configured for this run.
// A broken preference file degrades to in-memory preferences.
func openPreferences(cfg *config.Config, log *logger.Logger) prefs.Store {
	if !cfg.Preferences.Persist || cfg.Preferences.Path == "" {
		return prefs.NewMemoryStore()
	}
	store, err := prefs.Open(config.ExpandPath(cfg.Preferences.Path))
	if err != nil {
		log.WarnWithFields("Preferences unavailable, using defaults", []logger.Field{logger.Error(err)})
		return prefs.NewMemoryStore()
	}
	return store
}

// newCard mounts a card configured from cfg
func newCard(cfg *config.Config, preferences prefs.Store, log *logger.Logger) *card.Card {
	initial := card.DefaultState()
	initial.ShowAsText = cfg.Display.ShowAsText
	initial.ShowAsJSON = cfg.Display.ShowAsJSON
	initial.ShowAllFrames = cfg.Display.ShowAllFrames

	return card.New(card.Options{
		Preferences:     preferences,
		Logger:          log,
		Width:           cfg.Display.Width,
		TimestampFormat: cfg.Display.TimestampFormat,
		MaxFixFrames:    cfg.Fix.MaxFrames,
		OmitFixContext:  !cfg.Fix.IncludeContext,
		InitialState:    &initial,
	})
}

// propsFor builds card props for a loaded document
func propsFor(doc *source.Document, label string) card.Props {
	return card.Props{
		Issue: doc.Issue,
		Label: label,
		Event: doc.Event,
	}
}

// propsForLoading builds props for a card whose event is still being fetched
func propsForLoading(label string) card.Props {
	return card.Props{
		Label:        label,
		IssueLoading: true,
		EventLoading: true,
	}
}

// isTerminal reports whether stdout is an interactive terminal
func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// handleOutputDestination writes output to outputFile, or stdout when it is empty
func handleOutputDestination(output []byte, outputFile string) error {
	if outputFile != "" {
		if err := validateOutputFilePath(outputFile); err != nil {
			return fmt.Errorf("invalid output file path: %w", err)
		}

		if err := writeOutputBytesToFile(output, outputFile); err != nil {
			return fmt.Errorf("failed to write output to file: %w", err)
		}

		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Output saved to: %s\n", outputFile)
		}
	} else {
		fmt.Print(string(output))
	}

	return nil
}

func validateOutputFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}
	info, err := os.Stat(filepath.Clean(path))
	if err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	return nil
}

func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
