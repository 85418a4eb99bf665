package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yildizm/errcard/internal/logger"
	"github.com/yildizm/errcard/internal/source"
	"github.com/yildizm/errcard/internal/ui"
)

var (
	viewSource sourceFlags
	viewWatch  bool
	viewNoTUI  bool
	viewLabel  string
)

func newViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Open an exception event as an interactive card",
		Long: `Open an exception event as an interactive card.

The event is read from a JSON file, from stdin, or from --url. The document
is either {"event": {...}, "issue": {...}} or a bare event object.

Keys: d details, t text, j json, v vendor frames, c context, f fix prompt,
enter/space expand, esc close, r reload, ? help, q quit.`,
		Example: `  # Interactive card for an exported event
  errcard view event.json

  # Reload the card whenever the file changes
  errcard view --watch event.json

  # Fetch the event from an API
  errcard view --url https://errors.example.com/api/events/latest`,
		Args: cobra.MaximumNArgs(1),
		RunE: runView,
	}

	cmd.Flags().StringVar(&viewSource.issuePath, "issue", "", "issue summary JSON file")
	cmd.Flags().StringVar(&viewSource.url, "url", "", "fetch the event document from this URL")
	cmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "reload when the event file changes")
	cmd.Flags().BoolVar(&viewNoTUI, "no-tui", false, "disable terminal UI, print the card to stdout")
	cmd.Flags().StringVar(&viewLabel, "label", "", "label shown above the card")

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	src := resolveSource(args, viewSource, cfg)

	if viewWatch {
		if _, ok := src.(*source.FileSource); !ok || len(args) == 0 {
			return fmt.Errorf("--watch requires an event file argument")
		}
	}

	if !shouldUseTUI() {
		return runStaticView(cmd, src, cmd.OutOrStdout())
	}

	// Stderr logging would tear the alt screen
	log := logger.Nop()
	if isVerbose() {
		log = newLogger("view")
	}

	c := newCard(cfg, openPreferences(cfg, log), log)
	c.Update(propsForLoading(viewLabel))

	return ui.Run(commandContext(cmd), ui.RunOptions{
		Card:   c,
		Source: src,
		Watch:  viewWatch,
		Logger: log,
	})
}

// shouldUseTUI reports whether the interactive card can run
func shouldUseTUI() bool {
	return !viewNoTUI && isTerminal()
}

func runStaticView(cmd *cobra.Command, src source.Source, out io.Writer) error {
	cfg := GetGlobalConfig()
	log := newLogger("view")

	doc, err := loadDocument(commandContext(cmd), src, cfg)
	if err != nil {
		return err
	}

	c := newCard(cfg, openPreferences(cfg, log), log)
	c.Update(propsFor(doc, viewLabel))

	if _, err := fmt.Fprintln(out, c.View()); err != nil {
		return fmt.Errorf("failed to write card: %w", err)
	}
	if viewWatch {
		fmt.Fprintln(os.Stderr, "--watch is ignored without the terminal UI")
	}
	return nil
}
