package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/errcard/internal/card"
	"github.com/yildizm/errcard/internal/formatter"
)

var (
	renderSource     sourceFlags
	renderOutputFile string
	renderLabel      string
)

func newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an exception event without the interactive UI",
		Long: `Render an exception event as text, JSON, markdown or a table.

The card is rendered with the configured default toggles, so the output
matches what the interactive card shows when it opens.`,
		Example: `  # Terminal tree output
  errcard render event.json

  # Markdown for an issue tracker
  errcard render -o markdown event.json --output-file report.md

  # JSON snapshot for scripting
  cat event.json | errcard render -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRender,
	}

	cmd.Flags().StringVar(&renderSource.issuePath, "issue", "", "issue summary JSON file")
	cmd.Flags().StringVar(&renderSource.url, "url", "", "fetch the event document from this URL")
	cmd.Flags().StringVar(&renderOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.Flags().StringVar(&renderLabel, "label", "", "label shown above the card")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("render")

	doc, err := loadDocument(commandContext(cmd), resolveSource(args, renderSource, cfg), cfg)
	if err != nil {
		return err
	}

	c := newCard(cfg, openPreferences(cfg, log), log)
	c.Update(propsFor(doc, renderLabel))

	return writeSnapshots([]card.Snapshot{c.Snapshot()}, renderOutputFile)
}

// writeSnapshots formats snapshots with the selected output format
func writeSnapshots(snapshots []card.Snapshot, outputFile string) error {
	f, err := formatter.New(getOutputFormat(), useColor() && outputFile == "")
	if err != nil {
		return err
	}

	output, err := f.Format(snapshots)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return handleOutputDestination(output, outputFile)
}
