package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/errcard/internal/card"
	"github.com/yildizm/errcard/internal/common"
	"github.com/yildizm/errcard/internal/logger"
	"github.com/yildizm/errcard/internal/source"
	"github.com/yildizm/go-logparser"
)

var (
	scanFormat     string
	scanMaxLines   int
	scanLimit      int
	scanOutputFile string
)

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [logfile]",
		Short: "Render a card for every exception found in a structured log",
		Long: `Scan a structured log (JSON, logfmt or text) for entries that carry an
exception list and render one card per entry.

An entry qualifies when it has a "$exception_list" or "exception_list"
field holding at least one exception.`,
		Example: `  # Scan an application log
  errcard scan app.log

  # Only the first five exceptions, as markdown
  errcard scan -o markdown --limit 5 app.log

  # From stdin
  kubectl logs deploy/api | errcard scan --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}

	cmd.Flags().StringVarP(&scanFormat, "format", "f", "auto", "log format (auto, json, logfmt, text)")
	cmd.Flags().IntVar(&scanMaxLines, "max-lines", 100000, "maximum lines to read")
	cmd.Flags().IntVar(&scanLimit, "limit", 0, "maximum cards to render (0 for all)")
	cmd.Flags().StringVar(&scanOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("scan")

	reader, name, cleanup, err := setupInputReader(args)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	events, err := scanLogEvents(reader, scanFormat, scanMaxLines)
	if err != nil {
		return err
	}
	log.InfoWithFields("Scan complete", []logger.Field{logger.F("input", name), logger.Count(len(events))})

	if len(events) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No exception events found")
		return nil
	}
	if scanLimit > 0 && len(events) > scanLimit {
		events = events[:scanLimit]
	}

	// One preference store is shared so every card mounts with the same showContext.
	preferences := openPreferences(cfg, log)
	snapshots := make([]card.Snapshot, 0, len(events))
	for _, event := range events {
		c := newCard(cfg, preferences, log)
		c.Update(card.Props{
			Label: scanLabel(event),
			Event: event.Event,
		})
		snapshots = append(snapshots, c.Snapshot())
	}

	return writeSnapshots(snapshots, scanOutputFile)
}

// setupInputReader opens the log file argument, or stdin without one
func setupInputReader(args []string) (reader io.Reader, name string, cleanup func(), err error) {
	if len(args) == 0 || args[0] == "-" {
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Reading from stdin...\n")
		}
		return os.Stdin, "stdin", nil, nil
	}

	filename := args[0]
	if err := source.ValidateFilePath(filename); err != nil {
		return nil, "", nil, fmt.Errorf("invalid file path: %w", err)
	}

	cleanPath := filepath.Clean(filename)

	// #nosec G304 - path is validated above
	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}

	cleanup = func() {
		if err := file.Close(); err != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close file: %v\n", err)
		}
	}

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Scanning file: %s\n", cleanPath)
	}

	return file, cleanPath, cleanup, nil
}

// scanLogEvents parses the log and keeps the entries that carry exceptions
func scanLogEvents(reader io.Reader, format string, maxLines int) ([]*common.LogEvent, error) {
	lines, err := readLines(reader, maxLines)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	parser, err := newLogParser(format)
	if err != nil {
		return nil, err
	}

	entries, err := parser.ParseString(strings.Join(lines, "\n"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse logs: %w", err)
	}

	var events []*common.LogEvent
	for i := range entries {
		if event, ok := common.EventFromLogEntry(&entries[i], i+1); ok {
			events = append(events, event)
		}
	}
	return events, nil
}

func newLogParser(format string) (logparser.Parser, error) {
	switch format {
	case "", "auto":
		return logparser.New(), nil
	case "json":
		return logparser.NewWithFormat(logparser.FormatJSON), nil
	case "logfmt":
		return logparser.NewWithFormat(logparser.FormatLogfmt), nil
	case "text":
		return logparser.NewWithFormat(logparser.FormatText), nil
	default:
		return nil, fmt.Errorf("unknown format %s. Available formats: auto, json, logfmt, text", format)
	}
}

func readLines(reader io.Reader, maxLines int) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB buffer

	for scanner.Scan() && len(lines) < maxLines {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("scanner error: %w", err)
	}

	return lines, nil
}

func scanLabel(event *common.LogEvent) string {
	if event.Message == "" {
		return fmt.Sprintf("line %d", event.LineNumber)
	}
	return fmt.Sprintf("line %d: %s", event.LineNumber, event.Message)
}
