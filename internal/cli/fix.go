package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/errcard/internal/card"
)

// ErrNoResolvedFrames is returned by the fix command when no prompt can be built
var ErrNoResolvedFrames = errors.New("no resolved stack frames: fix prompt unavailable")

var (
	fixSource     sourceFlags
	fixOutputFile string
	fixSystem     bool
)

type fixPromptOutput struct {
	System string      `json:"system,omitempty"`
	Prompt string      `json:"prompt"`
	Schema interface{} `json:"schema,omitempty"`
}

func newFixCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [file]",
		Short: "Print the AI fix prompt for an exception event",
		Long: `Print the prompt that asks an AI assistant to fix the exception.

The prompt is only available when at least one exception has a resolved
stack trace with a resolved frame. The prompt is printed, never sent.`,
		Example: `  # Print the prompt
  errcard fix event.json

  # Include the system prompt
  errcard fix --system event.json

  # Machine readable
  errcard fix -o json event.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFix,
	}

	cmd.Flags().StringVar(&fixSource.issuePath, "issue", "", "issue summary JSON file")
	cmd.Flags().StringVar(&fixSource.url, "url", "", "fetch the event document from this URL")
	cmd.Flags().StringVar(&fixOutputFile, "output-file", "", "save the prompt to file instead of stdout")
	cmd.Flags().BoolVar(&fixSystem, "system", false, "include the system prompt")

	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("fix")

	doc, err := loadDocument(commandContext(cmd), resolveSource(args, fixSource, cfg), cfg)
	if err != nil {
		return err
	}

	c := newCard(cfg, openPreferences(cfg, log), log)
	c.Update(propsFor(doc, ""))

	if !c.ShowFixButton() {
		return ErrNoResolvedFrames
	}
	prompt := c.FixPrompt()

	var output []byte
	switch getOutputFormat() {
	case "json":
		result := fixPromptOutput{Prompt: card.UserPrompt(prompt), Schema: prompt.JSONSchema}
		if fixSystem {
			result.System = prompt.SystemPrompt
		}
		output, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode prompt: %w", err)
		}
		output = append(output, '\n')
	default:
		text := card.UserPrompt(prompt)
		if fixSystem && prompt.SystemPrompt != "" {
			text = fmt.Sprintf("# System\n\n%s\n\n# Prompt\n\n%s", prompt.SystemPrompt, text)
		}
		output = []byte(text + "\n")
	}

	return handleOutputDestination(output, fixOutputFile)
}
