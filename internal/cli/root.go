package cli

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/yildizm/errcard/internal/config"
	"github.com/yildizm/errcard/internal/emoji"
	"github.com/yildizm/errcard/internal/logger"
	"github.com/yildizm/errcard/internal/theme"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
	themeName string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "errcard",
		Short: "Exception cards for the terminal",
		Long: `errcard renders captured exception events as interactive cards.

It shows the stack trace in a generic, text or JSON view, the exception
attributes and extra properties, session recording availability, and
an AI fix prompt built from the resolved frames.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)

			if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return nil
			}

			cfg, err := config.NewLoader().
				WithWarnFunc(newLogger("config").Warn).
				LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			globalConfig = cfg
			return applyDisplaySettings(cfg)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, table)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "color theme (default, high-contrast, minimal)")

	// Add subcommands
	rootCmd.AddCommand(newViewCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newFixCommand())
	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "errcard %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// applyDisplaySettings wires flags and config into the theme and color profile
func applyDisplaySettings(cfg *config.Config) error {
	name := cfg.Display.Theme
	if themeName != "" {
		name = themeName
	}
	if name != "" {
		if !theme.SetByName(name) {
			return fmt.Errorf("unknown theme: %s (available: %v)", name, theme.Available())
		}
	}

	switch {
	case noColor || cfg.Display.ColorMode == "never":
		theme.SetColorDisabled(true)
		lipgloss.SetColorProfile(termenv.Ascii)
	case cfg.Display.ColorMode == "always":
		theme.SetColorDisabled(false)
		lipgloss.SetColorProfile(termenv.TrueColor)
	default:
		theme.SetColorDisabled(false)
	}
	return nil
}

// GetGlobalConfig returns the loaded configuration, or defaults before loading
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// Global helpers
func isVerbose() bool {
	return verbose || GetGlobalConfig().Output.Verbose
}

func getOutputFormat() string {
	if outputFmt != "" {
		return outputFmt
	}
	return GetGlobalConfig().Output.DefaultFormat
}

func useColor() bool {
	return !theme.IsColorDisabled()
}

func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}
