// Package cli provides the command-line interface for domcol.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/domcol/internal/version"
)

// Global flag names.
const (
	flagVerbose   = "verbose"
	flagQuiet     = "quiet"
	flagLogFormat = "log-format"
)

// NewRootCmd builds the domcol command tree.
func NewRootCmd() *cobra.Command {
	app := &app{logger: hclog.NewNullLogger()}

	rootCmd := &cobra.Command{
		Use:   "domcol",
		Short: "Find the dominant colour of sprites and colour series",
		Long: `domcol finds the dominant colour of a small image (a sprite) or of a series
of pre-extracted colours by k-means clustering over the red, green and blue
channels. Channels are whitened to unit variance before clustering, and the
centroid of the most populous cluster is reported.

Use it to give each sprite or category a representative colour for display
or grouping.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			app.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP(flagQuiet, "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().String(flagLogFormat, "text", "log format (text, json)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newImageCmd(app))
	rootCmd.AddCommand(newSeriesCmd(app))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by subcommands once flags are parsed.
type app struct {
	logger hclog.Logger
}

// newLogger creates the stderr logger for a command from the global flags.
func newLogger(cmd *cobra.Command) (hclog.Logger, error) {
	verbose, _ := cmd.Flags().GetBool(flagVerbose)
	quiet, _ := cmd.Flags().GetBool(flagQuiet)
	format, _ := cmd.Flags().GetString(flagLogFormat)

	level := hclog.Info
	switch {
	case verbose && quiet:
		return nil, fmt.Errorf("--verbose and --quiet are mutually exclusive")
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Error
	}

	var jsonFormat bool
	switch strings.ToLower(format) {
	case "text":
	case "json":
		jsonFormat = true
	default:
		return nil, fmt.Errorf("invalid log format: %s (valid: text, json)", format)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "domcol",
		Level:      level,
		Output:     cmd.ErrOrStderr(),
		JSONFormat: jsonFormat,
	}), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
