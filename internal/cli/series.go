package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/domcol/internal/colour"
	"github.com/jmylchreest/domcol/internal/config"
	"github.com/jmylchreest/domcol/internal/seed"
	"github.com/jmylchreest/domcol/internal/series"
)

const flagGroup = "group"

func newSeriesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series <file|->",
		Short: "Find the dominant colour of a colour series",
		Long: `Find the dominant colour of a series of colours read from a JSON records file.

The file holds either an array of records, or an object mapping group names
(e.g. types) to arrays. A record is a label string, which is skipped, or a
colour given as [r, g, b] or {"r": r, "g": g, "b": b} with channels in [0, 1].
Files ending in .gz, .xz or .bz2 are decompressed; use - to read stdin.

Examples:
  # Dominant colour per type
  domcol series types.json

  # Only some groups, as JSON lines
  domcol series --group fire --group water -f json types.json.xz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeries(app, cmd, args[0])
		},
	}

	config.RegisterFlags(cmd.Flags())
	registerOutputFlags(cmd)
	cmd.Flags().StringSlice(flagGroup, nil, "only process the named groups")
	return cmd
}

func runSeries(app *app, cmd *cobra.Command, path string) error {
	cfg, err := config.NewBuilder().WithEnvConfig().WithFlags(cmd.Flags()).Build()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	app.logger.Debug("loading records", "input", path)
	groups, err := series.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	wanted, _ := cmd.Flags().GetStringSlice(flagGroup)
	if len(wanted) > 0 {
		groups, err = selectGroups(groups, wanted)
		if err != nil {
			return err
		}
	}

	all, _ := cmd.Flags().GetBool(flagAll)
	previewMode, _ := cmd.Flags().GetString(flagPreview)
	labelled := len(groups) > 1 || (len(groups) == 1 && groups[0].Name != "")
	w, err := newResultWriter(cmd.OutOrStdout(), cfg.Format, previewMode, labelled)
	if err != nil {
		return err
	}

	var failures []error
	for _, g := range groups {
		input := path
		if g.Name != "" {
			input = g.Name
		}

		r, err := estimateSeries(app, cfg, path, input, g.Records, all)
		if err != nil {
			app.logger.Error("could not determine a dominant colour", "input", input, "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", input, err))
			continue
		}
		if err := w.write(r); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	return failedErr(failures, len(groups))
}

func estimateSeries(app *app, cfg config.Config, path, input string, records []colour.Record, all bool) (result, error) {
	samples, err := colour.SamplesFromSeries(records)
	if err != nil {
		return result{}, err
	}
	app.logger.Debug("collected series samples", "input", input, "records", len(records), "samples", samples.Len())

	seedValue, err := seed.Calculate(samples, path, cfg.SeedConfig())
	if err != nil {
		return result{}, fmt.Errorf("failed to calculate seed: %w", err)
	}

	return analyse(app, cfg, input, seedValue, samples, all)
}

// selectGroups keeps the named groups, in file order.
func selectGroups(groups []series.Series, names []string) ([]series.Series, error) {
	var out []series.Series
	for _, g := range groups {
		if slices.Contains(names, g.Name) {
			out = append(out, g)
		}
	}
	for _, name := range names {
		if !slices.ContainsFunc(out, func(g series.Series) bool { return g.Name == name }) {
			return nil, fmt.Errorf("group not found in records: %s", name)
		}
	}
	return out, nil
}
