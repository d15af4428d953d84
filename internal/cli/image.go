package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/domcol/internal/colour"
	"github.com/jmylchreest/domcol/internal/config"
	"github.com/jmylchreest/domcol/internal/image"
	"github.com/jmylchreest/domcol/internal/seed"
)

// Flags shared by the estimation commands.
const (
	flagAll     = "all"
	flagPreview = "preview"
)

func newImageCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image <path|dir|url>...",
		Short: "Find the dominant colour of images",
		Long: `Find the dominant colour of one or more images.

Fully transparent pixels are ignored. Directories are expanded to the images
they contain (not recursively) and inputs are processed one at a time.

Supported image formats: PNG, JPEG, GIF, WebP, BMP, TIFF

Examples:
  # Dominant colour of a sprite with 3 clusters (default)
  domcol image bulbasaur.png

  # Every sprite in a directory, as JSON lines
  domcol image -f json sprites/

  # Reproducible result with a fixed seed, listing every cluster
  domcol image --seed 42 --all -k 4 charmander.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(app, cmd, args)
		},
	}

	config.RegisterFlags(cmd.Flags())
	registerOutputFlags(cmd)
	return cmd
}

func registerOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(flagAll, false, "list every cluster, marking the dominant one")
	cmd.Flags().String(flagPreview, previewAuto, "show colour swatches (auto, always, never)")
}

func runImage(app *app, cmd *cobra.Command, args []string) error {
	cfg, err := config.NewBuilder().WithEnvConfig().WithFlags(cmd.Flags()).Build()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	paths, err := image.ExpandPaths(args)
	if err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	all, _ := cmd.Flags().GetBool(flagAll)
	previewMode, _ := cmd.Flags().GetString(flagPreview)
	w, err := newResultWriter(cmd.OutOrStdout(), cfg.Format, previewMode, len(paths) > 1)
	if err != nil {
		return err
	}

	var loader image.Loader = image.NewSmartLoader()
	var failures []error
	for _, path := range paths {
		r, err := estimateImage(app, cmd, loader, cfg, path, all)
		if err != nil {
			app.logger.Error("could not determine a dominant colour", "input", path, "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if err := w.write(r); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	return failedErr(failures, len(paths))
}

func estimateImage(app *app, cmd *cobra.Command, loader image.Loader, cfg config.Config, path string, all bool) (result, error) {
	app.logger.Debug("loading image", "input", path)
	img, err := loader.Load(cmd.Context(), path)
	if err != nil {
		return result{}, fmt.Errorf("failed to load image: %w", err)
	}

	bounds := img.Bounds()
	app.logger.Debug("image loaded", "input", path, "width", bounds.Dx(), "height", bounds.Dy())

	samples, err := colour.SamplesFromImage(img)
	if err != nil {
		return result{}, err
	}

	seedValue, err := seed.Calculate(samples, path, cfg.SeedConfig())
	if err != nil {
		return result{}, fmt.Errorf("failed to calculate seed: %w", err)
	}

	return analyse(app, cfg, path, seedValue, samples, all)
}

// analyse runs the estimator over a sample set and packages the outcome.
func analyse(app *app, cfg config.Config, input string, seedValue int64, samples colour.SampleSet, all bool) (result, error) {
	estimator, err := cfg.NewEstimator(seedValue)
	if err != nil {
		return result{}, err
	}

	app.logger.Debug("clustering samples", "input", input, "samples", samples.Len(), "clusters", cfg.Clusters, "seed", seedValue)
	a, err := estimator.Analyse(samples)
	if err != nil {
		return result{}, err
	}
	app.logger.Debug("clustering complete", "input", input, "iterations", a.Iterations,
		"dominant", a.Winner, "population", a.Clusters[a.Winner].Count)

	return newResult(input, seedValue, a, all), nil
}

// failedErr summarises per-input failures. A single input's cause is kept
// so callers can inspect it with errors.Is.
func failedErr(failures []error, total int) error {
	switch len(failures) {
	case 0:
		return nil
	case 1:
		if total == 1 {
			return fmt.Errorf("could not determine a dominant colour for %w", failures[0])
		}
	}
	return fmt.Errorf("could not determine a dominant colour for %d of %d inputs: %w",
		len(failures), total, errors.Join(failures...))
}
