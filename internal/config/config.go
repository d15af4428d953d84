// Package config resolves domcol settings from defaults, environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/domcol/internal/colour"
	"github.com/jmylchreest/domcol/internal/seed"
)

// Environment variables read by WithEnvConfig.
const (
	EnvClusters      = "DOMCOL_CLUSTERS"
	EnvSeedMode      = "DOMCOL_SEED_MODE"
	EnvSeed          = "DOMCOL_SEED"
	EnvMaxIterations = "DOMCOL_MAX_ITERATIONS"
	EnvFormat        = "DOMCOL_FORMAT"
)

// Flag names read by WithFlags.
const (
	FlagClusters      = "clusters"
	FlagSeedMode      = "seed-mode"
	FlagSeed          = "seed"
	FlagMaxIterations = "max-iterations"
	FlagFormat        = "format"
)

// Output formats.
const (
	FormatHex   = "hex"
	FormatRGB   = "rgb"
	FormatFloat = "float"
	FormatJSON  = "json"
)

// DefaultClusters is the cluster count used when none is configured.
const DefaultClusters = 3

// Config holds the resolved settings for an estimation run.
type Config struct {
	Clusters      int
	SeedMode      seed.Mode
	Seed          *int64
	MaxIterations int
	Format        string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Clusters:      DefaultClusters,
		SeedMode:      seed.ModeContent,
		MaxIterations: colour.DefaultMaxIterations,
		Format:        FormatHex,
	}
}

// ValidFormats returns the supported output formats.
func ValidFormats() []string {
	return []string{FormatHex, FormatRGB, FormatFloat, FormatJSON}
}

// Validate checks that the configuration can drive an estimator.
func (c Config) Validate() error {
	if c.Clusters < 1 {
		return fmt.Errorf("%w: cluster count must be at least 1, got %d", colour.ErrInvalidConfiguration, c.Clusters)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", colour.ErrInvalidConfiguration, c.MaxIterations)
	}
	if _, err := seed.ParseMode(string(c.SeedMode)); err != nil {
		return fmt.Errorf("%w: %v", colour.ErrInvalidConfiguration, err)
	}
	if c.SeedMode == seed.ModeManual && c.Seed == nil {
		return fmt.Errorf("%w: seed mode manual requires a seed value", colour.ErrInvalidConfiguration)
	}
	if !slices.Contains(ValidFormats(), c.Format) {
		return fmt.Errorf("%w: unsupported format %q (supported: %s)",
			colour.ErrInvalidConfiguration, c.Format, strings.Join(ValidFormats(), ", "))
	}
	return nil
}

// SeedConfig returns the seed derivation settings.
func (c Config) SeedConfig() seed.Config {
	return seed.Config{Mode: c.SeedMode, Value: c.Seed}
}

// NewEstimator builds an estimator for the configuration and a derived seed.
func (c Config) NewEstimator(seedValue int64) (*colour.Estimator, error) {
	return colour.NewEstimator(c.Clusters,
		colour.WithSeed(seedValue),
		colour.WithMaxIterations(c.MaxIterations),
	)
}

// Builder provides a fluent interface for resolving a Config.
type Builder struct {
	config    Config
	useEnv    bool
	lookupEnv func(string) (string, bool)
	flags     *pflag.FlagSet
}

// NewBuilder creates a new Builder starting from Default().
func NewBuilder() *Builder {
	return &Builder{
		config:    Default(),
		lookupEnv: os.LookupEnv,
	}
}

// WithConfig replaces the base configuration.
func (b *Builder) WithConfig(config Config) *Builder {
	b.config = config
	return b
}

// WithEnvConfig applies DOMCOL_* environment variables.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// WithLookupEnv replaces the environment lookup (useful for testing).
func (b *Builder) WithLookupEnv(lookup func(string) (string, bool)) *Builder {
	b.lookupEnv = lookup
	return b
}

// WithFlags applies flags that were explicitly set on the command line.
func (b *Builder) WithFlags(flags *pflag.FlagSet) *Builder {
	b.flags = flags
	return b
}

// Build resolves and validates the configuration.
// Flags take precedence over environment variables.
func (b *Builder) Build() (Config, error) {
	config := b.config
	seedModeSet := false

	if b.useEnv {
		if err := b.applyEnv(&config, &seedModeSet); err != nil {
			return Config{}, err
		}
	}
	if b.flags != nil {
		if err := b.applyFlags(&config, &seedModeSet); err != nil {
			return Config{}, err
		}
	}

	// An explicit seed with no explicit mode means the caller wants it used.
	if config.Seed != nil && !seedModeSet {
		config.SeedMode = seed.ModeManual
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (b *Builder) applyEnv(config *Config, seedModeSet *bool) error {
	if v, ok := b.lookupEnv(EnvClusters); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvClusters, err)
		}
		config.Clusters = n
	}
	if v, ok := b.lookupEnv(EnvMaxIterations); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxIterations, err)
		}
		config.MaxIterations = n
	}
	if v, ok := b.lookupEnv(EnvSeed); ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}
		config.Seed = &n
	}
	if v, ok := b.lookupEnv(EnvSeedMode); ok && v != "" {
		config.SeedMode = seed.Mode(strings.TrimSpace(v))
		*seedModeSet = true
	}
	if v, ok := b.lookupEnv(EnvFormat); ok && v != "" {
		config.Format = strings.TrimSpace(v)
	}
	return nil
}

func (b *Builder) applyFlags(config *Config, seedModeSet *bool) error {
	var err error
	if b.changed(FlagClusters) {
		if config.Clusters, err = b.flags.GetInt(FlagClusters); err != nil {
			return err
		}
	}
	if b.changed(FlagMaxIterations) {
		if config.MaxIterations, err = b.flags.GetInt(FlagMaxIterations); err != nil {
			return err
		}
	}
	if b.changed(FlagSeed) {
		n, err := b.flags.GetInt64(FlagSeed)
		if err != nil {
			return err
		}
		config.Seed = &n
	}
	if b.changed(FlagSeedMode) {
		mode, err := b.flags.GetString(FlagSeedMode)
		if err != nil {
			return err
		}
		config.SeedMode = seed.Mode(mode)
		*seedModeSet = true
	}
	if b.changed(FlagFormat) {
		if config.Format, err = b.flags.GetString(FlagFormat); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) changed(name string) bool {
	f := b.flags.Lookup(name)
	return f != nil && f.Changed
}

// RegisterFlags defines the configuration flags on a flag set, with defaults
// shown from Default().
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.IntP(FlagClusters, "k", d.Clusters, "number of clusters (K)")
	flags.String(FlagSeedMode, string(d.SeedMode), "seed mode (content, filepath, manual, random)")
	flags.Int64(FlagSeed, 0, "seed value (implies --seed-mode manual)")
	flags.Int(FlagMaxIterations, d.MaxIterations, "maximum k-means iterations")
	flags.StringP(FlagFormat, "f", d.Format, "output format (hex, rgb, float, json)")
}
