package config

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/domcol/internal/colour"
	"github.com/jmylchreest/domcol/internal/seed"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}
	return fs
}

func TestBuildDefaults(t *testing.T) {
	got, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got.Clusters != DefaultClusters || got.SeedMode != seed.ModeContent ||
		got.MaxIterations != colour.DefaultMaxIterations || got.Format != FormatHex || got.Seed != nil {
		t.Errorf("Build() = %+v, want defaults", got)
	}
}

func TestBuildEnv(t *testing.T) {
	env := envMap(map[string]string{
		EnvClusters:      "5",
		EnvMaxIterations: "20",
		EnvFormat:        "json",
		EnvSeedMode:      "filepath",
	})

	got, err := NewBuilder().WithEnvConfig().WithLookupEnv(env).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got.Clusters != 5 || got.MaxIterations != 20 || got.Format != FormatJSON || got.SeedMode != seed.ModeFilepath {
		t.Errorf("Build() = %+v", got)
	}
}

func TestBuildEnvIgnoredWithoutOptIn(t *testing.T) {
	env := envMap(map[string]string{EnvClusters: "5"})
	got, err := NewBuilder().WithLookupEnv(env).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got.Clusters != DefaultClusters {
		t.Errorf("Clusters = %d, want %d", got.Clusters, DefaultClusters)
	}
}

func TestBuildFlagsOverrideEnv(t *testing.T) {
	env := envMap(map[string]string{EnvClusters: "5", EnvFormat: "json"})
	flags := newFlags(t, "-k", "2")

	got, err := NewBuilder().WithEnvConfig().WithLookupEnv(env).WithFlags(flags).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got.Clusters != 2 {
		t.Errorf("Clusters = %d, want 2 from flag", got.Clusters)
	}
	if got.Format != FormatJSON {
		t.Errorf("Format = %s, want json from env", got.Format)
	}
}

func TestBuildSeedImpliesManual(t *testing.T) {
	got, err := NewBuilder().WithFlags(newFlags(t, "--seed", "42")).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got.SeedMode != seed.ModeManual || got.Seed == nil || *got.Seed != 42 {
		t.Errorf("Build() = %+v, want manual seed 42", got)
	}

	got, err = NewBuilder().WithFlags(newFlags(t, "--seed", "42", "--seed-mode", "content")).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got.SeedMode != seed.ModeContent {
		t.Errorf("SeedMode = %s, want explicit content mode kept", got.SeedMode)
	}
}

func TestBuildInvalid(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		args       []string
		wantConfig bool
	}{
		{name: "zero clusters", args: []string{"-k", "0"}, wantConfig: true},
		{name: "negative iterations", args: []string{"--max-iterations", "-1"}, wantConfig: true},
		{name: "unknown format", args: []string{"-f", "cmyk"}, wantConfig: true},
		{name: "unknown seed mode", args: []string{"--seed-mode", "sometimes"}, wantConfig: true},
		{name: "manual without seed", args: []string{"--seed-mode", "manual"}, wantConfig: true},
		{name: "non numeric env clusters", env: map[string]string{EnvClusters: "three"}},
		{name: "non numeric env seed", env: map[string]string{EnvSeed: "0x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder().
				WithEnvConfig().
				WithLookupEnv(envMap(tt.env)).
				WithFlags(newFlags(t, tt.args...)).
				Build()
			if err == nil {
				t.Fatal("Build() expected error")
			}
			if tt.wantConfig && !errors.Is(err, colour.ErrInvalidConfiguration) {
				t.Errorf("Build() error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestNewEstimator(t *testing.T) {
	cfg := Default()
	cfg.Clusters = 4
	e, err := cfg.NewEstimator(7)
	if err != nil {
		t.Fatalf("NewEstimator() error = %v", err)
	}
	if e.K() != 4 || e.Seed() != 7 {
		t.Errorf("estimator K=%d seed=%d, want 4 and 7", e.K(), e.Seed())
	}
}
