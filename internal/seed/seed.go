// Package seed derives the random seed used to initialise k-means clustering,
// so the same input can be made to produce the same dominant colour.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jmylchreest/domcol/internal/colour"
)

// Mode determines how the seed is generated.
type Mode string

const (
	// ModeContent hashes the input content (default, deterministic by content).
	ModeContent Mode = "content"
	// ModeFilepath hashes the absolute input path (deterministic by path).
	ModeFilepath Mode = "filepath"
	// ModeManual uses a user-provided seed value.
	ModeManual Mode = "manual"
	// ModeRandom uses a non-deterministic seed (varies each run).
	ModeRandom Mode = "random"
)

// Config holds configuration for seed generation.
type Config struct {
	Mode  Mode   // Seed mode
	Value *int64 // Seed value (only used when Mode is ModeManual)
}

// Calculate determines the seed for an input. Content mode hashes the
// collected samples; path is required for ModeFilepath.
func Calculate(samples colour.SampleSet, path string, config Config) (int64, error) {
	if config.Mode == ModeContent {
		return CalculateContentSeed(samples), nil
	}
	return calculateCommon(path, config)
}

func calculateCommon(path string, config Config) (int64, error) {
	switch config.Mode {
	case ModeFilepath:
		if path == "" {
			return 0, fmt.Errorf("input path is required for filepath-based seed mode")
		}
		return CalculateFilepathSeed(path)
	case ModeManual:
		if config.Value == nil {
			return 0, fmt.Errorf("seed value is required for manual seed mode")
		}
		return *config.Value, nil
	case ModeRandom:
		return GenerateRandomSeed(), nil
	default:
		return 0, fmt.Errorf("unknown seed mode: %s", config.Mode)
	}
}

// CalculateContentSeed hashes the samples that will be clustered. Transparent
// pixels and labels never reach a SampleSet, so padding a sprite or renaming
// a label leaves the seed unchanged.
func CalculateContentSeed(samples colour.SampleSet) int64 {
	hasher := sha256.New()
	buf := make([]byte, 8)

	binary.LittleEndian.PutUint64(buf, uint64(samples.Len())) // #nosec G115 -- lengths are non-negative
	hasher.Write(buf)

	for _, channel := range [3][]float64{samples.Red, samples.Green, samples.Blue} {
		for _, v := range channel {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			hasher.Write(buf)
		}
	}

	return sumToSeed(hasher.Sum(nil))
}

// CalculateFilepathSeed generates a deterministic seed from the absolute file path.
func CalculateFilepathSeed(path string) (int64, error) {
	if path == "" {
		return 0, fmt.Errorf("input path cannot be empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	// For URLs and stdin, use the path as-is
	if isURL(path) || path == "-" {
		absPath = path
	}

	hash := sha256.Sum256([]byte(absPath))
	return sumToSeed(hash[:]), nil
}

// GenerateRandomSeed generates a non-deterministic random seed.
func GenerateRandomSeed() int64 {
	// #nosec G404 -- Random seed generation is intentionally non-deterministic
	return time.Now().UnixNano() + int64(rand.Intn(1000000))
}

func sumToSeed(hash []byte) int64 {
	return int64(binary.LittleEndian.Uint64(hash[:8])) // #nosec G115 -- hash conversion is safe
}

// isURL checks if a path is an HTTP/HTTPS URL.
func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidModes returns a list of valid seed modes.
func ValidModes() []Mode {
	return []Mode{ModeContent, ModeFilepath, ModeManual, ModeRandom}
}

// ParseMode converts a string to a Mode.
// Returns an error if the string is not a valid mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %s (valid: content, filepath, manual, random)", s)
}
