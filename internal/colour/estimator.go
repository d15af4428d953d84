package colour

import (
	"fmt"
	"image"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// DefaultMaxIterations caps the number of Lloyd iterations per estimate.
const DefaultMaxIterations = 10

// Estimator finds the dominant colour of a sample set by k-means clustering
// over whitened RGB channels. An Estimator is immutable and safe for
// concurrent use; every call owns its working arrays and random source.
type Estimator struct {
	k             int
	seed          int64
	maxIterations int

	newSource func(seed int64) rand.Source
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithSeed sets the seed used for centroid initialisation.
func WithSeed(seed int64) Option {
	return func(e *Estimator) {
		e.seed = seed
	}
}

// WithMaxIterations caps the number of assignment/update passes.
func WithMaxIterations(n int) Option {
	return func(e *Estimator) {
		e.maxIterations = n
	}
}

// NewEstimator creates an Estimator fitting k clusters.
func NewEstimator(k int, opts ...Option) (*Estimator, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: cluster count must be positive, got %d", ErrInvalidConfiguration, k)
	}

	e := &Estimator{
		k:             k,
		maxIterations: DefaultMaxIterations,
		newSource:     rand.NewSource,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.maxIterations <= 0 {
		return nil, fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfiguration, e.maxIterations)
	}
	return e, nil
}

// K returns the configured cluster count.
func (e *Estimator) K() int { return e.k }

// Seed returns the configured seed.
func (e *Estimator) Seed() int64 { return e.seed }

// EstimateFromGrid returns the dominant colour of a grid of RGBA fractions.
func (e *Estimator) EstimateFromGrid(grid [][][]float64) (Color, error) {
	samples, err := SamplesFromGrid(grid)
	if err != nil {
		return Color{}, err
	}
	return e.Dominant(samples)
}

// EstimateFromImage returns the dominant colour of the opaque pixels of img.
func (e *Estimator) EstimateFromImage(img image.Image) (Color, error) {
	samples, err := SamplesFromImage(img)
	if err != nil {
		return Color{}, err
	}
	return e.Dominant(samples)
}

// EstimateFromSeries returns the dominant colour of the Color records in a
// series.
func (e *Estimator) EstimateFromSeries(records []Record) (Color, error) {
	samples, err := SamplesFromSeries(records)
	if err != nil {
		return Color{}, err
	}
	return e.Dominant(samples)
}

// Dominant returns the centroid of the most populous cluster.
func (e *Estimator) Dominant(s SampleSet) (Color, error) {
	a, err := e.Analyse(s)
	if err != nil {
		return Color{}, err
	}
	return a.Dominant(), nil
}

// Cluster is one fitted cluster in colour units.
type Cluster struct {
	Color Color `json:"color"`
	Count int   `json:"count"`
}

// Analysis describes a complete clustering of a sample set.
type Analysis struct {
	Clusters   []Cluster `json:"clusters"`
	Winner     int       `json:"dominant"`
	Samples    int       `json:"samples"`
	Iterations int       `json:"iterations"`
}

// Dominant returns the colour of the winning cluster.
func (a *Analysis) Dominant() Color {
	return a.Clusters[a.Winner].Color
}

// Analyse clusters the samples and reports every cluster. The winner is the
// first cluster holding the largest population.
func (e *Estimator) Analyse(s SampleSet) (*Analysis, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if n := s.Len(); n < e.k {
		return nil, fmt.Errorf("%w: have %d samples, need at least %d", ErrInsufficientSamples, n, e.k)
	}

	w, err := whiten(s)
	if err != nil {
		return nil, err
	}

	rng := rand.New(e.newSource(e.seed)) // #nosec G404 -- reproducible clustering, not security sensitive
	p := kmeans(w.points, e.k, e.maxIterations, rng)

	counts := make([]float64, e.k)
	clusters := make([]Cluster, e.k)
	for i, c := range p.centroids {
		counts[i] = float64(p.counts[i])
		clusters[i] = Cluster{Color: w.unwhiten(c), Count: p.counts[i]}
	}

	return &Analysis{
		Clusters:   clusters,
		Winner:     floats.MaxIdx(counts),
		Samples:    s.Len(),
		Iterations: p.iterations,
	}, nil
}
