package colour

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

const channelScale = 255.0

// SampleSet holds three parallel channel sequences in 0-255 units. Index i
// across Red, Green and Blue describes one observed sample.
type SampleSet struct {
	Red   []float64
	Green []float64
	Blue  []float64
}

// NewSampleSet returns an empty SampleSet with room for n samples.
func NewSampleSet(n int) SampleSet {
	return SampleSet{
		Red:   make([]float64, 0, n),
		Green: make([]float64, 0, n),
		Blue:  make([]float64, 0, n),
	}
}

// Len returns the number of samples.
func (s SampleSet) Len() int {
	return len(s.Red)
}

// Validate checks that the three channel sequences have equal length and
// hold only finite values within 0-255.
func (s SampleSet) Validate() error {
	if len(s.Red) != len(s.Green) || len(s.Red) != len(s.Blue) {
		return fmt.Errorf("%w: channel lengths differ (red=%d, green=%d, blue=%d)",
			ErrInvalidSample, len(s.Red), len(s.Green), len(s.Blue))
	}
	for c, values := range [3][]float64{s.Red, s.Green, s.Blue} {
		for i, v := range values {
			if math.IsNaN(v) || v < 0 || v > channelScale {
				return fmt.Errorf("%w: %s[%d] = %v is outside 0-255", ErrInvalidSample, channelNames[c], i, v)
			}
		}
	}
	return nil
}

// add appends a fractional colour, scaled into 0-255 units.
func (s *SampleSet) add(r, g, b float64) {
	s.Red = append(s.Red, r*channelScale)
	s.Green = append(s.Green, g*channelScale)
	s.Blue = append(s.Blue, b*channelScale)
}

// SamplesFromGrid collects samples from a row-major grid of pixels, each
// holding four channel fractions (red, green, blue, alpha). Fully transparent
// pixels contribute nothing.
func SamplesFromGrid(grid [][][]float64) (SampleSet, error) {
	n := 0
	for _, row := range grid {
		n += len(row)
	}

	samples := NewSampleSet(n)
	for y, row := range grid {
		for x, px := range row {
			if len(px) != 4 {
				return SampleSet{}, fmt.Errorf("%w: pixel (%d, %d) has %d channels, want 4",
					ErrInvalidSample, y, x, len(px))
			}
			for _, v := range px {
				if !isFraction(v) {
					return SampleSet{}, fmt.Errorf("%w: pixel (%d, %d) channel value %v outside [0, 1]",
						ErrInvalidSample, y, x, v)
				}
			}
			if px[3] == 0 {
				continue
			}
			samples.add(px[0], px[1], px[2])
		}
	}

	return samples, nil
}

// SamplesFromImage collects samples from a decoded image in row-major order.
// Channels are read non-premultiplied so colours of translucent pixels are
// not darkened by their alpha.
func SamplesFromImage(img image.Image) (SampleSet, error) {
	if img == nil {
		return SampleSet{}, fmt.Errorf("%w: image cannot be nil", ErrInvalidSample)
	}

	bounds := img.Bounds()
	samples := NewSampleSet(bounds.Dx() * bounds.Dy())

	const max16 = float64(0xffff)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			if px.A == 0 {
				continue
			}
			samples.add(float64(px.R)/max16, float64(px.G)/max16, float64(px.B)/max16)
		}
	}

	return samples, nil
}

// SamplesFromSeries collects samples from the Color entries of a series,
// skipping labels.
func SamplesFromSeries(records []Record) (SampleSet, error) {
	samples := NewSampleSet(len(records))
	for i, rec := range records {
		switch r := rec.(type) {
		case Color:
			if !r.Valid() {
				return SampleSet{}, fmt.Errorf("%w: record %d has channels outside [0, 1]: %v",
					ErrInvalidSample, i, r)
			}
			samples.add(r.R, r.G, r.B)
		case Label:
			continue
		default:
			return SampleSet{}, fmt.Errorf("%w: record %d has unsupported type %T", ErrInvalidSample, i, rec)
		}
	}
	return samples, nil
}

func isFraction(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
