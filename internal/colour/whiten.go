package colour

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// channel names in the order points are laid out.
var channelNames = [3]string{"red", "green", "blue"}

// whitened holds samples scaled to unit variance per channel, together with
// the deviations needed to undo the scaling.
type whitened struct {
	points [][]float64 // N points of 3 coordinates
	stdDev [3]float64
}

// whiten divides each channel by its population standard deviation. The
// samples must already be validated and non-empty.
func whiten(s SampleSet) (*whitened, error) {
	channels := [3][]float64{s.Red, s.Green, s.Blue}

	w := &whitened{points: make([][]float64, s.Len())}
	scaled := [3][]float64{}
	for c, values := range channels {
		// A constant channel can still produce a tiny non-zero variance
		// through rounding in the mean, so compare the extremes directly.
		sd := math.Sqrt(stat.PopVariance(values, nil))
		if floats.Min(values) == floats.Max(values) || sd == 0 {
			return nil, fmt.Errorf("%w: %s channel has zero variance", ErrDegenerateInput, channelNames[c])
		}
		w.stdDev[c] = sd
		scaled[c] = floats.ScaleTo(make([]float64, len(values)), 1/sd, values)
	}

	for i := range w.points {
		w.points[i] = []float64{scaled[0][i], scaled[1][i], scaled[2][i]}
	}
	return w, nil
}

// unwhiten maps a point in whitened space back to a fractional Color.
// Rounding can leave a channel a hair outside [0, 1], so results are clamped.
func (w *whitened) unwhiten(p []float64) Color {
	return Color{
		R: clampUnit(p[0] * w.stdDev[0] / channelScale),
		G: clampUnit(p[1] * w.stdDev[1] / channelScale),
		B: clampUnit(p[2] * w.stdDev[2] / channelScale),
	}
}

func clampUnit(v float64) float64 {
	return max(0, min(1, v))
}
