// Package colour provides dominant colour estimation over RGB samples.
package colour

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB triple with each channel expressed as a fraction in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Colorful returns the colour as a go-colorful value, clamped to the valid gamut.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped()
}

// Hex returns the colour as a hex string (e.g., "#1a2b3c").
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

// RGB returns the colour quantised to 8 bits per channel.
func (c Color) RGB() RGB {
	r, g, b := c.Colorful().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Valid reports whether every channel is a finite value within [0, 1].
func (c Color) Valid() bool {
	for _, v := range [3]float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// String returns the fractional channels with six decimal places.
func (c Color) String() string {
	return fmt.Sprintf("%.6f %.6f %.6f", c.R, c.G, c.B)
}

// RGB represents a color in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Record is one entry of a colour series: either a Color or a Label.
type Record interface {
	isRecord()
}

// Label is a non-colour series entry, such as a category name. Labels are
// skipped when collecting samples.
type Label string

func (Color) isRecord() {}
func (Label) isRecord() {}
