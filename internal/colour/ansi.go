package colour

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultSwatchWidth = 8

// Swatch returns a solid block of the colour for terminal previews.
// Width specifies how many characters wide the block should be. The
// renderer decides the colour profile; nil uses lipgloss's default.
func Swatch(r *lipgloss.Renderer, c Color, width int) string {
	if width <= 0 {
		width = defaultSwatchWidth
	}
	return newStyle(r).
		Background(lipgloss.Color(c.Hex())).
		Render(strings.Repeat(" ", width))
}

// SwatchWithText returns a colour block with text overlaid in black or
// white, whichever contrasts better.
func SwatchWithText(r *lipgloss.Renderer, c Color, text string, width int) string {
	if width <= 0 {
		width = defaultSwatchWidth
	}

	fg := "#ffffff"
	if Luminance(c) > 0.5 {
		fg = "#000000"
	}

	return newStyle(r).
		Background(lipgloss.Color(c.Hex())).
		Foreground(lipgloss.Color(fg)).
		Width(width).
		Align(lipgloss.Center).
		Render(text)
}

func newStyle(r *lipgloss.Renderer) lipgloss.Style {
	if r == nil {
		return lipgloss.NewStyle()
	}
	return r.NewStyle()
}

// Luminance calculates the relative luminance of a colour according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
func Luminance(c Color) float64 {
	r, g, b := c.Colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
