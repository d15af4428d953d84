package colour

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestColorHex(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  string
	}{
		{name: "black", color: Color{}, want: "#000000"},
		{name: "white", color: Color{R: 1, G: 1, B: 1}, want: "#ffffff"},
		{name: "dark grey", color: Color{R: 10.0 / 255, G: 10.0 / 255, B: 10.0 / 255}, want: "#0a0a0a"},
		{name: "clamped", color: Color{R: 1.2, G: -0.1, B: 0.5}, want: "#ff0080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.Hex(); got != tt.want {
				t.Errorf("Hex() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestColorRGB(t *testing.T) {
	c := Color{R: 200.0 / 255, G: 100.0 / 255, B: 50.0 / 255}
	want := RGB{R: 200, G: 100, B: 50}
	if got := c.RGB(); got != want {
		t.Errorf("RGB() = %+v, want %+v", got, want)
	}
	if got := want.String(); got != "rgb(200, 100, 50)" {
		t.Errorf("String() = %s, want rgb(200, 100, 50)", got)
	}
	if got := want.Hex(); got != "#c86432" {
		t.Errorf("Hex() = %s, want #c86432", got)
	}
}

func TestColorValid(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  bool
	}{
		{name: "in range", color: Color{R: 0.1, G: 0.5, B: 1}, want: true},
		{name: "above one", color: Color{R: 1.01}, want: false},
		{name: "negative", color: Color{B: -0.01}, want: false},
		{name: "NaN", color: Color{G: math.NaN()}, want: false},
		{name: "infinite", color: Color{R: math.Inf(1)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLuminance(t *testing.T) {
	if got := Luminance(Color{}); got != 0 {
		t.Errorf("Luminance(black) = %v, want 0", got)
	}
	if got := Luminance(Color{R: 1, G: 1, B: 1}); math.Abs(got-1) > 1e-9 {
		t.Errorf("Luminance(white) = %v, want 1", got)
	}
}

func TestSwatch(t *testing.T) {
	tests := []struct {
		name    string
		profile termenv.Profile
		want    string
	}{
		{name: "true colour", profile: termenv.TrueColor, want: "48;2;255;0;0"},
		{name: "no colour", profile: termenv.Ascii, want: "    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := lipgloss.NewRenderer(&bytes.Buffer{})
			r.SetColorProfile(tt.profile)

			got := Swatch(r, Color{R: 1}, 4)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Swatch() = %q, want it to contain %q", got, tt.want)
			}
			if tt.profile == termenv.Ascii && strings.Contains(got, "\x1b[") {
				t.Errorf("Swatch() = %q, want no escape sequences", got)
			}
		})
	}
}

func TestSwatchWithText(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.TrueColor)

	got := SwatchWithText(r, Color{}, "[2]", 5)
	if !strings.Contains(got, "[2]") {
		t.Errorf("SwatchWithText() = %q, want it to contain its text", got)
	}
	// White text on a black block.
	if !strings.Contains(got, "38;2;255;255;255") {
		t.Errorf("SwatchWithText() = %q, want a white foreground", got)
	}
}
