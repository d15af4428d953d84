package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/jmylchreest/domcol/internal/colour"
	"github.com/jmylchreest/domcol/internal/config"
)

// Preview modes for the --preview flag.
const (
	previewAuto   = "auto"
	previewAlways = "always"
	previewNever  = "never"
)

const swatchWidth = 4

// result is one input's outcome as written to the output.
type result struct {
	Input    string           `json:"input"`
	Hex      string           `json:"hex"`
	RGB      colour.RGB       `json:"rgb"`
	Color    colour.Color     `json:"color"`
	Seed     int64            `json:"seed"`
	Samples  int              `json:"samples"`
	Clusters []colour.Cluster `json:"clusters,omitempty"`
	Dominant int              `json:"dominant"`
}

func newResult(input string, seedValue int64, a *colour.Analysis, all bool) result {
	c := a.Dominant()
	r := result{
		Input:    input,
		Hex:      c.Hex(),
		RGB:      c.RGB(),
		Color:    c,
		Seed:     seedValue,
		Samples:  a.Samples,
		Dominant: a.Winner,
	}
	if all {
		r.Clusters = a.Clusters
	}
	return r
}

// resultWriter formats results for one of the configured output formats.
type resultWriter struct {
	out      io.Writer
	format   string
	renderer *lipgloss.Renderer // nil when swatches are off
	labelled bool
	enc      *json.Encoder
}

func newResultWriter(out io.Writer, format, previewMode string, labelled bool) (*resultWriter, error) {
	renderer, err := newPreviewRenderer(out, previewMode)
	if err != nil {
		return nil, err
	}
	w := &resultWriter{
		out:      out,
		format:   format,
		labelled: labelled,
	}
	if format == config.FormatJSON {
		w.enc = json.NewEncoder(out)
	} else {
		w.renderer = renderer
	}
	return w, nil
}

// newPreviewRenderer returns the renderer swatches are drawn with, or nil
// when they are off. In auto mode they are drawn only when writing to a
// terminal, using the colours it supports. Always mode forces true colour so
// swatches survive pipes and files.
func newPreviewRenderer(out io.Writer, mode string) (*lipgloss.Renderer, error) {
	switch mode {
	case previewAlways:
		r := lipgloss.NewRenderer(out)
		r.SetColorProfile(termenv.TrueColor)
		return r, nil
	case previewNever:
		return nil, nil
	case previewAuto, "":
		f, ok := out.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) { // #nosec G115 -- file descriptors fit in int
			return nil, nil
		}
		return lipgloss.NewRenderer(out), nil
	default:
		return nil, fmt.Errorf("invalid preview mode: %s (valid: auto, always, never)", mode)
	}
}

func (w *resultWriter) write(r result) error {
	if w.enc != nil {
		return w.enc.Encode(r)
	}

	var b strings.Builder
	if w.labelled {
		b.WriteString(r.Input)
		b.WriteString("\t")
	}
	if w.renderer != nil {
		b.WriteString(colour.Swatch(w.renderer, r.Color, swatchWidth))
		b.WriteString(" ")
	}
	b.WriteString(w.formatColour(r.Color))
	b.WriteString("\n")

	for i, c := range r.Clusters {
		marker := " "
		if i == r.Dominant {
			marker = "*"
		}
		id := fmt.Sprintf("[%d]", i)
		if w.renderer != nil {
			id = colour.SwatchWithText(w.renderer, c.Color, id, swatchWidth+1)
		}
		fmt.Fprintf(&b, "  %s %s %s  %d samples\n", marker, id, w.formatColour(c.Color), c.Count)
	}

	_, err := io.WriteString(w.out, b.String())
	return err
}

func (w *resultWriter) formatColour(c colour.Color) string {
	switch w.format {
	case config.FormatRGB:
		return c.RGB().String()
	case config.FormatFloat:
		return c.String()
	default:
		return c.Hex()
	}
}
