// Package series reads colour series from records files. A file holds
// either one JSON array of records or a JSON object mapping group names to
// arrays. Each record is a label string, an [r, g, b] array or an
// {"r", "g", "b"} object with channels as fractions in [0, 1].
package series

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/jmylchreest/domcol/internal/colour"
	"github.com/jmylchreest/domcol/internal/compression"
)

// StdinPath is the path that selects standard input.
const StdinPath = "-"

// Series is a named sequence of records. Name is empty for ungrouped files.
type Series struct {
	Name    string
	Records []colour.Record
}

// Load reads and parses a records file, decompressing it if needed.
func Load(path string) ([]Series, error) {
	var r io.Reader
	if path == StdinPath {
		r = os.Stdin
	} else {
		f, err := os.Open(path) // #nosec G304 - User-specified records path, intended to be read
		if err != nil {
			return nil, fmt.Errorf("failed to open records file: %w", err)
		}
		defer f.Close()
		r = f
	}

	dr, err := compression.NewReader(r, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records stream: %w", err)
	}
	return Parse(dr)
}

// Parse decodes a records document. Groups are returned sorted by name.
func Parse(r io.Reader) ([]Series, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("records document is empty")
	}

	switch data[0] {
	case '[':
		records, err := parseRecords(data)
		if err != nil {
			return nil, err
		}
		return []Series{{Records: records}}, nil
	case '{':
		var groups map[string]json.RawMessage
		if err := json.Unmarshal(data, &groups); err != nil {
			return nil, fmt.Errorf("failed to decode record groups: %w", err)
		}

		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		slices.Sort(names)

		out := make([]Series, 0, len(names))
		for _, name := range names {
			records, err := parseRecords(groups[name])
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", name, err)
			}
			out = append(out, Series{Name: name, Records: records})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("records document must be a JSON array or object")
	}
}

func parseRecords(data []byte) ([]colour.Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	records := make([]colour.Record, len(raw))
	for i, msg := range raw {
		rec, err := parseRecord(msg)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records[i] = rec
	}
	return records, nil
}

type colorObject struct {
	R *float64 `json:"r"`
	G *float64 `json:"g"`
	B *float64 `json:"b"`
}

func parseRecord(msg json.RawMessage) (colour.Record, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return nil, fmt.Errorf("%w: empty record", colour.ErrInvalidSample)
	}

	switch msg[0] {
	case '"':
		var label string
		if err := json.Unmarshal(msg, &label); err != nil {
			return nil, fmt.Errorf("%w: %v", colour.ErrInvalidSample, err)
		}
		return colour.Label(label), nil
	case '[':
		var channels []float64
		if err := json.Unmarshal(msg, &channels); err != nil {
			return nil, fmt.Errorf("%w: %v", colour.ErrInvalidSample, err)
		}
		if len(channels) != 3 {
			return nil, fmt.Errorf("%w: colour has %d channels, want 3", colour.ErrInvalidSample, len(channels))
		}
		return colour.Color{R: channels[0], G: channels[1], B: channels[2]}, nil
	case '{':
		var obj colorObject
		if err := json.Unmarshal(msg, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", colour.ErrInvalidSample, err)
		}
		if obj.R == nil || obj.G == nil || obj.B == nil {
			return nil, fmt.Errorf("%w: colour object needs r, g and b", colour.ErrInvalidSample)
		}
		return colour.Color{R: *obj.R, G: *obj.G, B: *obj.B}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported record %s", colour.ErrInvalidSample, msg)
	}
}
