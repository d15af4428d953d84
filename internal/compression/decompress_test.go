package compression

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/ulikunitz/xz"
)

const payload = `["fire", [0.9, 0.3, 0.1]]`

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func xzed(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	return buf.Bytes()
}

func TestNewReader(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
	}{
		{name: "plain", data: []byte(payload), filename: "types.json"},
		{name: "gzip by extension", data: gzipped(t, payload), filename: "types.json.gz"},
		{name: "xz by extension", data: xzed(t, payload), filename: "types.json.xz"},
		{name: "gzip by magic", data: gzipped(t, payload), filename: "-"},
		{name: "xz by magic", data: xzed(t, payload), filename: "-"},
		{name: "short plain input", data: []byte("[]"), filename: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(bytes.NewReader(tt.data), tt.filename)
			if err != nil {
				t.Fatalf("NewReader() error = %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			want := payload
			if tt.name == "short plain input" {
				want = "[]"
			}
			if string(got) != want {
				t.Errorf("ReadAll() = %q, want %q", got, want)
			}
		})
	}
}

func TestNewReaderCorruptGzip(t *testing.T) {
	if _, err := NewReader(bytes.NewReader([]byte("not gzip")), "types.json.gz"); err == nil {
		t.Error("NewReader() expected error for corrupt gzip")
	}
}

func TestFormatFromName(t *testing.T) {
	tests := map[string]Format{
		"a.json":     FormatNone,
		"a.json.gz":  FormatGzip,
		"a.json.XZ":  FormatXz,
		"a.json.bz2": FormatBzip2,
	}
	for name, want := range tests {
		if got := FormatFromName(name); got != want {
			t.Errorf("FormatFromName(%q) = %s, want %s", name, got, want)
		}
	}
}
