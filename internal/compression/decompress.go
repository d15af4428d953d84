// Package compression provides transparent decompression of single-stream
// compressed input files.
package compression

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/domcol/internal/security"
	"github.com/ulikunitz/xz"
)

// MaxDecompressedSize bounds how much data a decompressing reader will yield.
const MaxDecompressedSize = 64 * 1024 * 1024

// Format identifies a compression format.
type Format string

// Supported formats.
const (
	FormatNone  Format = "none"
	FormatGzip  Format = "gzip"
	FormatXz    Format = "xz"
	FormatBzip2 Format = "bzip2"
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	bzip2Magic = []byte("BZh")
)

// FormatFromName detects the format from a file extension.
func FormatFromName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".tgz":
		return FormatGzip
	case ".xz":
		return FormatXz
	case ".bz2":
		return FormatBzip2
	default:
		return FormatNone
	}
}

// FormatFromMagic detects the format from the leading bytes of a stream.
func FormatFromMagic(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return FormatGzip
	case bytes.HasPrefix(header, xzMagic):
		return FormatXz
	case bytes.HasPrefix(header, bzip2Magic):
		return FormatBzip2
	default:
		return FormatNone
	}
}

// NewReader returns a reader yielding the decompressed contents of r.
// The format is taken from the name's extension, falling back to the
// stream's magic bytes when the extension is not recognised (e.g. stdin).
// Output is capped at MaxDecompressedSize.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	br := bufio.NewReader(r)

	format := FormatFromName(name)
	if format == FormatNone {
		header, err := br.Peek(len(xzMagic))
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		format = FormatFromMagic(header)
	}

	var dr io.Reader
	switch format {
	case FormatGzip:
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		dr = gzr
	case FormatXz:
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		dr = xzr
	case FormatBzip2:
		dr = bzip2.NewReader(br)
	default:
		dr = br
	}

	return security.NewLimitedReader(dr, MaxDecompressedSize), nil
}
