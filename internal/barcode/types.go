package barcode

import (
	"context"
	"errors"
	"image"
	"strings"
)

// Format represents a barcode symbology.
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF417
	FormatQR
	FormatDataMatrix
	FormatAztec
	FormatCode128
	FormatCode39
	FormatEAN8
	FormatEAN13
	FormatITF
)

// ErrNoBackend indicates that no decoder backend is configured. The decode
// orchestrator treats this as "no data", never as a request failure.
var ErrNoBackend = errors.New("barcode: no decoder backend configured")

// Options controls backend decoding behavior.
type Options struct {
	// Formats constrains the set of symbologies to search. Empty means all.
	Formats []Format

	// TryHarder enables more exhaustive search (slower but more robust).
	// This is a fixed option decided at integration time, not probed at call
	// time.
	TryHarder bool
}

// Result represents a decoded barcode symbol.
type Result struct {
	Type  Format
	Value string
}

// Backend is a pluggable barcode decoder implementation.
type Backend interface {
	// Decode finds barcode symbols in img. A clean miss is an empty slice
	// with a nil error; errors are reserved for backend-level failures.
	Decode(ctx context.Context, img image.Image, opts Options) ([]Result, error)

	// Available reports whether the backend can decode at all.
	Available() bool
}

// ParseFormat maps a user-facing format name to a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf417":
		return FormatPDF417, true
	case "qr":
		return FormatQR, true
	case "datamatrix", "data-matrix":
		return FormatDataMatrix, true
	case "aztec":
		return FormatAztec, true
	case "code128", "code-128":
		return FormatCode128, true
	case "code39", "code-39":
		return FormatCode39, true
	case "ean8", "ean-8":
		return FormatEAN8, true
	case "ean13", "ean-13":
		return FormatEAN13, true
	case "itf", "interleaved2of5":
		return FormatITF, true
	default:
		return FormatUnknown, false
	}
}

// String returns the canonical uppercase name of the format, matching the
// symbology tags reported on scan results.
func (f Format) String() string {
	switch f {
	case FormatPDF417:
		return "PDF417"
	case FormatQR:
		return "QR_CODE"
	case FormatDataMatrix:
		return "DATA_MATRIX"
	case FormatAztec:
		return "AZTEC"
	case FormatCode128:
		return "CODE_128"
	case FormatCode39:
		return "CODE_39"
	case FormatEAN8:
		return "EAN_8"
	case FormatEAN13:
		return "EAN_13"
	case FormatITF:
		return "ITF"
	default:
		return "UNKNOWN"
	}
}

// Unavailable returns a Backend whose decode attempts always come back empty.
// It stands in when decoding is disabled or the real backend cannot be built.
func Unavailable() Backend { return unavailableBackend{} }

type unavailableBackend struct{}

func (unavailableBackend) Decode(context.Context, image.Image, Options) ([]Result, error) {
	return nil, ErrNoBackend
}

func (unavailableBackend) Available() bool { return false }
