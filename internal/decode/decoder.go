// Package decode drives the barcode backend over derived image candidates and
// the four cardinal rotations, committing to the first success.
package decode

import (
	"context"
	"image"
	"log/slog"

	"github.com/MeKo-Tech/idscan/internal/barcode"
	"github.com/MeKo-Tech/idscan/internal/utils"
)

// Config controls the decode search.
type Config struct {
	// MinWidth is the width below which the whole input is upscaled before
	// candidate generation. PDF417 detection degrades sharply on small scans.
	MinWidth int

	// Formats constrains the symbologies searched. Empty means all supported.
	Formats []barcode.Format

	// TryHarder is passed through to the backend.
	TryHarder bool
}

// DefaultConfig returns the decode search defaults.
func DefaultConfig() Config {
	return Config{MinWidth: 1000}
}

// Decoder runs the candidate/rotation search against an injected backend.
type Decoder struct {
	backend barcode.Backend
	cfg     Config
}

// NewDecoder creates a Decoder. A nil backend degrades to the unavailable
// backend: every decode returns empty. Unavailability is reported once here,
// not per attempt.
func NewDecoder(backend barcode.Backend, cfg Config) *Decoder {
	if backend == nil {
		backend = barcode.Unavailable()
	}
	if !backend.Available() {
		slog.Warn("Barcode backend unavailable; all decode attempts will return empty")
	}
	if cfg.MinWidth <= 0 {
		cfg.MinWidth = DefaultConfig().MinWidth
	}
	return &Decoder{backend: backend, cfg: cfg}
}

// Available reports whether the underlying backend can decode at all.
func (d *Decoder) Available() bool { return d.backend.Available() }

// rotations in search order; 0° first since most captures are upright.
var rotations = []struct {
	angle  int
	rotate func(image.Image) image.Image
}{
	{0, func(img image.Image) image.Image { return img }},
	{90, utils.Rotate90},
	{180, utils.Rotate180},
	{270, utils.Rotate270},
}

// Decode searches the image for barcode symbols. It returns the results of
// the first candidate that decodes, or an empty slice when the search is
// exhausted or the backend is unavailable. The error is non-nil only for
// context cancellation.
func (d *Decoder) Decode(ctx context.Context, img image.Image) ([]barcode.Result, error) {
	if img == nil || !d.backend.Available() {
		return nil, nil
	}

	img = utils.EnsureMinWidth(img, d.cfg.MinWidth)
	opts := barcode.Options{Formats: d.cfg.Formats, TryHarder: d.cfg.TryHarder}

	for _, rot := range rotations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rotated := rot.rotate(img)
		for _, cand := range Candidates(rotated) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results, err := d.backend.Decode(ctx, cand.Image, opts)
			if err != nil {
				// Backend-level failures collapse to "no data from this
				// attempt"; the search continues.
				continue
			}
			if len(results) > 0 {
				slog.Debug("Barcode decoded",
					"rotation", rot.angle, "variant", cand.Label, "symbols", len(results))
				return results, nil
			}
		}
	}
	return nil, nil
}
