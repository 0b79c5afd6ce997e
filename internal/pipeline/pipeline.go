// Package pipeline wires the barcode decode search, the AAMVA payload parser
// and the remote recognition capability into one scan operation and reconciles
// their outputs into a structured identity record.
package pipeline

import (
	"context"
	"time"

	"github.com/MeKo-Tech/idscan/internal/barcode"
	"github.com/MeKo-Tech/idscan/internal/decode"
	"github.com/MeKo-Tech/idscan/internal/recognition"
)

// Config holds configuration for the scan pipeline and its components.
type Config struct {
	Decode      decode.Config
	Recognition recognition.Config
	Parallel    ParallelConfig
}

// DefaultConfig returns a default pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		Decode:      decode.DefaultConfig(),
		Recognition: recognition.DefaultConfig(),
		Parallel:    DefaultParallelConfig(),
	}
}

// Pipeline runs the full scan: decode search, payload parsing, recognition
// and reconciliation. Construct it via Builder.
type Pipeline struct {
	decoder     *decode.Decoder
	recognition recognition.Capability
	now         func() time.Time
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg         Config
	backend     barcode.Backend
	recognition recognition.Capability
	now         func() time.Time
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithConfig replaces the whole config at once.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithMinWidth sets the minimum input width for the decode search (if >0).
func (b *Builder) WithMinWidth(w int) *Builder {
	if w > 0 {
		b.cfg.Decode.MinWidth = w
	}
	return b
}

// WithFormats constrains the symbologies searched. Unknown names are skipped.
func (b *Builder) WithFormats(names []string) *Builder {
	var formats []barcode.Format
	for _, name := range names {
		if f, ok := barcode.ParseFormat(name); ok {
			formats = append(formats, f)
		}
	}
	b.cfg.Decode.Formats = formats
	return b
}

// WithTryHarder toggles the backend's exhaustive search mode.
func (b *Builder) WithTryHarder(v bool) *Builder {
	b.cfg.Decode.TryHarder = v
	return b
}

// WithRecognitionConfig sets the remote recognition settings.
func (b *Builder) WithRecognitionConfig(cfg recognition.Config) *Builder {
	b.cfg.Recognition = cfg
	return b
}

// WithBarcodeBackend injects a barcode backend, replacing the default.
func (b *Builder) WithBarcodeBackend(backend barcode.Backend) *Builder {
	b.backend = backend
	return b
}

// WithRecognitionCapability injects a recognition capability, replacing the
// one built from config.
func (b *Builder) WithRecognitionCapability(cap recognition.Capability) *Builder {
	b.recognition = cap
	return b
}

// WithClock overrides the time source used for expiry evaluation.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build assembles the pipeline. Missing components degrade to unavailable
// ones rather than failing the build; a pipeline with neither channel still
// runs and returns empty-channel results.
func (b *Builder) Build(ctx context.Context) (*Pipeline, error) {
	backend := b.backend
	if backend == nil {
		backend = barcode.NewZXingBackend(b.cfg.Decode.TryHarder)
	}

	rec := b.recognition
	if rec == nil {
		rec = recognition.NewTextractCapability(ctx, b.cfg.Recognition)
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	return &Pipeline{
		decoder:     decode.NewDecoder(backend, b.cfg.Decode),
		recognition: rec,
		now:         now,
	}, nil
}

// BarcodeAvailable reports whether the barcode channel can decode.
func (p *Pipeline) BarcodeAvailable() bool { return p.decoder.Available() }

// RecognitionAvailable reports whether the recognition channel is configured.
func (p *Pipeline) RecognitionAvailable() bool { return p.recognition.Available() }
