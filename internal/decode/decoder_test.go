package decode

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"

	"github.com/MeKo-Tech/idscan/internal/barcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend decodes successfully when its match function accepts the image.
type stubBackend struct {
	match    func(img image.Image) bool
	results  []barcode.Result
	err      error
	attempts atomic.Int64
}

func (s *stubBackend) Decode(_ context.Context, img image.Image, _ barcode.Options) ([]barcode.Result, error) {
	s.attempts.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if s.match != nil && s.match(img) {
		return s.results, nil
	}
	return nil, nil
}

func (s *stubBackend) Available() bool { return true }

func TestDecoderFirstSuccessWins(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1200, 600))
	backend := &stubBackend{
		match:   func(image.Image) bool { return true },
		results: []barcode.Result{{Type: barcode.FormatPDF417, Value: "@..."}},
	}

	d := NewDecoder(backend, DefaultConfig())
	results, err := d.Decode(context.Background(), img)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, barcode.FormatPDF417, results[0].Type)

	// The very first candidate (0°, original) matched.
	assert.Equal(t, int64(1), backend.attempts.Load())
}

func TestDecoderRotationFallback(t *testing.T) {
	// Wide input; the backend only accepts portrait-oriented variants, which
	// appear after the 90° rotation.
	img := image.NewRGBA(image.Rect(0, 0, 1200, 400))
	backend := &stubBackend{
		match:   func(img image.Image) bool { return img.Bounds().Dy() > img.Bounds().Dx() },
		results: []barcode.Result{{Type: barcode.FormatQR, Value: "hello"}},
	}

	d := NewDecoder(backend, DefaultConfig())
	results, err := d.Decode(context.Background(), img)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// All 0° candidates were exhausted before the 90° original hit.
	assert.Equal(t, int64(8), backend.attempts.Load())
}

func TestDecoderExhaustedSearch(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	backend := &stubBackend{match: func(image.Image) bool { return false }}

	d := NewDecoder(backend, DefaultConfig())
	results, err := d.Decode(context.Background(), img)
	require.NoError(t, err)
	assert.Empty(t, results)

	// 4 rotations times 7 candidates.
	assert.Equal(t, int64(28), backend.attempts.Load())
}

func TestDecoderBackendErrorsContinueSearch(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	backend := &stubBackend{err: errors.New("decoder blew up")}

	d := NewDecoder(backend, DefaultConfig())
	results, err := d.Decode(context.Background(), img)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, int64(28), backend.attempts.Load())
}

func TestDecoderNilBackend(t *testing.T) {
	d := NewDecoder(nil, DefaultConfig())
	assert.False(t, d.Available())

	results, err := d.Decode(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDecoderNilImage(t *testing.T) {
	d := NewDecoder(&stubBackend{}, DefaultConfig())
	results, err := d.Decode(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDecoderContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDecoder(&stubBackend{}, DefaultConfig())
	_, err := d.Decode(ctx, image.NewRGBA(image.Rect(0, 0, 100, 100)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecoderUpscalesSmallInput(t *testing.T) {
	// 400px wide input must be upscaled to MinWidth before candidates are cut.
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	var sawWidth int
	backend := &stubBackend{
		match: func(img image.Image) bool {
			if sawWidth == 0 {
				sawWidth = img.Bounds().Dx()
			}
			return true
		},
		results: []barcode.Result{{Type: barcode.FormatPDF417, Value: "x"}},
	}

	d := NewDecoder(backend, Config{MinWidth: 1000})
	_, err := d.Decode(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, 1000, sawWidth)
}
