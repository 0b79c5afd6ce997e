package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255}) //nolint:gosec // G115: bounded by modulo
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIsSupportedImage(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"scan.jpg", true},
		{"scan.JPEG", true},
		{"scan.png", true},
		{"scan.bmp", true},
		{"scan.tiff", false},
		{"scan.pdf", false},
		{"scan", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsSupportedImage(tt.path), tt.path)
	}
}

func TestDecodeImage(t *testing.T) {
	data := encodePNG(t, 120, 80)

	img, meta, err := DecodeImage(data)
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, 120, meta.Width)
	assert.Equal(t, 80, meta.Height)
	assert.Equal(t, int64(len(data)), meta.SizeBytes)
	assert.InDelta(t, 1.5, meta.AspectRatio, 0.001)
}

func TestDecodeImageErrors(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		_, _, err := DecodeImage(nil)
		require.Error(t, err)
		var perr *ImageProcessingError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "decode", perr.Operation)
	})

	t.Run("garbage data", func(t *testing.T) {
		_, _, err := DecodeImage([]byte("not an image"))
		assert.Error(t, err)
	})
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 40, 40), 0o600))

	img, meta, err := LoadImage(path)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, path, meta.Path)
	assert.Equal(t, 40, meta.Width)
}

func TestLoadImageErrors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, _, err := LoadImage("")
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, _, err := LoadImage("document.pdf")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png"))
		assert.Error(t, err)
	})
}
