package barcode

import (
	"context"
	"image"
	"testing"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeQR renders a QR symbol into a plain image for round-trip decoding.
func encodeQR(t *testing.T, text string) image.Image {
	t.Helper()
	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(text, gozxing.BarcodeFormat_QR_CODE, 200, 200, nil)
	require.NoError(t, err)

	bounds := image.Rect(0, 0, matrix.GetWidth(), matrix.GetHeight())
	img := image.NewGray(bounds)
	for y := 0; y < matrix.GetHeight(); y++ {
		for x := 0; x < matrix.GetWidth(); x++ {
			v := uint8(255)
			if matrix.Get(x, y) {
				v = 0
			}
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}

func TestZXingBackendRoundTrip(t *testing.T) {
	b := NewZXingBackend(true)
	assert.True(t, b.Available())

	img := encodeQR(t, "ANSI 636014")
	results, err := b.Decode(context.Background(), img, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, FormatQR, results[0].Type)
	assert.Equal(t, "ANSI 636014", results[0].Value)
}

func TestZXingBackendFormatFilter(t *testing.T) {
	b := NewZXingBackend(true)
	img := encodeQR(t, "filtered")

	// Restricting the search to PDF417 must miss the QR symbol.
	results, err := b.Decode(context.Background(), img, Options{Formats: []Format{FormatPDF417}})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = b.Decode(context.Background(), img, Options{Formats: []Format{FormatQR}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "filtered", results[0].Value)
}

func TestZXingBackendCleanMiss(t *testing.T) {
	b := NewZXingBackend(false)

	blank := image.NewGray(image.Rect(0, 0, 100, 100))
	for i := range blank.Pix {
		blank.Pix[i] = 255
	}

	results, err := b.Decode(context.Background(), blank, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestZXingBackendNilImage(t *testing.T) {
	b := NewZXingBackend(false)
	results, err := b.Decode(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestZXingBackendContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewZXingBackend(false)
	_, err := b.Decode(ctx, encodeQR(t, "x"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
