package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrayscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{200, 40, 90, 255})
		}
	}

	gray := Grayscale(img)
	require.NotNil(t, gray)
	assert.Equal(t, 10, gray.Bounds().Dx())
	assert.Equal(t, 6, gray.Bounds().Dy())

	// Uniform input stays uniform.
	first := gray.Pix[0]
	for _, p := range gray.Pix {
		assert.Equal(t, first, p)
	}
}

func TestAdaptiveThreshold(t *testing.T) {
	// Left half dark, right half bright.
	gray := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			v := uint8(30)
			if x >= 10 {
				v = 220
			}
			gray.Pix[y*gray.Stride+x] = v
		}
	}

	out, err := AdaptiveThreshold(gray, 31, 5)
	require.NoError(t, err)
	require.NotNil(t, out)

	// Bright pixels must threshold to white, dark ones to black.
	assert.Equal(t, uint8(255), out.Pix[10*out.Stride+15])
	assert.Equal(t, uint8(0), out.Pix[10*out.Stride+2])
}

func TestAdaptiveThresholdUniform(t *testing.T) {
	// A uniform field sits exactly at the local mean; the bias pushes every
	// pixel above threshold.
	gray := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range gray.Pix {
		gray.Pix[i] = 128
	}
	out, err := AdaptiveThreshold(gray, 31, 5)
	require.NoError(t, err)
	for _, p := range out.Pix {
		assert.Equal(t, uint8(255), p)
	}
}

func TestAdaptiveThresholdErrors(t *testing.T) {
	_, err := AdaptiveThreshold(nil, 31, 5)
	assert.Error(t, err)

	_, err = AdaptiveThreshold(image.NewGray(image.Rect(0, 0, 4, 4)), 1, 5)
	assert.Error(t, err)

	_, err = AdaptiveThreshold(image.NewGray(image.Rect(0, 0, 0, 0)), 31, 5)
	assert.Error(t, err)
}

func TestScaleBy(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))

	scaled, err := ScaleBy(img, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 200, scaled.Bounds().Dx())
	assert.Equal(t, 100, scaled.Bounds().Dy())

	scaled, err = ScaleBy(img, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 150, scaled.Bounds().Dx())
	assert.Equal(t, 75, scaled.Bounds().Dy())

	_, err = ScaleBy(img, 0)
	assert.Error(t, err)

	_, err = ScaleBy(nil, 2)
	assert.Error(t, err)
}

func TestEnsureMinWidth(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out := EnsureMinWidth(small, 1000)
	assert.Equal(t, 1000, out.Bounds().Dx())
	assert.Equal(t, 500, out.Bounds().Dy())

	big := image.NewRGBA(image.Rect(0, 0, 1200, 300))
	assert.Same(t, image.Image(big), EnsureMinWidth(big, 1000))

	assert.Nil(t, EnsureMinWidth(nil, 1000))
}

func TestSharpen3x3(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	out, err := Sharpen3x3(img)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds().Dx(), out.Bounds().Dx())

	_, err = Sharpen3x3(nil)
	assert.Error(t, err)
}

func TestRotations(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 10))

	r90 := Rotate90(img)
	assert.Equal(t, 10, r90.Bounds().Dx())
	assert.Equal(t, 30, r90.Bounds().Dy())

	r180 := Rotate180(img)
	assert.Equal(t, 30, r180.Bounds().Dx())
	assert.Equal(t, 10, r180.Bounds().Dy())

	r270 := Rotate270(img)
	assert.Equal(t, 10, r270.Bounds().Dx())
	assert.Equal(t, 30, r270.Bounds().Dy())
}
