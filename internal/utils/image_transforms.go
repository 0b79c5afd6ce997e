package utils

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ImageProcessingError represents errors that can occur during image processing.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

// Grayscale converts an image to 8-bit grayscale.
func Grayscale(img image.Image) *image.Gray {
	nrgba := imaging.Grayscale(img)
	bounds := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			// All channels are equal after imaging.Grayscale; take R.
			gray.Pix[y*gray.Stride+x] = nrgba.Pix[y*nrgba.Stride+x*4]
		}
	}
	return gray
}

// AdaptiveThreshold binarizes a grayscale image against a local mean computed
// over a square window. A pixel becomes white when it exceeds the window mean
// minus bias, black otherwise. Matches the behavior barcode decoders expect
// from a locally-thresholded capture of uneven lighting.
func AdaptiveThreshold(gray *image.Gray, window, bias int) (*image.Gray, error) {
	if gray == nil {
		return nil, &ImageProcessingError{Operation: "threshold", Err: errors.New("input image is nil")}
	}
	if window < 3 {
		return nil, &ImageProcessingError{Operation: "threshold", Err: fmt.Errorf("window too small: %d", window)}
	}
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, &ImageProcessingError{Operation: "threshold", Err: errors.New("empty image")}
	}

	// Summed-area table with a one-pixel border of zeros.
	integral := make([]uint64, (w+1)*(h+1))
	stride := w + 1
	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(gray.Pix[y*gray.Stride+x])
			integral[(y+1)*stride+x+1] = integral[y*stride+x+1] + rowSum
		}
	}

	half := window / 2
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		y0, y1 := maxInt(0, y-half), minInt(h-1, y+half)
		for x := 0; x < w; x++ {
			x0, x1 := maxInt(0, x-half), minInt(w-1, x+half)
			count := uint64((y1 - y0 + 1) * (x1 - x0 + 1))
			sum := integral[(y1+1)*stride+x1+1] - integral[y0*stride+x1+1] -
				integral[(y1+1)*stride+x0] + integral[y0*stride+x0]
			mean := float64(sum) / float64(count)
			if float64(gray.Pix[y*gray.Stride+x]) > mean-float64(bias) {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out, nil
}

// ScaleBy uniformly scales an image by the given factor using Catmull-Rom
// (cubic) resampling.
func ScaleBy(img image.Image, factor float64) (image.Image, error) {
	if img == nil {
		return nil, &ImageProcessingError{Operation: "scale", Err: errors.New("input image is nil")}
	}
	if factor <= 0 {
		return nil, &ImageProcessingError{Operation: "scale", Err: fmt.Errorf("invalid scale factor: %v", factor)}
	}
	b := img.Bounds()
	newW := int(math.Round(float64(b.Dx()) * factor))
	newH := int(math.Round(float64(b.Dy()) * factor))
	if newW < 1 || newH < 1 {
		return nil, &ImageProcessingError{Operation: "scale", Err: fmt.Errorf("degenerate target size %dx%d", newW, newH)}
	}
	return imaging.Resize(img, newW, newH, imaging.CatmullRom), nil
}

// EnsureMinWidth upscales an image (aspect preserved, cubic) when its width is
// below minWidth. Images at or above the threshold are returned unchanged.
func EnsureMinWidth(img image.Image, minWidth int) image.Image {
	if img == nil || minWidth <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() >= minWidth || b.Dx() == 0 {
		return img
	}
	scale := float64(minWidth) / float64(b.Dx())
	newH := int(math.Round(float64(b.Dy()) * scale))
	return imaging.Resize(img, minWidth, newH, imaging.CatmullRom)
}

// Sharpen3x3 applies the standard 3x3 sharpening kernel. Dense PDF417 modules
// on slightly blurred captures often become decodable after this pass.
func Sharpen3x3(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, &ImageProcessingError{Operation: "sharpen", Err: errors.New("input image is nil")}
	}
	kernel := [9]float64{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}
	return imaging.Convolve3x3(img, kernel, nil), nil
}

// Rotate90 rotates the image 90 degrees counter-clockwise.
func Rotate90(img image.Image) image.Image { return imaging.Rotate90(img) }

// Rotate180 rotates the image 180 degrees.
func Rotate180(img image.Image) image.Image { return imaging.Rotate180(img) }

// Rotate270 rotates the image 270 degrees counter-clockwise.
func Rotate270(img image.Image) image.Image { return imaging.Rotate270(img) }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
