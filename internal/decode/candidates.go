package decode

import (
	"fmt"
	"image"

	"github.com/MeKo-Tech/idscan/internal/utils"
)

// Candidate is one derived image variant offered to the barcode backend.
type Candidate struct {
	Image image.Image
	Label string
}

// Binarization and upscale tuning for degraded captures. The window/bias pair
// targets uneven lighting across the barcode zone of an ID card photo.
const (
	thresholdWindow = 31
	thresholdBias   = 5
)

var upscaleFactors = []float64{1.5, 2.0, 3.0}

// Candidates produces the ordered sequence of image variants to try against
// the decoder. Cheap variants come first; the orchestrator stops at the first
// success, so ordering is part of the latency budget. A variant whose
// transform fails is skipped, never fatal.
func Candidates(img image.Image) []Candidate {
	if img == nil {
		return nil
	}
	out := make([]Candidate, 0, 3+len(upscaleFactors))
	out = append(out, Candidate{Image: img, Label: "original"})

	gray := utils.Grayscale(img)
	out = append(out, Candidate{Image: gray, Label: "grayscale"})

	if bin, err := utils.AdaptiveThreshold(gray, thresholdWindow, thresholdBias); err == nil {
		out = append(out, Candidate{Image: bin, Label: "binarized"})
	}

	for _, factor := range upscaleFactors {
		if scaled, err := utils.ScaleBy(gray, factor); err == nil {
			out = append(out, Candidate{Image: scaled, Label: fmt.Sprintf("upscaled-%.1fx", factor)})
		}
	}

	if sharp, err := utils.Sharpen3x3(gray); err == nil {
		out = append(out, Candidate{Image: sharp, Label: "sharpened"})
	}
	return out
}
