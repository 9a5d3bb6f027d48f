package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
)

// DefaultContrast is the contrast change applied by Enhance when callers have
// no better value. Faded map scans respond well to a moderate boost.
const DefaultContrast = 0.2

// Enhance returns a grayscale copy of img with its contrast changed by
// contrast (range -1 to 1, 0 leaves it unchanged).
func Enhance(img image.Image, contrast float64) *image.Gray {
	gray := effect.Grayscale(img)
	if contrast == 0 {
		return gray
	}
	if contrast > 1 {
		contrast = 1
	} else if contrast < -1 {
		contrast = -1
	}
	return effect.Grayscale(adjust.Contrast(gray, contrast))
}
