package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguages are the Tesseract language codes used when none are configured.
var DefaultLanguages = []string{"rus", "eng"}

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Center returns the mean of the four corners, truncated to whole pixels.
func (b Bounds) Center() (x, y int) {
	return (2*b.X1 + 2*b.X2) / 4, (2*b.Y1 + 2*b.Y2) / 4
}

// Fragment is one piece of text detected on the image.
type Fragment struct {
	// Text is the raw recognized text, trimmed of surrounding whitespace.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the image.
	Bounds Bounds `json:"bounds"`
}

// Recognizer detects text fragments on an image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]Fragment, error)
}

// Level selects how Tesseract groups text into fragments.
type Level string

const (
	LevelWord  Level = "word"
	LevelLine  Level = "line"
	LevelBlock Level = "block"
)

func (l Level) iteratorLevel() (gosseract.PageIteratorLevel, error) {
	switch l {
	case LevelWord:
		return gosseract.RIL_WORD, nil
	case LevelLine, "":
		return gosseract.RIL_TEXTLINE, nil
	case LevelBlock:
		return gosseract.RIL_BLOCK, nil
	}
	return 0, fmt.Errorf("unknown OCR level: %q", l)
}

// Tesseract recognizes text with a local Tesseract installation.
// The zero value uses DefaultLanguages at line level with no confidence filter.
type Tesseract struct {
	Languages     []string
	Level         Level
	MinConfidence float64
}

// Recognize runs OCR over img and returns the detected fragments.
//
// A new gosseract client is created per call, so a single Tesseract value may
// be used from several goroutines. The image is handed over as PNG bytes.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	level, err := t.Level.iteratorLevel()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	langs := t.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	if err := client.SetLanguage(langs...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(level)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return filterBoxes(boxes, t.MinConfidence), nil
}

func filterBoxes(boxes []gosseract.BoundingBox, minConfidence float64) []Fragment {
	fragments := make([]Fragment, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		confidence := box.Confidence / 100.0
		if confidence < minConfidence {
			continue
		}
		fragments = append(fragments, Fragment{
			Text:       text,
			Confidence: confidence,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}
	return fragments
}

// Info describes the OCR backend.
type Info struct {
	Available bool     `json:"available"`
	Version   string   `json:"version,omitempty"`
	Backend   string   `json:"backend"`
	Languages []string `json:"languages,omitempty"`
}

// GetInfo reports the installed Tesseract version and configured languages.
func (t *Tesseract) GetInfo() Info {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	langs := t.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	return Info{
		Available: version != "",
		Version:   version,
		Backend:   "gosseract",
		Languages: langs,
	}
}
