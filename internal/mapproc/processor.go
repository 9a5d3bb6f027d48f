package mapproc

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ironsheep/map-translate/internal/imaging"
	"github.com/ironsheep/map-translate/internal/ocr"
	"github.com/ironsheep/map-translate/internal/translit"
)

var (
	ErrImageLoad = errors.New("failed to load image")
	ErrNoImage   = errors.New("image not loaded")
)

const (
	VisualizationFile = "visualization_translated.png"
	CSVFile           = "results.csv"
	ReportFile        = "report.txt"
	DebugEnhancedFile = "debug_enhanced.png"
)

// Point is one detected and translated label.
type Point struct {
	ID           int        `json:"id"`
	TextOriginal string     `json:"text_original"`
	TextRomanian string     `json:"text_romanian"`
	Confidence   float64    `json:"confidence"`
	X            int        `json:"x"`
	Y            int        `json:"y"`
	Bounds       ocr.Bounds `json:"bbox"`
}

// Options configures a Processor. Zero fields get defaults in New.
type Options struct {
	Recognizer ocr.Recognizer
	Translator *translit.Translator
	Cache      *imaging.ImageCache
	Logger     *slog.Logger

	// OutputRoot is where the results directory is created. Empty means
	// the directory containing the image.
	OutputRoot string

	// Debug saves the enhanced image and logs each point.
	Debug bool

	// Contrast is passed to imaging.Enhance.
	Contrast float64

	// CleanText filters each translation through CleanText.
	CleanText bool

	Style imaging.LabelStyle

	// Now is used for the results directory name and the report date.
	Now func() time.Time
}

// Processor turns one map image into translated results.
// A Processor is not safe for concurrent use; create one per image.
type Processor struct {
	imagePath  string
	resultsDir string
	opts       Options

	original image.Image
	enhanced image.Image
}

// New creates the results directory and returns a processor for imagePath.
// The image itself is not read until LoadImage.
func New(imagePath string, opts Options) (*Processor, error) {
	if opts.Recognizer == nil {
		opts.Recognizer = &ocr.Tesseract{}
	}
	if opts.Translator == nil {
		opts.Translator = translit.Default()
	}
	if opts.Cache == nil {
		opts.Cache = imaging.NewImageCache()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Style == (imaging.LabelStyle{}) {
		opts.Style = imaging.DefaultLabelStyle()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	base := opts.OutputRoot
	if base == "" {
		base = filepath.Dir(imagePath)
	}
	dir, err := createResultsDir(base, opts.Now())
	if err != nil {
		return nil, err
	}

	return &Processor{
		imagePath:  imagePath,
		resultsDir: dir,
		opts:       opts,
	}, nil
}

func createResultsDir(base string, now time.Time) (string, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := "results_" + now.Format("20060102_150405")
	dir := filepath.Join(base, name)
	for n := 2; ; n++ {
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to create results directory: %w", err)
		}
		dir = filepath.Join(base, name+"_"+strconv.Itoa(n))
	}
}

// ImagePath returns the map being processed.
func (p *Processor) ImagePath() string {
	return p.imagePath
}

// ResultsDir returns the directory results are written to.
func (p *Processor) ResultsDir() string {
	return p.resultsDir
}

// LoadImage reads the map and prepares the enhanced copy for OCR.
func (p *Processor) LoadImage() (image.Image, error) {
	img, err := p.opts.Cache.Load(p.imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageLoad, err)
	}
	p.original = img
	p.enhanced = imaging.Enhance(img, p.opts.Contrast)

	if p.opts.Debug {
		path := filepath.Join(p.resultsDir, DebugEnhancedFile)
		if err := imaging.Save(p.enhanced, path); err != nil {
			return nil, err
		}
	}
	return p.enhanced, nil
}

// ProcessPoints recognizes text on the enhanced image and translates it.
func (p *Processor) ProcessPoints(ctx context.Context) ([]Point, error) {
	if p.enhanced == nil {
		return nil, ErrNoImage
	}

	points, err := RecognizePoints(ctx, p.enhanced, p.opts.Recognizer, p.opts.Translator, p.opts.CleanText)
	if err != nil {
		return nil, err
	}

	if p.opts.Debug {
		for _, pt := range points {
			p.opts.Logger.Debug("point",
				"id", pt.ID,
				"original", pt.TextOriginal,
				"romanian", pt.TextRomanian,
				"x", pt.X,
				"y", pt.Y,
				"confidence", fmt.Sprintf("%.2f", pt.Confidence))
		}
	}
	return points, nil
}

// RecognizePoints runs rec over img and translates every fragment with tr.
// Points are numbered from 1 in recognition order. With clean set each
// translation is also passed through CleanText.
func RecognizePoints(ctx context.Context, img image.Image, rec ocr.Recognizer, tr *translit.Translator, clean bool) ([]Point, error) {
	fragments, err := rec.Recognize(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("text recognition failed: %w", err)
	}

	points := make([]Point, 0, len(fragments))
	for i, f := range fragments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		x, y := f.Bounds.Center()
		translated := tr.Translate(f.Text)
		if clean {
			translated = tr.CleanText(translated)
		}

		points = append(points, Point{
			ID:           i + 1,
			TextOriginal: f.Text,
			TextRomanian: translated,
			Confidence:   f.Confidence,
			X:            x,
			Y:            y,
			Bounds:       f.Bounds,
		})
	}
	return points, nil
}

// CreateTranslatedMap draws every point and its translated label on a copy
// of the original image.
func (p *Processor) CreateTranslatedMap(points []Point) (*image.RGBA, error) {
	if p.original == nil {
		return nil, ErrNoImage
	}

	labels := make([]imaging.Label, len(points))
	for i, pt := range points {
		labels[i] = imaging.Label{
			X:    pt.X,
			Y:    pt.Y,
			Text: strconv.Itoa(pt.ID) + ": " + pt.TextRomanian,
		}
	}
	return imaging.DrawLabels(p.original, labels, p.opts.Style)
}

// Process runs every stage and returns the translated points.
func (p *Processor) Process(ctx context.Context) ([]Point, error) {
	log := p.opts.Logger.With("image", p.imagePath)

	log.Info("loading and preprocessing image")
	if _, err := p.LoadImage(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info("processing points and text")
	points, err := p.ProcessPoints(ctx)
	if err != nil {
		return nil, err
	}

	log.Info("creating translated map")
	viz, err := p.CreateTranslatedMap(points)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info("exporting results")
	if err := p.ExportResults(points, viz); err != nil {
		return nil, err
	}

	log.Info("processing complete", "results_dir", p.resultsDir, "points", len(points))
	return points, nil
}
