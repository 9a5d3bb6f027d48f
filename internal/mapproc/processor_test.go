package mapproc

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/map-translate/internal/ocr"
	"github.com/ironsheep/map-translate/internal/translit"
)

// fakeRecognizer returns fixed fragments and records what it was given.
type fakeRecognizer struct {
	fragments []ocr.Fragment
	err       error
	calls     int
	bounds    image.Rectangle
}

func (f *fakeRecognizer) Recognize(ctx context.Context, img image.Image) ([]ocr.Fragment, error) {
	f.calls++
	f.bounds = img.Bounds()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.fragments, f.err
}

var fixedNow = time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

func writeMapPNG(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{240, 230, 200, 255})
		}
	}

	path := filepath.Join(dir, "map.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func newTestProcessor(t *testing.T, rec ocr.Recognizer, debug bool) *Processor {
	t.Helper()
	dir := t.TempDir()
	path := writeMapPNG(t, dir, 200, 150)

	p, err := New(path, Options{
		Recognizer: rec,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Debug:      debug,
		Now:        func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func sampleFragments() []ocr.Fragment {
	return []ocr.Fragment{
		{Text: "Режиуня", Confidence: 0.91, Bounds: ocr.Bounds{X1: 10, Y1: 20, X2: 90, Y2: 40}},
		{Text: "тинерi", Confidence: 0.5, Bounds: ocr.Bounds{X1: 100, Y1: 101, X2: 151, Y2: 120}},
	}
}

func TestNew_ResultsDir(t *testing.T) {
	p := newTestProcessor(t, &fakeRecognizer{}, false)

	want := "results_20240315_103045"
	if filepath.Base(p.ResultsDir()) != want {
		t.Errorf("ResultsDir: got %s, want %s", filepath.Base(p.ResultsDir()), want)
	}
	if filepath.Dir(p.ResultsDir()) != filepath.Dir(p.ImagePath()) {
		t.Errorf("results dir should sit next to the image, got %s", p.ResultsDir())
	}
	if info, err := os.Stat(p.ResultsDir()); err != nil || !info.IsDir() {
		t.Errorf("results directory not created: %v", err)
	}
}

func TestNew_ResultsDirCollision(t *testing.T) {
	root := t.TempDir()
	opts := Options{
		Recognizer: &fakeRecognizer{},
		OutputRoot: root,
		Now:        func() time.Time { return fixedNow },
	}

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		p, err := New(filepath.Join(root, "map.png"), opts)
		if err != nil {
			t.Fatalf("New #%d failed: %v", i, err)
		}
		if seen[p.ResultsDir()] {
			t.Fatalf("results directory reused: %s", p.ResultsDir())
		}
		seen[p.ResultsDir()] = true
	}

	if !seen[filepath.Join(root, "results_20240315_103045_3")] {
		t.Errorf("expected a _3 suffix, got %v", seen)
	}
}

func TestNew_OutputRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "out")
	p, err := New("/does/not/matter.png", Options{
		Recognizer: &fakeRecognizer{},
		OutputRoot: root,
		Now:        func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if filepath.Dir(p.ResultsDir()) != root {
		t.Errorf("ResultsDir: got %s, want under %s", p.ResultsDir(), root)
	}
}

func TestLoadImage(t *testing.T) {
	p := newTestProcessor(t, &fakeRecognizer{}, true)

	enhanced, err := p.LoadImage()
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if _, ok := enhanced.(*image.Gray); !ok {
		t.Errorf("enhanced image should be grayscale, got %T", enhanced)
	}
	if enhanced.Bounds().Dx() != 200 || enhanced.Bounds().Dy() != 150 {
		t.Errorf("enhanced size: got %v", enhanced.Bounds())
	}
	if _, err := os.Stat(filepath.Join(p.ResultsDir(), DebugEnhancedFile)); err != nil {
		t.Errorf("debug image not written: %v", err)
	}
}

func TestLoadImage_NoDebugFile(t *testing.T) {
	p := newTestProcessor(t, &fakeRecognizer{}, false)

	if _, err := p.LoadImage(); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(p.ResultsDir(), DebugEnhancedFile)); !os.IsNotExist(err) {
		t.Error("debug image should not be written outside debug mode")
	}
}

func TestLoadImage_Missing(t *testing.T) {
	p, err := New(filepath.Join(t.TempDir(), "missing.png"), Options{Recognizer: &fakeRecognizer{}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = p.LoadImage()
	if !errors.Is(err, ErrImageLoad) {
		t.Errorf("LoadImage: got %v, want ErrImageLoad", err)
	}
}

func TestStagesBeforeLoad(t *testing.T) {
	p := newTestProcessor(t, &fakeRecognizer{}, false)

	if _, err := p.ProcessPoints(context.Background()); !errors.Is(err, ErrNoImage) {
		t.Errorf("ProcessPoints: got %v, want ErrNoImage", err)
	}
	if _, err := p.CreateTranslatedMap(nil); !errors.Is(err, ErrNoImage) {
		t.Errorf("CreateTranslatedMap: got %v, want ErrNoImage", err)
	}
}

func TestProcessPoints(t *testing.T) {
	rec := &fakeRecognizer{fragments: sampleFragments()}
	p := newTestProcessor(t, rec, false)
	if _, err := p.LoadImage(); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	points, err := p.ProcessPoints(context.Background())
	if err != nil {
		t.Fatalf("ProcessPoints failed: %v", err)
	}
	if rec.bounds.Dx() != 200 {
		t.Errorf("recognizer should see the enhanced image, got bounds %v", rec.bounds)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	want := []Point{
		{ID: 1, TextOriginal: "Режиуня", TextRomanian: "Rejhiunia", Confidence: 0.91, X: 50, Y: 30},
		{ID: 2, TextOriginal: "тинерi", TextRomanian: "tanari", Confidence: 0.5, X: 125, Y: 110},
	}
	for i, w := range want {
		got := points[i]
		if got.ID != w.ID || got.TextOriginal != w.TextOriginal || got.TextRomanian != w.TextRomanian ||
			got.Confidence != w.Confidence || got.X != w.X || got.Y != w.Y {
			t.Errorf("point %d: got %+v, want %+v", i, got, w)
		}
		if got.Bounds != sampleFragments()[i].Bounds {
			t.Errorf("point %d bounds: got %+v", i, got.Bounds)
		}
	}
}

func TestProcessPoints_Clean(t *testing.T) {
	rec := &fakeRecognizer{fragments: []ocr.Fragment{
		{Text: "Щука (река)", Confidence: 0.8, Bounds: ocr.Bounds{X2: 10, Y2: 10}},
	}}
	p := newTestProcessor(t, rec, false)
	p.opts.CleanText = true
	if _, err := p.LoadImage(); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	points, err := p.ProcessPoints(context.Background())
	if err != nil {
		t.Fatalf("ProcessPoints failed: %v", err)
	}
	// Ș is outside ASCII and the brackets are not kept
	if got := points[0].TextRomanian; got != "ciuka reka" {
		t.Errorf("TextRomanian: got %q, want %q", got, "ciuka reka")
	}
}

func TestProcessPoints_RecognizerError(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("engine exploded")}
	p := newTestProcessor(t, rec, false)
	if _, err := p.LoadImage(); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	_, err := p.ProcessPoints(context.Background())
	if err == nil || !strings.Contains(err.Error(), "engine exploded") {
		t.Errorf("ProcessPoints: got %v", err)
	}
}

func TestProcessPoints_Canceled(t *testing.T) {
	p := newTestProcessor(t, &fakeRecognizer{fragments: sampleFragments()}, false)
	if _, err := p.LoadImage(); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.ProcessPoints(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ProcessPoints: got %v, want context.Canceled", err)
	}
}

func TestCreateTranslatedMap(t *testing.T) {
	p := newTestProcessor(t, &fakeRecognizer{}, false)
	if _, err := p.LoadImage(); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	points := []Point{{ID: 1, TextRomanian: "Bălți", X: 50, Y: 60}}
	viz, err := p.CreateTranslatedMap(points)
	if err != nil {
		t.Fatalf("CreateTranslatedMap failed: %v", err)
	}
	if viz.Bounds() != image.Rect(0, 0, 200, 150) {
		t.Errorf("visualization bounds: got %v", viz.Bounds())
	}

	r, g, b, _ := viz.At(50, 60).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("point marker should be red, got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestProcess(t *testing.T) {
	rec := &fakeRecognizer{fragments: sampleFragments()}
	p := newTestProcessor(t, rec, true)

	points, err := p.Process(context.Background())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(points) != 2 {
		t.Errorf("expected 2 points, got %d", len(points))
	}
	if rec.calls != 1 {
		t.Errorf("recognizer called %d times, want 1", rec.calls)
	}

	for _, name := range []string{DebugEnhancedFile, VisualizationFile, CSVFile, ReportFile} {
		if _, err := os.Stat(filepath.Join(p.ResultsDir(), name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestProcess_NoText(t *testing.T) {
	p := newTestProcessor(t, &fakeRecognizer{}, false)

	points, err := p.Process(context.Background())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected no points, got %d", len(points))
	}

	data, err := os.ReadFile(filepath.Join(p.ResultsDir(), ReportFile))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "Număr total puncte detectate: 0") {
		t.Errorf("report should record zero points:\n%s", data)
	}
}

func TestRecognizePoints(t *testing.T) {
	rec := &fakeRecognizer{fragments: sampleFragments()}
	img := image.NewGray(image.Rect(0, 0, 10, 10))

	points, err := RecognizePoints(context.Background(), img, rec, translit.Default(), false)
	if err != nil {
		t.Fatalf("RecognizePoints failed: %v", err)
	}
	if len(points) != 2 || points[0].ID != 1 || points[1].ID != 2 {
		t.Fatalf("points: got %+v", points)
	}
	if rec.bounds != img.Bounds() {
		t.Errorf("recognizer got bounds %v, want %v", rec.bounds, img.Bounds())
	}
}

func TestRecognizePoints_CustomTables(t *testing.T) {
	rec := &fakeRecognizer{fragments: []ocr.Fragment{{Text: "абв"}}}
	tr := translit.New(translit.CharMap{'а': "A", 'б': "B"}, translit.PhraseDict{{Cyrillic: "в", Romanian: "w"}})

	points, err := RecognizePoints(context.Background(), image.NewGray(image.Rect(0, 0, 1, 1)), rec, tr, false)
	if err != nil {
		t.Fatalf("RecognizePoints failed: %v", err)
	}
	if points[0].TextRomanian != "ABw" {
		t.Errorf("TextRomanian: got %q, want ABw", points[0].TextRomanian)
	}
}
