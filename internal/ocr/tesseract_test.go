package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textImage renders text in black on white, scaled up so Tesseract can read it.
func textImage(text string, scale int) image.Image {
	width := len(text)*7 + 40
	height := 40

	small := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(20, 25),
	}
	d.DrawString(text)

	big := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	for y := 0; y < height*scale; y++ {
		for x := 0; x < width*scale; x++ {
			big.Set(x, y, small.At(x/scale, y/scale))
		}
	}
	return big
}

func skipWithoutTesseract(t *testing.T, err error) {
	t.Helper()
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "tesseract") || strings.Contains(msg, "language") ||
		strings.Contains(msg, "library") || strings.Contains(msg, "tess") {
		t.Skipf("Tesseract not available: %v", err)
	}
}

func TestBounds_Center(t *testing.T) {
	tests := []struct {
		b            Bounds
		wantX, wantY int
	}{
		{Bounds{0, 0, 10, 10}, 5, 5},
		{Bounds{10, 20, 15, 25}, 12, 22},
		{Bounds{3, 3, 3, 3}, 3, 3},
		{Bounds{0, 0, 1, 1}, 0, 0},
	}

	for _, tt := range tests {
		x, y := tt.b.Center()
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("%+v.Center() = (%d,%d), want (%d,%d)", tt.b, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestLevel_IteratorLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  gosseract.PageIteratorLevel
	}{
		{LevelWord, gosseract.RIL_WORD},
		{LevelLine, gosseract.RIL_TEXTLINE},
		{"", gosseract.RIL_TEXTLINE},
		{LevelBlock, gosseract.RIL_BLOCK},
	}

	for _, tt := range tests {
		got, err := tt.level.iteratorLevel()
		if err != nil {
			t.Fatalf("iteratorLevel(%q) failed: %v", tt.level, err)
		}
		if got != tt.want {
			t.Errorf("iteratorLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}

	if _, err := Level("paragraph").iteratorLevel(); err == nil {
		t.Error("unknown level should fail")
	}
}

func TestFilterBoxes(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{Box: image.Rect(10, 20, 60, 40), Word: "Сорока\n", Confidence: 91},
		{Box: image.Rect(0, 0, 5, 5), Word: "  ", Confidence: 99},
		{Box: image.Rect(70, 20, 90, 40), Word: "км", Confidence: 30},
		{Box: image.Rect(100, 50, 180, 70), Word: "Орхей", Confidence: 55},
	}

	got := filterBoxes(boxes, 0.5)
	if len(got) != 2 {
		t.Fatalf("got %d fragments, want 2: %+v", len(got), got)
	}

	if got[0].Text != "Сорока" {
		t.Errorf("Text: got %q, want %q", got[0].Text, "Сорока")
	}
	if got[0].Confidence != 0.91 {
		t.Errorf("Confidence: got %v, want 0.91", got[0].Confidence)
	}
	if got[0].Bounds != (Bounds{10, 20, 60, 40}) {
		t.Errorf("Bounds: got %+v", got[0].Bounds)
	}
	if got[1].Text != "Орхей" {
		t.Errorf("second fragment: got %q, want %q", got[1].Text, "Орхей")
	}

	if all := filterBoxes(boxes, 0); len(all) != 3 {
		t.Errorf("without threshold: got %d fragments, want 3", len(all))
	}
}

func TestTesseract_Recognize_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tess := &Tesseract{}
	_, err := tess.Recognize(ctx, image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestTesseract_Recognize_UnknownLevel(t *testing.T) {
	tess := &Tesseract{Level: "page"}
	if _, err := tess.Recognize(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10))); err == nil {
		t.Error("Recognize should fail for an unknown level")
	}
}

func TestTesseract_Recognize(t *testing.T) {
	tess := &Tesseract{Languages: []string{"eng"}, Level: LevelWord}

	fragments, err := tess.Recognize(context.Background(), textImage("HELLO WORLD", 4))
	if err != nil {
		skipWithoutTesseract(t, err)
		t.Fatalf("Recognize failed: %v", err)
	}

	var words []string
	for _, f := range fragments {
		if f.Confidence < 0 || f.Confidence > 1 {
			t.Errorf("confidence out of range: %v", f.Confidence)
		}
		if f.Bounds.X2 < f.Bounds.X1 || f.Bounds.Y2 < f.Bounds.Y1 {
			t.Errorf("inverted bounds: %+v", f.Bounds)
		}
		words = append(words, f.Text)
	}
	t.Logf("recognized: %v", words)
}

func TestTesseract_GetInfo(t *testing.T) {
	info := (&Tesseract{}).GetInfo()
	if info.Backend != "gosseract" {
		t.Errorf("Backend: got %s, want gosseract", info.Backend)
	}
	if len(info.Languages) != len(DefaultLanguages) {
		t.Errorf("Languages: got %v, want %v", info.Languages, DefaultLanguages)
	}
	if !info.Available {
		t.Skip("Tesseract not available")
	}
	if info.Version == "" {
		t.Error("Version should be set when available")
	}
}
