package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Label is one annotation placed on the map.
type Label struct {
	// X, Y is the point the label belongs to.
	X int `json:"x"`
	Y int `json:"y"`

	// Text is drawn to the upper right of the point.
	Text string `json:"text"`
}

// LabelStyle controls how DrawLabels renders points and text.
type LabelStyle struct {
	PointColor      string `json:"point_color" mapstructure:"point_color"`
	TextColor       string `json:"text_color" mapstructure:"text_color"`
	BackgroundColor string `json:"background_color" mapstructure:"background_color"`
	PointRadius     int    `json:"point_radius" mapstructure:"point_radius"`

	// ASCIIOnly strips diacritics so the bitmap font can draw every letter.
	ASCIIOnly bool `json:"ascii_only" mapstructure:"ascii_only"`
}

// DefaultLabelStyle returns red points with white text on black boxes.
func DefaultLabelStyle() LabelStyle {
	return LabelStyle{
		PointColor:      "#FF0000",
		TextColor:       "#FFFFFF",
		BackgroundColor: "#000000",
		PointRadius:     7,
		ASCIIOnly:       true,
	}
}

var labelFace = basicfont.Face7x13

// DrawLabels returns a copy of img with every label drawn on it.
//
// For a label at (x, y) with text of width w and ascent h it draws:
//   - a filled circle of PointRadius centred on (x, y)
//   - a background box from (x+10, y-h-10) to (x+w+20, y)
//   - the text with its baseline starting at (x+15, y-5)
//
// Anything falling outside the image is clipped.
func DrawLabels(img image.Image, labels []Label, style LabelStyle) (*image.RGBA, error) {
	pointColor, err := parseHexColor(style.PointColor)
	if err != nil {
		return nil, fmt.Errorf("invalid point color: %w", err)
	}
	textColor, err := parseHexColor(style.TextColor)
	if err != nil {
		return nil, fmt.Errorf("invalid text color: %w", err)
	}
	bgColor, err := parseHexColor(style.BackgroundColor)
	if err != nil {
		return nil, fmt.Errorf("invalid background color: %w", err)
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	ascent := labelFace.Metrics().Ascent.Ceil()
	for _, l := range labels {
		text := l.Text
		if style.ASCIIOnly {
			text = FoldToASCII(text)
		}

		fillCircle(result, l.X, l.Y, style.PointRadius, pointColor)

		width := font.MeasureString(labelFace, text).Ceil()
		box := image.Rect(l.X+10, l.Y-ascent-10, l.X+width+20, l.Y)
		draw.Draw(result, box, image.NewUniform(bgColor), image.Point{}, draw.Over)

		d := &font.Drawer{
			Dst:  result,
			Src:  image.NewUniform(textColor),
			Face: labelFace,
			Dot:  fixed.P(l.X+15, l.Y-5),
		}
		d.DrawString(text)
	}

	return result, nil
}

// MeasureLabel returns the pixel width and ascent of text in the label font.
func MeasureLabel(text string) (width, height int) {
	return font.MeasureString(labelFace, text).Ceil(), labelFace.Metrics().Ascent.Ceil()
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.Color) {
	if r <= 0 {
		return
	}
	bounds := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			px, py := cx+dx, cy+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, c)
			}
		}
	}
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldToASCII removes combining marks, turning "ținutul" into "tinutul".
// Letters without a decomposition are left as they are.
func FoldToASCII(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	hex = strings.TrimPrefix(hex, "#")

	alpha := uint8(255)
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, err
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
