package mapproc

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/map-translate/internal/imaging"
)

var csvHeader = []string{
	"id", "text_original", "text_romanian", "confidence",
	"x", "y", "x1", "y1", "x2", "y2",
}

// ExportResults writes the visualization, CSV and report into the results directory.
func (p *Processor) ExportResults(points []Point, visualization image.Image) error {
	if err := imaging.Save(visualization, filepath.Join(p.resultsDir, VisualizationFile)); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(p.resultsDir, CSVFile), func(w io.Writer) error {
		return WriteCSV(w, points)
	}); err != nil {
		return err
	}

	return writeFile(filepath.Join(p.resultsDir, ReportFile), func(w io.Writer) error {
		return WriteReport(w, p.imagePath, p.opts.Now(), points)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// WriteCSV writes points as UTF-8 CSV with a header row.
func WriteCSV(w io.Writer, points []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, pt := range points {
		record := []string{
			strconv.Itoa(pt.ID),
			pt.TextOriginal,
			pt.TextRomanian,
			strconv.FormatFloat(pt.Confidence, 'f', 2, 64),
			strconv.Itoa(pt.X),
			strconv.Itoa(pt.Y),
			strconv.Itoa(pt.Bounds.X1),
			strconv.Itoa(pt.Bounds.Y1),
			strconv.Itoa(pt.Bounds.X2),
			strconv.Itoa(pt.Bounds.Y2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReport writes the human-readable report. Headings are in Romanian.
func WriteReport(w io.Writer, imagePath string, date time.Time, points []Point) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Raport procesare hartă: %s\n", imagePath)
	fmt.Fprintf(&b, "Data procesării: %s\n", date.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Număr total puncte detectate: %d\n\n", len(points))

	separator := strings.Repeat("-", 50)
	for _, pt := range points {
		fmt.Fprintf(&b, "ID: %d\n", pt.ID)
		fmt.Fprintf(&b, "Text original: %s\n", pt.TextOriginal)
		fmt.Fprintf(&b, "Text română: %s\n", pt.TextRomanian)
		fmt.Fprintf(&b, "Coordonate: (%d, %d)\n", pt.X, pt.Y)
		fmt.Fprintf(&b, "Încredere: %.2f\n", pt.Confidence)
		b.WriteString(separator + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
