package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"DrawSync/internal/canvas"
)

// pxPerMM scales canvas pixel coordinates onto an A4 page.
const pxPerMM = 3.0

// ToPDF renders a canvas stroke log to a PDF file, one line per stroke.
func ToPDF(path string, strokes []canvas.Stroke) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()

	for _, s := range strokes {
		r, g, b := parseHexColor(s.Color)
		p.SetDrawColor(r, g, b)
		p.SetLineWidth(lineWidth(s.Size))
		p.Line(
			float64(s.StartX)/pxPerMM, float64(s.StartY)/pxPerMM,
			float64(s.EndX)/pxPerMM, float64(s.EndY)/pxPerMM,
		)
	}
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func lineWidth(size int) float64 {
	if size < 1 {
		size = 1
	}
	return float64(size) / pxPerMM
}

// parseHexColor reads a "#RRGGBB" color, falling back to black for anything
// it cannot parse.
func parseHexColor(c string) (r, g, b int) {
	if len(c) != 7 || c[0] != '#' {
		return 0, 0, 0
	}
	if _, err := fmt.Sscanf(c[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return r, g, b
}
