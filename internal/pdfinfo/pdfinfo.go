// Package pdfinfo reads the page count and first-page size of a PDF.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ledongthuc/pdf"
)

// Sentinel errors for PDF inspection.
var (
	ErrInvalidPDF = errors.New("invalid PDF")
	ErrNoPages    = errors.New("PDF has no pages")
	ErrNoMediaBox = errors.New("PDF page has no media box")
)

// PointsPerInch is the PDF user-space unit density.
const PointsPerInch = 72.0

// Info describes an emitted PDF. Width and Height are in points and come
// from the first page's media box.
type Info struct {
	Pages  int
	Width  float64
	Height float64
}

// SizeMatches reports whether the first page measures width x height
// points within tolerance.
func (i Info) SizeMatches(width, height, tolerance float64) bool {
	return math.Abs(i.Width-width) <= tolerance && math.Abs(i.Height-height) <= tolerance
}

// Read inspects the PDF file at path.
func Read(path string) (Info, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path produced by the emitter
	if err != nil {
		return Info{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse inspects an in-memory PDF.
func Parse(data []byte) (info Info, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	info.Pages = reader.NumPage()
	if info.Pages == 0 {
		return info, ErrNoPages
	}

	box := inherited(reader.Page(1).V, "MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return info, ErrNoMediaBox
	}

	info.Width = math.Abs(box.Index(2).Float64() - box.Index(0).Float64())
	info.Height = math.Abs(box.Index(3).Float64() - box.Index(1).Float64())
	return info, nil
}

// inherited looks key up on the page and then up its Parent chain.
// MediaBox is commonly declared once on the page tree root.
func inherited(page pdf.Value, key string) pdf.Value {
	for v := page; !v.IsNull(); v = v.Key("Parent") {
		if found := v.Key(key); !found.IsNull() {
			return found
		}
	}
	return pdf.Value{}
}
