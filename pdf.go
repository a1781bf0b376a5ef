package html2pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-html2pdf/internal/pdfinfo"
)

// CSS pixels per inch; PagePrintToPDF takes paper size in inches.
const cssPixelsPerInch = 96.0

// minPaperPixels keeps a degenerate geometry printable. Chrome rejects a
// zero paper size.
const minPaperPixels = 1.0

// sizeTolerancePoints is the accepted drift between geometry and page size.
const sizeTolerancePoints = 0.5

// paperInches converts geom to paper size, clamping each side to
// minPaperPixels.
func paperInches(geom ContentGeometry) (width, height float64) {
	return max(geom.Width, minPaperPixels) / cssPixelsPerInch,
		max(geom.Height, minPaperPixels) / cssPixelsPerInch
}

// buildPDFOptions sizes a single page to geom with no margins.
func buildPDFOptions(geom ContentGeometry) *proto.PagePrintToPDF {
	width, height := paperInches(geom)
	return &proto.PagePrintToPDF{
		PaperWidth:        floatPtr(width),
		PaperHeight:       floatPtr(height),
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
		PrintBackground:   true,
		PreferCSSPageSize: false,
		PageRanges:        "1",
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// emitPDF prints the session to path.
func emitPDF(ctx context.Context, sess renderSession, geom ContentGeometry, path string) error {
	data, err := sess.PDF(ctx, buildPDFOptions(geom))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFEmission, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- output is a user document
		return fmt.Errorf("%w: writing %s: %v", ErrPDFEmission, path, err)
	}
	return nil
}

// verifyPDF logs a warning when the emitted file is not one page of the
// printed paper size. It never fails the conversion.
func verifyPDF(path string, geom ContentGeometry, logger *slog.Logger) {
	info, err := pdfinfo.Read(path)
	if err != nil {
		logger.Warn("could not inspect emitted PDF", "path", path, "error", err)
		return
	}

	if info.Pages != 1 {
		logger.Warn("emitted PDF is not a single page", "path", path, "pages", info.Pages)
	}

	width, height := paperInches(geom)
	wantW := width * pdfinfo.PointsPerInch
	wantH := height * pdfinfo.PointsPerInch
	if !info.SizeMatches(wantW, wantH, sizeTolerancePoints) {
		logger.Warn("emitted page size differs from content geometry",
			"path", path,
			"width_pt", info.Width, "height_pt", info.Height,
			"want_width_pt", wantW, "want_height_pt", wantH)
	}
}
