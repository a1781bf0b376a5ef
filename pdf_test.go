package html2pdf

// Notes:
// - buildPDFOptions is checked field by field; the paper size is the
//   geometry in inches at 96 CSS px per inch.
// - verifyPDF only logs. Its warnings are captured with a text handler.

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestBuildPDFOptions - Print parameters
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		geom       ContentGeometry
		wantWidth  float64
		wantHeight float64
	}{
		{name: "800x600", geom: ContentGeometry{Width: 800, Height: 600}, wantWidth: 800.0 / 96, wantHeight: 600.0 / 96},
		{name: "fractional", geom: ContentGeometry{Width: 1000.5, Height: 0.5}, wantWidth: 1000.5 / 96, wantHeight: 1.0 / 96},
		{name: "zero clamped", geom: ContentGeometry{}, wantWidth: 1.0 / 96, wantHeight: 1.0 / 96},
		{name: "zero height keeps width", geom: ContentGeometry{Width: 800}, wantWidth: 800.0 / 96, wantHeight: 1.0 / 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := buildPDFOptions(tt.geom)

			if *opts.PaperWidth != tt.wantWidth || *opts.PaperHeight != tt.wantHeight {
				t.Errorf("paper = %vx%v, want %vx%v", *opts.PaperWidth, *opts.PaperHeight, tt.wantWidth, tt.wantHeight)
			}
			for name, m := range map[string]*float64{
				"top": opts.MarginTop, "bottom": opts.MarginBottom,
				"left": opts.MarginLeft, "right": opts.MarginRight,
			} {
				if m == nil || *m != 0 {
					t.Errorf("margin %s = %v, want 0", name, m)
				}
			}
			if !opts.PrintBackground {
				t.Error("PrintBackground should be true")
			}
			if opts.PreferCSSPageSize {
				t.Error("PreferCSSPageSize should be false")
			}
			if opts.PageRanges != "1" {
				t.Errorf("PageRanges = %q, want %q", opts.PageRanges, "1")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEmitPDF - Writing the temp artifact
// ---------------------------------------------------------------------------

func TestEmitPDF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.tmp.pdf")
	sess := &mockSession{}

	if err := emitPDF(context.Background(), sess, ContentGeometry{Width: 96, Height: 96}, path); err != nil {
		t.Fatalf("emitPDF() error = %v", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestEmitPDF_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sess *mockSession
		path string
	}{
		{name: "print fails", sess: &mockSession{pdfErr: errors.New("boom")}, path: filepath.Join(t.TempDir(), "a.pdf")},
		{name: "write fails", sess: &mockSession{}, path: filepath.Join(t.TempDir(), "missing", "dir", "a.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := emitPDF(context.Background(), tt.sess, ContentGeometry{Width: 10, Height: 10}, tt.path)
			if !errors.Is(err, ErrPDFEmission) {
				t.Errorf("emitPDF() error = %v, want ErrPDFEmission", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestVerifyPDF - Post-emission check
// ---------------------------------------------------------------------------

func TestVerifyPDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePDF := func(name string, w, h float64) string {
		t.Helper()
		data, err := blankPDF(w, h)
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}
	garbage := filepath.Join(dir, "garbage.pdf")
	if err := os.WriteFile(garbage, []byte("not a pdf"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		geom     ContentGeometry
		wantWarn string
	}{
		{name: "matching size", path: writePDF("ok.pdf", 600, 450), geom: ContentGeometry{Width: 800, Height: 600}},
		{name: "within tolerance", path: writePDF("near.pdf", 600.3, 450), geom: ContentGeometry{Width: 800, Height: 600}},
		{name: "size mismatch", path: writePDF("bad.pdf", 300, 450), geom: ContentGeometry{Width: 800, Height: 600}, wantWarn: "differs from content geometry"},
		{name: "zero geometry uses clamped size", path: writePDF("tiny.pdf", 0.75, 0.75), geom: ContentGeometry{}},
		{name: "zero height uses clamped size", path: writePDF("flat.pdf", 600, 0.75), geom: ContentGeometry{Width: 800}},
		{name: "clamped size mismatch", path: writePDF("big.pdf", 600, 450), geom: ContentGeometry{Width: 800}, wantWarn: "differs from content geometry"},
		{name: "unreadable", path: garbage, geom: ContentGeometry{Width: 1, Height: 1}, wantWarn: "could not inspect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			verifyPDF(tt.path, tt.geom, logger)

			got := buf.String()
			if tt.wantWarn == "" && got != "" {
				t.Errorf("unexpected log output: %s", got)
			}
			if tt.wantWarn != "" && !strings.Contains(got, tt.wantWarn) {
				t.Errorf("expected warning %q, got: %s", tt.wantWarn, got)
			}
		})
	}
}
