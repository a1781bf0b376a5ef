//go:build integration

package html2pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-html2pdf/internal/pdfinfo"
)

func writePNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestConvert_Integration(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html": `<!doctype html><html><head>
<title>My Report</title>
<link rel="stylesheet" href="css/page.css">
<link rel="stylesheet" href="https://unreachable.invalid/x.css">
<script src="js/grow.js"></script>
</head><body>
<img src="img/a.png" width="16" height="16">
<img src="img/missing.png" width="16" height="16">
</body></html>`,
		"css/page.css": `html,body{margin:0;padding:0} body{width:800px;height:500px}`,
		"js/grow.js":   `document.body.style.height = "600px";`,
	})
	writePNG(t, filepath.Join(dir, "img", "a.png"))

	outDir := t.TempDir()
	conv, err := NewConverter(
		WithTimeout(testTimeout),
		WithSizeReduction(false),
		WithOutputDir(outDir),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conv.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	res, err := conv.Convert(ctx, ConversionRequest{SourcePath: filepath.Join(dir, "index.html")})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if got, want := res.Artifact.FinalPath, filepath.Join(outDir, "my-report.pdf"); got != want {
		t.Errorf("FinalPath = %q, want %q", got, want)
	}
	if res.Geometry != (ContentGeometry{Width: 800, Height: 600}) {
		t.Errorf("Geometry = %+v, want 800x600", res.Geometry)
	}
	if res.Images.Replaced < 1 {
		t.Errorf("expected the local PNG to be transcoded, stats = %+v", res.Images)
	}

	info, err := pdfinfo.Read(res.Artifact.FinalPath)
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}
	if info.Pages != 1 {
		t.Errorf("Pages = %d, want 1", info.Pages)
	}
	if !info.SizeMatches(600, 450, sizeTolerancePoints) {
		t.Errorf("page = %vx%v pt, want 600x450", info.Width, info.Height)
	}
}

func TestConvert_Integration_ExplicitName(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html": `<html><head><title>Ignored</title></head><body style="margin:0;width:200px;height:100px"></body></html>`,
	})
	outDir := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	res, err := testConverter.Convert(ctx, ConversionRequest{
		SourcePath: filepath.Join(dir, "index.html"),
		OutputName: filepath.Join(outDir, "report.pdf"),
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if got, want := res.Artifact.FinalPath, filepath.Join(outDir, "report.pdf"); got != want {
		t.Errorf("FinalPath = %q, want %q", got, want)
	}
	if got, want := res.Artifact.TempPath, filepath.Join(outDir, "report.tmp.pdf"); got != want {
		t.Errorf("TempPath = %q, want %q", got, want)
	}
	if _, err := os.Stat(res.Artifact.FinalPath); err != nil {
		t.Errorf("final PDF missing: %v", err)
	}
}
