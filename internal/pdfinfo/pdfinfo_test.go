package pdfinfo_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-html2pdf/internal/pdfinfo"
)

// buildPDF renders a fixture with one page per size, in points.
// The first size is the document default, so its media box lives on the
// page tree root; later sizes get a per-page media box.
func buildPDF(t *testing.T, sizes ...gofpdf.SizeType) []byte {
	t.Helper()

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           sizes[0],
	})
	doc.AddPage()
	for _, size := range sizes[1:] {
		doc.AddPageFormat("P", size)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sizes      []gofpdf.SizeType
		wantPages  int
		wantWidth  float64
		wantHeight float64
	}{
		{
			name:       "single page 800x600 px",
			sizes:      []gofpdf.SizeType{{Wd: 600, Ht: 450}},
			wantPages:  1,
			wantWidth:  600,
			wantHeight: 450,
		},
		{
			name:       "tall page",
			sizes:      []gofpdf.SizeType{{Wd: 300, Ht: 5000}},
			wantPages:  1,
			wantWidth:  300,
			wantHeight: 5000,
		},
		{
			name:       "two pages reports first page",
			sizes:      []gofpdf.SizeType{{Wd: 200, Ht: 100}, {Wd: 400, Ht: 300}},
			wantPages:  2,
			wantWidth:  200,
			wantHeight: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info, err := pdfinfo.Parse(buildPDF(t, tt.sizes...))
			require.NoError(t, err)

			assert.Equal(t, tt.wantPages, info.Pages)
			assert.InDelta(t, tt.wantWidth, info.Width, 0.01)
			assert.InDelta(t, tt.wantHeight, info.Height, 0.01)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("not a pdf"), []byte("%PDF-1.4\ngarbage")} {
		_, err := pdfinfo.Parse(data)
		assert.ErrorIs(t, err, pdfinfo.ErrInvalidPDF, "input %q", data)
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, os.WriteFile(path, buildPDF(t, gofpdf.SizeType{Wd: 72, Ht: 144}), 0o600))

	info, err := pdfinfo.Read(path)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
	assert.True(t, info.SizeMatches(72, 144, 0.5))

	_, err = pdfinfo.Read(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestInfo_SizeMatches(t *testing.T) {
	t.Parallel()

	info := pdfinfo.Info{Pages: 1, Width: 600, Height: 450}

	assert.True(t, info.SizeMatches(600, 450, 0.5))
	assert.True(t, info.SizeMatches(600.4, 449.6, 0.5))
	assert.False(t, info.SizeMatches(601, 450, 0.5))
	assert.False(t, info.SizeMatches(600, 440, 0.5))
}
