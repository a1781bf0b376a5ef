package document

// Notes:
// - Tests Prepare through its observable output (rendered HTML string).
// - Parse and Prepare must agree on which elements are injected: the
//   consistency test feeds the same document to both.

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrepare - Renderable HTML
// ---------------------------------------------------------------------------

func TestPrepare(t *testing.T) {
	t.Parallel()

	sourceDir := "/site"
	if runtime.GOOS == "windows" {
		sourceDir = `C:\site`
	}

	tests := []struct {
		name         string
		html         string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "base added for relative references",
			html:         `<html><head><title>T</title></head><body><img src="img/a.png"></body></html>`,
			wantContains: []string{`<base href="file:///`, `<img src="img/a.png"/>`},
		},
		{
			name: "local stylesheet and script removed",
			html: `<html><head><link rel="stylesheet" href="a.css"><script src="a.js"></script></head><body></body></html>`,
			wantExcludes: []string{`href="a.css"`, `src="a.js"`},
		},
		{
			name: "remote stylesheet and script kept",
			html: `<html><head><link rel="stylesheet" href="https://cdn/a.css"><script src="//cdn/a.js"></script></head></html>`,
			wantContains: []string{`href="https://cdn/a.css"`, `src="//cdn/a.js"`},
		},
		{
			name:         "inline style and script kept",
			html:         `<html><head><style>body{margin:0}</style><script>var x=1;</script></head></html>`,
			wantContains: []string{`<style>body{margin:0}</style>`, `<script>var x=1;</script>`},
		},
		{
			name:         "non-stylesheet links kept",
			html:         `<html><head><link rel="icon" href="favicon.png"></head></html>`,
			wantContains: []string{`href="favicon.png"`},
		},
		{
			name:         "body script kept",
			html:         `<html><head></head><body><script src="late.js"></script></body></html>`,
			wantContains: []string{`src="late.js"`},
		},
		{
			name:         "existing base kept",
			html:         `<html><head><base href="https://example.com/"></head></html>`,
			wantContains: []string{`<base href="https://example.com/"/>`},
			wantExcludes: []string{`file:///`},
		},
		{
			name:         "fragment document gets a head",
			html:         `<p>just a paragraph</p>`,
			wantContains: []string{`<head><base href="file:///`, `<p>just a paragraph</p>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Parse(filepath.Join(sourceDir, "index.html"), tt.html)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			got, err := doc.Prepare()
			if err != nil {
				t.Fatalf("Prepare() error = %v", err)
			}

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in:\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("expected %q NOT in:\n%s", exclude, got)
				}
			}
		})
	}
}

func TestPrepare_BaseIsFirstHeadChild(t *testing.T) {
	t.Parallel()

	doc, err := Parse("/site/index.html", `<html><head><meta charset="utf-8"><title>T</title></head></html>`)
	if err != nil {
		t.Fatal(err)
	}

	got, err := doc.Prepare()
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(got, `<head><base href=`) {
		t.Errorf("expected base as first head child, got:\n%s", got)
	}
}

func TestPrepare_AgreesWithParse(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<link rel="stylesheet" href="one.css">
<link rel="STYLESHEET alternate" href="two.css">
<link rel="stylesheet" href="https://cdn/three.css">
<script src="one.js"></script>
<script src="//cdn/two.js"></script>
</head><body></body></html>`

	doc, err := Parse("/site/index.html", html)
	if err != nil {
		t.Fatal(err)
	}
	got, err := doc.Prepare()
	if err != nil {
		t.Fatal(err)
	}

	// Every collected reference is gone from the prepared page...
	for _, ref := range append(append([]string{}, doc.Stylesheets...), doc.Scripts...) {
		if strings.Contains(got, `"`+ref+`"`) {
			t.Errorf("collected reference %q still present in prepared HTML", ref)
		}
	}
	// ...and every remote one is still there.
	for _, ref := range []string{"https://cdn/three.css", "//cdn/two.js"} {
		if !strings.Contains(got, ref) {
			t.Errorf("remote reference %q missing from prepared HTML", ref)
		}
	}
}
