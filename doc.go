// Package html2pdf renders a local HTML file to a single-page PDF using
// headless Chrome.
//
// # Quick Start
//
// Create a converter, convert a file, and close when done:
//
//	conv, err := html2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, html2pdf.ConversionRequest{
//	    SourcePath: "site/index.html",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Artifact.FinalPath)
//
// The page is sized to the rendered body, so the whole document fits on
// one page with no margins and no pagination.
//
// # Conversion Pipeline
//
//  1. Load the source and collect local head stylesheets and scripts
//  2. Open a tab with request interception (images become lossless WebP)
//  3. Load the page, then inject stylesheets, then scripts
//  4. Wait for network idle and fonts, measure the body
//  5. Print one page of exactly that size to <stem>.tmp.pdf
//  6. Reduce the PDF with Ghostscript to <stem>.pdf
//
// # Configuration
//
//	conv, err := html2pdf.NewConverter(
//	    html2pdf.WithTimeout(5 * time.Minute),
//	    html2pdf.WithOutputDir("out"),
//	    html2pdf.WithDPI(150),
//	    html2pdf.WithLogger(slog.Default()),
//	)
//
// Image substitution never fails a conversion: an image that cannot be
// fetched or transcoded is served to the page unmodified.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
//
// Size reduction requires Ghostscript (gs) unless another command is
// configured; it can be disabled with WithSizeReduction(false).
package html2pdf
