package html2pdf

import (
	"path/filepath"
	"strings"
	"unicode"
)

const (
	pdfExt     = ".pdf"
	tempPDFExt = ".tmp.pdf"
)

// outputStem picks the base name of the output files.
//
// Rules, in order:
//   - explicit output name: one trailing ".pdf" (any case) removed
//   - page title: whitespace and path separators become "-", lowercased
//   - source file name without its extension
func outputStem(outputName, title, sourcePath string) string {
	if outputName != "" {
		if strings.HasSuffix(strings.ToLower(outputName), pdfExt) {
			return outputName[:len(outputName)-len(pdfExt)]
		}
		return outputName
	}

	if strings.TrimSpace(title) != "" {
		return slugifyTitle(title)
	}

	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// slugifyTitle replaces every whitespace rune and path separator with "-"
// and lowercases the result. "My Report" becomes "my-report".
func slugifyTitle(title string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			return '-'
		}
		return unicode.ToLower(r)
	}, title)
}

// newArtifact derives the temp and final paths for stem. A relative stem
// is placed in outputDir when one is set.
func newArtifact(stem, outputDir string) PDFArtifact {
	if outputDir != "" && !filepath.IsAbs(stem) {
		stem = filepath.Join(outputDir, stem)
	}
	return PDFArtifact{
		TempPath:  stem + tempPDFExt,
		FinalPath: stem + pdfExt,
	}
}
