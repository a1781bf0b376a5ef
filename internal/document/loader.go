package document

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-html2pdf/internal/fileutil"
)

// Sentinel errors for document operations.
var (
	ErrEmptyPath = errors.New("source path cannot be empty")
	ErrRead      = errors.New("failed to read source document")
	ErrParse     = errors.New("failed to parse source document")
	ErrRemoteRef = errors.New("reference is not local")
	ErrEmptyRef  = errors.New("reference has no path")
)

// Document is a source HTML file and the local resources it references.
// It is read-only once loaded.
type Document struct {
	Path        string   // absolute path of the source file
	Dir         string   // directory every relative reference resolves against
	Raw         string   // file content as read
	Stylesheets []string // local <link rel="stylesheet"> hrefs, document order
	Scripts     []string // local <script src> values, document order
}

// Load reads the file at path and parses its head for local resources.
func Load(path string) (*Document, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	data, err := os.ReadFile(absPath) // #nosec G304 -- user-provided source path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	return Parse(absPath, string(data))
}

// Parse builds a Document from raw HTML as if it had been read from path.
func Parse(path, raw string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	d := &Document{
		Path: path,
		Dir:  filepath.Dir(path),
		Raw:  raw,
	}

	seenStyles := make(map[string]bool)
	doc.Find("head link[href]").Each(func(_ int, s *goquery.Selection) {
		if !isStylesheetLink(s) {
			return
		}
		href, _ := s.Attr("href")
		if ref, ok := localRef(href, seenStyles); ok {
			d.Stylesheets = append(d.Stylesheets, ref)
		}
	})

	seenScripts := make(map[string]bool)
	doc.Find("head script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if ref, ok := localRef(src, seenScripts); ok {
			d.Scripts = append(d.Scripts, ref)
		}
	})

	return d, nil
}

// Resolve maps a local reference to an absolute filesystem path.
// Relative references resolve against the document directory; query
// strings and fragments are ignored.
func (d *Document) Resolve(ref string) (string, error) {
	if fileutil.IsRemoteRef(ref) {
		return "", fmt.Errorf("%w: %s", ErrRemoteRef, ref)
	}
	if strings.HasPrefix(ref, "file://") {
		return fileutil.FileURLToPath(ref)
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing reference %q: %w", ref, err)
	}
	if u.Path == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptyRef, ref)
	}

	p := filepath.FromSlash(u.Path)
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Join(d.Dir, p), nil
}

// isStylesheetLink matches rel as a case-insensitive token list.
func isStylesheetLink(s *goquery.Selection) bool {
	rel, ok := s.Attr("rel")
	if !ok {
		return false
	}
	return hasToken(rel, "stylesheet")
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}

// localRef trims a reference and reports whether it should be injected.
// Remote, empty and already-seen references are rejected.
func localRef(raw string, seen map[string]bool) (string, bool) {
	ref := strings.TrimSpace(raw)
	if !IsLocal(ref) || seen[ref] {
		return "", false
	}
	seen[ref] = true
	return ref, true
}

// IsLocal reports whether ref names a resource on the local filesystem.
func IsLocal(ref string) bool {
	return ref != "" && !fileutil.IsRemoteRef(ref)
}
