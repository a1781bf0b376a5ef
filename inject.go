package html2pdf

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-html2pdf/internal/document"
	"github.com/alnah/go-html2pdf/internal/fileutil"
)

// localResource is a head reference resolved to a file on disk.
type localResource struct {
	ref  string // as written in the document
	path string // absolute filesystem path
}

// injectResources pushes every local stylesheet, then every local script,
// into the session. Each kind is one batch whose elements are appended in
// document order and load concurrently; a failed load aborts the run.
func injectResources(ctx context.Context, sess renderSession, doc *document.Document) error {
	styles, err := resolveResources(doc, doc.Stylesheets)
	if err != nil {
		return err
	}
	scripts, err := resolveResources(doc, doc.Scripts)
	if err != nil {
		return err
	}

	if err := injectBatch(ctx, sess, kindStyle, styles); err != nil {
		return err
	}
	return injectBatch(ctx, sess, kindScript, scripts)
}
// resolveResources maps refs to existing files. Refs naming the same file
// are injected once.
func resolveResources(doc *document.Document, refs []string) ([]localResource, error) {
	seen := make(map[string]bool, len(refs))
	out := make([]localResource, 0, len(refs))

	for _, ref := range refs {
		path, err := doc.Resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrResourceInjection, ref, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrResourceInjection, ref, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s: is a directory", ErrResourceInjection, ref)
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, localResource{ref: ref, path: path})
	}
	return out, nil
}

// injectBatch hands the whole batch to the session in one call and maps a
// failed URL back to the ref the document wrote.
func injectBatch(ctx context.Context, sess renderSession, kind resourceKind, resources []localResource) error {
	if len(resources) == 0 {
		return nil
	}

	urls := make([]string, len(resources))
	refs := make(map[string]string, len(resources))
	for i, r := range resources {
		urls[i] = fileutil.PathToFileURL(r.path)
		refs[urls[i]] = r.ref
	}

	err := sess.Inject(ctx, kind, urls)
	if err == nil {
		return nil
	}

	var loadErr *resourceLoadError
	if errors.As(err, &loadErr) {
		if ref, ok := refs[loadErr.URL]; ok {
			return fmt.Errorf("%w: %s: %v", ErrResourceInjection, ref, err)
		}
	}
	return fmt.Errorf("%w: %s batch: %v", ErrResourceInjection, kind, err)
}
