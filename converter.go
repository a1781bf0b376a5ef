package html2pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/alnah/go-html2pdf/internal/document"
	"github.com/alnah/go-html2pdf/internal/fileutil"
	"github.com/alnah/go-html2pdf/internal/reducer"
	"github.com/alnah/go-html2pdf/internal/transcode"
)

// sizeReducer rewrites the PDF at input into a smaller file at output.
type sizeReducer interface {
	Reduce(ctx context.Context, input, output string) error
}

// Compile-time interface implementation checks.
var _ sizeReducer = (*reducer.Reducer)(nil)

// Converter renders local HTML files to single-page PDFs using headless Chrome.
// Create with NewConverter(), use Convert() for each document, and Close() when done.
type Converter struct {
	cfg        converterConfig
	logger     *slog.Logger
	transcoder substituter
	browser    browser
	reducer    sizeReducer
}

// NewConverter creates a Converter with default configuration: a 2m
// timeout, WebP transcoding at level 9 and size reduction at 300 DPI.
// The browser is launched lazily by the first conversion.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:     defaultTimeout,
			networkIdle: defaultNetworkIdle,
			transcode:   true,
			level:       transcode.DefaultLevel,
			reduce:      true,
		},
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transcoder == nil && c.cfg.transcode {
		c.transcoder = transcode.New(
			transcode.WithEncoder(transcode.NewWebPEncoder(c.cfg.level)),
			transcode.WithWorkers(c.cfg.workers),
		)
	}
	if c.reducer == nil && c.cfg.reduce {
		c.reducer = reducer.New(c.cfg.reducerOpts...)
	}
	if c.browser == nil {
		c.browser = newRodBrowser(c.cfg.browserBin, c.cfg.noSandbox)
	}

	return c, nil
}

// Convert renders req.SourcePath to a single-page PDF sized to its body.
//
// On a size-reduction failure the returned Result is non-nil: its
// Artifact.TempPath still holds the unreduced PDF.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, req ConversionRequest) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if req.SourcePath == "" {
		return nil, ErrEmptySource
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()
	defer func() {
		// Browser errors carry the deadline as text only.
		if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
			err = fmt.Errorf("%w: %w", err, ctx.Err())
		}
	}()

	logger := c.logger.With("conversion", uuid.NewString())
	logger.Info("converting", "source", req.SourcePath)

	doc, err := document.Load(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	logger.Debug("document loaded",
		"stylesheets", len(doc.Stylesheets),
		"scripts", len(doc.Scripts))

	prepared, err := doc.Prepare()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}

	htmlPath, cleanupHTML, err := fileutil.WriteTempFile(prepared, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	defer cleanupHTML()

	var interceptor *imageInterceptor
	if c.transcoder != nil {
		interceptor = newImageInterceptor(c.transcoder, logger)
	}

	sess, err := c.browser.NewSession(ctx, interceptor)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sess.Close() }()

	if err := sess.Load(ctx, fileutil.PathToFileURL(htmlPath), c.cfg.networkIdle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := injectResources(ctx, sess, doc); err != nil {
		return nil, err
	}

	geom, err := resolveGeometry(ctx, sess, c.cfg.networkIdle, c.cfg.strictGeometry, logger)
	if err != nil {
		return nil, err
	}

	title, err := sess.Title(ctx)
	if err != nil {
		logger.Warn("could not read page title", "error", err)
		title = ""
	}

	artifact := newArtifact(outputStem(req.OutputName, title, doc.Path), c.cfg.outputDir)
	if dir := filepath.Dir(artifact.FinalPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("%w: creating output directory: %v", ErrPDFEmission, err)
		}
	}

	if err := emitPDF(ctx, sess, geom, artifact.TempPath); err != nil {
		return nil, err
	}

	// The tab is not needed past this point; release it before the
	// reducer runs.
	if err := sess.Close(); err != nil {
		logger.Debug("closing session", "error", err)
	}

	verifyPDF(artifact.TempPath, geom, logger)

	result = &Result{Artifact: artifact, Geometry: geom, Title: title}
	if interceptor != nil {
		result.Images = interceptor.stats()
	}

	if err := c.finalize(ctx, artifact, logger); err != nil {
		return result, err
	}

	logger.Info("PDF generated", "path", artifact.FinalPath,
		"images_replaced", result.Images.Replaced,
		"images_passthrough", result.Images.Passthrough)
	return result, nil
}

// finalize turns the temp PDF into the final one, by reduction or rename.
// A failed reduction leaves the temp PDF in place.
func (c *Converter) finalize(ctx context.Context, artifact PDFArtifact, logger *slog.Logger) error {
	if c.reducer == nil {
		if err := os.Rename(artifact.TempPath, artifact.FinalPath); err != nil {
			return fmt.Errorf("%w: %v", ErrPDFEmission, err)
		}
		return nil
	}

	if err := c.reducer.Reduce(ctx, artifact.TempPath, artifact.FinalPath); err != nil {
		return fmt.Errorf("%w: %v", ErrSizeReduction, err)
	}

	if err := os.Remove(artifact.TempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not remove temporary PDF", "path", artifact.TempPath, "error", err)
	}
	return nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.browser != nil {
		return c.browser.Close()
	}
	return nil
}
