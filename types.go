package html2pdf

import (
	"log/slog"
	"time"

	"github.com/alnah/go-html2pdf/internal/config"
	"github.com/alnah/go-html2pdf/internal/reducer"
	"github.com/alnah/go-html2pdf/internal/transcode"
)

// ConversionRequest identifies one document to convert.
type ConversionRequest struct {
	SourcePath string // HTML file to render
	OutputName string // optional; "report" or "report.pdf" both yield report.pdf
}

// ContentGeometry is the rendered size of the document body in CSS pixels.
// The zero value means the body could not be measured.
type ContentGeometry struct {
	Width  float64
	Height float64
}

// IsZero reports whether g is the zero value.
func (g ContentGeometry) IsZero() bool {
	return g == ContentGeometry{}
}

// HasArea reports whether both sides are positive.
func (g ContentGeometry) HasArea() bool {
	return g.Width > 0 && g.Height > 0
}

// PDFArtifact names the files produced by a conversion.
// TempPath holds the emitted PDF until the size reducer has produced FinalPath.
type PDFArtifact struct {
	TempPath  string
	FinalPath string
}

// ImageStats counts how intercepted image requests were resolved.
type ImageStats struct {
	Replaced    int // served as lossless WebP
	Passthrough int // continued unmodified
}

// Result describes a completed conversion.
type Result struct {
	Artifact PDFArtifact
	Geometry ContentGeometry
	Title    string
	Images   ImageStats
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	networkIdle    time.Duration
	strictGeometry bool
	outputDir      string
	transcode      bool
	workers        int
	level          int
	reduce         bool
	reducerOpts    []reducer.Option
	browserBin     string
	noSandbox      bool
}

// Defaults applied by NewConverter.
const (
	defaultTimeout     = config.DefaultTimeout
	defaultNetworkIdle = config.DefaultNetworkIdle
)

// WithTimeout bounds a whole conversion, from loading to size reduction.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("html2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithNetworkIdle sets how long the page must have no in-flight request
// before it is measured.
func WithNetworkIdle(d time.Duration) Option {
	return func(c *Converter) {
		c.cfg.networkIdle = max(d, 0)
	}
}

// WithStrictGeometry makes an unmeasurable body fail the conversion with
// ErrGeometryMeasurement instead of emitting a degenerate page.
func WithStrictGeometry(strict bool) Option {
	return func(c *Converter) {
		c.cfg.strictGeometry = strict
	}
}

// WithOutputDir places relative output names in dir.
func WithOutputDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.outputDir = dir
	}
}

// WithTranscoding enables or disables WebP image substitution.
// Enabled by default.
func WithTranscoding(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.transcode = enabled
	}
}

// WithTranscodeWorkers bounds concurrent image encodes.
// Zero means GOMAXPROCS.
func WithTranscodeWorkers(n int) Option {
	return func(c *Converter) {
		c.cfg.workers = n
	}
}

// WithTranscodeLevel sets the lossless WebP effort, 0 (fast) to 9 (smallest).
func WithTranscodeLevel(level int) Option {
	return func(c *Converter) {
		c.cfg.level = level
	}
}

// WithSizeReduction enables or disables the size-reduction step.
// When disabled the emitted PDF is renamed to the final path.
func WithSizeReduction(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.reduce = enabled
	}
}

// WithDPI sets the resolution images are downsampled to by the reducer.
func WithDPI(dpi int) Option {
	return WithReducer(reducer.WithDPI(dpi))
}

// WithReducerCommand replaces the embedded Ghostscript script with command.
// It is invoked as: command -r <dpi> -o <output> <input>.
func WithReducerCommand(command string) Option {
	return WithReducer(reducer.WithCommand(command))
}

// WithReducer configures the size reducer (command, script, DPI).
func WithReducer(opts ...reducer.Option) Option {
	return func(c *Converter) {
		c.cfg.reducerOpts = append(c.cfg.reducerOpts, opts...)
	}
}

// WithBrowser selects the browser binary and sandbox mode. An empty bin
// defers to ROD_BROWSER_BIN, then auto-detection.
func WithBrowser(bin string, noSandbox bool) Option {
	return func(c *Converter) {
		c.cfg.browserBin = bin
		c.cfg.noSandbox = noSandbox
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// withTranscoder replaces the image substituter (tests).
func withTranscoder(s substituter) Option {
	return func(c *Converter) {
		c.transcoder = s
	}
}

// withBrowser replaces the browser backend (tests).
func withBrowser(b browser) Option {
	return func(c *Converter) {
		c.browser = b
	}
}

// withSizeReducer replaces the size reducer (tests).
func withSizeReducer(r sizeReducer) Option {
	return func(c *Converter) {
		c.reducer = r
	}
}

// Compile-time check that the transcode package satisfies substituter.
var _ substituter = (*transcode.Transcoder)(nil)
