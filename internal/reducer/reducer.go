// Package reducer runs the external PDF size-reduction command.
//
// The command contract is `<command> -r <dpi> -o <output> <input>`. When no
// command is configured the reducer script from internal/assets is written
// to a temp file and run with sh.
package reducer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-html2pdf/internal/assets"
	"github.com/alnah/go-html2pdf/internal/fileutil"
	"github.com/alnah/go-html2pdf/internal/process"
)

// DefaultDPI is the target image resolution passed to the reducer.
const DefaultDPI = 300

// scriptShell runs embedded and custom reducer scripts.
const scriptShell = "sh"

// stderrTail is how much reducer stderr is kept in error messages.
const stderrTail = 2048

// Sentinel errors for size reduction.
var (
	ErrReduce        = errors.New("size reduction command failed")
	ErrOutputMissing = errors.New("size reduction produced no output")
	ErrInvalidDPI    = errors.New("dpi must be positive")
)

// Reducer invokes the size-reduction command. It is stateless between calls.
type Reducer struct {
	command []string
	script  string
	loader  assets.AssetLoader
	dpi     int
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithCommand sets an explicit reducer command line, split on whitespace.
// An empty command selects the script from WithScript.
func WithCommand(command string) Option {
	return func(r *Reducer) {
		r.command = strings.Fields(command)
	}
}

// WithScript selects the reducer script by name. Defaults to
// assets.DefaultReducerScript.
func WithScript(name string) Option {
	return func(r *Reducer) {
		if name != "" {
			r.script = name
		}
	}
}

// WithScriptLoader sets where scripts are loaded from. Defaults to the
// embedded loader.
func WithScriptLoader(loader assets.AssetLoader) Option {
	return func(r *Reducer) {
		if loader != nil {
			r.loader = loader
		}
	}
}

// WithDPI sets the resolution argument. Non-positive values are rejected by
// Reduce.
func WithDPI(dpi int) Option {
	return func(r *Reducer) {
		r.dpi = dpi
	}
}

// New creates a Reducer.
func New(opts ...Option) *Reducer {
	r := &Reducer{
		script: assets.DefaultReducerScript,
		loader: assets.NewEmbeddedLoader(),
		dpi:    DefaultDPI,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DPI returns the configured resolution.
func (r *Reducer) DPI() int {
	return r.dpi
}

// Executable names the program the reducer depends on: the configured
// command, or Ghostscript for scripts.
func (r *Reducer) Executable() string {
	if len(r.command) > 0 {
		return r.command[0]
	}
	return "gs"
}

// Reduce writes a reduced copy of input to output. The command runs in its
// own process group, killed as a whole when ctx is done. Input is never
// modified or removed.
func (r *Reducer) Reduce(ctx context.Context, input, output string) error {
	if r.dpi <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDPI, r.dpi)
	}

	argv, cleanup, err := r.argv()
	if err != nil {
		return err
	}
	defer cleanup()

	argv = append(argv, "-r", strconv.Itoa(r.dpi), "-o", output, input)

	var stderr bytes.Buffer
	cmd := process.CommandContext(ctx, argv[0], argv[1:]...) // #nosec G204 -- user-configured reducer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", ErrReduce, ctxErr)
		}
		return fmt.Errorf("%w: %v%s", ErrReduce, err, formatStderr(stderr.Bytes()))
	}

	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrOutputMissing, output)
	}
	return nil
}

// argv returns the command prefix and a cleanup for any temp script.
func (r *Reducer) argv() ([]string, func(), error) {
	if len(r.command) > 0 {
		return append([]string(nil), r.command...), func() {}, nil
	}

	content, err := r.loader.LoadScript(r.script)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: loading script: %v", ErrReduce, err)
	}

	path, cleanup, err := fileutil.WriteTempFile(content, "sh")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrReduce, err)
	}
	return []string{scriptShell, path}, cleanup, nil
}

func formatStderr(b []byte) string {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return ""
	}
	if len(s) > stderrTail {
		s = "..." + s[len(s)-stderrTail:]
	}
	return ": " + s
}
