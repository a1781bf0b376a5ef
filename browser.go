package html2pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-html2pdf/internal/process"
)

// browser opens rendering sessions. Implementations must be safe to Close
// more than once.
type browser interface {
	NewSession(ctx context.Context, interceptor *imageInterceptor) (renderSession, error)
	Close() error
}

// renderSession is one browser tab with its interception hook installed.
type renderSession interface {
	Load(ctx context.Context, url string, idle time.Duration) error
	Inject(ctx context.Context, kind resourceKind, urls []string) error
	Settle(ctx context.Context, idle time.Duration) error
	Measure(ctx context.Context) (geom ContentGeometry, found bool, err error)
	Title(ctx context.Context) (string, error)
	PDF(ctx context.Context, opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

// resourceKind selects the element Inject appends.
type resourceKind string

const (
	kindStyle  resourceKind = "style"  // <link rel="stylesheet">
	kindScript resourceKind = "script" // <script src>, executed in order
)

// resourceLoadError reports the element whose error event fired.
type resourceLoadError struct {
	URL string
}

func (e *resourceLoadError) Error() string {
	return "error event for " + e.URL
}

// Compile-time interface checks.
var (
	_ browser       = (*rodBrowser)(nil)
	_ renderSession = (*rodSession)(nil)
)

// rodBrowser launches headless Chrome lazily on the first session.
// Rod downloads Chromium on first run if no browser is found.
type rodBrowser struct {
	bin       string
	noSandbox bool

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodBrowser(bin string, noSandbox bool) *rodBrowser {
	return &rodBrowser{bin: bin, noSandbox: noSandbox}
}

// ensureBrowser lazily launches and connects to the browser.
func (b *rodBrowser) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New().Headless(true).Leakless(true)

	bin := b.bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// The Chrome sandbox is unavailable in most CI and container setups.
	if b.noSandbox || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	br := rod.New().ControlURL(u)
	if err := br.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b.launcher = l
	b.browser = br
	return nil
}

// NewSession opens a tab, installs the interceptor before any content is
// loaded and switches the tab to screen media.
func (b *rodBrowser) NewSession(ctx context.Context, interceptor *imageInterceptor) (renderSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	err := b.ensureBrowser()
	br := b.browser
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}

	page, err := br.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	s := &rodSession{page: page, ctx: ctx, interceptor: interceptor}

	if interceptor != nil {
		s.router = page.HijackRequests()
		if err := s.router.Add("*", "", s.handle); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("%w: installing request interception: %v", ErrPageCreate, err)
		}
		go s.router.Run()
	}

	if err := (proto.EmulationSetEmulatedMedia{Media: "screen"}).Call(page.Context(ctx)); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: emulating screen media: %v", ErrPageCreate, err)
	}

	return s, nil
}

// Close releases browser resources. The launcher's process group is
// killed as well so no renderer survives the CLI.
func (b *rodBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	if b.browser != nil {
		errs = append(errs, b.browser.Close())
		b.browser = nil
	}
	if b.launcher != nil {
		pid := b.launcher.PID()
		b.launcher.Kill()
		if pid > 0 {
			process.KillProcessGroup(pid)
		}
		b.launcher.Cleanup()
		b.launcher = nil
	}
	return errors.Join(errs...)
}
