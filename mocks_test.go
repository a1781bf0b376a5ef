package html2pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-html2pdf/internal/transcode"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// interceptedRequest is replayed through the session interceptor on Load.
type interceptedRequest struct {
	resourceType proto.NetworkResourceType
	req          transcode.Request
}

type mockSession struct {
	mu      sync.Mutex
	events  []string // "load", "style:<url>", "script:<url>", "settle", "measure", "pdf", "close"
	loadURL string
	styles  []string
	scripts []string
	pdfOpts *proto.PagePrintToPDF
	closed  int

	interceptor *imageInterceptor
	requests    []interceptedRequest

	loadIdle   time.Duration
	loadErr    error
	styleErr   error
	scriptErr  error
	failURL    string // Inject reports this URL as failed
	settleErr  error
	geom       ContentGeometry
	found      bool
	measureErr error
	title      string
	titleErr   error
	pdfErr     error
}

func (m *mockSession) record(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockSession) Load(ctx context.Context, url string, idle time.Duration) error {
	m.record("load")
	m.mu.Lock()
	m.loadURL = url
	m.loadIdle = idle
	m.mu.Unlock()
	if m.loadErr != nil {
		return m.loadErr
	}
	if m.interceptor != nil {
		for _, r := range m.requests {
			m.interceptor.intercept(ctx, r.resourceType, r.req)
		}
	}
	return nil
}

// Inject records the batch in the order it was handed over.
func (m *mockSession) Inject(ctx context.Context, kind resourceKind, urls []string) error {
	for _, url := range urls {
		m.record(string(kind) + ":" + url)
	}

	m.mu.Lock()
	if kind == kindStyle {
		m.styles = append(m.styles, urls...)
	} else {
		m.scripts = append(m.scripts, urls...)
	}
	m.mu.Unlock()

	if kind == kindStyle && m.styleErr != nil {
		return m.styleErr
	}
	if kind == kindScript && m.scriptErr != nil {
		return m.scriptErr
	}
	if slices.Contains(urls, m.failURL) {
		return &resourceLoadError{URL: m.failURL}
	}
	return nil
}

func (m *mockSession) Settle(ctx context.Context, idle time.Duration) error {
	m.record("settle")
	return m.settleErr
}

func (m *mockSession) Measure(ctx context.Context) (ContentGeometry, bool, error) {
	m.record("measure")
	return m.geom, m.found, m.measureErr
}

func (m *mockSession) Title(ctx context.Context) (string, error) {
	return m.title, m.titleErr
}

// PDF prints a blank page with the requested paper size.
func (m *mockSession) PDF(ctx context.Context, opts *proto.PagePrintToPDF) ([]byte, error) {
	m.record("pdf")
	m.mu.Lock()
	m.pdfOpts = opts
	m.mu.Unlock()
	if m.pdfErr != nil {
		return nil, m.pdfErr
	}
	return blankPDF(*opts.PaperWidth*72, *opts.PaperHeight*72)
}

func (m *mockSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed == 0 {
		m.events = append(m.events, "close")
	}
	m.closed++
	return nil
}

func (m *mockSession) eventLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

type mockBrowser struct {
	session    *mockSession
	sessionErr error
	closed     bool
}

func (m *mockBrowser) NewSession(ctx context.Context, interceptor *imageInterceptor) (renderSession, error) {
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	m.session.interceptor = interceptor
	return m.session, nil
}

func (m *mockBrowser) Close() error {
	m.closed = true
	return nil
}

// mockReducer copies input to output unless err is set.
type mockReducer struct {
	called bool
	input  string
	output string
	err    error
}

func (m *mockReducer) Reduce(ctx context.Context, input, output string) error {
	m.called = true
	m.input = input
	m.output = output
	if m.err != nil {
		return m.err
	}
	return copyFile(input, output)
}

// mockSubstituter replaces URLs listed in replace and panics on panicURL.
type mockSubstituter struct {
	replace  map[string]bool
	panicURL string
}

func (m *mockSubstituter) Substitute(ctx context.Context, req transcode.Request) transcode.Substitution {
	if req.URL == m.panicURL {
		panic("boom")
	}
	if m.replace[req.URL] {
		return transcode.Substitution{Kind: transcode.Replaced, Body: []byte("RIFF"), ContentType: transcode.ContentTypeWebP}
	}
	return transcode.Substitution{Kind: transcode.Passthrough, Reason: errors.New("not found")}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func blankPDF(widthPt, heightPt float64) ([]byte, error) {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: widthPt, Ht: heightPt},
	})
	doc.AddPage()

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("building fixture PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- test fixture
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst) // #nosec G304 -- test fixture
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
