package html2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-html2pdf/internal/transcode"
)

// closeTimeout bounds tab teardown, which must run even after ctx is done.
const closeTimeout = 5 * time.Second

// JavaScript evaluated in the page.
const (
	jsFontsReady = `() => document.fonts ? document.fonts.ready.then(() => true) : true`
	jsBodyBox    = `() => {
		const body = document.body;
		if (!body) return null;
		const r = body.getBoundingClientRect();
		return { width: r.width, height: r.height };
	}`
	jsTitle = `() => document.title`

	// jsInject appends every element synchronously, in the given order,
	// then resolves once each has fired load or error. It returns the
	// URLs that failed, in order. async=false keeps script execution in
	// insertion order.
	jsInject = `(kind, urls) => {
		const parent = document.head || document.documentElement;
		return Promise.all(urls.map((url) => new Promise((resolve) => {
			let el;
			if (kind === "style") {
				el = document.createElement("link");
				el.rel = "stylesheet";
				el.href = url;
			} else {
				el = document.createElement("script");
				el.async = false;
				el.src = url;
			}
			el.onload = () => resolve(null);
			el.onerror = () => resolve(url);
			parent.appendChild(el);
		}))).then((failed) => failed.filter((u) => u !== null));
	}`
)

// rodSession owns one tab and its hijack router.
type rodSession struct {
	page        *rod.Page
	router      *rod.HijackRouter
	interceptor *imageInterceptor

	// ctx bounds out-of-band image fetches started by the router.
	ctx context.Context

	closeOnce sync.Once
	closeErr  error
}

// handle is the hijack handler. Every request resolves, either with the
// substituted body or by continuing unmodified.
func (s *rodSession) handle(h *rod.Hijack) {
	req := transcode.Request{
		Method: h.Request.Method(),
		URL:    h.Request.URL().String(),
		Header: toHTTPHeader(h.Request.Headers()),
	}

	sub := s.interceptor.intercept(s.ctx, h.Request.Type(), req)
	if sub.Kind != transcode.Replaced {
		h.ContinueRequest(&proto.FetchContinueRequest{})
		return
	}

	h.Response.SetHeader("Content-Type", sub.ContentType)
	h.Response.SetBody(sub.Body)
}

func toHTTPHeader(headers proto.NetworkHeaders) http.Header {
	out := make(http.Header, len(headers))
	for k, v := range headers {
		out.Set(k, v.Str())
	}
	return out
}

// Load navigates to url and waits for the load event, then for idle
// without requests. A non-positive idle skips the second wait.
func (s *rodSession) Load(ctx context.Context, url string, idle time.Duration) error {
	page := s.page.Context(ctx)

	wait := func() {}
	if idle > 0 {
		wait = page.WaitRequestIdle(idle, nil, nil, nil)
	}
	if err := page.Navigate(url); err != nil {
		return err
	}
	if err := page.WaitLoad(); err != nil {
		return err
	}
	wait()
	return ctx.Err()
}

// Inject appends one element per url in order and waits for all of them.
// The loads run concurrently in the page; the cascade and execution order
// follow urls.
func (s *rodSession) Inject(ctx context.Context, kind resourceKind, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	res, err := s.page.Context(ctx).Eval(jsInject, string(kind), urls)
	if err != nil {
		return err
	}
	if failed := res.Value.Arr(); len(failed) > 0 {
		return &resourceLoadError{URL: failed[0].Str()}
	}
	return nil
}

// Settle waits until no request has been in flight for idle, then for
// document.fonts.ready.
func (s *rodSession) Settle(ctx context.Context, idle time.Duration) error {
	page := s.page.Context(ctx)

	if idle > 0 {
		page.WaitRequestIdle(idle, nil, nil, nil)()
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if _, err := page.Eval(jsFontsReady); err != nil {
		return fmt.Errorf("waiting for fonts: %w", err)
	}
	return nil
}

// Measure returns the body's bounding box. found is false when the
// document has no body.
func (s *rodSession) Measure(ctx context.Context) (ContentGeometry, bool, error) {
	res, err := s.page.Context(ctx).Eval(jsBodyBox)
	if err != nil {
		return ContentGeometry{}, false, err
	}
	if res.Value.Nil() {
		return ContentGeometry{}, false, nil
	}
	return ContentGeometry{
		Width:  res.Value.Get("width").Num(),
		Height: res.Value.Get("height").Num(),
	}, true, nil
}

// Title returns document.title.
func (s *rodSession) Title(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(jsTitle)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// PDF prints the page and returns the full PDF stream.
func (s *rodSession) PDF(ctx context.Context, opts *proto.PagePrintToPDF) ([]byte, error) {
	reader, err := s.page.Context(ctx).PDF(opts)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}
	return data, nil
}

// Close stops interception and closes the tab. Safe to call repeatedly.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.router != nil {
			errs = append(errs, s.router.Stop())
		}

		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		errs = append(errs, s.page.Context(ctx).Close())

		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
