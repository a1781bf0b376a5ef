package transcode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/alnah/go-html2pdf/internal/fileutil"
)

// DefaultFetchTimeout bounds a single out-of-band image fetch.
const DefaultFetchTimeout = 30 * time.Second

// MaxImageBytes caps the size of a fetched image body.
const MaxImageBytes = 64 << 20

// Request describes the browser request being intercepted.
type Request struct {
	Method string
	URL    string
	Header http.Header
}

// Fetcher retrieves the bytes of an image request out-of-band.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// Compile-time interface check.
var _ Fetcher = (*HTTPFetcher)(nil)

// skippedHeaders are not replayed on the out-of-band request.
// Accept-Encoding is dropped so the body arrives undecorated.
var skippedHeaders = []string{"Accept-Encoding", "Connection", "Host", "Range"}

// HTTPFetcher fetches http(s) URLs with an http.Client and file URLs from
// the local filesystem.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithFetchTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout if not specified.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = d
	}
}

// WithHTTPClient replaces the underlying client. Its Timeout is left as is.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// NewHTTPFetcher creates a Fetcher for http, https and file URLs.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}

	return f
}

// Fetch retrieves the full body of req. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}

	switch u.Scheme {
	case "file":
		return f.fetchFile(req.URL)
	case "http", "https":
		return f.fetchHTTP(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrImageFetch, u.Scheme)
	}
}

func (f *HTTPFetcher) fetchHTTP(ctx context.Context, req Request) ([]byte, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	for _, k := range skippedHeaders {
		httpReq.Header.Del(k)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrImageFetch, resp.StatusCode, req.URL)
	}

	return readLimited(resp.Body)
}

func (f *HTTPFetcher) fetchFile(raw string) ([]byte, error) {
	path, err := fileutil.FileURLToPath(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}

	file, err := os.Open(path) // #nosec G304 -- path requested by the rendered page
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	defer file.Close()

	return readLimited(file)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrImageFetch, MaxImageBytes)
	}
	return data, nil
}
