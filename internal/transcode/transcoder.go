package transcode

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Kind tags the outcome of a substitution attempt.
type Kind int

const (
	// Passthrough means the original request must continue unmodified.
	Passthrough Kind = iota
	// Replaced means the request must be fulfilled with Body.
	Replaced
)

func (k Kind) String() string {
	switch k {
	case Replaced:
		return "replaced"
	case Passthrough:
		return "passthrough"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Substitution is the result of transcoding one intercepted request.
// Body and ContentType are set only for Replaced; Reason only for Passthrough.
type Substitution struct {
	Kind        Kind
	Body        []byte
	ContentType string
	Reason      error
}

func passthrough(reason error) Substitution {
	return Substitution{Kind: Passthrough, Reason: reason}
}

// Transcoder produces substitutions for image requests. It is safe for
// concurrent use; encodes are bounded by a weighted semaphore.
type Transcoder struct {
	fetcher Fetcher
	encoder Encoder
	workers int
	sem     *semaphore.Weighted
}

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithFetcher sets the out-of-band fetcher. Defaults to NewHTTPFetcher().
func WithFetcher(f Fetcher) Option {
	return func(t *Transcoder) {
		t.fetcher = f
	}
}

// WithEncoder sets the encoder. Defaults to NewWebPEncoder(DefaultLevel).
func WithEncoder(e Encoder) Option {
	return func(t *Transcoder) {
		t.encoder = e
	}
}

// WithWorkers bounds the number of concurrent encodes.
// Zero or negative means ResolveWorkers decides.
func WithWorkers(n int) Option {
	return func(t *Transcoder) {
		t.workers = n
	}
}

// New creates a Transcoder.
func New(opts ...Option) *Transcoder {
	t := &Transcoder{}
	for _, opt := range opts {
		opt(t)
	}

	if t.fetcher == nil {
		t.fetcher = NewHTTPFetcher()
	}
	if t.encoder == nil {
		t.encoder = NewWebPEncoder(DefaultLevel)
	}
	t.workers = ResolveWorkers(t.workers)
	t.sem = semaphore.NewWeighted(int64(t.workers))

	return t
}

// Workers returns the concurrent encode bound.
func (t *Transcoder) Workers() int {
	return t.workers
}

// ResolveWorkers returns workers when positive, GOMAXPROCS otherwise.
// GOMAXPROCS is container-aware once automaxprocs has run.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	return max(runtime.GOMAXPROCS(0), 1)
}

// Substitute fetches and transcodes req. It always returns; any failure,
// including a panic or a done context, yields a Passthrough.
func (t *Transcoder) Substitute(ctx context.Context, req Request) (sub Substitution) {
	defer func() {
		if r := recover(); r != nil {
			sub = passthrough(fmt.Errorf("%w: panic: %v", ErrImageTranscode, r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return passthrough(fmt.Errorf("%w: %v", ErrImageFetch, err))
	}

	data, err := t.fetcher.Fetch(ctx, req)
	if err != nil {
		return passthrough(wrapIfMissing(err, ErrImageFetch))
	}

	if err := t.sem.Acquire(ctx, 1); err != nil {
		return passthrough(fmt.Errorf("%w: %v", ErrImageTranscode, err))
	}
	defer t.sem.Release(1)

	body, err := t.encoder.Encode(data)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return passthrough(err)
		}
		return passthrough(wrapIfMissing(err, ErrImageTranscode))
	}

	return Substitution{Kind: Replaced, Body: body, ContentType: ContentTypeWebP}
}

func wrapIfMissing(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
