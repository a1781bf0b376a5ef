package html2pdf

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-html2pdf/internal/transcode"
)

// substituter resolves one image request to a Substitution.
// Implementations must not panic and must return for every request.
type substituter interface {
	Substitute(ctx context.Context, req transcode.Request) transcode.Substitution
}

// imageInterceptor decides, per intercepted request, whether the browser
// receives a WebP substitute or the original response. It belongs to a
// single session and is safe for concurrent use by hijack goroutines.
type imageInterceptor struct {
	transcoder substituter // nil disables substitution
	logger     *slog.Logger

	replaced    atomic.Int64
	passthrough atomic.Int64
}

func newImageInterceptor(transcoder substituter, logger *slog.Logger) *imageInterceptor {
	return &imageInterceptor{transcoder: transcoder, logger: logger}
}

// intercept returns Passthrough for non-image requests without counting
// them. Image requests are counted under their outcome.
func (i *imageInterceptor) intercept(ctx context.Context, resourceType proto.NetworkResourceType, req transcode.Request) (sub transcode.Substitution) {
	if resourceType != proto.NetworkResourceTypeImage {
		return transcode.Substitution{Kind: transcode.Passthrough}
	}

	defer func() {
		if r := recover(); r != nil {
			sub = transcode.Substitution{Kind: transcode.Passthrough}
			i.logger.Debug("image substitution panicked", "url", req.URL, "panic", r)
		}
		if sub.Kind == transcode.Replaced {
			i.replaced.Add(1)
		} else {
			i.passthrough.Add(1)
		}
	}()

	if i.transcoder == nil {
		return transcode.Substitution{Kind: transcode.Passthrough}
	}

	sub = i.transcoder.Substitute(ctx, req)
	if sub.Kind == transcode.Replaced {
		i.logger.Debug("image transcoded", "url", req.URL, "bytes", len(sub.Body))
	} else {
		i.logger.Debug("image passed through", "url", req.URL, "reason", sub.Reason)
	}
	return sub
}

// stats returns the outcome counts so far.
func (i *imageInterceptor) stats() ImageStats {
	return ImageStats{
		Replaced:    int(i.replaced.Load()),
		Passthrough: int(i.passthrough.Load()),
	}
}
