package html2pdf

// Notes:
// - The passthrough invariant: every intercepted request yields a
//   Substitution, and anything that is not a successful transcode is
//   Passthrough, including panics in the substituter.

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-html2pdf/internal/transcode"
)

// ---------------------------------------------------------------------------
// TestImageInterceptor - Request classification and counting
// ---------------------------------------------------------------------------

func TestImageInterceptor(t *testing.T) {
	t.Parallel()

	sub := &mockSubstituter{replace: map[string]bool{"file:///ok.png": true}, panicURL: "file:///panic.png"}

	tests := []struct {
		name         string
		transcoder   substituter
		resourceType proto.NetworkResourceType
		url          string
		wantKind     transcode.Kind
		wantStats    ImageStats
	}{
		{name: "image replaced", transcoder: sub, resourceType: proto.NetworkResourceTypeImage, url: "file:///ok.png", wantKind: transcode.Replaced, wantStats: ImageStats{Replaced: 1}},
		{name: "image failure passes through", transcoder: sub, resourceType: proto.NetworkResourceTypeImage, url: "file:///bad.png", wantKind: transcode.Passthrough, wantStats: ImageStats{Passthrough: 1}},
		{name: "panic passes through", transcoder: sub, resourceType: proto.NetworkResourceTypeImage, url: "file:///panic.png", wantKind: transcode.Passthrough, wantStats: ImageStats{Passthrough: 1}},
		{name: "stylesheet not counted", transcoder: sub, resourceType: proto.NetworkResourceTypeStylesheet, url: "file:///ok.png", wantKind: transcode.Passthrough},
		{name: "document not counted", transcoder: sub, resourceType: proto.NetworkResourceTypeDocument, url: "file:///index.html", wantKind: transcode.Passthrough},
		{name: "no transcoder", transcoder: nil, resourceType: proto.NetworkResourceTypeImage, url: "file:///ok.png", wantKind: transcode.Passthrough, wantStats: ImageStats{Passthrough: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			i := newImageInterceptor(tt.transcoder, slog.New(slog.DiscardHandler))
			got := i.intercept(context.Background(), tt.resourceType, transcode.Request{Method: "GET", URL: tt.url})

			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Kind == transcode.Replaced && got.ContentType != transcode.ContentTypeWebP {
				t.Errorf("ContentType = %q, want %q", got.ContentType, transcode.ContentTypeWebP)
			}
			if s := i.stats(); s != tt.wantStats {
				t.Errorf("stats = %+v, want %+v", s, tt.wantStats)
			}
		})
	}
}

func TestImageInterceptor_Concurrent(t *testing.T) {
	t.Parallel()

	sub := &mockSubstituter{replace: map[string]bool{"even": true}}
	i := newImageInterceptor(sub, slog.New(slog.DiscardHandler))

	var wg sync.WaitGroup
	for n := range 100 {
		url := "odd"
		if n%2 == 0 {
			url = "even"
		}
		wg.Go(func() {
			i.intercept(context.Background(), proto.NetworkResourceTypeImage, transcode.Request{URL: url})
		})
	}
	wg.Wait()

	if s := i.stats(); s != (ImageStats{Replaced: 50, Passthrough: 50}) {
		t.Errorf("stats = %+v, want 50/50", s)
	}
}
