package html2pdf

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// resolveGeometry measures the body once the page has settled.
//
// An absent body yields the zero geometry; a body without area keeps its
// measured sides. Both log a warning, or fail with ErrGeometryMeasurement
// when strict is set.
func resolveGeometry(ctx context.Context, sess renderSession, idle time.Duration, strict bool, logger *slog.Logger) (ContentGeometry, error) {
	if err := sess.Settle(ctx, idle); err != nil {
		return ContentGeometry{}, fmt.Errorf("%w: waiting for page to settle: %v", ErrPageLoad, err)
	}

	geom, found, err := sess.Measure(ctx)
	if err != nil {
		return ContentGeometry{}, fmt.Errorf("%w: %v", ErrGeometryMeasurement, err)
	}

	if !found {
		geom = ContentGeometry{}
	}
	if !geom.HasArea() {
		reason := "document body has no area"
		if !found {
			reason = "document has no body"
		}
		if strict {
			return ContentGeometry{}, fmt.Errorf("%w: %s", ErrGeometryMeasurement, reason)
		}
		logger.Warn("emitting degenerate page", "reason", reason,
			"width", geom.Width, "height", geom.Height, "error", ErrGeometryMeasurement)
		return geom, nil
	}

	logger.Debug("content measured", "width", geom.Width, "height", geom.Height)
	return geom, nil
}
