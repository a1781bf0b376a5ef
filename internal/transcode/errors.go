package transcode

import "errors"

// Sentinel errors carried in Substitution.Reason.
var (
	ErrImageFetch        = errors.New("failed to fetch image")
	ErrImageTranscode    = errors.New("failed to transcode image")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
