// Package transcode turns intercepted image requests into lossless WebP
// substitutions.
//
// A Transcoder fetches the requested image out-of-band, reproducing the
// original method and headers, decodes it with EXIF auto-orientation and
// re-encodes it as lossless WebP. The outcome is a Substitution: either
// Replaced (serve the WebP bytes) or Passthrough (let the browser continue
// the original request). Substitute never returns an error and never
// panics; every failure becomes a Passthrough carrying its reason.
package transcode
