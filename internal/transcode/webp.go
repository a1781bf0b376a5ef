package transcode

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	// Registers WebP with image.Decode so WebP sources can be re-encoded.
	_ "golang.org/x/image/webp"
)

// ContentTypeWebP is the Content-Type of every replaced response.
const ContentTypeWebP = "image/webp"

// Lossless effort levels accepted by libwebp.
const (
	MinLevel     = 0
	MaxLevel     = 9
	DefaultLevel = MaxLevel
)

// decodableFormats lists the MIME types imaging can decode.
var decodableFormats = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
}

// Encoder converts raw image bytes into the substitute body.
type Encoder interface {
	Encode(data []byte) ([]byte, error)
}

// Compile-time interface check.
var _ Encoder = (*WebPEncoder)(nil)

// WebPEncoder re-encodes raster images as lossless WebP.
type WebPEncoder struct {
	level int
}

// NewWebPEncoder creates an encoder at the given lossless effort level.
// Out-of-range levels are clamped to [MinLevel, MaxLevel].
func NewWebPEncoder(level int) *WebPEncoder {
	return &WebPEncoder{level: min(max(level, MinLevel), MaxLevel)}
}

// Encode sniffs the format of data, decodes it honouring EXIF orientation
// and returns the lossless WebP encoding.
func (e *WebPEncoder) Encode(data []byte) ([]byte, error) {
	mtype := mimetype.Detect(data)
	if !isDecodable(mtype) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mtype.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrImageTranscode, mtype.String(), err)
	}

	options, err := encoder.NewLosslessEncoderOptions(encoder.PresetDefault, e.level)
	if err != nil {
		return nil, fmt.Errorf("%w: encoder options: %v", ErrImageTranscode, err)
	}

	// libwebp imports non-premultiplied RGBA.
	nrgba := imaging.Clone(img)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, nrgba, options); err != nil {
		return nil, fmt.Errorf("%w: encoding webp: %v", ErrImageTranscode, err)
	}
	return buf.Bytes(), nil
}

func isDecodable(mtype *mimetype.MIME) bool {
	for _, format := range decodableFormats {
		if mtype.Is(format) {
			return true
		}
	}
	return false
}
