package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// DefaultThumbnailWidth is the width used when none is configured.
const DefaultThumbnailWidth = 320

// Thumbnail downscales an image data URI to width pixels (keeping the aspect
// ratio) and returns it as a JPEG data URI. Images already narrower than
// width are re-encoded at their own size.
func Thumbnail(dataURI string, width int) (string, error) {
	if width <= 0 {
		width = DefaultThumbnailWidth
	}

	_, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	thumb := img
	if img.Bounds().Dx() > width {
		thumb = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("encoding thumbnail: %w", err)
	}
	return EncodeDataURI("image/jpeg", buf.Bytes()), nil
}
