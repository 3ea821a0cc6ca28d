package media

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"expo_leads/internal/common"

	"github.com/disintegration/imaging"
)

// JPEG quality used when re-encoding card images
const normalizeJPEGQuality = 85

// Normalizer decodes a card photo, applies EXIF orientation, bounds its width and re-encodes it as JPEG
type Normalizer struct {
	MaxWidth int
}

// Normalize rewrites a in place. A file that is not a decodable image gives an UploadError.
func (n *Normalizer) Normalize(a *Attachment) error {
	if n == nil || a == nil {
		return nil
	}

	img, err := imaging.Decode(bytes.NewReader(a.Data), imaging.AutoOrientation(true))
	if err != nil {
		return common.UploadError(fmt.Sprintf("%s is not a valid image", a.Field))
	}

	if n.MaxWidth > 0 && img.Bounds().Dx() > n.MaxWidth {
		img = imaging.Resize(img, n.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(normalizeJPEGQuality)); err != nil {
		return fmt.Errorf("encode %s: %w", a.Field, err)
	}

	a.Data = buf.Bytes()
	a.ContentType = "image/jpeg"
	a.Filename = strings.TrimSuffix(a.Filename, filepath.Ext(a.Filename)) + ".jpg"
	return nil
}
