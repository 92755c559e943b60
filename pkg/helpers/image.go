package helpers

import (
	"bytes"
	"io"

	"github.com/disintegration/imaging"
)

// AvatarSize is the side length of the square thumbnail stored for every avatar.
const AvatarSize = 250

// NormalizeAvatar decodes an uploaded image, crops/resizes it to a
// AvatarSize x AvatarSize square and re-encodes it as PNG. The returned
// bytes are what gets persisted; the original upload is discarded.
func NormalizeAvatar(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
