package helpers

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(3 * x), G: uint8(7 * y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	default:
		t.Fatalf("unknown format %q", format)
	}
	return buf.Bytes()
}

func TestNormalizeAvatar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		w, h   int
	}{
		{name: "small landscape png", format: "png", w: 40, h: 30},
		{name: "large portrait png", format: "png", w: 300, h: 500},
		{name: "jpeg input", format: "jpeg", w: 120, h: 120},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := encodeTestImage(t, tt.format, tt.w, tt.h)

			out, err := NormalizeAvatar(bytes.NewReader(src))
			require.NoError(t, err)

			// always a square PNG regardless of input shape and format
			img, err := png.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, AvatarSize, img.Bounds().Dx())
			assert.Equal(t, AvatarSize, img.Bounds().Dy())
		})
	}
}

func TestNormalizeAvatarRejectsNonImages(t *testing.T) {
	t.Parallel()
	_, err := NormalizeAvatar(strings.NewReader("definitely not an image"))
	assert.Error(t, err)
}
