package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	p := NewImageProcessor(1024 * 1024)

	assert.NoError(t, p.ValidateImage(samplePNG(t, 10, 10)))
	assert.Error(t, p.ValidateImage([]byte("plain text")))

	small := NewImageProcessor(16)
	assert.ErrorContains(t, small.ValidateImage(samplePNG(t, 10, 10)), "exceeds")
}

func TestThumbnailKeepsAspectRatio(t *testing.T) {
	p := NewImageProcessor(10 * 1024 * 1024)

	out, err := p.Thumbnail(samplePNG(t, 600, 300), ThumbnailSize)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 150, cfg.Height)
}

func TestAvatarIsSquare(t *testing.T) {
	p := NewImageProcessor(10 * 1024 * 1024)

	out, err := p.Avatar(samplePNG(t, 400, 300))
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, cfg.Width)
	assert.Equal(t, AvatarSize, cfg.Height)
}

func TestThumbnailKey(t *testing.T) {
	assert.Equal(t, "u1/p1/thumb_1700000000000-ab12.jpg", ThumbnailKey("u1/p1/1700000000000-ab12.png"))
	assert.Equal(t, "thumb_x.jpg", ThumbnailKey("x.jpeg"))
}
