package storage

import (
	"bytes"
	"fmt"
	"image"
	"path"
	"strings"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	AvatarSize    = 256
	ThumbnailSize = 300
)

type ImageProcessor struct {
	MaxSize int64 // bytes
}

func NewImageProcessor(maxSize int64) *ImageProcessor {
	return &ImageProcessor{MaxSize: maxSize}
}

// ValidateImage accepts JPEG and PNG up to MaxSize.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// Avatar crops to a centered square of AvatarSize and encodes JPEG.
func (p *ImageProcessor) Avatar(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}
	return encodeJPEG(imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos))
}

// Thumbnail fits the image inside a size x size box, keeping aspect ratio.
func (p *ImageProcessor) Thumbnail(data []byte, size int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}
	return encodeJPEG(imaging.Fit(img, size, size, imaging.Lanczos))
}

// ThumbnailKey places the thumbnail next to its source object:
// a/b/123-x.png -> a/b/thumb_123-x.jpg
func ThumbnailKey(objectPath string) string {
	dir, file := path.Split(objectPath)
	name := strings.TrimSuffix(file, path.Ext(file))
	return dir + "thumb_" + name + ".jpg"
}

// IsImageContentType reports whether an upload should get a thumbnail.
func IsImageContentType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}

func encodeJPEG(img image.Image) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := jpeg.Encode(b, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("cannot encode jpeg: %w", err)
	}
	return b.Bytes(), nil
}
