package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Register decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"quill/internal/models"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// thumbnailMaxPx bounds the longest edge of generated thumbnails.
const thumbnailMaxPx = 320

// ImageService validates uploaded post images and stores them with a
// content-addressed name plus a webp thumbnail.
type ImageService struct {
	mediaDir string
	maxBytes int64
}

// NewImageService creates a new ImageService.
func NewImageService(mediaDir string, maxUploadMB int) *ImageService {
	return &ImageService{
		mediaDir: mediaDir,
		maxBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

// Store validates the image bytes, writes the original and a thumbnail
// under the media directory and returns the public URL of the original.
func (s *ImageService) Store(data []byte) (string, error) {
	if len(data) == 0 {
		return "", models.NewValidationError("Image file is empty")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", models.NewValidationError("Image file is too large")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", models.NewValidationError("Unsupported or corrupt image file")
	}

	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:])[:16]

	dir := filepath.Join(s.mediaDir, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}

	original := fmt.Sprintf("%s.%s", name, format)
	if err := os.WriteFile(filepath.Join(dir, original), data, 0o644); err != nil {
		return "", models.NewInternalError(err)
	}

	if err := s.writeThumbnail(data, filepath.Join(dir, name+"_thumb.webp")); err != nil {
		// The original is already stored; a failed thumbnail should not
		// fail the upload.
		return "/media/posts/" + original, nil
	}

	return "/media/posts/" + original, nil
}

// writeThumbnail decodes the image, scales its longest edge down to
// thumbnailMaxPx and encodes the result as webp.
func (s *ImageService) writeThumbnail(data []byte, path string) error {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > thumbnailMaxPx || h > thumbnailMaxPx {
		if w >= h {
			h = h * thumbnailMaxPx / w
			w = thumbnailMaxPx
		} else {
			w = w * thumbnailMaxPx / h
			h = thumbnailMaxPx
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return webp.Encode(f, dst, &webp.Options{Quality: 80})
}
