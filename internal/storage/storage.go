package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxImageSize = 5 << 20

var (
	ErrImageTooLarge   = errors.New("image size exceeds 5MB limit")
	ErrInvalidFileType = errors.New("invalid file type, only JPG/JPEG/PNG/WEBP allowed")
	ErrNotManaged      = errors.New("storage: url is not managed by this store")
)

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Store persists uploaded files and returns their public URL.
type Store interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// ValidateImage checks the upload size and extension and returns the
// normalised extension with its content type.
func ValidateImage(filename string, size int64) (ext, contentType string, err error) {
	if size > MaxImageSize {
		return "", "", ErrImageTooLarge
	}
	ext = strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return "", "", ErrInvalidFileType
	}
	return ext, contentType, nil
}

// ObjectName builds a unique name such as "menu-20260102-<uuid>.png".
func ObjectName(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s%s", prefix, now.UTC().Format("20060102"), uuid.NewString(), ext)
}
