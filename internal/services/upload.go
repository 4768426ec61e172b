package services

import (
	"context"
	"errors"
	"io"
	"time"

	"restaurant_web/internal/storage"

	"github.com/sirupsen/logrus"
)

// Upload is an image received from a multipart form.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

func saveImage(ctx context.Context, store storage.Store, prefix string, upload *Upload) (string, error) {
	ext, contentType, err := storage.ValidateImage(upload.Filename, upload.Size)
	if err != nil {
		return "", NewValidationError(err.Error(), map[string]string{"image": err.Error()})
	}
	url, err := store.Save(ctx, storage.ObjectName(prefix, ext, time.Now()), contentType, upload.Reader)
	if err != nil {
		return "", Internal("failed to store image", err)
	}
	return url, nil
}

// removeImage deletes a replaced or orphaned image; failures only get logged.
func removeImage(ctx context.Context, store storage.Store, logger *logrus.Logger, url string) {
	if url == "" {
		return
	}
	if err := store.Delete(ctx, url); err != nil && !errors.Is(err, storage.ErrNotManaged) {
		logger.WithError(err).WithField("url", url).Warn("Failed to delete image")
	}
}
