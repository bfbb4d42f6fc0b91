// Package storage keeps uploaded recipe images on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"recipebox/internal/config"
)

// ImageStore persists image objects under a key.
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes the object. A missing object is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public address of the object.
	URL(key string) string
}

// New builds the ImageStore selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (ImageStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalRoot, cfg.BaseURL)
	case "s3":
		return NewS3Store(ctx, cfg.S3, cfg.BaseURL, WithLogger(log))
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
