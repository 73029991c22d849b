package catalog

import (
	"context"
	"time"
)

// ObjectStorageService abstracts presigned-URL object storage for listing images
type ObjectStorageService interface {
	// GenerateUploadURL returns a presigned URL the client can PUT the image to
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned URL for reading an image
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes an image from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks whether an image exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
