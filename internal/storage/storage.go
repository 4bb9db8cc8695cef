package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Storage defines the interface for painting image storage operations
type Storage interface {
	// Save stores an object under the given key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves an object by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object with the given key
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists under the given key
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns a public URL for the object
	GetURL(ctx context.Context, key string) (string, error)

	// GetSignedURL returns a temporary signed URL for private objects
	GetSignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Config holds storage configuration
type Config struct {
	Type      string // local, s3, cloudflare_r2
	BasePath  string // For local storage
	BaseURL   string // Public URL base
	Bucket    string // For S3/R2
	Region    string // For S3
	AccessKey string // For S3/R2
	SecretKey string // For S3/R2
	Endpoint  string // For MinIO/R2 or custom S3
	UseSSL    bool   // For S3/R2
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
