package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage is the minimal contract for file backends
type Storage interface {
	// Put stores a file under key
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, key string) error
	// Exists reports whether key is stored
	Exists(ctx context.Context, key string) (bool, error)
	// GetURL returns the public URL for key
	GetURL(key string) string
}

// Config selects and configures a backend
type Config struct {
	Driver string // s3 | local

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	LocalPath string
	LocalURL  string
}

// New builds the configured backend
func New(cfg Config) (Storage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(cfg)
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
