package uploader

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Uploader defines the interface for pushing artifacts to remote storage
type Uploader interface {
	// Upload stores content under key with the given MIME type
	Upload(ctx context.Context, key string, content io.Reader, contentType string) error

	// Exists checks if an object exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL of key
	GetURL(key string) string

	// Delete removes the object at key
	Delete(ctx context.Context, key string) error
}

// DetectContentType detects the MIME type of an artifact from its extension
func DetectContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".msgpack", ".bin":
		return "application/msgpack"
	case ".h5", ".keras":
		return "application/x-hdf5"
	case ".zip":
		return "application/zip"
	case ".csv":
		return "text/csv"
	case ".txt", ".log":
		return "text/plain"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
