// Package attachmentstore holds grievance attachment blobs outside the
// record store. Submissions arrive with inline base64 content; when a
// backend is configured the content is offloaded here and the record
// keeps only the storage path.
package attachmentstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage interface for attachment blob operations
type Storage interface {
	// Upload stores an attachment and returns the storage path
	Upload(ctx context.Context, attachmentID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves an attachment by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an attachment by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewStorageFromEnv creates a storage instance from environment
// variables. An empty ATTACHMENT_STORAGE_TYPE means attachments stay
// inline on the record; callers get (nil, nil) in that case.
func NewStorageFromEnv() (Storage, error) {
	storageType := os.Getenv("ATTACHMENT_STORAGE_TYPE")
	if storageType == "" {
		return nil, nil
	}

	switch StorageType(storageType) {
	case StorageTypeLocal:
		localPath := os.Getenv("ATTACHMENT_STORAGE_LOCAL_PATH")
		if localPath == "" {
			localPath = "./storage/attachments"
		}
		return NewLocalStorage(localPath)

	case StorageTypeS3:
		cfg := StorageConfig{
			Type:         StorageTypeS3,
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     os.Getenv("AWS_REGION"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}

// generateStoragePath generates a unique storage path for an attachment
func generateStoragePath(attachmentID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filename, ext)
	// Sanitize filename
	baseName = strings.ReplaceAll(baseName, " ", "_")
	baseName = strings.ReplaceAll(baseName, "/", "_")
	baseName = strings.ReplaceAll(baseName, "\\", "_")

	// Use attachmentID to ensure uniqueness
	return fmt.Sprintf("%s/%s_%s%s", attachmentID.String()[:2], attachmentID.String(), baseName, ext)
}
