// Package storage selects the object-store backend media files are
// published to. Every backend satisfies casdoor's oss.StorageInterface.
package storage

import (
	"fmt"

	"github.com/casdoor/oss"
	"github.com/streamtube/backend/internal/config"
)

func New(cfg config.StorageConfig) (oss.StorageInterface, error) {
	switch cfg.Provider {
	case "aws-s3":
		return NewS3(cfg)
	case "minio":
		return NewMinio(cfg)
	case "filesystem":
		return NewFileSystem(cfg.Bucket)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %q", cfg.Provider)
	}
}
