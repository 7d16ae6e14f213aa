package storage

import (
	"fmt"

	aws3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/casdoor/oss"
	"github.com/casdoor/oss/s3"
	"github.com/streamtube/backend/internal/config"
)

// NewS3 creates an AWS S3 backed store. Uploaded media is world-readable
// since avatar and cover URLs are served directly to clients.
func NewS3(cfg config.StorageConfig) (oss.StorageInterface, error) {
	if cfg.ID == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("access ID and secret are required for S3")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for S3")
	}

	return s3.New(&s3.Config{
		AccessID:   cfg.ID,
		AccessKey:  cfg.Secret,
		Region:     cfg.Region,
		Bucket:     cfg.Bucket,
		Endpoint:   cfg.Endpoint,
		S3Endpoint: cfg.Endpoint,
		ACL:        aws3.BucketCannedACLPublicRead,
	}), nil
}

// NewMinio creates a MinIO backed store through the S3-compatible API.
func NewMinio(cfg config.StorageConfig) (oss.StorageInterface, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required for MinIO")
	}
	if cfg.ID == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("access ID and secret are required for MinIO")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for MinIO")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	return s3.New(&s3.Config{
		AccessID:         cfg.ID,
		AccessKey:        cfg.Secret,
		Region:           region,
		Bucket:           cfg.Bucket,
		Endpoint:         cfg.Endpoint,
		S3Endpoint:       cfg.Endpoint,
		ACL:              aws3.BucketCannedACLPublicRead,
		S3ForcePathStyle: true,
	}), nil
}
