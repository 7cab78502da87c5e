package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore implements ObjectStore on a MinIO (or any S3-compatible) bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) PresignUpload(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, objectName, ttl)
	if err != nil {
		return "", fmt.Errorf("presign upload for %q: %w", objectName, err)
	}
	return u.String(), nil
}

func (s *MinioStore) PresignDownload(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign download for %q: %w", objectName, err)
	}
	return u.String(), nil
}

// Remove deletes the given objects one by one and returns the first error.
// Callers treat removal as best-effort; the DB row is authoritative.
func (s *MinioStore) Remove(ctx context.Context, objectNames []string) error {
	var firstErr error
	for _, name := range objectNames {
		if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove %q: %w", name, err)
			}
		}
	}
	return firstErr
}
