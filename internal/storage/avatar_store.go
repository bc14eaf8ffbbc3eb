package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/config"
)

// AvatarStore saves and removes profile pictures in object storage.
type AvatarStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

type minioAvatarStore struct {
	client *minio.Client
	bucket string
}

// NewAvatarStore connects to the object store and ensures the avatar bucket.
func NewAvatarStore(ctx context.Context, cfg config.ObjectStoreConfig, logger *zap.Logger) (AvatarStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.AvatarBucket)
	if err != nil {
		return nil, fmt.Errorf("check avatar bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.AvatarBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create avatar bucket: %w", err)
		}
		logger.Info("created avatar bucket", zap.String("bucket", cfg.AvatarBucket))
	}

	return &minioAvatarStore{client: client, bucket: cfg.AvatarBucket}, nil
}

// Put uploads the object and returns a presigned URL for it.
func (s *minioAvatarStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, 7*24*time.Hour, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (s *minioAvatarStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
