package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/spec-kit/chat-service/internal/config"
)

// MinioStore implements FileStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	publicURL := strings.TrimRight(cfg.MinioPublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(client.EndpointURL().String(), "/") + "/" + cfg.MinioBucket
	}
	return &MinioStore{client: client, bucket: cfg.MinioBucket, publicURL: publicURL, now: time.Now}, nil
}

func (m *MinioStore) Save(ctx context.Context, upload Upload) (Stored, error) {
	key := objectName(m.now(), upload.FileName)
	size := upload.Size
	if size <= 0 {
		size = -1
	}
	_, err := m.client.PutObject(ctx, m.bucket, key, upload.Body, size, minio.PutObjectOptions{ContentType: upload.ContentType})
	if err != nil {
		return Stored{}, fmt.Errorf("put object: %w", err)
	}
	return Stored{Key: key, URL: m.publicURL + "/" + key}, nil
}
