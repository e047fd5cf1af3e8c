package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
	"github.com/helloraviai-ctrl/vidyaaitest/pkg/storage"
)

const presignExpiry = time.Hour

type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage connects to a MinIO server and makes sure the bucket exists.
func NewMinioStorage(cfg *storage.StorageConfig) (storage.Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	client, err := minio.New(endpointHost(cfg.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio connection: %w", err)
	}

	s := &minioStorage{client: client, bucket: cfg.Bucket}
	if err := s.ensureBucket(context.Background(), cfg.Region); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return s, nil
}

// endpointHost accepts both "host:port" and a full URL.
func endpointHost(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		return u.Host
	}
	return endpoint
}

func (s *minioStorage) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region})
}

func (s *minioStorage) Upload(ctx context.Context, path string, data io.Reader) error {
	key := strings.TrimPrefix(path, "/")

	// -1 laisse minio découper l'envoi en multipart si besoin
	_, err := s.client.PutObject(ctx, s.bucket, key, data, -1, minio.PutObjectOptions{
		ContentType: models.ContentTypeFor(key),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

func (s *minioStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	key := strings.TrimPrefix(path, "/")

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download object %s from bucket %s: %w", key, s.bucket, err)
	}

	// GetObject est paresseux, Stat force la requête et révèle les clés absentes
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to download object %s from bucket %s: %w", key, s.bucket, err)
	}

	return obj, nil
}

func (s *minioStorage) Exists(ctx context.Context, path string) (bool, error) {
	key := strings.TrimPrefix(path, "/")

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence %s: %w", key, err)
	}
	return true, nil
}

func (s *minioStorage) Delete(ctx context.Context, path string) error {
	key := strings.TrimPrefix(path, "/")

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

func (s *minioStorage) List(ctx context.Context, prefix string) ([]string, error) {
	cleanPrefix := strings.TrimPrefix(prefix, "/")

	var objects []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: cleanPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", cleanPrefix, obj.Err)
		}
		objects = append(objects, obj.Key)
	}
	return objects, nil
}

func (s *minioStorage) GetURL(ctx context.Context, path string) (string, error) {
	key := strings.TrimPrefix(path, "/")

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, presignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL for %s: %w", key, err)
	}
	return u.String(), nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound" || resp.StatusCode == 404
}
