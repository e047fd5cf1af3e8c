package garage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
	"github.com/helloraviai-ctrl/vidyaaitest/pkg/storage"
)

const presignExpiry = time.Hour

type garageStorage struct {
	client *s3.Client
	bucket string
}

// NewGarageStorage crée une nouvelle instance de storage Garage S3-compatible
func NewGarageStorage(cfg *storage.StorageConfig) (storage.Storage, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // Garage ne gère pas le virtual-host style
	})

	garage := &garageStorage{
		client: client,
		bucket: cfg.Bucket,
	}

	if err := garage.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return garage, nil
}

func validateConfig(cfg *storage.StorageConfig) error {
	switch {
	case cfg.Endpoint == "":
		return fmt.Errorf("garage endpoint is required")
	case cfg.AccessKey == "":
		return fmt.Errorf("garage access key is required")
	case cfg.SecretKey == "":
		return fmt.Errorf("garage secret key is required")
	case cfg.Bucket == "":
		return fmt.Errorf("garage bucket is required")
	}
	return nil
}

// ensureBucket vérifie que le bucket existe et le crée si nécessaire
func (g *garageStorage) ensureBucket(ctx context.Context) error {
	_, err := g.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(g.bucket),
	})
	if err == nil {
		return nil
	}

	_, createErr := g.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(g.bucket),
	})
	if createErr != nil {
		return fmt.Errorf("bucket %s does not exist and cannot be created: %w", g.bucket, createErr)
	}

	return nil
}

func objectKey(path string) string {
	return strings.TrimPrefix(path, "/")
}

func (g *garageStorage) Upload(ctx context.Context, path string, data io.Reader) error {
	key := objectKey(path)

	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(models.ContentTypeFor(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s to bucket %s: %w", key, g.bucket, err)
	}

	return nil
}

func (g *garageStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	key := objectKey(path)

	result, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to download object %s from bucket %s: %w", key, g.bucket, err)
	}

	return result.Body, nil
}

func (g *garageStorage) Exists(ctx context.Context, path string) (bool, error) {
	key := objectKey(path)

	_, err := g.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence %s: %w", key, err)
	}

	return true, nil
}

func (g *garageStorage) Delete(ctx context.Context, path string) error {
	key := objectKey(path)

	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, g.bucket, err)
	}

	return nil
}

func (g *garageStorage) List(ctx context.Context, prefix string) ([]string, error) {
	cleanPrefix := objectKey(prefix)

	var objects []string
	paginator := s3.NewListObjectsV2Paginator(g.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(g.bucket),
		Prefix: aws.String(cleanPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", cleanPrefix, err)
		}

		for _, obj := range page.Contents {
			if obj.Key != nil {
				objects = append(objects, *obj.Key)
			}
		}
	}

	return objects, nil
}

// GetURL retourne une URL présignée valable une heure
func (g *garageStorage) GetURL(ctx context.Context, path string) (string, error) {
	key := objectKey(path)

	presigner := s3.NewPresignClient(g.client)
	request, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL for %s: %w", key, err)
	}

	return request.URL, nil
}
