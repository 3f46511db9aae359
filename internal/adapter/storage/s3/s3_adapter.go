package s3

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Storage stores images in a MinIO/S3 bucket. Refs are public object URLs
// of the form <endpoint>/<bucket>/<key>.
type S3Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *logger.Logger
}

// NewS3Storage connects and creates the bucket when it does not exist.
func NewS3Storage(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*S3Storage, error) {
	log.Info("Initializing S3 MinIO Storage", zap.String("endpoint", endpoint), zap.String("bucket", bucketName), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to make bucket %s: %w", bucketName, err)
		}
		log.Info("S3Storage: bucket created", zap.String("bucket", bucketName))
	}

	return &S3Storage{
		client:  client,
		bucket:  bucketName,
		baseURL: fmt.Sprintf("%s/%s/", client.EndpointURL().String(), bucketName),
		logger:  log.Named("S3Storage"),
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, folder string, upload domain.Upload) (string, error) {
	objectKey := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), strings.ToLower(filepath.Ext(upload.Filename)))

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, upload.Content, upload.Size, minio.PutObjectOptions{
		ContentType:  upload.ContentType,
		UserMetadata: map[string]string{"original-filename": upload.Filename},
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("key", objectKey), zap.Error(err))
		return "", fmt.Errorf("%w: upload %s: %v", domain.ErrStorage, objectKey, err)
	}

	s.logger.Info("Image uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size), zap.String("etag", info.ETag))
	return s.baseURL + objectKey, nil
}

func (s *S3Storage) Delete(ctx context.Context, ref string) error {
	if !s.Owns(ref) {
		return nil
	}
	objectKey := strings.TrimPrefix(ref, s.baseURL)
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("RemoveObject failed", zap.String("key", objectKey), zap.Error(err))
		return fmt.Errorf("%w: remove %s: %v", domain.ErrStorage, objectKey, err)
	}
	s.logger.Info("Image deleted", zap.String("key", objectKey))
	return nil
}

func (s *S3Storage) Owns(ref string) bool {
	return strings.HasPrefix(ref, s.baseURL) && len(ref) > len(s.baseURL)
}
