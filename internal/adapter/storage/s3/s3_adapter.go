package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/unimarket/listing-service/internal/platform/logger"
)

// S3Storage implements the blob store boundary over MinIO. Uploaded objects
// are addressed by the caller-supplied path; the returned URL is formed from
// the client endpoint, bucket and object key.
type S3Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func NewS3Storage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*S3Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	// Create the bucket on first run.
	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
	}

	log.Info("S3Storage: connected", "endpoint", endpoint, "bucket", bucketName, "use_ssl", useSSL)
	return &S3Storage{client: client, bucket: bucketName, logger: log}, nil
}

func (s *S3Storage) Upload(ctx context.Context, objectPath string, data []byte) (string, error) {
	s.logger.Debug("S3Storage.Upload: uploading object",
		"bucket", s.bucket, "object_key", objectPath, "size_bytes", len(data))

	_, err := s.client.PutObject(ctx, s.bucket, objectPath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		s.logger.Error("S3Storage.Upload: PutObject failed", "bucket", s.bucket, "key", objectPath, "error", err)
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectPath, s.bucket, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectPath), nil
}
