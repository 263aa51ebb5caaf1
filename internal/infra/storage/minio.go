package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type FileStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewFileStorage connects to MinIO and creates the bucket with a public-read
// policy when it does not exist yet.
func NewFileStorage(endpoint, publicURL, accessKey, secretKey, bucketName string) (*FileStorage, error) {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, errBucket := minioClient.BucketExists(ctx, bucketName)
	if errBucket != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucketName, errBucket)
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			// the bucket may have been created concurrently; uploads will tell
			zap.L().Warn("failed to create bucket", zap.String("bucket", bucketName), zap.Error(err))
		} else {
			policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucketName)
			_ = minioClient.SetBucketPolicy(ctx, bucketName, policy)
			zap.L().Info("bucket created", zap.String("bucket", bucketName))
		}
	}

	return &FileStorage{
		client:    minioClient,
		bucket:    bucketName,
		publicURL: publicURL,
	}, nil
}

// UploadImage stores the object and returns its public URL.
func (s *FileStorage) UploadImage(ctx context.Context, fileName string, fileSize int64, reader io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, fileName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return PublicURL(s.publicURL, s.bucket, fileName), nil
}

func (s *FileStorage) Remove(ctx context.Context, fileName string) error {
	return s.client.RemoveObject(ctx, s.bucket, fileName, minio.RemoveObjectOptions{})
}

// PublicURL joins base, bucket and object name. path.Join is avoided because
// it collapses the "//" in "http://".
func PublicURL(base, bucket, fileName string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, fileName)
}
