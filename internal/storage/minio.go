// Package storage holds blob sinks for uploaded ticket files.
package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOSink writes objects to an S3-compatible bucket.
type MinIOSink struct {
	client   *minio.Client
	bucket   string
	initOnce sync.Once
	initErr  error
}

// NewMinIOSink creates the client. The bucket is checked on first Put so
// startup does not block on object storage.
func NewMinIOSink(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinIOSink, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOSink{client: client, bucket: bucket}, nil
}

func (s *MinIOSink) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := s.lazyInit(ctx); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"Uploaded-At": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *MinIOSink) lazyInit(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = fmt.Errorf("check bucket: %w", err)
			return
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
				s.initErr = fmt.Errorf("create bucket: %w", err)
			}
		}
	})
	return s.initErr
}
