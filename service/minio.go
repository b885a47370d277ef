package service

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/malazinvestment/backend/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioFileStore keeps uploaded files in a MinIO/S3 bucket
type MinioFileStore struct {
	client *minio.Client
	bucket string
}

func NewMinioFileStore(cfg *config.MinioConfig) (*MinioFileStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioFileStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Ensure creates the bucket if it doesn't exist
func (s *MinioFileStore) Ensure(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (s *MinioFileStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if !fs.ValidPath(name) {
		return ErrFileNotFound
	}
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	return nil
}

func (s *MinioFileStore) Open(ctx context.Context, name string) (StoredObject, ObjectInfo, error) {
	if !fs.ValidPath(name) {
		return nil, ObjectInfo{}, ErrFileNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("failed to get object: %w", err)
	}

	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, ObjectInfo{}, ErrFileNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("failed to stat object: %w", err)
	}

	return obj, ObjectInfo{
		Name:        name,
		Size:        st.Size,
		ModTime:     st.LastModified,
		ContentType: st.ContentType,
	}, nil
}

func (s *MinioFileStore) Exists(ctx context.Context, name string) (bool, error) {
	if !fs.ValidPath(name) {
		return false, nil
	}
	_, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
