package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	Storage
	client *minio.Client
}

func NewMinioStorage(bucket *Bucket) (StorageAPI, error) {
	if bucket.Endpoint == "" || bucket.Name == "" {
		return nil, errors.New("minio storage needs STORAGE_ENDPOINT and STORAGE_BUCKET")
	}
	key, secret := bucket.credentials()
	client, err := minio.New(bucket.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: bucket.UseSSL,
		Region: bucket.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket.Name)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, bucket.Name, minio.MakeBucketOptions{Region: bucket.Region}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}
	return &MinioStorage{
		Storage: Storage{
			Bucket: *bucket,
		},
		client: client,
	}, nil
}

func (s *MinioStorage) Save(ctx context.Context, path string, reader io.Reader, mimeType string) (int64, error) {
	info, err := s.client.PutObject(ctx, s.Bucket.Name, s.Bucket.GetRemotePath(path), reader, -1, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

func (s *MinioStorage) Delete(ctx context.Context, path string) error {
	key := s.Bucket.GetRemotePath(path)
	_, err := s.client.StatObject(ctx, s.Bucket.Name, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ErrNotExist
		}
		return err
	}
	return s.client.RemoveObject(ctx, s.Bucket.Name, key, minio.RemoveObjectOptions{})
}

func (s *MinioStorage) URL(path string) string {
	key := (&url.URL{Path: s.Bucket.GetRemotePath(path)}).EscapedPath()
	return s.client.EndpointURL().String() + "/" + s.Bucket.Name + "/" + key
}
