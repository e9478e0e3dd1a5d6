package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Albumate/Albumate-Back/config"
	"github.com/Albumate/Albumate-Back/logger"
)

// ErrNotExist is returned by Delete when there is nothing stored under the path
var ErrNotExist = errors.New("stored file does not exist")

// StorageAPI keeps the bytes of uploaded photos. Paths are relative, '/' separated
// and already sanitized by the caller.
type StorageAPI interface {
	Save(ctx context.Context, path string, reader io.Reader, mimeType string) (int64, error)
	Delete(ctx context.Context, path string) error
	// URL is the public address of a stored file
	URL(path string) string
	GetBucket() *Bucket
}

type Storage struct {
	Bucket Bucket
}

func (s *Storage) GetBucket() *Bucket {
	return &s.Bucket
}

var defaultStorage StorageAPI

// Init creates the storage configured by STORAGE_TYPE
func Init() error {
	bucket := BucketFromConfig()
	storage, err := New(&bucket)
	if err != nil {
		return err
	}
	b := storage.GetBucket()
	logger.Info("storage ready",
		logger.String("type", string(b.StorageType)),
		logger.String("bucket", b.Name),
		logger.String("path", b.Path))
	defaultStorage = storage
	return nil
}

func New(bucket *Bucket) (StorageAPI, error) {
	switch bucket.StorageType {
	case StorageTypeFile:
		return NewDiskStorage(bucket)
	case StorageTypeS3:
		return NewS3Storage(bucket)
	case StorageTypeMinio:
		return NewMinioStorage(bucket)
	}
	return nil, fmt.Errorf("storage type %q unavailable", bucket.StorageType)
}

func SetDefaultStorage(s StorageAPI) {
	defaultStorage = s
}

func GetDefaultStorage() StorageAPI {
	if defaultStorage == nil {
		panic("no storage available")
	}
	return defaultStorage
}

func publicURL(path string) string {
	return config.PUBLIC_URL + "/uploads/" + path
}
