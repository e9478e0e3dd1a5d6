package storage

import (
	"strings"

	"github.com/Albumate/Albumate-Back/config"
)

type StorageType string

const (
	StorageTypeFile  StorageType = "disk"
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
)

type Bucket struct {
	Name          string
	StorageType   StorageType
	Path          string // Path on a drive or a prefix in a S3/MinIO bucket
	Region        string
	Endpoint      string
	AuthDetails   string // "key:secret" for S3 and MinIO
	UseSSL        bool
	SSEEncryption string
}

func BucketFromConfig() Bucket {
	b := Bucket{
		Name:        config.STORAGE_BUCKET,
		StorageType: StorageType(strings.ToLower(config.STORAGE_TYPE)),
		Path:        config.STORAGE_PATH,
		Region:      config.STORAGE_REGION,
		Endpoint:    config.STORAGE_ENDPOINT,
		UseSSL:      config.STORAGE_USE_SSL,
	}
	if b.StorageType == StorageTypeS3 {
		b.SSEEncryption = config.STORAGE_SSE
	}
	if config.STORAGE_ACCESS_KEY != "" {
		b.AuthDetails = config.STORAGE_ACCESS_KEY + ":" + config.STORAGE_SECRET_KEY
	}
	return b
}

func (b *Bucket) credentials() (key, secret string) {
	key, secret, _ = strings.Cut(b.AuthDetails, ":")
	return
}

// GetRemotePath returns the object key for path, prefixed with the bucket Path
func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}
