package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Storage struct {
	Storage
	s3Client *s3.S3
}

func NewS3Storage(bucket *Bucket) (StorageAPI, error) {
	if bucket.Name == "" {
		return nil, errors.New("s3 storage needs STORAGE_BUCKET")
	}
	cfg := aws.NewConfig().WithRegion(bucket.Region)
	if key, secret := bucket.credentials(); key != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(key, secret, ""))
	}
	if bucket.Endpoint != "" {
		cfg = cfg.WithEndpoint(bucket.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	return &S3Storage{
		Storage: Storage{
			Bucket: *bucket,
		},
		s3Client: s3.New(sess),
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, path string, reader io.Reader, mimeType string) (int64, error) {
	counter := &countingReader{Reader: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	_, err := uploader.UploadWithContext(ctx, s.uploadInput(path, counter, mimeType))
	return counter.n, err
}

func (s *S3Storage) uploadInput(path string, body io.Reader, mimeType string) *s3manager.UploadInput {
	input := s3manager.UploadInput{
		Bucket:      aws.String(s.Bucket.Name),
		Key:         aws.String(s.Bucket.GetRemotePath(path)),
		ContentType: aws.String(mimeType),
		Body:        body,
	}
	if s.Bucket.SSEEncryption != "" {
		input.ServerSideEncryption = aws.String(s.Bucket.SSEEncryption)
	}
	return &input
}

// Delete is idempotent on S3, a missing key is reported as ErrNotExist after a HEAD
func (s *S3Storage) Delete(ctx context.Context, path string) error {
	key := aws.String(s.Bucket.GetRemotePath(path))
	_, err := s.s3Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    key,
	})
	var aerr awserr.RequestFailure
	if errors.As(err, &aerr) && aerr.StatusCode() == 404 {
		return ErrNotExist
	}
	if err != nil {
		return err
	}
	_, err = s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    key,
	})
	return err
}

func (s *S3Storage) URL(path string) string {
	key := (&url.URL{Path: s.Bucket.GetRemotePath(path)}).EscapedPath()
	if s.Bucket.Endpoint != "" {
		return s.Bucket.Endpoint + "/" + s.Bucket.Name + "/" + key
	}
	return "https://" + s.Bucket.Name + ".s3." + s.Bucket.Region + ".amazonaws.com/" + key
}

type countingReader struct {
	io.Reader
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.n += int64(n)
	return n, err
}
