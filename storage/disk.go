package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type DiskStorage struct {
	Storage
	// BasePath is a directory that is writable by the current process
	BasePath  string
	dirs      map[string]bool
	dirsMutex sync.Mutex
}

func NewDiskStorage(bucket *Bucket) (StorageAPI, error) {
	basePath, err := filepath.Abs(bucket.Path)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(basePath, 0755); err != nil {
		return nil, err
	}
	return &DiskStorage{
		BasePath: basePath,
		Storage: Storage{
			Bucket: *bucket,
		},
		dirs: make(map[string]bool, 10),
	}, nil
}

func (s *DiskStorage) createDir(dir string) error {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	if ok := s.dirs[dir]; ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	s.dirs[dir] = true
	return nil
}

// getFullPath refuses anything that would end up outside BasePath
func (s *DiskStorage) getFullPath(path string) (string, error) {
	full := filepath.Join(s.BasePath, filepath.FromSlash(path))
	if !strings.HasPrefix(full, s.BasePath+string(filepath.Separator)) {
		return "", fs.ErrInvalid
	}
	return full, nil
}

func (s *DiskStorage) Save(ctx context.Context, path string, reader io.Reader, mimeType string) (int64, error) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return 0, err
	}
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return 0, err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fileName)
	}
	return result, err
}

func (s *DiskStorage) Delete(ctx context.Context, path string) error {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return err
	}
	err = os.Remove(fileName)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotExist
	}
	return err
}

func (s *DiskStorage) URL(path string) string {
	return publicURL(path)
}

func (s *DiskStorage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		http.NotFound(writer, request)
		return
	}
	// no directory listings
	if fi, err := os.Stat(fileName); err != nil || fi.IsDir() {
		http.NotFound(writer, request)
		return
	}
	http.ServeFile(writer, request, fileName)
}
