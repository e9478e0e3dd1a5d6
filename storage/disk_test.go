package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestDisk(t *testing.T) *DiskStorage {
	t.Helper()
	s, err := NewDiskStorage(&Bucket{StorageType: StorageTypeFile, Path: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	return s.(*DiskStorage)
}

func TestDiskStorage_SaveDelete(t *testing.T) {
	s := newTestDisk(t)
	ctx := context.Background()

	n, err := s.Save(ctx, "albums/1/a.jpg", strings.NewReader("jpeg bytes"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len("jpeg bytes")) {
		t.Errorf("Save() wrote %d bytes", n)
	}
	data, err := os.ReadFile(filepath.Join(s.BasePath, "albums", "1", "a.jpg"))
	if err != nil || string(data) != "jpeg bytes" {
		t.Fatalf("stored file = %q, %v", data, err)
	}

	if err = s.Delete(ctx, "albums/1/a.jpg"); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if err = s.Delete(ctx, "albums/1/a.jpg"); !errors.Is(err, ErrNotExist) {
		t.Errorf("second Delete() = %v, want ErrNotExist", err)
	}
}

func TestDiskStorage_RejectsEscapingPaths(t *testing.T) {
	s := newTestDisk(t)
	ctx := context.Background()
	for _, path := range []string{"../outside.jpg", "albums/../../outside.jpg", ""} {
		if _, err := s.Save(ctx, path, strings.NewReader("x"), "image/jpeg"); err == nil {
			t.Errorf("Save(%q) succeeded", path)
		}
		if err := s.Delete(ctx, path); err == nil || errors.Is(err, ErrNotExist) {
			t.Errorf("Delete(%q) = %v, want a path error", path, err)
		}
	}
}

func TestDiskStorage_Serve(t *testing.T) {
	s := newTestDisk(t)
	if _, err := s.Save(context.Background(), "albums/2/b.png", strings.NewReader("png"), "image/png"); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		path string
		want int
	}{
		{"file", "albums/2/b.png", http.StatusOK},
		{"directory", "albums/2", http.StatusNotFound},
		{"missing", "albums/2/none.png", http.StatusNotFound},
		{"escape", "../x", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Serve(tt.path, httptest.NewRequest(http.MethodGet, "/uploads/"+tt.path, nil), w)
			if w.Code != tt.want {
				t.Errorf("Serve(%q) status = %d, want %d", tt.path, w.Code, tt.want)
			}
		})
	}
}

func TestBucket_GetRemotePath(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "albums/1/a.jpg"},
		{"uploads", "uploads/albums/1/a.jpg"},
		{"/uploads/", "uploads/albums/1/a.jpg"},
	}
	for _, tt := range tests {
		b := Bucket{Path: tt.prefix}
		if got := b.GetRemotePath("albums/1/a.jpg"); got != tt.want {
			t.Errorf("GetRemotePath() with prefix %q = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}
