package client

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/casdoor/oss"
)

type fakeObjectStore struct {
	failPut bool
	putKeys []string
}

func (f *fakeObjectStore) Get(path string) (*os.File, error)            { return nil, errors.New("not implemented") }
func (f *fakeObjectStore) GetStream(path string) (io.ReadCloser, error) { return nil, errors.New("not implemented") }
func (f *fakeObjectStore) Delete(path string) error                     { return nil }
func (f *fakeObjectStore) List(path string) ([]*oss.Object, error)      { return nil, nil }
func (f *fakeObjectStore) GetEndpoint() string                          { return "cdn.example.com" }

func (f *fakeObjectStore) Put(path string, r io.Reader) (*oss.Object, error) {
	if f.failPut {
		return nil, errors.New("put failed")
	}
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	f.putKeys = append(f.putKeys, path)
	return &oss.Object{Path: path, Name: filepath.Base(path), StorageInterface: f}, nil
}

func (f *fakeObjectStore) GetURL(path string) (string, error) {
	return "https://cdn.example.com/" + path, nil
}

func writeTempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "avatar.png")
	if err := os.WriteFile(path, []byte("image-bytes"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestUploadPublishesAndRemovesTempFile(t *testing.T) {
	store := &fakeObjectStore{}
	c := NewMediaClient(store)
	path := writeTempFile(t)

	url, err := c.Upload(path)
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/media/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected URL: %q", url)
	}
	if len(store.putKeys) != 1 {
		t.Fatalf("expected one object stored, got %d", len(store.putKeys))
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("temp file not removed after successful upload")
	}
}

func TestUploadRemovesTempFileOnFailure(t *testing.T) {
	store := &fakeObjectStore{failPut: true}
	c := NewMediaClient(store)
	path := writeTempFile(t)

	if _, err := c.Upload(path); err == nil {
		t.Fatalf("expected upload error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("temp file not removed after failed upload")
	}
}

func TestUploadEmptyPath(t *testing.T) {
	c := NewMediaClient(&fakeObjectStore{})
	if _, err := c.Upload(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
