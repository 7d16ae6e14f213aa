package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/casdoor/oss"
)

// LocalFileSystem stores media under a local folder. Used for development
// and tests; production deployments point STORAGE_PROVIDER at S3 or MinIO.
type LocalFileSystem struct {
	Folder string
}

func NewFileSystem(folder string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage folder: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage folder: %w", err)
	}
	return &LocalFileSystem{Folder: abs}, nil
}

func (fs *LocalFileSystem) fullPath(p string) string {
	if strings.HasPrefix(p, fs.Folder) {
		return p
	}
	full, _ := filepath.Abs(filepath.Join(fs.Folder, p))
	return full
}

func (fs *LocalFileSystem) Get(p string) (*os.File, error) {
	return os.Open(fs.fullPath(p))
}

func (fs *LocalFileSystem) GetStream(p string) (io.ReadCloser, error) {
	return os.Open(fs.fullPath(p))
}

func (fs *LocalFileSystem) Put(p string, r io.Reader) (*oss.Object, error) {
	full := fs.fullPath(p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("failed to create object file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return nil, fmt.Errorf("failed to write object: %w", err)
	}

	return &oss.Object{Path: p, Name: filepath.Base(p), StorageInterface: fs}, nil
}

func (fs *LocalFileSystem) Delete(p string) error {
	return os.Remove(fs.fullPath(p))
}

func (fs *LocalFileSystem) List(p string) ([]*oss.Object, error) {
	var objects []*oss.Object
	root := fs.fullPath(p)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		mt := info.ModTime()
		objects = append(objects, &oss.Object{
			Path:             strings.TrimPrefix(path, fs.Folder),
			Name:             info.Name(),
			LastModified:     &mt,
			StorageInterface: fs,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	return objects, nil
}

// GetEndpoint returns "/": local objects are addressed by path only.
func (fs *LocalFileSystem) GetEndpoint() string {
	return "/"
}

func (fs *LocalFileSystem) GetURL(p string) (string, error) {
	return "/" + strings.TrimPrefix(p, "/"), nil
}
