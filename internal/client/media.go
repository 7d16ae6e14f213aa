package client

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/casdoor/oss"
	"github.com/google/uuid"
)

const mediaPrefix = "media"

// MediaClient pushes locally staged upload files to the object store and
// resolves their public URL.
type MediaClient struct {
	store oss.StorageInterface
}

func NewMediaClient(store oss.StorageInterface) *MediaClient {
	return &MediaClient{store: store}
}

// Upload publishes the file at localPath and returns its public URL.
// The local temp file is removed after the attempt, on success and on
// failure, so aborted uploads never accumulate on disk.
func (c *MediaClient) Upload(localPath string) (string, error) {
	if localPath == "" {
		return "", fmt.Errorf("no file to upload")
	}

	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove temp file %s: %v", localPath, err)
		}
	}()

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open upload file: %w", err)
	}
	defer file.Close()

	key := path.Join(mediaPrefix, uuid.NewString()+strings.ToLower(filepath.Ext(localPath)))
	object, err := c.store.Put(key, file)
	if err != nil {
		return "", fmt.Errorf("failed to store media file: %w", err)
	}

	url, err := c.store.GetURL(object.Path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve media URL: %w", err)
	}
	return url, nil
}
