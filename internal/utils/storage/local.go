package storage

import (
	"Foodgram-Backend/internal/metrics"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// MediaURLPrefix is the path local files are served under.
const MediaURLPrefix = "/media/"

// LocalStorage keeps images on disk under root.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) UploadFile(_ context.Context, name string, body []byte, _ string, folder string) (string, error) {
	key := filepath.ToSlash(filepath.Join(folder, filepath.Base(name)))
	dir := filepath.Join(s.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		metrics.RecordImageUpload("local", err)
		return "", errors.Wrap(err, "create media directory")
	}
	err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(key)), body, 0o644)
	metrics.RecordImageUpload("local", err)
	if err != nil {
		return "", errors.Wrapf(err, "write %s", key)
	}
	return key, nil
}

func (s *LocalStorage) GetPublicLinkKey(objectKey string) string {
	return MediaURLPrefix + objectKey
}

func (s *LocalStorage) GetObjectKeyFromLink(link string) string {
	key, ok := strings.CutPrefix(link, MediaURLPrefix)
	if !ok || strings.Contains(key, "..") {
		return ""
	}
	return key
}

func (s *LocalStorage) DeleteFile(_ context.Context, objectKey string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(objectKey)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete %s", objectKey)
	}
	return nil
}
