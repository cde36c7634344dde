package storage

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// LocalStore writes uploads to a directory on disk. Files are exposed
// read-only under the /uploads URL prefix.
type LocalStore struct {
	Dir      string
	MaxBytes int64
}

func NewLocalStore(dir string, maxBytes int64) *LocalStore {
	return &LocalStore{Dir: dir, MaxBytes: maxBytes}
}

func (s *LocalStore) Save(_ context.Context, fh *multipart.FileHeader) (string, error) {
	src, err := checkUpload(fh, s.MaxBytes)
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	name := objectName(fh.Filename)
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

var _ ImageStore = (*LocalStore)(nil)
