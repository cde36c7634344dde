package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*gcs.Client, error) {
	if credsPath == "" {
		return gcs.NewClient(ctx)
	}
	return gcs.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// GCSStore uploads product images into a bucket under products/ and
// returns their public URL.
type GCSStore struct {
	Client   *gcs.Client
	Bucket   string
	MaxBytes int64
}

func NewGCSStore(client *gcs.Client, bucket string, maxBytes int64) *GCSStore {
	return &GCSStore{Client: client, Bucket: bucket, MaxBytes: maxBytes}
}

func (s *GCSStore) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	src, err := checkUpload(fh, s.MaxBytes)
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	objectPath := "products/" + objectName(fh.Filename)
	wc := s.Client.Bucket(s.Bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, src); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(s.Bucket, objectPath), nil
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

var _ ImageStore = (*GCSStore)(nil)
