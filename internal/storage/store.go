package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTooLarge is returned when the uploaded file exceeds the size limit.
	ErrTooLarge = errors.New("image exceeds the maximum allowed size")
	// ErrBadType is returned when the file is not one of the accepted image formats.
	ErrBadType = errors.New("image must be a jpeg, jpg, png, gif or webp file")
)

// allowed image extensions and the content types they may sniff as
var allowedExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageStore persists an uploaded product image and returns its public
// path or URL.
type ImageStore interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

// objectName builds a collision-resistant filename so concurrent uploads
// never write the same path.
func objectName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
}

// checkUpload validates size, extension and sniffed content type. It
// returns an open file positioned at the start of the content.
func checkUpload(fh *multipart.FileHeader, maxBytes int64) (multipart.File, error) {
	if fh.Size > maxBytes {
		return nil, ErrTooLarge
	}
	if !allowedExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return nil, ErrBadType
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		_ = f.Close()
		return nil, err
	}
	if !allowedContentTypes[http.DetectContentType(head[:n])] {
		_ = f.Close()
		return nil, ErrBadType
	}
	if _, err := f.Seek(0, 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}
