package media

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/go-account-service/pkg/helpers"
)

var ErrNoFile = errors.New("media: no local file")

// GCSHost uploads local temp files to a GCS bucket and removes them afterwards.
type GCSHost struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSHost(client *storage.Client, bucket, prefix string) *GCSHost {
	return &GCSHost{client: client, bucket: bucket, prefix: prefix}
}

// Upload stores the file at localPath and returns its public URL.
// The local file is removed whatever the outcome.
func (h *GCSHost) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", ErrNoFile
	}
	defer helpers.RemoveTempFiles(localPath)

	if h.client == nil || h.bucket == "" {
		return "", errors.New("media: gcs not configured")
	}
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(localPath))
	objectPath := path.Join(h.prefix, uuid.NewString()+ext)
	return helpers.UploadObject(ctx, h.client, h.bucket, objectPath, contentType(f, ext), f)
}

func contentType(f *os.File, ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	head := make([]byte, 512)
	n, _ := f.Read(head)
	_, _ = f.Seek(0, 0)
	return http.DetectContentType(head[:n])
}
