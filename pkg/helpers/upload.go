package helpers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaveTempFile stores the multipart file under field into dir and returns its path.
// It returns "" and no error when the request has no such file.
func SaveTempFile(c *gin.Context, field, dir string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	dst := filepath.Join(dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// RemoveTempFiles deletes the given paths, ignoring empty and already-removed ones.
func RemoveTempFiles(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		_ = os.Remove(p)
	}
}
