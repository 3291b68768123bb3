package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_NoFile(t *testing.T) {
	_, err := NewGCSHost(nil, "b", "avatars").Upload(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestUpload_RemovesLocalFileOnFailure(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(p, []byte("img"), 0o600))

	_, err := NewGCSHost(nil, "", "avatars").Upload(context.Background(), p)
	require.Error(t, err)

	_, statErr := os.Stat(p)
	assert.True(t, os.IsNotExist(statErr))
}

func TestContentType(t *testing.T) {
	p := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(p, []byte("\x89PNG\r\n\x1a\n0000"), 0o600))
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "image/png", contentType(f, ""))
	assert.Equal(t, "image/png", contentType(f, ".png"))
}
