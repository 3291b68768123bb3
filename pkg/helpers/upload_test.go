package helpers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartContext(t *testing.T, field, filename string, content []byte) *gin.Context {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("username", "alice"))
	require.NoError(t, mw.Close())

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return c
}

func TestSaveTempFile(t *testing.T) {
	dir := t.TempDir()
	c := multipartContext(t, "avatar", "Me.PNG", []byte("img"))

	path, err := SaveTempFile(c, "avatar", filepath.Join(dir, "temp"))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "img", string(b))

	RemoveTempFiles(path, "")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveTempFile_Missing(t *testing.T) {
	c := multipartContext(t, "", "", nil)
	path, err := SaveTempFile(c, "avatar", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
}
