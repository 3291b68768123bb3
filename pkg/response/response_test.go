package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SuccessDerivedFromStatus(t *testing.T) {
	assert.True(t, New(http.StatusCreated, 1, "ok").Success)
	assert.False(t, New(http.StatusNotFound, 1, "missing").Success)
	assert.Equal(t, http.StatusOK, New(0, 1, "").StatusCode)
}

func TestError_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, http.StatusConflict, "taken", nil)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, c.IsAborted())
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(409), body["statusCode"])
	assert.Equal(t, "taken", body["message"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, []any{}, body["errors"])
}

func TestSuccess_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusOK, gin.H{"a": 1}, "fine")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"a": float64(1)}, body["data"])
}
