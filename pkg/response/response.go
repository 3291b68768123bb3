package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope of every successful response.
type APIResponse[T any] struct {
	StatusCode int    `json:"statusCode"`
	Data       T      `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// APIError is the envelope of every failed response.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Errors     []any  `json:"errors"`
}

// New builds an envelope; success is derived from the status code.
func New[T any](status int, data T, message string) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{StatusCode: status, Data: data, Message: message, Success: status < http.StatusBadRequest}
}

// NewError builds an error envelope. A nil errs renders as an empty array.
func NewError(status int, message string, errs []any) APIError {
	if status == 0 {
		status = http.StatusBadRequest
	}
	if errs == nil {
		errs = []any{}
	}
	return APIError{StatusCode: status, Message: message, Success: false, Errors: errs}
}

// Success writes the envelope with the given status.
func Success[T any](ctx *gin.Context, status int, data T, message string) {
	resp := New(status, data, message)
	ctx.JSON(resp.StatusCode, resp)
}

// Error writes the error envelope and aborts the handler chain.
func Error(ctx *gin.Context, status int, message string, errs []any) {
	resp := NewError(status, message, errs)
	ctx.AbortWithStatusJSON(resp.StatusCode, resp)
}
