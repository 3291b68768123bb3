package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Username string `form:"username" validate:"uname"`
	Password string `json:"password" validate:"pwd"`
}

func TestToDetails_ValidationErrors(t *testing.T) {
	v := validator.New()
	Configure(v)

	err := v.Struct(sample{Email: "nope", Username: "a b", Password: ""})
	require.Error(t, err)

	details := ToDetails(err)
	byField := map[string]FieldError{}
	for _, d := range details {
		fe := d.(FieldError)
		byField[fe.Field] = fe
	}
	assert.Equal(t, "must be a valid email", byField["email"].Message)
	assert.Equal(t, "uname", byField["username"].Tag)
	assert.Equal(t, "pwd", byField["password"].Tag)
}

func TestToDetails_JSON(t *testing.T) {
	var dst map[string]any
	err := json.Unmarshal([]byte("{"), &dst)
	details := ToDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "invalid json", details[0].(FieldError).Message)
	assert.Empty(t, ToDetails(nil))
}

func TestPasswordLimitCountsBytes(t *testing.T) {
	v := validator.New()
	Configure(v)

	assert.NoError(t, v.Var(strings.Repeat("a", 72), "pwd"))
	assert.NoError(t, v.Var(strings.Repeat("é", 36), "pwd"))
	assert.Error(t, v.Var(strings.Repeat("a", 73), "pwd"))
	assert.Error(t, v.Var(strings.Repeat("é", 40), "pwd"), "40 runes but 80 bytes")
	assert.Error(t, v.Var("", "pwd"))
}
