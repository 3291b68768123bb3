package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func init() {
	helpers.PasswordCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Alice ", "Alice@Example.COM ", "Alice Doe", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "s3cret", u.Password)
	assert.True(t, u.CheckPassword("s3cret"))
	assert.False(t, u.CheckPassword("S3cret"))
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	u := &User{}
	assert.False(t, u.CheckPassword(""))
	assert.False(t, u.CheckPassword("anything"))
}

func TestSetPassword_Rehashes(t *testing.T) {
	u, err := NewUser("bob", "bob@x.com", "Bob", "old")
	require.NoError(t, err)
	before := u.Password

	require.NoError(t, u.SetPassword("new"))
	assert.NotEqual(t, before, u.Password)
	assert.True(t, u.CheckPassword("new"))
	assert.False(t, u.CheckPassword("old"))
}

func TestView_HidesCredentials(t *testing.T) {
	u, err := NewUser("bob", "bob@x.com", "Bob", "pw")
	require.NoError(t, err)
	u.ID = "u1"
	u.RefreshToken = "tok"

	b, err := json.Marshal(u.View())
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, "u1", m["_id"])
	assert.NotContains(t, m, "password")
	assert.NotContains(t, m, "refreshToken")
	assert.NotContains(t, string(b), u.Password)
}

func TestApply(t *testing.T) {
	u := &User{FullName: "Old", Email: "old@x.com", AvatarURL: "a"}
	name, email, cover := "  New Name ", "NEW@x.com", "c"
	u.Apply(AccountUpdate{FullName: &name, Email: &email, CoverImageURL: &cover})

	assert.Equal(t, "New Name", u.FullName)
	assert.Equal(t, "new@x.com", u.Email)
	assert.Equal(t, "a", u.AvatarURL)
	assert.Equal(t, "c", u.CoverImageURL)
	assert.True(t, AccountUpdate{}.Empty())
	assert.False(t, AccountUpdate{AvatarURL: &cover}.Empty())
}
