package helpers

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(accessTTL, refreshTTL time.Duration) *JWTManager {
	return NewJWTManager("access-secret", "refresh-secret", accessTTL, refreshTTL)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()
	m := newTestJWT(time.Hour, 24*time.Hour)

	tok, exp, err := m.GenerateAccessToken("u1", "alice", "alice@x.com", "Alice Doe")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, "Alice Doe", claims.FullName)
	assert.NotNil(t, claims.IssuedAt)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()
	m := newTestJWT(time.Hour, 24*time.Hour)

	tok, _, err := m.GenerateRefreshToken("u1")
	require.NoError(t, err)

	claims, err := m.ParseRefreshToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()
	m := newTestJWT(-time.Second, time.Hour)

	tok, _, err := m.GenerateAccessToken("u1", "alice", "a@x.com", "A")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTokenExpired))
	assert.False(t, errors.Is(err, ErrTokenInvalid))
}

func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	t.Parallel()
	m := newTestJWT(time.Hour, time.Hour)

	access, _, err := m.GenerateAccessToken("u1", "alice", "a@x.com", "A")
	require.NoError(t, err)
	refresh, _, err := m.GenerateRefreshToken("u1")
	require.NoError(t, err)

	_, err = m.ParseRefreshToken(access)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
	_, err = m.ParseAccessToken(refresh)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()
	m := newTestJWT(time.Hour, time.Hour)

	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := m.ParseAccessToken(tok)
		assert.True(t, errors.Is(err, ErrTokenInvalid), tok)
	}
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	m := newTestJWT(time.Hour, time.Hour)

	claims := &AccessClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.AccessSecret)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestParse_RequiresSubject(t *testing.T) {
	t.Parallel()
	m := newTestJWT(time.Hour, time.Hour)

	tok, _, err := m.GenerateRefreshToken("")
	require.NoError(t, err)
	_, err = m.ParseRefreshToken(tok)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestTokensMintedTogetherDiffer(t *testing.T) {
	t.Parallel()
	m := newTestJWT(time.Hour, time.Hour)

	a, _, err := m.GenerateRefreshToken("u1")
	require.NoError(t, err)
	b, _, err := m.GenerateRefreshToken("u1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
