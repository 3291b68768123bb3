package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// JWTManager handles generation and validation of JWT tokens.
// Access and refresh tokens are signed with distinct secrets.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

// AccessClaims identify the user on every guarded request.
type AccessClaims struct {
	UserID   string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// RefreshClaims carry the identifier only.
type RefreshClaims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// registered stamps a unique token id so two tokens minted in the same second differ.
func registered(ttl time.Duration) (jwt.RegisteredClaims, time.Time) {
	now := time.Now()
	exp := now.Add(ttl)
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	}, exp
}

func (m *JWTManager) GenerateAccessToken(userID, username, email, fullName string) (string, time.Time, error) {
	rc, exp := registered(m.AccessTTL)
	claims := &AccessClaims{
		UserID:           userID,
		Username:         username,
		Email:            email,
		FullName:         fullName,
		RegisteredClaims: rc,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.AccessSecret)
	return s, exp, err
}

func (m *JWTManager) GenerateRefreshToken(userID string) (string, time.Time, error) {
	rc, exp := registered(m.RefreshTTL)
	claims := &RefreshClaims{UserID: userID, RegisteredClaims: rc}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.RefreshSecret)
	return s, exp, err
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parseToken(tokenStr, m.AccessSecret, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parseToken(tokenStr, m.RefreshSecret, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// parseToken verifies signature and expiry. Failures are reported as
// ErrTokenExpired or ErrTokenInvalid, wrapping the library error.
func parseToken(tokenStr string, secret []byte, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !tkn.Valid {
		return ErrTokenInvalid
	}
	return nil
}
