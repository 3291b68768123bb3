package entity

import (
	"strings"
	"time"

	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash and is only ever set through SetPassword.
// RefreshToken is the single refresh token accepted for rotation; empty means no session.
type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	Password      string
	AvatarURL     string
	CoverImageURL string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserView is the outward projection of a User. It has no password or refresh token field.
type UserView struct {
	ID         string    `json:"_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AccountUpdate is a partial update; nil fields are left untouched.
type AccountUpdate struct {
	FullName      *string
	Email         *string
	AvatarURL     *string
	CoverImageURL *string
}

// Empty reports whether the update sets nothing.
func (a AccountUpdate) Empty() bool {
	return a.FullName == nil && a.Email == nil && a.AvatarURL == nil && a.CoverImageURL == nil
}

// NewUser builds a record with canonical username/email and a hashed password.
func NewUser(username, email, fullName, password string) (*User, error) {
	u := &User{
		Username: NormalizeUsername(username),
		Email:    NormalizeEmail(email),
		FullName: strings.TrimSpace(fullName),
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword hashes plain and stores the hash.
func (u *User) SetPassword(plain string) error {
	hash, err := helpers.HashPassword(plain)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return helpers.CompareHashAndPassword(u.Password, plain)
}

// View strips credentials.
func (u *User) View() UserView {
	return UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.AvatarURL,
		CoverImage: u.CoverImageURL,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// Apply merges a partial update into u.
func (u *User) Apply(in AccountUpdate) {
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		u.Email = NormalizeEmail(*in.Email)
	}
	if in.AvatarURL != nil {
		u.AvatarURL = *in.AvatarURL
	}
	if in.CoverImageURL != nil {
		u.CoverImageURL = *in.CoverImageURL
	}
}

// NormalizeUsername performs case-insensitive canonicalization.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmail performs case-insensitive canonicalization.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
