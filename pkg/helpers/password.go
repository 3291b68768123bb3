package helpers

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is bcrypt's input limit. It counts bytes, not runes.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned for passwords over MaxPasswordBytes.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// PasswordCost is the bcrypt work factor. Tests may lower it.
var PasswordCost = bcrypt.DefaultCost

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
