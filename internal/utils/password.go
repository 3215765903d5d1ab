package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is the bcrypt work factor for stored customer and
// reviewer credentials.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash stored for a user's password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext password matches the stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
