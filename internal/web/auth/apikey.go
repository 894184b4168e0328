package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashAPIKey hashes a plain API key using bcrypt, for config provisioning.
// Rejects keys longer than 72 bytes (bcrypt's maximum).
func HashAPIKey(key string) (string, error) {
	if len(key) > 72 {
		return "", fmt.Errorf("api key exceeds maximum length of 72 bytes")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckAPIKey reports whether the presented key matches any of the
// configured bcrypt hashes.
func CheckAPIKey(key string, hashes []string) bool {
	for _, hash := range hashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil {
			return true
		}
	}
	return false
}
