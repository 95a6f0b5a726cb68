package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomKey creates a cryptographically secure random object key part.
func RandomKey(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
