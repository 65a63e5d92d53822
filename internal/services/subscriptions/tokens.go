package subscriptions

import (
	"crypto/rand"
	"encoding/hex"
)

const tokenBytes = 32

// TokenFunc returns a fresh opaque token.
type TokenFunc func() (string, error)

// RandomToken returns 32 bytes from crypto/rand as 64 lowercase hex characters.
func RandomToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
