package util

import (
	"crypto/rand"
	"encoding/hex"
)

// 32 random bytes = 256 bits of entropy, well past the point where a
// check-in token is guessable.
const tokenBytes = 32

func GenerateToken() (string, error) {
	bytes := make([]byte, tokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
