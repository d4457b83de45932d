package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GeneratePin returns a random 6-digit PIN, zero-padded. PINs are the
// human-shareable lookup key users exchange out of band.
func GeneratePin() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate pin: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// IsValidPin reports whether s is exactly 6 ASCII digits.
func IsValidPin(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
