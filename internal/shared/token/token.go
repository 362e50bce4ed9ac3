// Package token generates single-use secrets. Only the SHA-256 hash of a
// secret is persisted; the raw value is sent to the user.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const rawBytes = 32

// Generate returns a random hex secret and its hash.
func Generate() (raw, hash string, err error) {
	b := make([]byte, rawBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	raw = hex.EncodeToString(b)
	return raw, Hash(raw), nil
}

// Hash returns the hex SHA-256 digest of raw.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
