// Package apikey generates and fingerprints chatbot API key secrets.
package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// Prefix marks platform keys so they are recognisable in logs and leaks.
	Prefix = "cbk_"

	// SecretBytes is the entropy drawn from crypto/rand for each key.
	SecretBytes = 32

	displayChars = 8
)

// Secret is a freshly generated key. Value must only ever be shown once.
type Secret struct {
	Value   string
	Hash    string
	Display string
}

// Generate draws a new secret from the operating system CSPRNG
func Generate() (*Secret, error) {
	raw := make([]byte, SecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate api key: %w", err)
	}

	value := Prefix + base64.RawURLEncoding.EncodeToString(raw)
	return &Secret{
		Value:   value,
		Hash:    Hash(value),
		Display: DisplayPrefix(value),
	}, nil
}

// Hash returns the hex SHA-256 digest used as the lookup column
func Hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// DisplayPrefix keeps the marker plus a few characters for identification
func DisplayPrefix(value string) string {
	n := len(Prefix) + displayChars
	if len(value) < n {
		return value
	}
	return value[:n]
}

// Mask renders a stored display prefix in redacted form
func Mask(display string) string {
	if display == "" {
		return strings.Repeat("•", 8)
	}
	return display + strings.Repeat("•", 8)
}

// Matches compares a presented secret with a stored digest in constant time
func Matches(value, storedHash string) bool {
	presented := Hash(value)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(storedHash)) == 1
}

// LooksValid rejects values that can never be a platform key before any store lookup
func LooksValid(value string) bool {
	if !strings.HasPrefix(value, Prefix) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	return err == nil && len(value) > len(Prefix)
}
