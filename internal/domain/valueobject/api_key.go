package valueobject

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const apiKeyBytes = 24

// APIKey is the raw bearer secret handed to a user once, at registration.
type APIKey struct {
	value string
}

// GenerateAPIKey returns a new random URL-safe key.
func GenerateAPIKey() (APIKey, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return APIKey{}, fmt.Errorf("generate api key: %w", err)
	}
	return APIKey{value: base64.RawURLEncoding.EncodeToString(buf)}, nil
}

// ParseAPIKey wraps a key presented by a client.
func ParseAPIKey(raw string) APIKey { return APIKey{value: raw} }

func (k APIKey) String() string { return k.value }
func (k APIKey) IsZero() bool   { return k.value == "" }

// Hash returns the hex SHA-256 digest stored in place of the key.
func (k APIKey) Hash() string {
	sum := sha256.Sum256([]byte(k.value))
	return hex.EncodeToString(sum[:])
}
