// Package credentials holds the password verifier and the station token
// source. Both are opaque to the protocol engine beyond success/failure.
package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashIterations = 100_000
	hashKeyLength  = 32
	saltLength     = 16
)

// Hasher derives PBKDF2-SHA256 password hashes. A secret pepper read from a
// file outside the database is mixed into every derivation, so a leaked
// table alone is not crackable offline.
type Hasher struct {
	pepper []byte
}

// NewHasher constructs a hasher from pepper bytes.
func NewHasher(pepper []byte) (*Hasher, error) {
	if len(pepper) == 0 {
		return nil, errors.New("credentials: empty pepper")
	}
	return &Hasher{pepper: pepper}, nil
}

// NewHasherFromFile reads the pepper from a secrets file.
func NewHasherFromFile(path string) (*Hasher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("credentials: read pepper: %w", err)
	}
	return NewHasher(data)
}

// Hash derives a new salted hash encoded as "salt$hash".
func (h *Hasher) Hash(password string) (string, error) {
	if h == nil || len(h.pepper) == 0 {
		return "", errors.New("credentials: nil hasher")
	}
	if password == "" {
		return "", errors.New("credentials: empty password")
	}
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("credentials: generate salt: %w", err)
	}
	key := h.derive(password, salt)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" + base64.RawStdEncoding.EncodeToString(key), nil
}

// Verify reports whether password matches an encoded hash. Comparison is
// constant time over the derived key.
func (h *Hasher) Verify(password, encoded string) bool {
	if h == nil || password == "" {
		return false
	}
	saltPart, hashPart, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(saltPart)
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(hashPart)
	if err != nil {
		return false
	}
	got := h.derive(password, salt)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func (h *Hasher) derive(password string, salt []byte) []byte {
	secret := append([]byte(password), h.pepper...)
	return pbkdf2.Key(secret, salt, hashIterations, hashKeyLength, sha256.New)
}
