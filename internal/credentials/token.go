package credentials

import "crypto/rand"

const (
	tokenLength   = 32
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// TokenSource yields opaque station bearer tokens.
type TokenSource func() string

// NewToken returns a random fixed-length alphanumeric token.
func NewToken() string {
	buf := make([]byte, tokenLength)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf)
}
