// Package token issues the opaque capability tokens that guard drawings and results
package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"io"
)

// Size is the number of random bytes behind a token, rendered as 2*Size hex chars
const Size = 12

// reader is a seam for tests
var reader io.Reader = rand.Reader

// New returns a fresh random token
func New() (string, error) {
	b := make([]byte, Size)
	if _, err := io.ReadFull(reader, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MustNew is New for callers that cannot recover from a broken entropy source
func MustNew() string {
	t, err := New()
	if err != nil {
		panic("token: " + err.Error())
	}
	return t
}

// Equal compares tokens in constant time, empty tokens never match
func Equal(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Valid reports whether s has the shape of a token
func Valid(s string) bool {
	if len(s) != 2*Size {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
