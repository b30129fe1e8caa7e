package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"io"
	"runtime"

	"github.com/pkg/errors"
)

// RandReader is the process-wide CSPRNG. Tests may replace it.
var RandReader io.Reader = rand.Reader

// SecureRandomBytes generates n cryptographically secure random bytes.
// It uses crypto/rand, which relies on the operating system's CSPRNG.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(RandReader, buf); err != nil {
		return nil, errors.Wrap(err, "reading random bytes")
	}
	return buf, nil
}

// ConstantTimeEqual compares two byte slices in constant time.
// It returns true if the slices are equal, false otherwise.
// This function leaks only the length of the slices.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ConstantTimeSelect returns a if condition is 1, b if condition is 0.
// condition must be 0 or 1.
// a and b must have the same length.
func ConstantTimeSelect(condition int, a, b []byte) []byte {
	if len(a) != len(b) {
		panic("arrays must have same length")
	}
	result := make([]byte, len(a))
	for i := range a {
		result[i] = byte(subtle.ConstantTimeSelect(condition, int(a[i]), int(b[i])))
	}
	return result
}

// Zeroize overwrites a byte slice with zeros.
// This is used to clear sensitive data from memory.
// Uses runtime.KeepAlive to prevent compiler optimization from eliminating the stores.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
