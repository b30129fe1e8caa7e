// Package utils provides the hash, randomness and byte-handling helpers shared
// by the ML-KEM packages.
// This file contains length checks for untrusted serialized input.

package utils

import (
	"github.com/pkg/errors"

	mlkem "github.com/BackendStack21/ml-kem-go"
)

// CheckLength validates that data is exactly want bytes long. The returned
// error wraps mlkem.ErrMalformedInput and names the offending field.
func CheckLength(data []byte, want int, what string) error {
	if len(data) != want {
		return errors.Wrapf(mlkem.ErrMalformedInput, "%s: got %d bytes, want %d", what, len(data), want)
	}
	return nil
}

// SplitAt cuts data into consecutive fields of the given sizes. The sizes
// must add up to len(data) exactly.
func SplitAt(data []byte, what string, sizes ...int) ([][]byte, error) {
	total := 0
	for _, s := range sizes {
		if s < 0 {
			return nil, errors.Wrapf(mlkem.ErrMalformedInput, "%s: negative field size", what)
		}
		total += s
	}
	if err := CheckLength(data, total, what); err != nil {
		return nil, err
	}
	fields := make([][]byte, len(sizes))
	off := 0
	for i, s := range sizes {
		fields[i] = data[off : off+s : off+s]
		off += s
	}
	return fields, nil
}
