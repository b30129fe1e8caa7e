package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mlkem "github.com/BackendStack21/ml-kem-go"
)

func TestCheckLength(t *testing.T) {
	require.NoError(t, CheckLength(make([]byte, 32), 32, "seed"))

	err := CheckLength(make([]byte, 31), 32, "seed")
	require.ErrorIs(t, err, mlkem.ErrMalformedInput)
	assert.Contains(t, err.Error(), "seed: got 31 bytes, want 32")

	require.ErrorIs(t, CheckLength(make([]byte, 33), 32, "seed"), mlkem.ErrMalformedInput)
}

func TestSplitAt(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6}
	fields, err := SplitAt(data, "record", 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{1}, {2, 3}, {4, 5, 6}}, fields)

	// Fields must not alias past their own end.
	fields[0] = append(fields[0], 9)
	assert.Equal(t, byte(2), data[1])

	_, err = SplitAt(data, "record", 1, 2)
	require.ErrorIs(t, err, mlkem.ErrMalformedInput)

	_, err = SplitAt(data, "record", 7, -1)
	require.ErrorIs(t, err, mlkem.ErrMalformedInput)
}
