package utils

import (
	"sync"

	"golang.org/x/crypto/sha3"
)

// shake128Rate is the SHAKE128 block size in bytes. It is a multiple of 3, so
// a buffered XOF never splits a 3-byte draw across two squeezes.
const shake128Rate = 168

var shake256Pool = sync.Pool{
	New: func() interface{} {
		return sha3.NewShake256()
	},
}

// Shake256Into computes SHAKE256 over the concatenated inputs and fills output.
func Shake256Into(output []byte, inputs ...[]byte) {
	h := shake256Pool.Get().(sha3.ShakeHash)
	defer func() {
		h.Reset()
		shake256Pool.Put(h)
	}()

	for _, in := range inputs {
		h.Write(in)
	}
	_, _ = h.Read(output)
}

// G computes SHA3-512 over the concatenated inputs and splits the digest into
// two 32-byte halves.
func G(inputs ...[]byte) (a, b [32]byte) {
	h := sha3.New512()
	for _, in := range inputs {
		h.Write(in)
	}
	digest := h.Sum(nil)
	copy(a[:], digest[:32])
	copy(b[:], digest[32:])
	Zeroize(digest)
	return a, b
}

// H computes SHA3-256 over the concatenated inputs.
func H(inputs ...[]byte) (out [32]byte) {
	h := sha3.New256()
	for _, in := range inputs {
		h.Write(in)
	}
	copy(out[:], h.Sum(nil))
	return out
}

// J computes SHAKE256 over the concatenated inputs, truncated to 32 bytes.
func J(inputs ...[]byte) (out [32]byte) {
	Shake256Into(out[:], inputs...)
	return out
}

// PRF expands a 32-byte seed and a one-byte counter into 64*eta bytes of
// SHAKE256 output.
func PRF(eta int, seed []byte, counter byte) []byte {
	out := make([]byte, 64*eta)
	Shake256Into(out, seed, []byte{counter})
	return out
}

// XOF is a SHAKE128 stream keyed by a seed and two index bytes, consumed three
// bytes at a time. A stream is bound to one matrix entry and must not be reused.
type XOF struct {
	h   sha3.ShakeHash
	buf [shake128Rate]byte
	off int
}

// NewXOF absorbs seed || a || b and returns the squeezing stream.
func NewXOF(seed []byte, a, b byte) *XOF {
	h := sha3.NewShake128()
	h.Write(seed)
	h.Write([]byte{a, b})
	return &XOF{h: h, off: shake128Rate}
}

// Next3 returns the next three bytes of the stream.
func (x *XOF) Next3() (out [3]byte) {
	if x.off == len(x.buf) {
		_, _ = x.h.Read(x.buf[:])
		x.off = 0
	}
	copy(out[:], x.buf[x.off:x.off+3])
	x.off += 3
	return out
}
