// Package sample draws ring elements from byte streams: uniform rejection
// sampling for the public matrix and centered binomial sampling for secrets
// and errors.
package sample

import (
	"github.com/pkg/errors"

	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/ring"
	"github.com/BackendStack21/ml-kem-go/utils"
)

const (
	n = mlkem.N
	q = mlkem.Q
)

// Stream yields bytes three at a time. *utils.XOF satisfies it.
type Stream interface {
	Next3() [3]byte
}

// UniformNTT fills an NTT-domain ring element by rejection sampling 12-bit
// candidates from stream. Rejected candidates are skipped without restarting
// the stream, so the number of bytes consumed varies.
func UniformNTT(stream Stream) ring.Ring {
	f := ring.NewRing(ring.NTT)
	for j := 0; j < n; {
		c := stream.Next3()
		d1 := uint16(c[0]) | uint16(c[1]&0x0f)<<8
		d2 := uint16(c[1])>>4 | uint16(c[2])<<4
		if d1 < q {
			f.Coeffs[j] = d1
			j++
		}
		if d2 < q && j < n {
			f.Coeffs[j] = d2
			j++
		}
	}
	return f
}

// CBD samples a coefficient-domain ring element from the centered binomial
// distribution with parameter eta. b must hold exactly 64*eta bytes and is read
// as a little-endian bit stream.
func CBD(eta int, b []byte) ring.Ring {
	if eta < 1 || len(b) != 64*eta {
		panic(errors.Wrapf(mlkem.ErrInvalidRepresentation, "cbd: got %d bytes for eta %d, want %d", len(b), eta, 64*eta))
	}
	bit := func(i int) uint16 {
		return uint16(b[i>>3]>>(i&7)) & 1
	}

	f := ring.NewRing(ring.Coefficient)
	for i := 0; i < n; i++ {
		var x, y uint16
		base := 2 * i * eta
		for j := 0; j < eta; j++ {
			x += bit(base + j)
			y += bit(base + eta + j)
		}
		f.Coeffs[i] = (x + q - y) % q
	}
	return f
}

// ExpandMatrix regenerates the k x k public matrix from rho. Entry (i, j) is
// sampled from XOF(rho || j || i).
func ExpandMatrix(rho []byte, k int) *ring.Matrix {
	m := ring.NewMatrix(k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			m.Set(i, j, UniformNTT(utils.NewXOF(rho, byte(j), byte(i))))
		}
	}
	return m
}

// Noise derives CBD samples from PRF(seed, counter), advancing the one-byte
// counter once per ring element regardless of eta.
type Noise struct {
	seed    []byte
	counter byte
}

// NewNoise starts a noise source at counter zero.
func NewNoise(seed []byte) *Noise {
	return &Noise{seed: seed}
}

// Counter returns the next counter value to be used.
func (s *Noise) Counter() byte {
	return s.counter
}

// Ring draws one ring element.
func (s *Noise) Ring(eta int) ring.Ring {
	buf := utils.PRF(eta, s.seed, s.counter)
	s.counter++
	f := CBD(eta, buf)
	utils.Zeroize(buf)
	return f
}

// Vector draws k ring elements with consecutive counters.
func (s *Noise) Vector(k, eta int) ring.Vector {
	v := make(ring.Vector, k)
	for i := range v {
		v[i] = s.Ring(eta)
	}
	return v
}
