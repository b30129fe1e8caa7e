// Package ring implements arithmetic in R_q = Z_q[X]/(X^256 + 1) for ML-KEM:
// domain-tagged ring elements, the number-theoretic transform, vectors and
// matrices of ring elements, and lossy coefficient compression.
package ring

import (
	"sync"

	mlkem "github.com/BackendStack21/ml-kem-go"
)

const (
	n = mlkem.N
	q = mlkem.Q

	// invN128 is 128^-1 mod q, applied at the end of the inverse NTT.
	invN128 = 3303
)

// BitRev7 reverses the low seven bits of x.
func BitRev7(x uint8) uint8 {
	var y uint8
	for i := 0; i < 7; i++ {
		y = (y << 1) | (x & 1)
		x >>= 1
	}
	return y
}

// ModPow computes base^exp mod q by square-and-multiply.
func ModPow(base, exp uint32) uint16 {
	result := uint32(1)
	b := base % q
	for exp > 0 {
		if exp&1 == 1 {
			result = result * b % q
		}
		b = b * b % q
		exp >>= 1
	}
	return uint16(result)
}

// twiddles holds the NTT constants. It is built once and read-only afterwards.
type twiddles struct {
	// zetas[k] = Zeta^BitRev7(k) mod q
	zetas [128]uint16
	// gammas[i] = Zeta^(2*BitRev7(i)+1) mod q
	gammas [128]uint16
}

var (
	tablesOnce sync.Once
	tables     twiddles
)

func buildTables() {
	for i := 0; i < 128; i++ {
		r := uint32(BitRev7(uint8(i)))
		tables.zetas[i] = ModPow(mlkem.Zeta, r)
		tables.gammas[i] = ModPow(mlkem.Zeta, 2*r+1)
	}
}

// getTables returns the twiddle tables, building them on first use.
// sync.Once makes the build visible to every goroutine that observes its return.
func getTables() *twiddles {
	tablesOnce.Do(buildTables)
	return &tables
}

// Zetas returns a copy of the forward/inverse NTT twiddle factors.
func Zetas() [128]uint16 {
	return getTables().zetas
}

// Gammas returns a copy of the base-case multiplication factors.
func Gammas() [128]uint16 {
	return getTables().gammas
}

// reduceOnce maps a value in [0, 2q) to [0, q) without branching.
func reduceOnce(a uint16) uint16 {
	x := a - q
	x += (x >> 15) * q
	return x
}

func fieldAdd(a, b uint16) uint16 {
	return reduceOnce(a + b)
}

func fieldSub(a, b uint16) uint16 {
	return reduceOnce(a - b + q)
}

func fieldMul(a, b uint16) uint16 {
	return uint16(uint32(a) * uint32(b) % q)
}
