package ring

import (
	"fmt"

	"github.com/pkg/errors"

	mlkem "github.com/BackendStack21/ml-kem-go"
)

// Domain tags the representation of a ring element.
type Domain uint8

const (
	// Coefficient is the ordinary polynomial representation.
	Coefficient Domain = iota
	// NTT is the number-theoretic-transform representation.
	NTT
)

func (d Domain) String() string {
	switch d {
	case Coefficient:
		return "coefficient"
	case NTT:
		return "ntt"
	default:
		return fmt.Sprintf("domain(%d)", uint8(d))
	}
}

// Ring is an element of R_q. Every coefficient is kept in [0, q).
type Ring struct {
	Coeffs [n]uint16
	Domain Domain
}

// NewRing returns the zero element in the given domain.
func NewRing(d Domain) Ring {
	return Ring{Domain: d}
}

// invalidRepresentation aborts on a domain mismatch. Domains are fixed by the
// algorithms, never by input data, so reaching this is a programming error.
func invalidRepresentation(op string, got, want Domain) {
	panic(errors.Wrapf(mlkem.ErrInvalidRepresentation, "%s: operand in %s domain, want %s", op, got, want))
}

// invalidShape aborts on mismatched vector lengths or widths, which are also
// fixed by the parameter set.
func invalidShape(format string, args ...interface{}) {
	panic(errors.Wrapf(mlkem.ErrInvalidRepresentation, format, args...))
}

func (f *Ring) mustBe(want Domain, op string) {
	if f.Domain != want {
		invalidRepresentation(op, f.Domain, want)
	}
}

func (f *Ring) mustMatch(g *Ring, op string) {
	if f.Domain != g.Domain {
		invalidRepresentation(op, g.Domain, f.Domain)
	}
}

// Add sets f = f + g. Both operands must share a domain.
func (f *Ring) Add(g *Ring) {
	f.mustMatch(g, "add")
	for i := range f.Coeffs {
		f.Coeffs[i] = fieldAdd(f.Coeffs[i], g.Coeffs[i])
	}
}

// Sub sets f = f - g. Both operands must share a domain.
func (f *Ring) Sub(g *Ring) {
	f.mustMatch(g, "sub")
	for i := range f.Coeffs {
		f.Coeffs[i] = fieldSub(f.Coeffs[i], g.Coeffs[i])
	}
}

// ScalarMul multiplies every coefficient by c mod q.
func (f *Ring) ScalarMul(c uint16) {
	c %= q
	for i := range f.Coeffs {
		f.Coeffs[i] = fieldMul(f.Coeffs[i], c)
	}
}

// MulNTT sets f = f * g using base-case multiplication of the 128 degree-one
// residues. Both operands must be in the NTT domain.
func (f *Ring) MulNTT(g *Ring) {
	f.mustBe(NTT, "multiply")
	g.mustBe(NTT, "multiply")

	gammas := &getTables().gammas
	a, b := &f.Coeffs, &g.Coeffs
	for i := 0; i < n/2; i++ {
		a0, a1 := uint32(a[2*i]), uint32(a[2*i+1])
		b0, b1 := uint32(b[2*i]), uint32(b[2*i+1])
		gamma := uint32(gammas[i])

		c0 := (a0*b0 + (a1*b1%q)*gamma) % q
		c1 := (a0*b1 + a1*b0) % q
		a[2*i] = uint16(c0)
		a[2*i+1] = uint16(c1)
	}
}

// Product returns a * b without modifying either operand.
func Product(a, b *Ring) Ring {
	r := *a
	r.MulNTT(b)
	return r
}

// NTT transforms f in place from the coefficient domain to the NTT domain.
// Implements FIPS 203 Algorithm 9.
func (f *Ring) NTT() {
	f.mustBe(Coefficient, "ntt")

	zetas := &getTables().zetas
	c := &f.Coeffs
	k := 1
	for length := 128; length >= 2; length /= 2 {
		for start := 0; start < n; start += 2 * length {
			zeta := zetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := fieldMul(zeta, c[j+length])
				c[j+length] = fieldSub(c[j], t)
				c[j] = fieldAdd(c[j], t)
			}
		}
	}
	f.Domain = NTT
}

// InverseNTT transforms f in place from the NTT domain back to the
// coefficient domain. Implements FIPS 203 Algorithm 10.
func (f *Ring) InverseNTT() {
	f.mustBe(NTT, "inverse ntt")

	zetas := &getTables().zetas
	c := &f.Coeffs
	k := 127
	for length := 2; length <= 128; length *= 2 {
		for start := 0; start < n; start += 2 * length {
			zeta := zetas[k]
			k--
			for j := start; j < start+length; j++ {
				t := c[j]
				c[j] = fieldAdd(t, c[j+length])
				c[j+length] = fieldMul(zeta, fieldSub(c[j+length], t))
			}
		}
	}
	f.ScalarMul(invN128)
	f.Domain = Coefficient
}

// Equal reports whether f and g hold the same coefficients in the same domain.
func (f *Ring) Equal(g *Ring) bool {
	return f.Domain == g.Domain && f.Coeffs == g.Coeffs
}

// Zeroize clears the coefficients of f.
func (f *Ring) Zeroize() {
	for i := range f.Coeffs {
		f.Coeffs[i] = 0
	}
}
