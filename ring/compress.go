package ring

// CompressedRing holds a ring element whose coefficients were rounded into
// [0, 2^D). It is a distinct type so it cannot be fed to ring arithmetic.
type CompressedRing struct {
	D      int
	Coeffs [n]uint16
}

// CompressedVector is a vector of compressed ring elements sharing one D.
type CompressedVector []CompressedRing

func checkWidth(d int) {
	if d < 1 || d > 11 {
		invalidShape("compression width %d out of range", d)
	}
}

// CompressCoefficient computes round(2^d / q * x) mod 2^d using only integer
// arithmetic.
func CompressCoefficient(x uint16, d int) uint16 {
	return uint16((((uint32(x) << d) + q/2) / q) & (1<<d - 1))
}

// DecompressCoefficient computes round(q / 2^d * y).
func DecompressCoefficient(y uint16, d int) uint16 {
	return uint16((uint32(y)*q + 1<<(d-1)) >> d)
}

// Compress rounds every coefficient of a coefficient-domain ring element to d bits.
func Compress(f *Ring, d int) CompressedRing {
	checkWidth(d)
	f.mustBe(Coefficient, "compress")
	c := CompressedRing{D: d}
	for i, x := range f.Coeffs {
		c.Coeffs[i] = CompressCoefficient(x, d)
	}
	return c
}

// Decompress maps the compressed coefficients back into Z_q.
func (c *CompressedRing) Decompress() Ring {
	checkWidth(c.D)
	f := NewRing(Coefficient)
	for i, y := range c.Coeffs {
		f.Coeffs[i] = DecompressCoefficient(y, c.D)
	}
	return f
}

// CompressVector compresses every element of v to d bits.
func CompressVector(v Vector, d int) CompressedVector {
	out := make(CompressedVector, len(v))
	for i := range v {
		out[i] = Compress(&v[i], d)
	}
	return out
}

// Decompress maps every element back into Z_q.
func (cv CompressedVector) Decompress() Vector {
	out := make(Vector, len(cv))
	for i := range cv {
		out[i] = cv[i].Decompress()
	}
	return out
}
