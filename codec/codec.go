// Package codec packs ring elements into byte strings and back.
//
// Coefficient i of a d-bit encoding occupies bits [i*d, (i+1)*d) of the output,
// and bit b of the output is bit b%8 of byte b/8. Every encoding of 256
// coefficients therefore takes exactly 32*d bytes.
package codec

import (
	"fmt"

	"github.com/pkg/errors"

	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/ring"
	"github.com/BackendStack21/ml-kem-go/utils"
)

const (
	n = mlkem.N
	q = mlkem.Q

	// FullWidth is the bit width of an uncompressed coefficient.
	FullWidth = 12
)

// EncodedSize returns the size in bytes of one d-bit encoded ring element.
func EncodedSize(d int) int {
	return 32 * d
}

func checkWidth(d int) {
	if d < 1 || d > FullWidth {
		panic(errors.Wrapf(mlkem.ErrInvalidRepresentation, "codec: bit width %d out of range", d))
	}
}

// AppendEncode appends the d-bit encoding of coeffs to dst. Only the low d bits
// of each coefficient are used.
func AppendEncode(dst []byte, coeffs *[n]uint16, d int) []byte {
	checkWidth(d)
	mask := uint32(1)<<d - 1
	var acc uint32
	bits := 0
	for _, c := range coeffs {
		acc |= (uint32(c) & mask) << bits
		bits += d
		for bits >= 8 {
			dst = append(dst, byte(acc))
			acc >>= 8
			bits -= 8
		}
	}
	return dst
}

// Encode returns the d-bit encoding of coeffs.
func Encode(coeffs *[n]uint16, d int) []byte {
	return AppendEncode(make([]byte, 0, EncodedSize(d)), coeffs, d)
}

// Decode unpacks 256 d-bit values from b, which must be exactly 32*d bytes.
// At full width the values are reduced mod q.
func Decode(b []byte, d int) ([n]uint16, error) {
	checkWidth(d)
	var out [n]uint16
	if err := utils.CheckLength(b, EncodedSize(d), fmt.Sprintf("%d-bit ring encoding", d)); err != nil {
		return out, err
	}

	mask := uint32(1)<<d - 1
	var acc uint32
	bits, idx := 0, 0
	for i := range out {
		for bits < d {
			acc |= uint32(b[idx]) << bits
			idx++
			bits += 8
		}
		v := acc & mask
		acc >>= d
		bits -= d
		if d == FullWidth {
			v %= q
		}
		out[i] = uint16(v)
	}
	return out, nil
}

// EncodeRing appends the 12-bit encoding of f to dst. The domain tag is not
// encoded.
func EncodeRing(dst []byte, f *ring.Ring) []byte {
	return AppendEncode(dst, &f.Coeffs, FullWidth)
}

// DecodeRing unpacks a 12-bit encoded ring element and tags it with domain.
func DecodeRing(b []byte, domain ring.Domain) (ring.Ring, error) {
	coeffs, err := Decode(b, FullWidth)
	if err != nil {
		return ring.Ring{}, err
	}
	return ring.Ring{Coeffs: coeffs, Domain: domain}, nil
}

// EncodeVector appends the 12-bit encoding of every element of v to dst.
func EncodeVector(dst []byte, v ring.Vector) []byte {
	for i := range v {
		dst = EncodeRing(dst, &v[i])
	}
	return dst
}

// DecodeVector unpacks k 12-bit encoded ring elements.
func DecodeVector(b []byte, k int, domain ring.Domain) (ring.Vector, error) {
	if err := utils.CheckLength(b, k*EncodedSize(FullWidth), "encoded vector"); err != nil {
		return nil, err
	}
	v := make(ring.Vector, k)
	size := EncodedSize(FullWidth)
	for i := range v {
		f, err := DecodeRing(b[i*size:(i+1)*size], domain)
		if err != nil {
			return nil, err
		}
		v[i] = f
	}
	return v, nil
}

// EncodeCompressed appends the c.D-bit encoding of c to dst.
func EncodeCompressed(dst []byte, c *ring.CompressedRing) []byte {
	return AppendEncode(dst, &c.Coeffs, c.D)
}

// DecodeCompressed unpacks a d-bit compressed ring element.
func DecodeCompressed(b []byte, d int) (ring.CompressedRing, error) {
	coeffs, err := Decode(b, d)
	if err != nil {
		return ring.CompressedRing{}, err
	}
	return ring.CompressedRing{D: d, Coeffs: coeffs}, nil
}

// EncodeCompressedVector appends every element of cv to dst.
func EncodeCompressedVector(dst []byte, cv ring.CompressedVector) []byte {
	for i := range cv {
		dst = EncodeCompressed(dst, &cv[i])
	}
	return dst
}

// DecodeCompressedVector unpacks k d-bit compressed ring elements.
func DecodeCompressedVector(b []byte, k, d int) (ring.CompressedVector, error) {
	size := EncodedSize(d)
	if err := utils.CheckLength(b, k*size, fmt.Sprintf("%d-bit compressed vector", d)); err != nil {
		return nil, err
	}
	cv := make(ring.CompressedVector, k)
	for i := range cv {
		c, err := DecodeCompressed(b[i*size:(i+1)*size], d)
		if err != nil {
			return nil, err
		}
		cv[i] = c
	}
	return cv, nil
}
