// Package kpke implements K-PKE, the IND-CPA public-key encryption scheme
// underneath ML-KEM (FIPS 203 Algorithms 13 to 15).
//
// K-PKE on its own is not CCA-secure and must only be used through package kem.
package kpke

import (
	"github.com/pkg/errors"

	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/ring"
	"github.com/BackendStack21/ml-kem-go/sample"
	"github.com/BackendStack21/ml-kem-go/utils"
)

// EncryptionKey is the public key (t, rho). T is in the NTT domain.
type EncryptionKey struct {
	T   ring.Vector
	Rho [mlkem.SeedSize]byte
}

// DecryptionKey is the secret vector s in the NTT domain.
type DecryptionKey struct {
	S ring.Vector
}

// Ciphertext is the compressed pair (u, v).
type Ciphertext struct {
	U ring.CompressedVector
	V ring.CompressedRing
}

// KeyGen derives a key pair deterministically from the 32-byte seed d.
func KeyGen(params mlkem.Params, d []byte) (*EncryptionKey, *DecryptionKey) {
	rho, sigma := utils.G(d, []byte{byte(params.K)})
	defer utils.Zeroize(sigma[:])

	a := sample.ExpandMatrix(rho[:], params.K)
	noise := sample.NewNoise(sigma[:])
	s := noise.Vector(params.K, params.Eta1)
	e := noise.Vector(params.K, params.Eta1)
	defer e.Zeroize()

	s.NTT()
	e.NTT()
	t := a.MulVector(s)
	t.Add(e)

	return &EncryptionKey{T: t, Rho: rho}, &DecryptionKey{S: s}
}

// GenerateKey draws a fresh seed from the system CSPRNG and runs KeyGen.
func GenerateKey(params mlkem.Params) (*EncryptionKey, *DecryptionKey, error) {
	d, err := utils.SecureRandomBytes(mlkem.SeedSize)
	if err != nil {
		return nil, nil, err
	}
	defer utils.Zeroize(d)

	ek, dk := KeyGen(params, d)
	return ek, dk, nil
}

// Encrypt encrypts the one-bit-compressed message m under ek using the 32-byte
// randomness r. The same inputs always produce the same ciphertext.
func Encrypt(params mlkem.Params, ek *EncryptionKey, m ring.CompressedRing, r []byte) *Ciphertext {
	if m.D != 1 {
		panic(errors.Wrapf(mlkem.ErrInvalidRepresentation, "kpke: message compressed to %d bits, want 1", m.D))
	}
	a := sample.ExpandMatrix(ek.Rho[:], params.K)

	noise := sample.NewNoise(r)
	y := noise.Vector(params.K, params.Eta1)
	e1 := noise.Vector(params.K, params.Eta2)
	e2 := noise.Ring(params.Eta2)
	defer func() {
		y.Zeroize()
		e1.Zeroize()
		e2.Zeroize()
	}()

	y.NTT()
	u := a.MulVectorTransposed(y)
	u.InverseNTT()
	u.Add(e1)

	v := ek.T.Dot(y)
	v.InverseNTT()
	v.Add(&e2)
	mu := m.Decompress()
	v.Add(&mu)

	return &Ciphertext{
		U: ring.CompressVector(u, params.DU),
		V: ring.Compress(&v, params.DV),
	}
}

// Decrypt recovers the one-bit-compressed message from c.
func Decrypt(dk *DecryptionKey, c *Ciphertext) ring.CompressedRing {
	u := c.U.Decompress()
	v := c.V.Decompress()

	u.NTT()
	w := dk.S.Dot(u)
	w.InverseNTT()
	v.Sub(&w)
	defer v.Zeroize()

	return ring.Compress(&v, 1)
}

// Zeroize clears the secret vector.
func (dk *DecryptionKey) Zeroize() {
	dk.S.Zeroize()
}
