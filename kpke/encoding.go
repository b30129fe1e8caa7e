package kpke

import (
	"bytes"

	"github.com/pkg/errors"

	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/codec"
	"github.com/BackendStack21/ml-kem-go/ring"
	"github.com/BackendStack21/ml-kem-go/utils"
)

// MessageSize is the size of a K-PKE plaintext.
const MessageSize = mlkem.SeedSize

// Bytes returns ByteEncode12(t) || rho.
func (ek *EncryptionKey) Bytes() []byte {
	b := make([]byte, 0, mlkem.EncodedRingSize*len(ek.T)+mlkem.SeedSize)
	b = codec.EncodeVector(b, ek.T)
	return append(b, ek.Rho[:]...)
}

// ParseEncryptionKey decodes an encryption key and rejects any encoding whose
// coefficients are not already reduced mod q.
func ParseEncryptionKey(params mlkem.Params, b []byte) (*EncryptionKey, error) {
	if err := utils.CheckLength(b, params.EncapsulationKeySize(), "encryption key"); err != nil {
		return nil, err
	}
	tBytes := b[:mlkem.EncodedRingSize*params.K]
	t, err := codec.DecodeVector(tBytes, params.K, ring.NTT)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(codec.EncodeVector(nil, t), tBytes) {
		return nil, errors.Wrap(mlkem.ErrMalformedInput, "encryption key: coefficient not reduced mod q")
	}

	ek := &EncryptionKey{T: t}
	copy(ek.Rho[:], b[len(tBytes):])
	return ek, nil
}

// Bytes returns ByteEncode12(s).
func (dk *DecryptionKey) Bytes() []byte {
	return codec.EncodeVector(make([]byte, 0, mlkem.EncodedRingSize*len(dk.S)), dk.S)
}

// ParseDecryptionKey decodes a decryption key.
func ParseDecryptionKey(params mlkem.Params, b []byte) (*DecryptionKey, error) {
	s, err := codec.DecodeVector(b, params.K, ring.NTT)
	if err != nil {
		return nil, errors.Wrap(err, "decryption key")
	}
	return &DecryptionKey{S: s}, nil
}

// Bytes returns ByteEncode_du(u) || ByteEncode_dv(v).
func (c *Ciphertext) Bytes() []byte {
	size := codec.EncodedSize(c.V.D)
	if len(c.U) > 0 {
		size += len(c.U) * codec.EncodedSize(c.U[0].D)
	}
	b := codec.EncodeCompressedVector(make([]byte, 0, size), c.U)
	return codec.EncodeCompressed(b, &c.V)
}

// ParseCiphertext decodes a ciphertext. Any byte string of the right length is
// a valid ciphertext.
func ParseCiphertext(params mlkem.Params, b []byte) (*Ciphertext, error) {
	if err := utils.CheckLength(b, params.CiphertextSize(), "ciphertext"); err != nil {
		return nil, err
	}
	uSize := params.K * codec.EncodedSize(params.DU)
	u, err := codec.DecodeCompressedVector(b[:uSize], params.K, params.DU)
	if err != nil {
		return nil, err
	}
	v, err := codec.DecodeCompressed(b[uSize:], params.DV)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{U: u, V: v}, nil
}

// MessageFromBytes interprets a 32-byte message as a one-bit-compressed ring
// element.
func MessageFromBytes(m []byte) (ring.CompressedRing, error) {
	c, err := codec.DecodeCompressed(m, 1)
	if err != nil {
		return ring.CompressedRing{}, errors.Wrap(err, "message")
	}
	return c, nil
}

// MessageBytes packs a one-bit-compressed ring element into 32 bytes.
func MessageBytes(m *ring.CompressedRing) []byte {
	if m.D != 1 {
		panic(errors.Wrapf(mlkem.ErrInvalidRepresentation, "kpke: message compressed to %d bits, want 1", m.D))
	}
	return codec.EncodeCompressed(make([]byte, 0, MessageSize), m)
}
