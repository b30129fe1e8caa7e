package kem

import (
	"github.com/pkg/errors"

	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/core"
	"github.com/BackendStack21/ml-kem-go/kpke"
	"github.com/BackendStack21/ml-kem-go/utils"
)

// SeedSize is the size of the seed form of a decapsulation key, d || z.
const SeedSize = 2 * mlkem.SeedSize

// SerializeEncapsulationKey returns ByteEncode12(t) || rho.
func SerializeEncapsulationKey(ek *EncapsulationKey) []byte {
	return ek.Key.Bytes()
}

// DeserializeEncapsulationKey parses an encapsulation key, rejecting wrong
// lengths and coefficients that are not reduced mod q.
func DeserializeEncapsulationKey(params mlkem.Params, data []byte) (*EncapsulationKey, error) {
	if err := core.CheckParams(params); err != nil {
		return nil, err
	}
	key, err := kpke.ParseEncryptionKey(params, data)
	if err != nil {
		return nil, errors.Wrap(err, "encapsulation key")
	}
	return newEncapsulationKey(params, key, data), nil
}

// SerializeDecapsulationKey returns dk_pke || ek || H(ek) || z.
func SerializeDecapsulationKey(dk *DecapsulationKey) []byte {
	out := make([]byte, 0, dk.Params.DecapsulationKeySize())
	out = append(out, dk.Key.Bytes()...)
	out = append(out, SerializeEncapsulationKey(dk.EncapsulationKey)...)
	out = append(out, dk.EncapsulationKey.Hash[:]...)
	return append(out, dk.Z[:]...)
}

// DeserializeDecapsulationKey parses a decapsulation key. It checks the
// length, the embedded encapsulation key, and that the stored hash matches it.
func DeserializeDecapsulationKey(params mlkem.Params, data []byte) (*DecapsulationKey, error) {
	if err := core.CheckParams(params); err != nil {
		return nil, err
	}
	fields, err := utils.SplitAt(data, "decapsulation key",
		params.DecryptionKeySize(),
		params.EncapsulationKeySize(),
		mlkem.SeedSize,
		mlkem.SeedSize,
	)
	if err != nil {
		return nil, err
	}
	dkBytes, ekBytes, hash, z := fields[0], fields[1], fields[2], fields[3]

	key, err := kpke.ParseDecryptionKey(params, dkBytes)
	if err != nil {
		return nil, err
	}
	ek, err := DeserializeEncapsulationKey(params, ekBytes)
	if err != nil {
		return nil, errors.Wrap(err, "decapsulation key")
	}
	if !utils.ConstantTimeEqual(ek.Hash[:], hash) {
		return nil, errors.Wrap(mlkem.ErrMalformedInput, "decapsulation key: encapsulation key hash mismatch")
	}

	dk := &DecapsulationKey{
		Params:           params,
		Key:              key,
		EncapsulationKey: ek,
	}
	copy(dk.Z[:], z)
	return dk, nil
}

// SerializeSeed returns the 64-byte seed form d || z of a decapsulation key.
// Keys parsed from the expanded encoding have no seed form.
func SerializeSeed(dk *DecapsulationKey) ([]byte, error) {
	if dk.seed == nil {
		return nil, errors.New("decapsulation key was not generated from a seed")
	}
	return append([]byte(nil), dk.seed...), nil
}

// DeserializeSeed expands the seed form d || z into a key pair.
func DeserializeSeed(params mlkem.Params, data []byte) (*KeyPair, error) {
	if err := core.CheckParams(params); err != nil {
		return nil, err
	}
	if err := utils.CheckLength(data, SeedSize, "decapsulation key seed"); err != nil {
		return nil, err
	}
	return GenerateKeyPairFromSeed(params, data[:mlkem.SeedSize], data[mlkem.SeedSize:])
}

// SerializeCiphertext returns ByteEncode_du(u) || ByteEncode_dv(v).
func SerializeCiphertext(ct *Ciphertext) []byte {
	return ct.Body.Bytes()
}

// DeserializeCiphertext parses a ciphertext. Only the length is checked; any
// content is accepted and handled by implicit rejection.
func DeserializeCiphertext(params mlkem.Params, data []byte) (*Ciphertext, error) {
	if err := core.CheckParams(params); err != nil {
		return nil, err
	}
	body, err := kpke.ParseCiphertext(params, data)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{Params: params, Body: body}, nil
}
