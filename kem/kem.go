// Package kem implements the ML-KEM key-encapsulation mechanism on top of
// K-PKE, with the Fujisaki-Okamoto transform and implicit rejection.
package kem

import (
	"crypto/subtle"

	"github.com/pkg/errors"

	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/core"
	"github.com/BackendStack21/ml-kem-go/kpke"
	"github.com/BackendStack21/ml-kem-go/utils"
)

// GenerateKeyPair generates an ML-KEM key pair for the given parameter set.
func GenerateKeyPair(level mlkem.SecurityLevel) (*KeyPair, error) {
	params, err := core.GetParams(level)
	if err != nil {
		return nil, err
	}
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}

	seed, err := utils.SecureRandomBytes(2 * mlkem.SeedSize)
	if err != nil {
		return nil, err
	}
	defer utils.Zeroize(seed)

	return GenerateKeyPairFromSeed(params, seed[:mlkem.SeedSize], seed[mlkem.SeedSize:])
}

// GenerateKeyPairFromSeed derives a key pair from the 32-byte seeds d and z.
// The same seeds always produce the same key pair.
func GenerateKeyPairFromSeed(params mlkem.Params, d, z []byte) (*KeyPair, error) {
	if err := core.CheckParams(params); err != nil {
		return nil, err
	}
	if err := utils.CheckLength(d, mlkem.SeedSize, "seed d"); err != nil {
		return nil, err
	}
	if err := utils.CheckLength(z, mlkem.SeedSize, "seed z"); err != nil {
		return nil, err
	}

	ekPKE, dkPKE := kpke.KeyGen(params, d)
	ek := newEncapsulationKey(params, ekPKE, ekPKE.Bytes())

	dk := &DecapsulationKey{
		Params:           params,
		Key:              dkPKE,
		EncapsulationKey: ek,
		seed:             append(append(make([]byte, 0, 2*mlkem.SeedSize), d...), z...),
	}
	copy(dk.Z[:], z)

	return &KeyPair{EncapsulationKey: ek, DecapsulationKey: dk}, nil
}

func newEncapsulationKey(params mlkem.Params, key *kpke.EncryptionKey, encoded []byte) *EncapsulationKey {
	return &EncapsulationKey{
		Params: params,
		Key:    key,
		Hash:   utils.H(encoded),
	}
}

// Encapsulate generates a shared secret and a ciphertext that carries it.
func Encapsulate(ek *EncapsulationKey) (*EncapsulationResult, error) {
	m, err := utils.SecureRandomBytes(mlkem.SeedSize)
	if err != nil {
		return nil, err
	}
	defer utils.Zeroize(m)

	return EncapsulateDeterministic(ek, m)
}

// EncapsulateDeterministic performs encapsulation with the caller-chosen
// 32-byte message m in place of fresh randomness.
func EncapsulateDeterministic(ek *EncapsulationKey, m []byte) (*EncapsulationResult, error) {
	if ek == nil || ek.Key == nil {
		return nil, errors.Wrap(mlkem.ErrMalformedInput, "missing encapsulation key")
	}
	if err := core.CheckParams(ek.Params); err != nil {
		return nil, err
	}
	if err := utils.CheckLength(m, mlkem.SeedSize, "message"); err != nil {
		return nil, err
	}
	mu, err := kpke.MessageFromBytes(m)
	if err != nil {
		return nil, err
	}

	sharedSecret, r := utils.G(m, ek.Hash[:])
	defer utils.Zeroize(r[:])

	body := kpke.Encrypt(ek.Params, ek.Key, mu, r[:])
	return &EncapsulationResult{
		SharedSecret: sharedSecret[:],
		Ciphertext:   &Ciphertext{Params: ek.Params, Body: body},
	}, nil
}

// Decapsulate recovers the shared secret from a ciphertext.
//
// A ciphertext that fails the re-encryption check is not an error: the
// result is then J(z || c), a pseudorandom value bound to the key and the
// ciphertext. Errors are reserved for missing inputs, a non-canonical parameter
// set, and a ciphertext built for another parameter set.
func Decapsulate(dk *DecapsulationKey, ct *Ciphertext) ([]byte, error) {
	if dk == nil || dk.Key == nil || dk.EncapsulationKey == nil || dk.EncapsulationKey.Key == nil {
		return nil, errors.Wrap(mlkem.ErrMalformedInput, "missing decapsulation key")
	}
	if ct == nil || ct.Body == nil {
		return nil, errors.Wrap(mlkem.ErrMalformedInput, "missing ciphertext")
	}
	params := dk.Params
	if err := core.CheckParams(params); err != nil {
		return nil, err
	}
	if ct.Params != params {
		return nil, errors.Wrapf(mlkem.ErrMalformedInput, "ciphertext is for %s, key is for %s", ct.Params.Level, params.Level)
	}
	c := ct.Body.Bytes()
	if err := utils.CheckLength(c, params.CiphertextSize(), "ciphertext"); err != nil {
		return nil, err
	}

	mPrime := kpke.Decrypt(dk.Key, ct.Body)
	m := kpke.MessageBytes(&mPrime)
	defer utils.Zeroize(m)

	candidate, r := utils.G(m, dk.EncapsulationKey.Hash[:])
	defer utils.Zeroize(candidate[:])
	defer utils.Zeroize(r[:])

	reject := utils.J(dk.Z[:], c)
	defer utils.Zeroize(reject[:])

	// Both keys are always computed and the choice between them is made
	// without branching on secret data.
	reencrypted := kpke.Encrypt(params, dk.EncapsulationKey.Key, mPrime, r[:]).Bytes()
	equal := subtle.ConstantTimeCompare(c, reencrypted)
	return utils.ConstantTimeSelect(equal, candidate[:], reject[:]), nil
}
