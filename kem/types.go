package kem

import (
	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/kpke"
	"github.com/BackendStack21/ml-kem-go/utils"
)

// EncapsulationKey is an ML-KEM public key.
type EncapsulationKey struct {
	Params mlkem.Params
	Key    *kpke.EncryptionKey
	// Hash is H(ek), computed once when the key is built or parsed.
	Hash [mlkem.SeedSize]byte
}

// DecapsulationKey is an ML-KEM private key. It embeds the matching
// encapsulation key, which decapsulation needs for re-encryption.
type DecapsulationKey struct {
	Params           mlkem.Params
	Key              *kpke.DecryptionKey
	EncapsulationKey *EncapsulationKey
	// Z is the implicit-rejection secret.
	Z [mlkem.SeedSize]byte

	// seed is d || z when the key was generated from a seed, nil otherwise.
	seed []byte
}

// KeyPair holds a matching pair of keys.
type KeyPair struct {
	EncapsulationKey *EncapsulationKey
	DecapsulationKey *DecapsulationKey
}

// Ciphertext is an ML-KEM ciphertext.
type Ciphertext struct {
	Params mlkem.Params
	Body   *kpke.Ciphertext
}

// EncapsulationResult contains the output of encapsulation.
type EncapsulationResult struct {
	SharedSecret []byte
	Ciphertext   *Ciphertext
}

// Zeroize clears the secret material held by dk.
func (dk *DecapsulationKey) Zeroize() {
	dk.Key.Zeroize()
	utils.Zeroize(dk.Z[:])
	utils.Zeroize(dk.seed)
}
