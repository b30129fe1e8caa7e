package mlkem

// SecurityLevel identifies one of the three ML-KEM parameter sets.
type SecurityLevel string

const (
	// MLKEM512 provides NIST security category 1.
	MLKEM512 SecurityLevel = "ML-KEM-512"
	// MLKEM768 provides NIST security category 3.
	MLKEM768 SecurityLevel = "ML-KEM-768"
	// MLKEM1024 provides NIST security category 5.
	MLKEM1024 SecurityLevel = "ML-KEM-1024"
)

// Global constants shared by every parameter set.
const (
	N    = 256  // Ring degree
	Q    = 3329 // Prime modulus
	Zeta = 17   // Primitive 256th root of unity mod Q

	// SeedSize is the size of every seed, hash and message value.
	SeedSize = 32
	// SharedKeySize is the size of the shared secret.
	SharedKeySize = 32

	// EncodedRingSize is the size of a ring element packed with 12 bits per coefficient.
	EncodedRingSize = 384
)

// Params contains the parameter set for a security level.
type Params struct {
	Level SecurityLevel `json:"level"`
	K     int           `json:"k"`    // Module rank
	Eta1  int           `json:"eta1"` // CBD width for s, e and r
	Eta2  int           `json:"eta2"` // CBD width for e1 and e2
	DU    int           `json:"du"`   // Compression bits for u
	DV    int           `json:"dv"`   // Compression bits for v
}

// EncapsulationKeySize returns the size of a serialized encapsulation key.
func (p Params) EncapsulationKeySize() int {
	return EncodedRingSize*p.K + SeedSize
}

// DecryptionKeySize returns the size of a serialized K-PKE decryption key.
func (p Params) DecryptionKeySize() int {
	return EncodedRingSize * p.K
}

// DecapsulationKeySize returns the size of a serialized decapsulation key:
// dk_pke || ek || H(ek) || z.
func (p Params) DecapsulationKeySize() int {
	return 2*EncodedRingSize*p.K + 3*SeedSize
}

// CiphertextSize returns the size of a serialized ciphertext.
func (p Params) CiphertextSize() int {
	return 32 * (p.DU*p.K + p.DV)
}
