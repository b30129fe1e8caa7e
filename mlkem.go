// Package mlkem implements ML-KEM, the module-lattice key-encapsulation
// mechanism standardized in NIST FIPS 203.
// This package holds the shared value types: parameter-set identifiers, the
// global ring constants and the sentinel errors. The algorithms live in the
// sub-packages and the public KEM API in package kem.
package mlkem

// Version of the ML-KEM Go implementation.
const Version = "1.0.0"

// API summary:
//
// Key Encapsulation (KEM):
//   - kem.GenerateKeyPair(level) - Generate a key pair for the given parameter set
//   - kem.GenerateKeyPairFromSeed(params, d, z) - Deterministic key generation
//   - kem.Encapsulate(ek) - Generate shared secret and ciphertext
//   - kem.EncapsulateDeterministic(ek, m) - Encapsulate with a caller-chosen message
//   - kem.Decapsulate(dk, ct) - Recover shared secret from ciphertext
//
// Serialization:
//   - kem.SerializeEncapsulationKey / kem.DeserializeEncapsulationKey
//   - kem.SerializeDecapsulationKey / kem.DeserializeDecapsulationKey
//   - kem.SerializeCiphertext / kem.DeserializeCiphertext
//
// Parameters:
//   - core.GetParams(level) - Get parameters for a parameter set
//   - MLKEM512  - NIST security category 1
//   - MLKEM768  - NIST security category 3
//   - MLKEM1024 - NIST security category 5
