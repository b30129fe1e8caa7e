package kem

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/core"
	"github.com/BackendStack21/ml-kem-go/utils"
)

var levels = []mlkem.SecurityLevel{mlkem.MLKEM512, mlkem.MLKEM768, mlkem.MLKEM1024}

func seedBytes(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b + byte(i)
	}
	return out
}

func TestKEM_RoundTrip(t *testing.T) {
	for _, level := range levels {
		t.Run(string(level), func(t *testing.T) {
			kp, err := GenerateKeyPair(level)
			require.NoError(t, err)

			for i := 0; i < 5; i++ {
				res, err := Encapsulate(kp.EncapsulationKey)
				require.NoError(t, err)
				require.Len(t, res.SharedSecret, mlkem.SharedKeySize)

				ss, err := Decapsulate(kp.DecapsulationKey, res.Ciphertext)
				require.NoError(t, err)
				assert.Equal(t, res.SharedSecret, ss)
			}
		})
	}
}

func TestKEM_UnknownLevel(t *testing.T) {
	_, err := GenerateKeyPair("ML-KEM-2048")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mlkem.ErrUnknownParameterSet))
}

func TestKEM_Deterministic(t *testing.T) {
	params := core.MLKEM768Params()
	d, z := seedBytes(32, 1), seedBytes(32, 2)

	kp1, err := GenerateKeyPairFromSeed(params, d, z)
	require.NoError(t, err)
	kp2, err := GenerateKeyPairFromSeed(params, d, z)
	require.NoError(t, err)
	assert.Equal(t, SerializeDecapsulationKey(kp1.DecapsulationKey), SerializeDecapsulationKey(kp2.DecapsulationKey))

	m := seedBytes(32, 3)
	r1, err := EncapsulateDeterministic(kp1.EncapsulationKey, m)
	require.NoError(t, err)
	r2, err := EncapsulateDeterministic(kp2.EncapsulationKey, m)
	require.NoError(t, err)
	assert.Equal(t, r1.SharedSecret, r2.SharedSecret)
	assert.Equal(t, SerializeCiphertext(r1.Ciphertext), SerializeCiphertext(r2.Ciphertext))

	// The shared secret is the first half of G(m || H(ek)).
	want, _ := utils.G(m, kp1.EncapsulationKey.Hash[:])
	assert.Equal(t, want[:], r1.SharedSecret)
}

func TestKEM_SeedLengths(t *testing.T) {
	params := core.MLKEM512Params()
	_, err := GenerateKeyPairFromSeed(params, seedBytes(31, 0), seedBytes(32, 0))
	assert.True(t, errors.Is(err, mlkem.ErrMalformedInput))
	_, err = GenerateKeyPairFromSeed(params, seedBytes(32, 0), seedBytes(33, 0))
	assert.True(t, errors.Is(err, mlkem.ErrMalformedInput))

	kp, err := GenerateKeyPairFromSeed(params, seedBytes(32, 0), seedBytes(32, 1))
	require.NoError(t, err)
	_, err = EncapsulateDeterministic(kp.EncapsulationKey, seedBytes(16, 0))
	assert.True(t, errors.Is(err, mlkem.ErrMalformedInput))
}

func TestKEM_ImplicitRejection(t *testing.T) {
	for _, params := range core.AllParams() {
		t.Run(string(params.Level), func(t *testing.T) {
			kp, err := GenerateKeyPairFromSeed(params, seedBytes(32, 4), seedBytes(32, 5))
			require.NoError(t, err)
			res, err := EncapsulateDeterministic(kp.EncapsulationKey, seedBytes(32, 6))
			require.NoError(t, err)
			c := SerializeCiphertext(res.Ciphertext)

			for _, bit := range []int{0, 7, 8*len(c)/2 + 3, 8*len(c) - 1} {
				tampered := append([]byte(nil), c...)
				tampered[bit/8] ^= 1 << (bit % 8)

				ct, err := DeserializeCiphertext(params, tampered)
				require.NoError(t, err)
				ss, err := Decapsulate(kp.DecapsulationKey, ct)
				require.NoError(t, err)

				reject := utils.J(kp.DecapsulationKey.Z[:], tampered)
				assert.Equal(t, reject[:], ss, "bit %d", bit)
				assert.NotEqual(t, res.SharedSecret, ss, "bit %d", bit)

				// Rejection is deterministic.
				again, err := Decapsulate(kp.DecapsulationKey, ct)
				require.NoError(t, err)
				assert.Equal(t, ss, again)
			}
		})
	}
}

func TestKEM_WrongKeyRejects(t *testing.T) {
	params := core.MLKEM512Params()
	alice, err := GenerateKeyPairFromSeed(params, seedBytes(32, 7), seedBytes(32, 8))
	require.NoError(t, err)
	eve, err := GenerateKeyPairFromSeed(params, seedBytes(32, 9), seedBytes(32, 10))
	require.NoError(t, err)

	res, err := Encapsulate(alice.EncapsulationKey)
	require.NoError(t, err)
	ss, err := Decapsulate(eve.DecapsulationKey, res.Ciphertext)
	require.NoError(t, err)
	assert.NotEqual(t, res.SharedSecret, ss)
	assert.Len(t, ss, mlkem.SharedKeySize)
}

func TestKEM_ParameterMismatch(t *testing.T) {
	kp512, err := GenerateKeyPair(mlkem.MLKEM512)
	require.NoError(t, err)
	kp768, err := GenerateKeyPair(mlkem.MLKEM768)
	require.NoError(t, err)

	res, err := Encapsulate(kp512.EncapsulationKey)
	require.NoError(t, err)
	_, err = Decapsulate(kp768.DecapsulationKey, res.Ciphertext)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mlkem.ErrMalformedInput))
}

func TestKEM_NonCanonicalParams(t *testing.T) {
	zeroEta := core.MLKEM512Params()
	zeroEta.Eta1 = 0
	mixed := core.MLKEM768Params()
	mixed.Eta1 = 3
	renamed := core.MLKEM512Params()
	renamed.Level = "ML-KEM-512-custom"

	good, err := GenerateKeyPairFromSeed(core.MLKEM512Params(), seedBytes(32, 1), seedBytes(32, 2))
	require.NoError(t, err)
	res, err := EncapsulateDeterministic(good.EncapsulationKey, seedBytes(32, 3))
	require.NoError(t, err)

	cases := []struct {
		name   string
		params mlkem.Params
	}{
		{"zero value", mlkem.Params{}},
		{"eta1 zero", zeroEta},
		{"mixed fields", mixed},
		{"renamed level", renamed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.params
			assertUnknown := func(err error) {
				t.Helper()
				require.Error(t, err)
				assert.True(t, errors.Is(err, mlkem.ErrUnknownParameterSet), "unexpected error: %v", err)
			}

			_, err := GenerateKeyPairFromSeed(p, seedBytes(32, 1), seedBytes(32, 2))
			assertUnknown(err)
			_, err = DeserializeSeed(p, seedBytes(SeedSize, 1))
			assertUnknown(err)
			_, err = DeserializeEncapsulationKey(p, SerializeEncapsulationKey(good.EncapsulationKey))
			assertUnknown(err)
			_, err = DeserializeEncapsulationKey(p, make([]byte, 32))
			assertUnknown(err)
			_, err = DeserializeDecapsulationKey(p, SerializeDecapsulationKey(good.DecapsulationKey))
			assertUnknown(err)
			_, err = DeserializeCiphertext(p, SerializeCiphertext(res.Ciphertext))
			assertUnknown(err)

			// Keys whose Params field was altered after construction.
			ek := *good.EncapsulationKey
			ek.Params = p
			_, err = EncapsulateDeterministic(&ek, seedBytes(32, 3))
			assertUnknown(err)

			dk := *good.DecapsulationKey
			dk.Params = p
			ct := *res.Ciphertext
			ct.Params = p
			_, err = Decapsulate(&dk, &ct)
			assertUnknown(err)
		})
	}
}

func TestKEM_MissingInputs(t *testing.T) {
	kp, err := GenerateKeyPairFromSeed(core.MLKEM512Params(), seedBytes(32, 4), seedBytes(32, 5))
	require.NoError(t, err)
	dk := kp.DecapsulationKey

	assertMalformed := func(err error) {
		t.Helper()
		require.Error(t, err)
		assert.True(t, errors.Is(err, mlkem.ErrMalformedInput), "unexpected error: %v", err)
	}

	_, err = Decapsulate(dk, nil)
	assertMalformed(err)
	_, err = Decapsulate(dk, &Ciphertext{Params: dk.Params})
	assertMalformed(err)
	_, err = Decapsulate(nil, &Ciphertext{Params: dk.Params})
	assertMalformed(err)
	_, err = Decapsulate(&DecapsulationKey{Params: dk.Params}, &Ciphertext{Params: dk.Params})
	assertMalformed(err)

	_, err = EncapsulateDeterministic(nil, seedBytes(32, 6))
	assertMalformed(err)
	_, err = Encapsulate(&EncapsulationKey{Params: dk.Params})
	assertMalformed(err)
}

func TestKEM_Sizes(t *testing.T) {
	want := map[mlkem.SecurityLevel][3]int{
		mlkem.MLKEM512:  {800, 1632, 768},
		mlkem.MLKEM768:  {1184, 2400, 1088},
		mlkem.MLKEM1024: {1568, 3168, 1568},
	}
	for _, level := range levels {
		kp, err := GenerateKeyPair(level)
		require.NoError(t, err)
		res, err := Encapsulate(kp.EncapsulationKey)
		require.NoError(t, err)

		sizes := want[level]
		assert.Len(t, SerializeEncapsulationKey(kp.EncapsulationKey), sizes[0], level)
		assert.Len(t, SerializeDecapsulationKey(kp.DecapsulationKey), sizes[1], level)
		assert.Len(t, SerializeCiphertext(res.Ciphertext), sizes[2], level)
	}
}

func TestKEM_SerializationRoundTrip(t *testing.T) {
	for _, params := range core.AllParams() {
		t.Run(string(params.Level), func(t *testing.T) {
			kp, err := GenerateKeyPairFromSeed(params, seedBytes(32, 11), seedBytes(32, 12))
			require.NoError(t, err)

			ekBytes := SerializeEncapsulationKey(kp.EncapsulationKey)
			ek, err := DeserializeEncapsulationKey(params, ekBytes)
			require.NoError(t, err)
			assert.Equal(t, ekBytes, SerializeEncapsulationKey(ek))
			assert.Equal(t, kp.EncapsulationKey.Hash, ek.Hash)

			dkBytes := SerializeDecapsulationKey(kp.DecapsulationKey)
			dk, err := DeserializeDecapsulationKey(params, dkBytes)
			require.NoError(t, err)
			assert.Equal(t, dkBytes, SerializeDecapsulationKey(dk))
			assert.Equal(t, ekBytes, dkBytes[params.DecryptionKeySize():params.DecryptionKeySize()+len(ekBytes)])

			res, err := Encapsulate(ek)
			require.NoError(t, err)
			ctBytes := SerializeCiphertext(res.Ciphertext)
			ct, err := DeserializeCiphertext(params, ctBytes)
			require.NoError(t, err)
			assert.Equal(t, ctBytes, SerializeCiphertext(ct))

			ss, err := Decapsulate(dk, ct)
			require.NoError(t, err)
			assert.Equal(t, res.SharedSecret, ss)
		})
	}
}

func TestKEM_SeedForm(t *testing.T) {
	params := core.MLKEM1024Params()
	kp, err := GenerateKeyPairFromSeed(params, seedBytes(32, 13), seedBytes(32, 14))
	require.NoError(t, err)

	seed, err := SerializeSeed(kp.DecapsulationKey)
	require.NoError(t, err)
	require.Len(t, seed, SeedSize)
	assert.Equal(t, append(seedBytes(32, 13), seedBytes(32, 14)...), seed)

	kp2, err := DeserializeSeed(params, seed)
	require.NoError(t, err)
	assert.Equal(t, SerializeDecapsulationKey(kp.DecapsulationKey), SerializeDecapsulationKey(kp2.DecapsulationKey))

	_, err = DeserializeSeed(params, seed[:63])
	assert.True(t, errors.Is(err, mlkem.ErrMalformedInput))

	parsed, err := DeserializeDecapsulationKey(params, SerializeDecapsulationKey(kp.DecapsulationKey))
	require.NoError(t, err)
	_, err = SerializeSeed(parsed)
	assert.Error(t, err)
}

func TestKEM_DeserializeMalformed(t *testing.T) {
	params := core.MLKEM768Params()
	kp, err := GenerateKeyPairFromSeed(params, seedBytes(32, 15), seedBytes(32, 16))
	require.NoError(t, err)
	res, err := Encapsulate(kp.EncapsulationKey)
	require.NoError(t, err)

	ekBytes := SerializeEncapsulationKey(kp.EncapsulationKey)
	dkBytes := SerializeDecapsulationKey(kp.DecapsulationKey)
	ctBytes := SerializeCiphertext(res.Ciphertext)

	cases := []struct {
		name string
		fn   func() error
	}{
		{"short encapsulation key", func() error {
			_, err := DeserializeEncapsulationKey(params, ekBytes[:len(ekBytes)-1])
			return err
		}},
		{"long encapsulation key", func() error {
			_, err := DeserializeEncapsulationKey(params, append(append([]byte(nil), ekBytes...), 0))
			return err
		}},
		{"unreduced encapsulation key", func() error {
			bad := append([]byte(nil), ekBytes...)
			bad[0], bad[1] = 0xff, bad[1]|0x0f
			_, err := DeserializeEncapsulationKey(params, bad)
			return err
		}},
		{"short decapsulation key", func() error {
			_, err := DeserializeDecapsulationKey(params, dkBytes[:100])
			return err
		}},
		{"decapsulation key hash mismatch", func() error {
			bad := append([]byte(nil), dkBytes...)
			bad[len(bad)-mlkem.SeedSize-1] ^= 0x01
			_, err := DeserializeDecapsulationKey(params, bad)
			return err
		}},
		{"decapsulation key with altered ek", func() error {
			bad := append([]byte(nil), dkBytes...)
			bad[params.DecryptionKeySize()+params.EncapsulationKeySize()-1] ^= 0x01 // last byte of rho
			_, err := DeserializeDecapsulationKey(params, bad)
			return err
		}},
		{"short ciphertext", func() error {
			_, err := DeserializeCiphertext(params, ctBytes[:len(ctBytes)-1])
			return err
		}},
		{"ciphertext for another level", func() error {
			_, err := DeserializeCiphertext(core.MLKEM1024Params(), ctBytes)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fn()
			require.Error(t, err)
			assert.True(t, errors.Is(err, mlkem.ErrMalformedInput), "got %v", err)
		})
	}
}

func TestKEM_CiphertextContentNeverErrors(t *testing.T) {
	params := core.MLKEM512Params()
	kp, err := GenerateKeyPair(params.Level)
	require.NoError(t, err)

	for _, fill := range []byte{0x00, 0xff, 0xa5} {
		data := bytes.Repeat([]byte{fill}, params.CiphertextSize())
		ct, err := DeserializeCiphertext(params, data)
		require.NoError(t, err)
		ss, err := Decapsulate(kp.DecapsulationKey, ct)
		require.NoError(t, err)
		reject := utils.J(kp.DecapsulationKey.Z[:], data)
		assert.Equal(t, reject[:], ss)
	}
}

func TestKEM_Zeroize(t *testing.T) {
	kp, err := GenerateKeyPairFromSeed(core.MLKEM512Params(), seedBytes(32, 17), seedBytes(32, 18))
	require.NoError(t, err)
	dk := kp.DecapsulationKey
	dk.Zeroize()

	assert.Equal(t, [mlkem.SeedSize]byte{}, dk.Z)
	seed, err := SerializeSeed(dk)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, SeedSize), seed)
	assert.Equal(t, make([]byte, dk.Params.DecryptionKeySize()), dk.Key.Bytes())
}
