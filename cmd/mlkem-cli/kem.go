package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/core"
	"github.com/BackendStack21/ml-kem-go/kem"
	"github.com/BackendStack21/ml-kem-go/utils"
)

func keygen(c *cli.Context) error {
	log := createLogger(c)

	level, err := core.ParseLevel(c.String("level"))
	if err != nil {
		return err
	}
	params, err := core.GetParams(level)
	if err != nil {
		return err
	}
	format, err := parseByteFormat(c.String("format"))
	if err != nil {
		return err
	}

	start := time.Now()
	var kp *kem.KeyPair
	if seedHex := c.String("seed"); seedHex != "" {
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return errors.Wrap(err, "invalid seed hex")
		}
		kp, err = kem.DeserializeSeed(params, seed)
		utils.Zeroize(seed)
		if err != nil {
			return err
		}
	} else {
		kp, err = kem.GenerateKeyPair(level)
		if err != nil {
			return errors.Wrap(err, "generating key pair")
		}
	}
	elapsed := time.Since(start)

	env := &Envelope{
		KeyID:     uuid.New().String(),
		Level:     string(level),
		Encoding:  format,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	env.EncapsulationKey = env.encode(kem.SerializeEncapsulationKey(kp.EncapsulationKey))
	env.DecapsulationKey = env.encode(kem.SerializeDecapsulationKey(kp.DecapsulationKey))
	if seed, err := kem.SerializeSeed(kp.DecapsulationKey); err == nil {
		env.Seed = env.encode(seed)
		utils.Zeroize(seed)
	}
	kp.DecapsulationKey.Zeroize()

	if err := writeEnvelope(c.App.Writer, env, c.String("output")); err != nil {
		return err
	}
	log.Info().
		Str("level", string(level)).
		Str("keyID", env.KeyID).
		Int("encapsulationKeySize", params.EncapsulationKeySize()).
		Int("decapsulationKeySize", params.DecapsulationKeySize()).
		Dur("elapsed", elapsed).
		Msg("Generated key pair")
	return nil
}

func encapsulate(c *cli.Context) error {
	log := createLogger(c)

	keyFile, err := loadEnvelope(c.String("public-key"))
	if err != nil {
		return errors.Wrap(err, "loading public key")
	}
	params, err := keyFile.params()
	if err != nil {
		return err
	}
	ekBytes, err := keyFile.decode("encapsulation_key", keyFile.EncapsulationKey)
	if err != nil {
		return err
	}
	ek, err := kem.DeserializeEncapsulationKey(params, ekBytes)
	if err != nil {
		return errors.Wrap(err, "deserializing public key")
	}
	format, err := parseByteFormat(c.String("format"))
	if err != nil {
		return err
	}

	start := time.Now()
	var result *kem.EncapsulationResult
	if msgHex := c.String("message"); msgHex != "" {
		m, err := hex.DecodeString(msgHex)
		if err != nil {
			return errors.Wrap(err, "invalid message hex")
		}
		result, err = kem.EncapsulateDeterministic(ek, m)
		utils.Zeroize(m)
		if err != nil {
			return err
		}
	} else {
		result, err = kem.Encapsulate(ek)
		if err != nil {
			return errors.Wrap(err, "encapsulating")
		}
	}
	elapsed := time.Since(start)

	env := &Envelope{
		KeyID:    keyFile.KeyID,
		Level:    string(params.Level),
		Encoding: format,
	}
	env.Ciphertext = env.encode(kem.SerializeCiphertext(result.Ciphertext))
	env.SharedSecret = env.encode(result.SharedSecret)
	utils.Zeroize(result.SharedSecret)

	if err := writeEnvelope(c.App.Writer, env, c.String("output")); err != nil {
		return err
	}
	log.Debug().
		Str("level", string(params.Level)).
		Int("ciphertextSize", params.CiphertextSize()).
		Dur("elapsed", elapsed).
		Msg("Encapsulation successful")
	return nil
}

func loadDecapsulationKey(env *Envelope, params mlkem.Params) (*kem.DecapsulationKey, error) {
	if env.DecapsulationKey == "" && env.Seed != "" {
		seed, err := env.decode("seed", env.Seed)
		if err != nil {
			return nil, err
		}
		defer utils.Zeroize(seed)
		kp, err := kem.DeserializeSeed(params, seed)
		if err != nil {
			return nil, err
		}
		return kp.DecapsulationKey, nil
	}
	dkBytes, err := env.decode("decapsulation_key", env.DecapsulationKey)
	if err != nil {
		return nil, err
	}
	defer utils.Zeroize(dkBytes)
	return kem.DeserializeDecapsulationKey(params, dkBytes)
}

func decapsulate(c *cli.Context) error {
	log := createLogger(c)

	keyFile, err := loadEnvelope(c.String("secret-key"))
	if err != nil {
		return errors.Wrap(err, "loading secret key")
	}
	params, err := keyFile.params()
	if err != nil {
		return err
	}
	dk, err := loadDecapsulationKey(keyFile, params)
	if err != nil {
		return errors.Wrap(err, "deserializing secret key")
	}
	defer dk.Zeroize()

	ctFile, err := loadEnvelope(c.String("ciphertext"))
	if err != nil {
		return errors.Wrap(err, "loading ciphertext")
	}
	if ctFile.Level != "" && ctFile.Level != keyFile.Level {
		log.Warn().Str("keyLevel", keyFile.Level).Str("ciphertextLevel", ctFile.Level).Msg("Parameter set mismatch between key and ciphertext")
	}
	ctBytes, err := ctFile.decode("ciphertext", ctFile.Ciphertext)
	if err != nil {
		return err
	}
	ct, err := kem.DeserializeCiphertext(params, ctBytes)
	if err != nil {
		return errors.Wrap(err, "deserializing ciphertext")
	}
	format, err := parseByteFormat(c.String("format"))
	if err != nil {
		return err
	}

	start := time.Now()
	sharedSecret, err := kem.Decapsulate(dk, ct)
	if err != nil {
		return errors.Wrap(err, "decapsulating")
	}
	elapsed := time.Since(start)

	env := &Envelope{
		KeyID:    keyFile.KeyID,
		Level:    string(params.Level),
		Encoding: format,
	}
	env.SharedSecret = env.encode(sharedSecret)
	utils.Zeroize(sharedSecret)

	if err := writeEnvelope(c.App.Writer, env, c.String("output")); err != nil {
		return err
	}
	log.Debug().Dur("elapsed", elapsed).Msg("Decapsulation finished")
	return nil
}

// inspect validates every key or ciphertext field present in a file and
// prints a summary.
func inspect(c *cli.Context) error {
	path := c.String("file")
	env, err := loadEnvelope(path)
	if err != nil {
		return err
	}
	params, err := env.params()
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "File:       %s\n", path)
	fmt.Fprintf(w, "Level:      %s (k=%d, eta1=%d, eta2=%d, du=%d, dv=%d)\n",
		params.Level, params.K, params.Eta1, params.Eta2, params.DU, params.DV)
	if env.KeyID != "" {
		fmt.Fprintf(w, "Key ID:     %s\n", env.KeyID)
	}
	if env.CreatedAt != "" {
		fmt.Fprintf(w, "Created:    %s\n", env.CreatedAt)
	}

	found := false
	if env.EncapsulationKey != "" {
		found = true
		b, err := env.decode("encapsulation_key", env.EncapsulationKey)
		if err != nil {
			return err
		}
		ek, err := kem.DeserializeEncapsulationKey(params, b)
		if err != nil {
			return errors.Wrap(err, "invalid encapsulation key")
		}
		fmt.Fprintf(w, "Encapsulation key: %d bytes, valid, H(ek)=%x\n", len(b), ek.Hash)
	}
	if env.DecapsulationKey != "" || env.Seed != "" {
		found = true
		dk, err := loadDecapsulationKey(env, params)
		if err != nil {
			return errors.Wrap(err, "invalid decapsulation key")
		}
		fmt.Fprintf(w, "Decapsulation key: %d bytes, valid, H(ek)=%x\n", params.DecapsulationKeySize(), dk.EncapsulationKey.Hash)
		dk.Zeroize()
	}
	if env.Ciphertext != "" {
		found = true
		b, err := env.decode("ciphertext", env.Ciphertext)
		if err != nil {
			return err
		}
		if _, err := kem.DeserializeCiphertext(params, b); err != nil {
			return errors.Wrap(err, "invalid ciphertext")
		}
		fmt.Fprintf(w, "Ciphertext:        %d bytes, valid\n", len(b))
	}
	if env.SharedSecret != "" {
		found = true
		fmt.Fprintf(w, "Shared secret:     present\n")
	}
	if !found {
		return errors.Wrap(mlkem.ErrMalformedInput, "file contains no key, ciphertext or shared secret")
	}
	return nil
}
