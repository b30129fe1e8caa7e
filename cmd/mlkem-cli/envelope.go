package main

import (
	"encoding/base64"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	mlkem "github.com/BackendStack21/ml-kem-go"
	"github.com/BackendStack21/ml-kem-go/core"
)

// ByteFormat is the text encoding of byte fields inside an envelope.
type ByteFormat string

const (
	FormatHex    ByteFormat = "hex"
	FormatBase64 ByteFormat = "base64"

	maxInputFileSize = 1 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the on-disk form of keys, ciphertexts and shared secrets.
// Only the fields relevant to a file's purpose are set.
type Envelope struct {
	KeyID            string     `json:"key_id,omitempty" yaml:"key_id,omitempty"`
	Level            string     `json:"level" yaml:"level"`
	Encoding         ByteFormat `json:"encoding" yaml:"encoding"`
	EncapsulationKey string     `json:"encapsulation_key,omitempty" yaml:"encapsulation_key,omitempty"`
	DecapsulationKey string     `json:"decapsulation_key,omitempty" yaml:"decapsulation_key,omitempty"`
	Seed             string     `json:"seed,omitempty" yaml:"seed,omitempty"`
	Ciphertext       string     `json:"ciphertext,omitempty" yaml:"ciphertext,omitempty"`
	SharedSecret     string     `json:"shared_secret,omitempty" yaml:"shared_secret,omitempty"`
	CreatedAt        string     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

func parseByteFormat(s string) (ByteFormat, error) {
	switch f := ByteFormat(strings.ToLower(s)); f {
	case FormatHex, FormatBase64:
		return f, nil
	default:
		return "", errors.Errorf("unknown byte format %q", s)
	}
}

func (e *Envelope) encode(data []byte) string {
	if e.Encoding == FormatBase64 {
		return base64.StdEncoding.EncodeToString(data)
	}
	return hex.EncodeToString(data)
}

// decode reads a byte field. Envelopes without an encoding field are hex.
func (e *Envelope) decode(field, value string) ([]byte, error) {
	if value == "" {
		return nil, errors.Errorf("envelope has no %s", field)
	}
	var (
		data []byte
		err  error
	)
	switch e.Encoding {
	case FormatBase64:
		data, err = base64.StdEncoding.DecodeString(value)
	case FormatHex, "":
		data, err = hex.DecodeString(value)
	default:
		return nil, errors.Errorf("unknown encoding %q", e.Encoding)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", field)
	}
	return data, nil
}

func (e *Envelope) params() (mlkem.Params, error) {
	level, err := core.ParseLevel(e.Level)
	if err != nil {
		return mlkem.Params{}, err
	}
	return core.GetParams(level)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func marshalEnvelope(env *Envelope, path string) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(env)
	}
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func unmarshalEnvelope(data []byte, path string) (*Envelope, error) {
	env := &Envelope{}
	var err error
	if isYAML(path) {
		err = yaml.Unmarshal(data, env)
	} else {
		err = json.Unmarshal(data, env)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return env, nil
}

// loadEnvelope reads an envelope, refusing files larger than any real key.
func loadEnvelope(path string) (*Envelope, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}
	if info.Size() > maxInputFileSize {
		return nil, errors.Errorf("input file too large: %d > %d bytes", info.Size(), maxInputFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return unmarshalEnvelope(data, path)
}

// writeEnvelope writes to path with owner-only permissions, or to stdout when
// path is empty.
func writeEnvelope(w io.Writer, env *Envelope, path string) error {
	data, err := marshalEnvelope(env, path)
	if err != nil {
		return errors.Wrap(err, "marshaling output")
	}
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "writing output file")
	}
	// WriteFile keeps the mode of an existing file.
	return errors.Wrap(os.Chmod(path, 0600), "setting file permissions")
}
