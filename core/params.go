// Package core provides parameter sets and validation for ML-KEM.
package core

import (
	"strings"

	"github.com/pkg/errors"

	mlkem "github.com/BackendStack21/ml-kem-go"
)

var (
	mlkem512 = mlkem.Params{
		Level: mlkem.MLKEM512,
		K:     2,
		Eta1:  3,
		Eta2:  2,
		DU:    10,
		DV:    4,
	}
	mlkem768 = mlkem.Params{
		Level: mlkem.MLKEM768,
		K:     3,
		Eta1:  2,
		Eta2:  2,
		DU:    10,
		DV:    4,
	}
	mlkem1024 = mlkem.Params{
		Level: mlkem.MLKEM1024,
		K:     4,
		Eta1:  2,
		Eta2:  2,
		DU:    11,
		DV:    5,
	}
)

// MLKEM512Params returns the parameter set for NIST security category 1.
func MLKEM512Params() mlkem.Params { return mlkem512 }

// MLKEM768Params returns the parameter set for NIST security category 3.
func MLKEM768Params() mlkem.Params { return mlkem768 }

// MLKEM1024Params returns the parameter set for NIST security category 5.
func MLKEM1024Params() mlkem.Params { return mlkem1024 }

// AllParams returns the three canonical parameter sets in ascending strength.
func AllParams() []mlkem.Params {
	return []mlkem.Params{mlkem512, mlkem768, mlkem1024}
}

// GetParams returns the parameter set for the given security level.
func GetParams(level mlkem.SecurityLevel) (mlkem.Params, error) {
	switch level {
	case mlkem.MLKEM512:
		return mlkem512, nil
	case mlkem.MLKEM768:
		return mlkem768, nil
	case mlkem.MLKEM1024:
		return mlkem1024, nil
	default:
		return mlkem.Params{}, errors.Wrapf(mlkem.ErrUnknownParameterSet, "%q", string(level))
	}
}

// CheckParams reports whether params is exactly one of the canonical
// parameter sets. Anything else, including the zero value and a canonical
// set with one field changed, wraps ErrUnknownParameterSet.
func CheckParams(params mlkem.Params) error {
	for _, p := range AllParams() {
		if params == p {
			return nil
		}
	}
	return errors.Wrapf(mlkem.ErrUnknownParameterSet, "%+v", params)
}

// ParseLevel maps a user-supplied selector such as "768", "ML-KEM-768" or
// "mlkem768" to a security level.
func ParseLevel(s string) (mlkem.SecurityLevel, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "").Replace(norm)
	norm = strings.TrimPrefix(norm, "MLKEM")
	switch norm {
	case "512":
		return mlkem.MLKEM512, nil
	case "768":
		return mlkem.MLKEM768, nil
	case "1024":
		return mlkem.MLKEM1024, nil
	default:
		return "", errors.Wrapf(mlkem.ErrUnknownParameterSet, "%q", s)
	}
}

// ValidateParams validates the parameter set for consistency.
func ValidateParams(params mlkem.Params) error {
	if params.K < 2 || params.K > 4 {
		return errors.Errorf("module rank must be 2, 3 or 4, got %d", params.K)
	}
	if !validEta(params.Eta1) || !validEta(params.Eta2) {
		return errors.Errorf("eta values must be 2 or 3, got %d and %d", params.Eta1, params.Eta2)
	}
	if params.DU < 1 || params.DU > 11 || params.DV < 1 || params.DV > 11 {
		return errors.Errorf("compression widths must be in [1, 11], got du=%d dv=%d", params.DU, params.DV)
	}
	if params.DV >= params.DU {
		return errors.New("dv must be smaller than du")
	}
	if !isPrime(mlkem.Q) {
		return errors.New("modulus must be prime")
	}
	return nil
}

func validEta(eta int) bool {
	return eta == 2 || eta == 3
}

// isPrime checks if a number is prime using a simple trial division.
// This is used for validating parameters, not for generating large primes.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
