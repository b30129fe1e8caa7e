package mlkem

import "github.com/pkg/errors"

var (
	// ErrMalformedInput indicates a byte string of the wrong length or content
	// was handed to a deserializer.
	ErrMalformedInput = errors.New("mlkem: malformed input")

	// ErrUnknownParameterSet indicates an unrecognized parameter-set selector.
	ErrUnknownParameterSet = errors.New("mlkem: unknown parameter set")

	// ErrInvalidRepresentation indicates an internal operation was invoked on
	// an operand in the wrong domain or of the wrong shape. It is only ever
	// raised through panic.
	ErrInvalidRepresentation = errors.New("mlkem: invalid ring representation")
)
