package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Decode error kinds. Every failure returned by the decode primitives wraps one of these.
var (
	ErrMalformedVarint  = errors.New("malformed varint")
	ErrUnknownWireType  = errors.New("unknown wire type")
	ErrTruncatedBuffer  = errors.New("truncated buffer")
	ErrWireTypeMismatch = errors.New("wire type mismatch")

	// ErrInvalidFieldNumber is returned for tags carrying field number 0 or a
	// number above MaxFieldNumber.
	ErrInvalidFieldNumber = errors.New("invalid field number")
)

// DecodeError records where in the buffer a decode primitive failed.
type DecodeError struct {
	Offset int    // cursor position when the failure was detected
	Op     string // "varint", "tag", "payload"
	Err    error  // one of the Err* kinds
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(op string, offset int, err error) error {
	return &DecodeError{Offset: offset, Op: op, Err: err}
}

// FieldError represents a decoding error with a field path.
type FieldError struct {
	FieldPath []string // e.g., ["1[1]", "2[1]"]
	Err       error    // underlying error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("decoding error at path %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// WrapField prefixes err with a path segment. Nested FieldErrors are flattened
// so the message never repeats itself.
func WrapField(err error, segment string) error {
	if err == nil {
		return nil
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{
			FieldPath: append([]string{segment}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{segment},
		Err:       err,
	}
}
