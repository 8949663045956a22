package xdr

import (
	"errors"
	"fmt"
)

// codec errors
var (
	ErrMalformedInput = errors.New("xdr: malformed input")
	ErrInvalidValue   = errors.New("xdr: invalid value")
)

// DecodeError describes where and why a buffer could not be decoded.
// It matches ErrMalformedInput with errors.Is.
type DecodeError struct {
	Type   string
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("xdr: malformed %s at offset %d: %s", e.Type, e.Offset, e.Msg)
}

// Is reports whether target is ErrMalformedInput
func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformedInput
}

func errInvalidValue(typ, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidValue, typ, fmt.Sprintf(format, args...))
}

func errUnknownArm(typ string, disc int32) error {
	return errInvalidValue(typ, "unknown discriminant %d", disc)
}

func errNilArm(typ string, disc int32) error {
	return errInvalidValue(typ, "missing arm for discriminant %d", disc)
}
