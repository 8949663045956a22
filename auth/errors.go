// Package auth holds the error types shared by the web authentication
// protocols in sep10 and sep45.
package auth

import (
	"errors"
	"fmt"
)

// ErrorCode names one challenge validation check
type ErrorCode string

// ChallengeValidationError reports the first failed check on a challenge.
// It matches any other *ChallengeValidationError with the same Code under
// errors.Is, so the exported sentinels of sep10 and sep45 can be used as
// targets.
type ChallengeValidationError struct {
	Code ErrorCode
	Msg  string
}

func (e *ChallengeValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return "invalid challenge: " + string(e.Code)
	}
	return fmt.Sprintf("invalid challenge: %s: %s", e.Code, e.Msg)
}

// Is matches on the error code
func (e *ChallengeValidationError) Is(target error) bool {
	t, ok := target.(*ChallengeValidationError)
	return ok && t.Code == e.Code
}

// NewCode returns a sentinel for code
func NewCode(code ErrorCode) *ChallengeValidationError {
	return &ChallengeValidationError{Code: code}
}

// Errorf returns a validation error for code with a formatted message
func Errorf(code ErrorCode, format string, args ...interface{}) error {
	return &ChallengeValidationError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// AuthServerError is returned when the authentication server answers with
// a non-2xx status. Body is the response body verbatim.
type AuthServerError struct {
	StatusCode int
	Body       string
}

func (e *AuthServerError) Error() string {
	return fmt.Sprintf("auth server error: status %d: %s", e.StatusCode, e.Body)
}

// common errors
var (
	ErrMissingTransaction = errors.New("auth server response has no challenge")
	ErrMissingToken       = errors.New("auth server response has no token")
	ErrNoSigners          = errors.New("no signers given")
)
