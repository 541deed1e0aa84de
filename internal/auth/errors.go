package auth

import (
	"errors"
	"fmt"
)

// User-facing messages of failed sign-in attempts.
const (
	MsgRejected = "An error occurred during sign in."
	MsgFailed   = "An error occurred. Please try again."
)

// ErrMissingCredentials is returned before any call when email or password is empty.
var ErrMissingCredentials = errors.New("email and password are required")

// SignInError is a failed sign-in attempt. Status is zero when no usable answer was
// received. Message is safe to show to the user.
type SignInError struct {
	Status  int
	Message string
	Err     error
}

func (e *SignInError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("sign in failed with status %d: %s: %v", e.Status, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("sign in failed: %s: %v", e.Message, e.Err)
	default:
		return fmt.Sprintf("sign in rejected with status %d: %s", e.Status, e.Message)
	}
}

func (e *SignInError) Unwrap() error {
	return e.Err
}
