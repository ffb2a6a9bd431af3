package models

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotAuthenticated means the operation needs a signed-in user.
	ErrNotAuthenticated = errors.New("sign in to continue")
	// ErrNotFound means a referenced product, collection or cart item does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks input that fails schema checks.
	ErrValidation = errors.New("invalid input")
	// ErrRemote marks a failed or unreachable backend call.
	ErrRemote = errors.New("backend unavailable")
)

// RemoteError wraps a backend failure with the operation that caused it.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// Remote wraps err as a RemoteError unless it is nil or already classified.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrRemote) {
		return err
	}
	return &RemoteError{Op: op, Err: err}
}

// Invalid returns a validation error carrying msg.
func Invalid(msg string) error {
	return errors.Wrap(ErrValidation, msg)
}
