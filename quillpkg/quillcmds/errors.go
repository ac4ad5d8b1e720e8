package quillcmds

import (
	"errors"
	"fmt"
)

// Layer sentinels
var (
	ErrCommand = errors.New("command")
	ErrCancel  = errors.New("cancelled")
)

// UserError wraps a handled failure with guidance text. The CLI boundary
// prints the message (and guidance when present) and exits 1; it never
// prints a stack trace.
type UserError struct {
	Message  string
	Guidance string
	Err      error
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// userErr builds a UserError without guidance.
func userErr(message string, err error) *UserError {
	return &UserError{Message: message, Err: err}
}

// userErrGuide builds a UserError with credential or setup guidance.
func userErrGuide(message, guidance string, err error) *UserError {
	return &UserError{Message: message, Guidance: guidance, Err: err}
}
