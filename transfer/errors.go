package transfer

import (
	"errors"
	"fmt"
)

// ErrEmptySource indicates the source locator was empty.
var ErrEmptySource = errors.New("transfer: source locator is empty")

// SetupError wraps a failure during transfer setup with the step that failed.
// Setup failures abort Download before any byte is moved.
type SetupError struct {
	Step string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("transfer setup failed (%s): %v", e.Step, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }
