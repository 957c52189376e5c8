package invoke

import (
	"errors"
	"fmt"
)

// ActionError reports a failed task action together with the exit code the
// engine should ultimately surface as its own process exit code.
type ActionError struct {
	Task     string
	ExitCode int
	Err      error
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task %q failed with exit code %d: %v", e.Task, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("task %q failed with exit code %d", e.Task, e.ExitCode)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// ExitCodeOf extracts the exit code carried by an error chain, or 1 when the
// error carries none.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var actionErr *ActionError
	if errors.As(err, &actionErr) && actionErr.ExitCode != 0 {
		return actionErr.ExitCode
	}
	return 1
}
