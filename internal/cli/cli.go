package cli

import (
	"errors"

	"github.com/gactlab/gaction/internal/parser"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string { return e.Message }

// FromError maps an error from a toolkit run onto the exit contract: usage
// errors exit 2 with the usage text attached, explicit ExitErrors pass
// through, and everything else exits 1.
func FromError(err error) *ExitError {
	if err == nil {
		return nil
	}
	var usageErr *parser.UsageError
	if errors.As(err, &usageErr) {
		msg := usageErr.Message
		if usageErr.Usage != "" {
			msg += "\n" + usageErr.Usage
		}
		return &ExitError{Code: 2, Message: msg}
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: 1, Message: err.Error()}
}
