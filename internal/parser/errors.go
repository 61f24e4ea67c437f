package parser

// UsageError reports a malformed command line: unknown commands or options,
// missing required values, mutually exclusive options given together, or
// values that fail conversion. It carries the usage text to print alongside
// the message and always maps to exit code 2.
type UsageError struct {
	Message string
	Usage   string
}

func (e *UsageError) Error() string { return e.Message }

func usageErrf(usage, message string) error {
	return &UsageError{Message: message, Usage: usage}
}
