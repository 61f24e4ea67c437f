package docspec

import "fmt"

// SpecificationError reports a build-time defect in an action's docstring,
// signature, or naming. It aborts artifact generation and never occurs at
// run time if the artifact was built successfully.
type SpecificationError struct {
	Action string
	Detail string
}

func (e *SpecificationError) Error() string {
	if e.Action == "" {
		return "invalid specification: " + e.Detail
	}
	return fmt.Sprintf("invalid specification for action %q: %s", e.Action, e.Detail)
}

func specErrf(action, format string, args ...any) error {
	return &SpecificationError{Action: action, Detail: fmt.Sprintf(format, args...)}
}
