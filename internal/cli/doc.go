// Package cli handles process-level concerns: it translates the errors a
// toolkit run can produce into exit codes, keeping the mapping in one place.
// Usage problems exit 2, application and conversion failures exit 1.
package cli
