// Package registry provides the central glue between action names and the
// compiled Go functions that implement them.
//
// An action is an ordinary Go function paired with a docstring and a typed
// input struct. The registry stores the mapping from action names (for
// example "text_grep") to these handlers; the build-time spec extractor
// turns each entry into an immutable function specification, and the
// run-time dispatcher resolves handlers by the action name recorded in the
// serialized command tree.
//
// Registration happens once at startup and is validated strictly at build
// time, preventing a wide class of runtime errors.
package registry
