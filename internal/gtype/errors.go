package gtype

import "fmt"

// UnsupportedTypeError reports a type name that is not in the registry.
type UnsupportedTypeError struct {
	Name string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %q", e.Name)
}

// NotDuctileError reports a value or type that cannot be represented as a
// single newline-free line of text.
type NotDuctileError struct {
	Reason string
}

func (e *NotDuctileError) Error() string {
	return "value is not ductile: " + e.Reason
}

// ConversionError reports a textual or file form that does not parse as the
// declared type, or a native value that does not match it.
type ConversionError struct {
	Tag     Tag
	Literal string
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %q to type %s: %v", e.Literal, e.Tag, e.Err)
	}
	return fmt.Sprintf("cannot convert %q to type %s", e.Literal, e.Tag)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func conversionErr(tag Tag, literal string, err error) error {
	return &ConversionError{Tag: tag, Literal: literal, Err: err}
}
