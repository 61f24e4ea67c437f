package gtype

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidateDuctile checks that a value can be represented as a single
// newline-free line of text. Text must contain no line breaks; mappings and
// lists must have recursively ductile elements; tables must have exactly one
// row. Cyclic compound structures are rejected rather than recursed into.
func ValidateDuctile(v any) error {
	return validateDuctile(v, map[uintptr]bool{})
}

// onStack tracks the identities of the compound values currently being
// visited, so a structure that reaches itself is reported as a cycle instead
// of looping forever. Entries are removed on the way back out, so shared
// (acyclic) substructure is not misreported.
func validateDuctile(v any, onStack map[uintptr]bool) error {
	if v == nil {
		return nil
	}
	switch n := v.(type) {
	case string:
		if strings.ContainsAny(n, "\n\r") {
			return &NotDuctileError{Reason: "text contains a line break"}
		}
		return nil
	case map[string]any:
		ptr := reflect.ValueOf(n).Pointer()
		if onStack[ptr] {
			return &NotDuctileError{Reason: "mapping contains a cycle"}
		}
		onStack[ptr] = true
		defer delete(onStack, ptr)
		for k, elem := range n {
			if strings.ContainsAny(k, "\n\r") {
				return &NotDuctileError{Reason: "mapping key contains a line break"}
			}
			if err := validateDuctile(elem, onStack); err != nil {
				return err
			}
		}
		return nil
	case []any:
		ptr := reflect.ValueOf(n).Pointer()
		if len(n) > 0 {
			if onStack[ptr] {
				return &NotDuctileError{Reason: "list contains a cycle"}
			}
			onStack[ptr] = true
			defer delete(onStack, ptr)
		}
		for _, elem := range n {
			if err := validateDuctile(elem, onStack); err != nil {
				return err
			}
		}
		return nil
	case *Table:
		if len(n.Rows) != 1 {
			return &NotDuctileError{Reason: fmt.Sprintf("table has %d rows, single-line form requires exactly 1", len(n.Rows))}
		}
		ptr := reflect.ValueOf(n).Pointer()
		if onStack[ptr] {
			return &NotDuctileError{Reason: "table contains a cycle"}
		}
		onStack[ptr] = true
		defer delete(onStack, ptr)
		for _, cell := range n.Rows[0] {
			if err := validateDuctile(cell, onStack); err != nil {
				return err
			}
		}
		return nil
	}
	// Remaining scalar kinds have no line breaks by construction.
	if _, err := ResolveValue(v); err != nil {
		return err
	}
	return nil
}
