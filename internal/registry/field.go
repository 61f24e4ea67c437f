package registry

import (
	"fmt"
	"reflect"
	"strings"
)

// Field is one parameter-bearing field of an action's input struct.
type Field struct {
	// Name is the parameter name from the field's `gact` tag.
	Name   string
	GoType reflect.Type
	// Default is the raw default literal from the tag, present only when
	// the tag carries a `default=` entry. Its presence is what makes the
	// parameter optional.
	Default *string
	// Index locates the field for reflect access.
	Index []int
}

// Fields extracts the `gact`-tagged fields of an input struct type in
// declaration order. The tag grammar is `gact:"name"` or
// `gact:"name,default=literal"`; untagged and `-`-tagged fields are skipped.
func Fields(t reflect.Type) ([]Field, error) {
	if t == nil {
		return nil, nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input type %s is not a struct", t)
	}

	var fields []Field
	seen := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup("gact")
		if !ok || tag == "" || tag == "-" {
			continue
		}
		name, def, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name(), f.Name, err)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate parameter %q in input struct %s", name, t.Name())
		}
		seen[name] = true
		fields = append(fields, Field{
			Name:    name,
			GoType:  f.Type,
			Default: def,
			Index:   f.Index,
		})
	}
	return fields, nil
}

// parseTag splits a `gact` tag into the parameter name and the optional
// default literal. The default literal runs to the end of the tag, so it may
// itself contain commas (for example a flow-style list).
func parseTag(tag string) (name string, def *string, err error) {
	name = tag
	if i := strings.Index(tag, ","); i >= 0 {
		name = tag[:i]
		rest := tag[i+1:]
		const prefix = "default="
		if !strings.HasPrefix(rest, prefix) {
			return "", nil, fmt.Errorf("malformed gact tag %q", tag)
		}
		literal := rest[len(prefix):]
		def = &literal
	}
	if name == "" {
		return "", nil, fmt.Errorf("gact tag %q has no parameter name", tag)
	}
	return name, def, nil
}
