// Package bind populates an action's input struct from the typed parameter
// values produced by the parser. Values whose Go types match the declared
// fields are assigned directly; the remaining numeric and collection
// conversions are funneled through cty so that, for example, an int64
// parameter can land in an int field and a []any of strings in a []string
// field.
package bind

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/gactlab/gaction/internal/registry"
)

// Populate fills the input struct's tagged fields from values keyed by
// parameter name. Missing values leave the field at its zero value.
func Populate(input any, fields []registry.Field, values map[string]any) error {
	structVal := reflect.ValueOf(input)
	if structVal.Kind() != reflect.Pointer || structVal.IsNil() {
		return fmt.Errorf("input must be a non-nil struct pointer, got %T", input)
	}
	structVal = structVal.Elem()

	for _, f := range fields {
		v, ok := values[f.Name]
		if !ok || v == nil {
			continue
		}
		fieldVal := structVal.FieldByIndex(f.Index)
		if !fieldVal.CanSet() {
			continue
		}
		if err := setValue(fieldVal, v); err != nil {
			return fmt.Errorf("parameter %q: %w", f.Name, err)
		}
	}
	return nil
}

func setValue(dst reflect.Value, v any) error {
	src := reflect.ValueOf(v)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}
	if src.Type().ConvertibleTo(dst.Type()) && sameKindClass(src.Kind(), dst.Kind()) {
		dst.Set(src.Convert(dst.Type()))
		return nil
	}

	switch dst.Kind() {
	case reflect.Slice:
		if src.Kind() != reflect.Slice {
			return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
		}
		out := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			elem := src.Index(i).Interface()
			if err := setValue(out.Index(i), elem); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		dst.Set(out)
		return nil
	case reflect.Map:
		if src.Kind() != reflect.Map {
			return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
		}
		out := reflect.MakeMapWithSize(dst.Type(), src.Len())
		for it := src.MapRange(); it.Next(); {
			outVal := reflect.New(dst.Type().Elem()).Elem()
			if err := setValue(outVal, it.Value().Interface()); err != nil {
				return fmt.Errorf("key %v: %w", it.Key().Interface(), err)
			}
			out.SetMapIndex(it.Key().Convert(dst.Type().Key()), outVal)
		}
		dst.Set(out)
		return nil
	}

	// Primitive conversions (int64 into int, float into float32, ...) go
	// through cty so widening rules stay consistent with the rest of the
	// conversion surface.
	srcCty, err := gocty.ImpliedType(v)
	if err != nil {
		return fmt.Errorf("cannot assign %T to %s: %w", v, dst.Type(), err)
	}
	val, err := gocty.ToCtyValue(v, srcCty)
	if err != nil {
		return err
	}
	dstCty, err := gocty.ImpliedType(reflect.Zero(dst.Type()).Interface())
	if err != nil {
		return fmt.Errorf("cannot assign %T to %s: %w", v, dst.Type(), err)
	}
	converted, err := convert.Convert(val, dstCty)
	if err != nil {
		return fmt.Errorf("cannot convert %T to %s: %w", v, dst.Type(), err)
	}
	return gocty.FromCtyValue(converted, dst.Addr().Interface())
}

// sameKindClass guards reflect.Convert against lossy cross-class conversions
// such as int to string.
func sameKindClass(a, b reflect.Kind) bool {
	return kindClass(a) == kindClass(b) && kindClass(a) != 0
}

func kindClass(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return 1
	case reflect.Float32, reflect.Float64:
		return 2
	case reflect.String:
		return 3
	}
	return 0
}
