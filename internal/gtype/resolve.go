package gtype

import (
	"fmt"
	"math/big"
	"time"
)

// ResolveScalar resolves one line of untyped text against the scalar types in
// registry order and returns the first tag whose grammar accepts it, together
// with the parsed value. Text accepts everything, so resolution never fails.
func ResolveScalar(s string) (Tag, any) {
	for _, tag := range scalarOrder {
		v, err := descriptors[tag].fromLine(s)
		if err == nil {
			return tag, v
		}
	}
	return TagText, s
}

// ResolveValue returns the descriptor matching a native value's runtime type.
// A time.Time with a zero clock component resolves as a date, otherwise as a
// datetime.
func ResolveValue(v any) (*Descriptor, error) {
	if v == nil {
		return descriptors[TagNone], nil
	}
	switch n := v.(type) {
	case bool:
		return descriptors[TagBool], nil
	case string:
		return descriptors[TagText], nil
	case float32, float64:
		return descriptors[TagFloat], nil
	case *big.Int, big.Int:
		return descriptors[TagLong], nil
	case time.Time:
		if h, m, s := n.Clock(); h == 0 && m == 0 && s == 0 {
			return descriptors[TagDate], nil
		}
		return descriptors[TagDateTime], nil
	case map[string]any:
		return descriptors[TagMapping], nil
	case []any:
		return descriptors[TagList], nil
	case *Table:
		return descriptors[TagTable], nil
	}
	if _, ok := toInt64(v); ok {
		return descriptors[TagInteger], nil
	}
	return nil, &UnsupportedTypeError{Name: fmt.Sprintf("%T", v)}
}

// Matches checks that a native value's runtime type is acceptable for the
// given tag.
func Matches(tag Tag, v any) error {
	if _, err := Describe(tag); err != nil {
		return err
	}
	if v == nil {
		if tag == TagNone {
			return nil
		}
		return conversionErr(tag, "null", nil)
	}
	switch tag {
	case TagNone:
		return conversionErr(tag, fmt.Sprintf("%v", v), nil)
	case TagBool:
		if _, ok := v.(bool); ok {
			return nil
		}
	case TagText:
		if _, ok := v.(string); ok {
			return nil
		}
	case TagFloat:
		switch v.(type) {
		case float32, float64:
			return nil
		}
	case TagInteger:
		if _, ok := toInt64(v); ok {
			return nil
		}
	case TagLong:
		switch v.(type) {
		case *big.Int, big.Int:
			return nil
		}
		if _, ok := toInt64(v); ok {
			return nil
		}
	case TagDateTime, TagDate:
		if _, ok := v.(time.Time); ok {
			return nil
		}
	case TagMapping:
		if _, ok := v.(map[string]any); ok {
			return nil
		}
	case TagList:
		if _, ok := v.([]any); ok {
			return nil
		}
	case TagTable:
		if _, ok := v.(*Table); ok {
			return nil
		}
	}
	return conversionErr(tag, fmt.Sprintf("%v", v), fmt.Errorf("runtime type %T does not match", v))
}
