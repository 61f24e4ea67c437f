// Package mapkit provides the mapping actions shipped with the default
// binary.
package mapkit

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gactlab/gaction/internal/gtype"
	"github.com/gactlab/gaction/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the mapping actions with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("map_invert", &registry.RegisteredAction{
		Doc:       invertDoc,
		NewInput:  func() any { return new(InvertInput) },
		InputType: reflect.TypeOf(InvertInput{}),
		Fn:        Invert,
	})
}

const invertDoc = `Invert the keys and values of a mapping.

Every value must be a scalar; its line form becomes a key of the
result. Duplicate values are an error because the inversion would lose
entries.

Args:
    data (mapping): Mapping to invert.

Returns:
    mapping: The inverted mapping.
`

// InvertInput defines the arguments for the map invert action.
type InvertInput struct {
	Data map[string]any `gact:"data"`
}

// Invert is the handler for the 'map invert' command.
func Invert(ctx context.Context, input *InvertInput) (map[string]any, error) {
	out := make(map[string]any, len(input.Data))
	for key, value := range input.Data {
		desc, err := gtype.ResolveValue(value)
		if err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if desc.Compound {
			return nil, fmt.Errorf("value of %q is a %s, not a scalar", key, desc.Tag)
		}
		line, err := gtype.ToLine(desc.Tag, value)
		if err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if _, dup := out[line]; dup {
			return nil, fmt.Errorf("duplicate value %q", line)
		}
		out[line] = key
	}
	return out, nil
}
