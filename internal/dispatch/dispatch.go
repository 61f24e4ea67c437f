// Package dispatch invokes the registered handler for a parsed invocation:
// it loads file-provided compound values, populates the handler's input
// struct, calls the handler, and marshals a declared return value to its
// output destination.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"reflect"

	"github.com/gactlab/gaction/internal/bind"
	"github.com/gactlab/gaction/internal/ctxlog"
	"github.com/gactlab/gaction/internal/gtype"
	"github.com/gactlab/gaction/internal/parser"
	"github.com/gactlab/gaction/internal/registry"
)

// Dispatcher runs parsed invocations against a handler registry.
type Dispatcher struct {
	registry *registry.Registry
	stdout   io.Writer
}

// New returns a dispatcher writing stream output to stdout.
func New(reg *registry.Registry, stdout io.Writer) *Dispatcher {
	return &Dispatcher{registry: reg, stdout: stdout}
}

// Run executes one invocation. Handler errors propagate unmodified.
func (d *Dispatcher) Run(ctx context.Context, inv *parser.Invocation) error {
	logger := ctxlog.FromContext(ctx)

	action := d.registry.Action(inv.Spec.Action)
	if action == nil {
		return fmt.Errorf("no handler registered for action %q", inv.Spec.Action)
	}

	values := make(map[string]any, len(inv.Values)+len(inv.FileValues))
	for name, v := range inv.Values {
		values[name] = v
	}
	for name, path := range inv.FileValues {
		prm := inv.Spec.Param(name)
		if prm == nil {
			return fmt.Errorf("no parameter %q for file-provided value", name)
		}
		v, err := gtype.FromFile(prm.Type, path)
		if err != nil {
			return fmt.Errorf("loading %s for %s: %w", path, prm.Name, err)
		}
		values[name] = v
	}

	fn := reflect.ValueOf(action.Fn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx)}
	if action.InputType != nil {
		input := action.NewInput()
		fields, err := registry.Fields(action.InputType)
		if err != nil {
			return err
		}
		if err := bind.Populate(input, fields, values); err != nil {
			return err
		}
		callArgs = append(callArgs, reflect.ValueOf(input))
	}

	logger.Debug("Invoking action handler.", "action", inv.Spec.Action)
	results := fn.Call(callArgs)

	if errVal := results[len(results)-1]; !errVal.IsNil() {
		return errVal.Interface().(error)
	}
	if inv.Spec.Return == nil || len(results) < 2 {
		return nil
	}
	return d.writeReturn(ctx, inv, results[0].Interface(), values)
}

// writeReturn marshals a declared return value to the synthetic output
// destination, defaulting to the standard output stream.
func (d *Dispatcher) writeReturn(ctx context.Context, inv *parser.Invocation, result any, values map[string]any) error {
	tag := inv.Spec.Return.Type
	result = normalize(tag, result)

	c, err := gtype.Chaperone(tag, result)
	if err != nil {
		return fmt.Errorf("action %q returned an unexpected value: %w", inv.Spec.Action, err)
	}

	dest := "-"
	if s, ok := values["outfile"].(string); ok && s != "" {
		dest = s
	}
	ctxlog.FromContext(ctx).Debug("Writing return value.", "type", string(tag), "dest", dest)

	if dest == "-" {
		return c.WriteTo(d.stdout)
	}
	return gtype.ToFile(tag, result, dest)
}

// normalize folds a handler's concrete return type onto the canonical native
// type of its tag, so that for example an int result satisfies integer and a
// []string result satisfies list.
func normalize(tag gtype.Tag, v any) any {
	rv := reflect.ValueOf(v)
	switch tag {
	case gtype.TagInteger:
		if rv.CanInt() {
			return rv.Int()
		}
		if rv.CanUint() {
			return int64(rv.Uint())
		}
	case gtype.TagFloat:
		if rv.CanFloat() {
			return rv.Float()
		}
	case gtype.TagLong:
		if b, ok := v.(big.Int); ok {
			return &b
		}
	case gtype.TagText:
		if rv.Kind() == reflect.String {
			return rv.String()
		}
	case gtype.TagList:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Interface {
			out := make([]any, rv.Len())
			for i := range out {
				out[i] = normalizeElem(rv.Index(i).Interface())
			}
			return out
		}
	case gtype.TagMapping:
		if rv.Kind() == reflect.Map && rv.Type().Elem().Kind() != reflect.Interface {
			out := make(map[string]any, rv.Len())
			for it := rv.MapRange(); it.Next(); {
				out[it.Key().String()] = normalizeElem(it.Value().Interface())
			}
			return out
		}
	}
	return v
}

func normalizeElem(v any) any {
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return rv.Int()
	case rv.CanUint():
		return int64(rv.Uint())
	}
	return v
}
