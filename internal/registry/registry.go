package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
)

// Module is the interface that all client modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredAction holds the compiled Go parts of one command function.
type RegisteredAction struct {
	// Doc is the action's docstring in the line-oriented grammar the spec
	// extractor parses: a summary line, a blank line, and optional Args /
	// Returns sections.
	Doc string
	// NewInput returns a fresh instance of the action's input struct. The
	// struct's exported fields carry `gact` tags naming the parameters.
	NewInput func() any
	// InputType is the input struct type, used for the build-time parity
	// check between docstring and signature.
	InputType reflect.Type
	// Fn is func(context.Context, *Input) error, or
	// func(context.Context, *Input) (T, error) for actions with a declared
	// return value.
	Fn any
}

// Registry holds all the registered actions for a single application
// instance.
type Registry struct {
	actions map[string]*RegisteredAction
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{actions: make(map[string]*RegisteredAction)}
}

// RegisterAction registers a Go function as a command action. The name
// determines the command path: it is split on underscores, one token per
// command level.
func (r *Registry) RegisterAction(name string, action *RegisteredAction) {
	if _, exists := r.actions[name]; exists {
		panic(fmt.Sprintf("action with name '%s' already registered", name))
	}
	slog.Debug("Registering action.", "name", name)
	r.actions[name] = action
}

// Action returns the registered action with the given name, or nil.
func (r *Registry) Action(name string) *RegisteredAction {
	return r.actions[name]
}

// Names returns all registered action names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
