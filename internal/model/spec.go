// Package model holds the format-agnostic function specification types that
// flow from the build-time spec extractor, through the serialized command
// tree artifact, to the run-time parser and dispatcher. All types here are
// constructed once at build time and treated as read-only afterwards.
package model

import "github.com/gactlab/gaction/internal/gtype"

// Group classifies how a parameter is surfaced on the command line.
type Group string

const (
	// GroupPositional is a required bare argument.
	GroupPositional Group = "positional"
	// GroupOptional is a flagged option with a shown default.
	GroupOptional Group = "optional"
	// GroupSwitch is a boolean flag whose absence means false.
	GroupSwitch Group = "switch"
	// GroupShort is a recognized common name with a reserved one-letter flag.
	GroupShort Group = "short"
	// GroupCompound is a string-or-file mutually exclusive flag pair.
	GroupCompound Group = "compound"
	// GroupIO is a file or stream parameter following a recognized naming
	// pattern.
	GroupIO Group = "io"
)

// IOShape names the recognized file/stream parameter naming patterns.
type IOShape string

const (
	ShapeSingle    IOShape = "single"
	ShapeListed    IOShape = "listed"
	ShapeIndexed   IOShape = "indexed"
	ShapeDirectory IOShape = "directory"
	ShapePrefix    IOShape = "prefix"
	// ShapeReturned is the synthetic output parameter carrying a declared
	// return value; it has no source parameter.
	ShapeReturned IOShape = "returned"
)

// reservedTokens may not appear in command paths because the parser claims
// them at every level.
var reservedTokens = map[string]bool{
	"help":     true,
	"version":  true,
	"commands": true,
}

// Reserved reports whether a command-path token is reserved.
func Reserved(token string) bool { return reservedTokens[token] }

// ParamSpec describes one command-line parameter of a function.
type ParamSpec struct {
	Name        string    `yaml:"name"`
	Type        gtype.Tag `yaml:"type"`
	Group       Group     `yaml:"group"`
	Description string    `yaml:"description,omitempty"`

	// Default is the canonical line form of the parameter's default value;
	// it is meaningful only when HasDefault is set.
	Default    string `yaml:"default,omitempty"`
	HasDefault bool   `yaml:"has_default,omitempty"`
	Required   bool   `yaml:"required,omitempty"`

	Flag    string `yaml:"flag,omitempty"`
	Metavar string `yaml:"metavar,omitempty"`

	// FileFlag and FileDest describe the file-loading alternative of a
	// compound parameter.
	FileFlag string `yaml:"file_flag,omitempty"`
	FileDest string `yaml:"file_dest,omitempty"`

	// Synthetic marks the returned-output parameter, which has no
	// corresponding field in the handler's input struct.
	Synthetic bool `yaml:"synthetic,omitempty"`
}

// ReturnSpec describes a function's declared return value.
type ReturnSpec struct {
	Type        gtype.Tag `yaml:"type"`
	Description string    `yaml:"description,omitempty"`
}

// ChannelSpec records the resolved IO pattern of one channel.
type ChannelSpec struct {
	Shape  IOShape  `yaml:"shape"`
	Params []string `yaml:"params,omitempty"`
}

// FunctionSpec is the immutable build-time specification of one command
// function.
type FunctionSpec struct {
	// Path is the command path derived from the action name; it has at
	// least two pairwise distinct, non-reserved tokens.
	Path []string `yaml:"path"`
	// Action is the registry name the dispatcher resolves the handler by.
	Action      string       `yaml:"action"`
	Summary     string       `yaml:"summary"`
	Description string       `yaml:"description,omitempty"`
	Params      []*ParamSpec `yaml:"params,omitempty"`
	Return      *ReturnSpec  `yaml:"return,omitempty"`

	Input  *ChannelSpec `yaml:"input,omitempty"`
	Output *ChannelSpec `yaml:"output,omitempty"`
}

// Param returns the named parameter spec, or nil.
func (s *FunctionSpec) Param(name string) *ParamSpec {
	for _, p := range s.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}
