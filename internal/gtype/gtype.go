// Package gtype implements the registry of value types supported by the
// command-line compiler.
//
// The set of types is closed: each type is identified by a Tag and described
// by a Descriptor carrying its capability flags and its converters between
// native values, single-line textual forms, and file contents.
//
// The canonical textual grammar is fixed:
//
//   - Scalars (none, bool, integer, long, float) follow the YAML core-schema
//     scalar grammar as implemented by gopkg.in/yaml.v3. Canonical output is
//     "null", "true"/"false", base-10 integers, and shortest-form floats.
//   - datetime values use the layout "2006-01-02T15:04:05"; date values use
//     "2006-01-02". Both are resolved before plain text, and datetime before
//     date, because a date is a textual prefix of a datetime.
//   - mapping and list line forms are single-line YAML flow collections; the
//     surrounding braces or brackets may be omitted on input and are always
//     present on output. Their file forms are a YAML document for mappings
//     and one scalar element per line for lists.
//   - table file form is tab-separated values with a heading row; the line
//     form (single-row tables only) is a YAML flow mapping of heading to cell.
package gtype

import (
	"io"
	"sort"
)

// Tag identifies one of the supported value types.
type Tag string

// The closed set of supported type tags.
const (
	TagNone     Tag = "none"
	TagBool     Tag = "bool"
	TagText     Tag = "text"
	TagFloat    Tag = "float"
	TagInteger  Tag = "integer"
	TagLong     Tag = "long"
	TagDateTime Tag = "datetime"
	TagDate     Tag = "date"
	TagMapping  Tag = "mapping"
	TagList     Tag = "list"
	TagTable    Tag = "table"
)

// scalarOrder fixes the resolution order for untyped scalar text. Booleans
// are tried before integers and datetimes before dates, because some textual
// forms are ambiguous subsets of others.
var scalarOrder = []Tag{TagNone, TagBool, TagInteger, TagLong, TagFloat, TagDateTime, TagDate, TagText}

// Descriptor describes one supported value type.
//
// Ductile reports whether the type has a single-line textual form at all;
// whether a particular value can actually be single-lined is decided by
// ValidateDuctile. Fileable reports whether the type converts to and from
// the full contents of a file. Compound marks structurally nested types.
type Descriptor struct {
	Tag      Tag
	Compound bool
	Ductile  bool
	Fileable bool

	fromLine func(string) (any, error)
	toLine   func(any) (string, error)
	read     func(io.Reader) (any, error)
	write    func(any, io.Writer) error
}

// descriptors is the closed registry, populated in init by the scalar,
// compound, and table files of this package.
var descriptors = map[Tag]*Descriptor{}

func register(d *Descriptor) {
	if _, dup := descriptors[d.Tag]; dup {
		panic("gtype: duplicate descriptor for tag " + string(d.Tag))
	}
	descriptors[d.Tag] = d
}

// Describe returns the descriptor for the given tag.
func Describe(tag Tag) (*Descriptor, error) {
	d, ok := descriptors[tag]
	if !ok {
		return nil, &UnsupportedTypeError{Name: string(tag)}
	}
	return d, nil
}

// Known reports whether the given name is a supported type tag.
func Known(name string) bool {
	_, ok := descriptors[Tag(name)]
	return ok
}

// Tags returns all supported tags in lexical order.
func Tags() []Tag {
	tags := make([]Tag, 0, len(descriptors))
	for tag := range descriptors {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// FromLine converts a single-line textual form into a native value of the
// given type.
func FromLine(tag Tag, s string) (any, error) {
	d, err := Describe(tag)
	if err != nil {
		return nil, err
	}
	if !d.Ductile {
		return nil, &NotDuctileError{Reason: "type " + string(tag) + " has no single-line form"}
	}
	return d.fromLine(s)
}

// ToLine converts a native value of the given type into its canonical
// single-line textual form. The value must pass ValidateDuctile.
func ToLine(tag Tag, v any) (string, error) {
	d, err := Describe(tag)
	if err != nil {
		return "", err
	}
	if !d.Ductile {
		return "", &NotDuctileError{Reason: "type " + string(tag) + " has no single-line form"}
	}
	if err := ValidateDuctile(v); err != nil {
		return "", err
	}
	return d.toLine(v)
}

// Read converts the full contents of a reader into a native value of the
// given type.
func Read(tag Tag, r io.Reader) (any, error) {
	d, err := Describe(tag)
	if err != nil {
		return nil, err
	}
	return d.read(r)
}

// Write converts a native value of the given type into its file form and
// writes it to the given writer.
func Write(tag Tag, v any, w io.Writer) error {
	d, err := Describe(tag)
	if err != nil {
		return err
	}
	return d.write(v, w)
}
