package docspec

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/gactlab/gaction/internal/gtype"
	"github.com/gactlab/gaction/internal/iopattern"
	"github.com/gactlab/gaction/internal/model"
	"github.com/gactlab/gaction/internal/registry"
)

var (
	ctxType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType   = reflect.TypeOf((*error)(nil)).Elem()
	timeType  = reflect.TypeOf(time.Time{})
	bigType   = reflect.TypeOf(&big.Int{})
	tableType = reflect.TypeOf(&gtype.Table{})
)

// Build turns one registered action into an immutable function
// specification, performing the full parity check between the docstring and
// the reflected signature. Any defect fails with a SpecificationError.
func Build(name string, action *registry.RegisteredAction, defaults Defaults) (*model.FunctionSpec, error) {
	path, err := commandPath(name)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDoc(name, action.Doc)
	if err != nil {
		return nil, err
	}

	fields, err := registry.Fields(action.InputType)
	if err != nil {
		return nil, specErrf(name, "%v", err)
	}

	if err := crossCheckNames(name, doc.Params, fields); err != nil {
		return nil, err
	}

	returnType, err := checkFunction(name, action)
	if err != nil {
		return nil, err
	}
	if doc.Return != nil && returnType == nil {
		return nil, specErrf(name, "docstring documents a return value but the function returns none")
	}
	if doc.Return == nil && returnType != nil {
		return nil, specErrf(name, "function returns a value that the docstring does not document")
	}

	spec := &model.FunctionSpec{
		Path:        path,
		Action:      name,
		Summary:     doc.Summary,
		Description: assembleDescription(doc),
	}

	fieldsByName := map[string]registry.Field{}
	for _, f := range fields {
		fieldsByName[f.Name] = f
	}

	// IO classification runs first so the type check can special-case the
	// listed shape, whose declared type is text but whose handler field
	// collects one path per given value.
	names := make([]string, 0, len(doc.Params))
	hasDefault := map[string]bool{}
	for _, dp := range doc.Params {
		names = append(names, dp.Name)
		hasDefault[dp.Name] = fieldsByName[dp.Name].Default != nil
	}
	input, output, err := iopattern.Classify(names, hasDefault)
	if err != nil {
		return nil, specErrf(name, "%v", err)
	}

	// First pass: types, defaults, and the docstring/signature default
	// cross-check, in documentation order.
	defaultValues := map[string]any{}
	for _, dp := range doc.Params {
		f := fieldsByName[dp.Name]
		tag := gtype.Tag(dp.TypeName)

		if listedIn(input, dp.Name) || listedIn(output, dp.Name) {
			if tag != gtype.TagText {
				return nil, specErrf(name, "parameter %q follows the listed IO pattern and must be of type text, not %s", dp.Name, tag)
			}
			if f.GoType == nil || f.GoType.Kind() != reflect.Slice || f.GoType.Elem().Kind() != reflect.String {
				return nil, specErrf(name, "parameter %q collects multiple paths and must be declared as a string slice, not %s", dp.Name, f.GoType)
			}
		} else if !goTypeMatches(tag, f.GoType) {
			return nil, specErrf(name, "parameter %q is documented as %s but declared as %s", dp.Name, tag, f.GoType)
		}

		p := &model.ParamSpec{
			Name:        dp.Name,
			Type:        tag,
			Description: dp.Description,
		}

		if f.Default != nil {
			v, err := gtype.FromLine(tag, *f.Default)
			if err != nil {
				return nil, specErrf(name, "declared default for parameter %q does not parse as %s: %v", dp.Name, tag, err)
			}
			line, err := gtype.ToLine(tag, v)
			if err != nil {
				return nil, specErrf(name, "declared default for parameter %q has no line form: %v", dp.Name, err)
			}
			p.Default = line
			p.HasDefault = true
			defaultValues[dp.Name] = v
		}

		if dp.Default != nil {
			if !p.HasDefault {
				return nil, specErrf(name, "docstring documents a default for parameter %q but the signature declares none", dp.Name)
			}
			dv, err := gtype.FromLine(tag, *dp.Default)
			if err != nil {
				return nil, specErrf(name, "docstring default for parameter %q does not parse as %s: %v", dp.Name, tag, err)
			}
			if !equalValues(dv, defaultValues[dp.Name]) {
				return nil, specErrf(name, "default value mismatch for parameter %q: docstring says %q, signature says %q", dp.Name, *dp.Default, p.Default)
			}
		}

		spec.Params = append(spec.Params, p)
	}

	if doc.Return != nil {
		if output != nil {
			return nil, specErrf(name, "conflicting output patterns: %s, returned", output.Shape)
		}
		output = iopattern.Returned()
		retTag := gtype.Tag(doc.Return.TypeName)
		if !goTypeMatches(retTag, returnType) {
			return nil, specErrf(name, "return value is documented as %s but declared as %s", retTag, returnType)
		}
		spec.Return = &model.ReturnSpec{Type: retTag, Description: doc.Return.Description}
		spec.Params = append(spec.Params, &model.ParamSpec{
			Name:        "outfile",
			Type:        gtype.TagText,
			Description: fmt.Sprintf("Write the returned %s to this file.", retTag),
			Synthetic:   true,
		})
	}
	if input != nil {
		spec.Input = &model.ChannelSpec{Shape: input.Shape, Params: input.Params}
	}
	if output != nil {
		spec.Output = &model.ChannelSpec{Shape: output.Shape, Params: output.Params}
	}

	// Second pass: group assignment and flag/metavar derivation.
	flags := newFlagSet()
	for _, p := range spec.Params {
		switch {
		case assignment(input, p.Name) != nil || assignment(output, p.Name) != nil:
			if err := groupIO(name, p, input, output); err != nil {
				return nil, err
			}
		case isShortForm(p.Name):
			if err := groupShort(name, p, defaults); err != nil {
				return nil, err
			}
		default:
			desc, err := gtype.Describe(p.Type)
			if err != nil {
				return nil, specErrf(name, "%v", err)
			}
			if desc.Compound {
				groupCompound(p, desc)
			} else {
				// Parameters without a default become required options
				// rather than bare positionals, so a command line always
				// names what it passes.
				if !p.HasDefault {
					p.Group = model.GroupOptional
					p.Required = true
				} else if p.Type == gtype.TagBool && p.Default == "false" {
					p.Group = model.GroupSwitch
				} else {
					p.Group = model.GroupOptional
				}
				p.Flag = longFlag(p.Name)
				p.Metavar = strings.ToUpper(string(p.Type))
			}
		}

		annotate(p)

		if p.Flag != "" {
			if err := flags.claim(name, p.Flag, p.Name); err != nil {
				return nil, err
			}
		}
		if p.FileFlag != "" {
			if err := flags.claim(name, p.FileFlag, p.Name); err != nil {
				return nil, err
			}
		}
	}

	return spec, nil
}

// commandPath derives the command path from an action name by splitting on
// underscores. At least two pairwise distinct, non-reserved tokens are
// required.
func commandPath(name string) ([]string, error) {
	tokens := strings.Split(name, "_")
	if len(tokens) < 2 {
		return nil, specErrf(name, "action name must split into at least two command tokens")
	}
	seen := map[string]bool{}
	for _, token := range tokens {
		if token == "" {
			return nil, specErrf(name, "action name has an empty command token")
		}
		if model.Reserved(token) {
			return nil, specErrf(name, "command token %q is reserved", token)
		}
		if seen[token] {
			return nil, specErrf(name, "command token %q is repeated", token)
		}
		seen[token] = true
	}
	return tokens, nil
}

// crossCheckNames enforces the exact two-way parity between documented
// parameters and declared input struct fields.
func crossCheckNames(name string, docParams []*DocParam, fields []registry.Field) error {
	documented := map[string]bool{}
	for _, dp := range docParams {
		documented[dp.Name] = true
	}
	declared := map[string]bool{}
	for _, f := range fields {
		declared[f.Name] = true
	}

	var undeclared, undocumented []string
	for n := range documented {
		if !declared[n] {
			undeclared = append(undeclared, n)
		}
	}
	for n := range declared {
		if !documented[n] {
			undocumented = append(undocumented, n)
		}
	}
	sort.Strings(undeclared)
	sort.Strings(undocumented)
	if len(undeclared) > 0 {
		return specErrf(name, "parameters documented but not declared: %s", strings.Join(undeclared, ", "))
	}
	if len(undocumented) > 0 {
		return specErrf(name, "parameters declared but not documented: %s", strings.Join(undocumented, ", "))
	}
	return nil
}

// checkFunction validates the handler signature and returns the type of its
// declared (non-error) result, or nil if it has none.
func checkFunction(name string, action *registry.RegisteredAction) (reflect.Type, error) {
	if action.Fn == nil {
		return nil, specErrf(name, "action has no function")
	}
	t := reflect.TypeOf(action.Fn)
	if t.Kind() != reflect.Func {
		return nil, specErrf(name, "action handler is %s, not a function", t.Kind())
	}

	wantIn := 1
	if action.InputType != nil {
		wantIn = 2
	}
	if t.NumIn() != wantIn {
		return nil, specErrf(name, "function takes %d arguments, expected %d", t.NumIn(), wantIn)
	}
	if !t.In(0).Implements(ctxType) && t.In(0) != ctxType {
		return nil, specErrf(name, "function's first argument must be context.Context")
	}
	if action.InputType != nil {
		want := action.InputType
		if want.Kind() != reflect.Pointer {
			want = reflect.PointerTo(want)
		}
		if t.In(1) != want {
			return nil, specErrf(name, "function's second argument is %s, expected %s", t.In(1), want)
		}
	}

	switch t.NumOut() {
	case 1:
		if !t.Out(0).Implements(errType) {
			return nil, specErrf(name, "function's result must be error")
		}
		return nil, nil
	case 2:
		if !t.Out(1).Implements(errType) {
			return nil, specErrf(name, "function's last result must be error")
		}
		return t.Out(0), nil
	}
	return nil, specErrf(name, "function returns %d values, expected 1 or 2", t.NumOut())
}

// listedIn reports whether name is the parameter of a listed-shape channel.
func listedIn(m *iopattern.Match, name string) bool {
	return m != nil && m.Shape == model.ShapeListed && len(m.Params) > 0 && m.Params[0] == name
}

func assignment(m *iopattern.Match, name string) *iopattern.Assignment {
	if m == nil {
		return nil
	}
	if a, ok := m.Assignments[name]; ok {
		return &a
	}
	return nil
}

// groupIO finalizes a parameter matched by an IO naming pattern. IO
// parameters are always textual file paths; streamable shapes default to
// "-" (stdin/stdout).
func groupIO(name string, p *model.ParamSpec, input, output *iopattern.Match) error {
	match := input
	a := assignment(input, p.Name)
	if a == nil {
		match = output
		a = assignment(output, p.Name)
	}
	if p.Type != gtype.TagText {
		return specErrf(name, "parameter %q follows the %s IO pattern and must be of type text, not %s", p.Name, match.Shape, p.Type)
	}
	p.Group = model.GroupIO
	p.Flag = a.Flag
	p.Metavar = a.Metavar
	if !p.HasDefault {
		if streamable(match, p.Name) {
			p.Default = "-"
			p.HasDefault = true
		} else {
			p.Required = true
		}
	}
	return nil
}

// streamable reports whether an IO parameter may default to the standard
// streams: single and listed shapes, the first slot of an indexed shape, and
// the synthetic returned shape.
func streamable(m *iopattern.Match, name string) bool {
	switch m.Shape {
	case model.ShapeSingle, model.ShapeListed, model.ShapeReturned:
		return true
	case model.ShapeIndexed:
		return strings.HasSuffix(name, "file1")
	}
	return false
}

func isShortForm(name string) bool {
	_, ok := shortForms[name]
	return ok
}

// groupShort finalizes a parameter whose name is in the fixed short-form
// registry, type-checking it against the registered type.
func groupShort(name string, p *model.ParamSpec, defaults Defaults) error {
	sf := shortForms[p.Name]
	if p.Type != sf.Type {
		return specErrf(name, "short-form parameter %q must be of type %s, not %s", p.Name, sf.Type, p.Type)
	}
	p.Group = model.GroupShort
	p.Flag = sf.Flag
	p.Metavar = strings.ToUpper(string(p.Type))
	if !p.HasDefault && sf.registryDefault != nil {
		p.Default = *sf.registryDefault(defaults)
		p.HasDefault = true
	}
	if !p.HasDefault {
		p.Required = true
	}
	return nil
}

// groupCompound finalizes a compound parameter as the mutually exclusive
// string-or-file pair. The inline flag exists only for type-level ductile
// compounds; the file flag always exists.
func groupCompound(p *model.ParamSpec, desc *gtype.Descriptor) {
	p.Group = model.GroupCompound
	long := longFlag(p.Name)
	if desc.Ductile {
		p.Flag = long
		p.Metavar = "STR"
	}
	p.FileFlag = long + "-file"
	p.FileDest = p.Name + "_file"
	if !p.HasDefault {
		p.Required = true
	}
}

// annotate appends default/required markers to a parameter's help text when
// the docstring did not already carry them.
func annotate(p *model.ParamSpec) {
	if p.Group == model.GroupPositional || p.Group == model.GroupSwitch {
		return
	}
	switch {
	case p.HasDefault:
		if !strings.Contains(strings.ToLower(p.Description), "[default:") {
			p.Description = strings.TrimSpace(p.Description + fmt.Sprintf(" [default: %s]", p.Default))
		}
	case p.Required:
		p.Description = strings.TrimSpace(p.Description + " [required]")
	}
}

func longFlag(name string) string {
	if len(name) == 1 {
		return "-" + name
	}
	return "--" + strings.ReplaceAll(name, "_", "-")
}

// flagSet tracks claimed option strings so collisions fail the build with
// both conflicting parameters identified. The global options every parser
// level claims are pre-seeded.
type flagSet struct {
	owners map[string]string
}

func newFlagSet() *flagSet {
	return &flagSet{owners: map[string]string{
		"-h": "(reserved)", "--help": "(reserved)",
		"-v": "(reserved)", "--version": "(reserved)",
		"-c": "(reserved)", "--commands": "(reserved)",
	}}
}

func (fs *flagSet) claim(action, flag, param string) error {
	if owner, taken := fs.owners[flag]; taken {
		return specErrf(action, "parameter %q has conflicting option %q with %s", param, flag, owner)
	}
	fs.owners[flag] = param
	return nil
}

// goTypeMatches reports whether a Go type is an acceptable declaration for
// the documented type tag.
func goTypeMatches(tag gtype.Tag, t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch tag {
	case gtype.TagText:
		return t.Kind() == reflect.String
	case gtype.TagBool:
		return t.Kind() == reflect.Bool
	case gtype.TagFloat:
		return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
	case gtype.TagInteger:
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint8, reflect.Uint16, reflect.Uint32:
			return true
		}
	case gtype.TagLong:
		return t == bigType || t == bigType.Elem()
	case gtype.TagDateTime, gtype.TagDate:
		return t == timeType
	case gtype.TagMapping:
		return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
	case gtype.TagList:
		return t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8
	case gtype.TagTable:
		return t == tableType
	}
	return false
}

// equalValues compares two marshaled values, treating times by instant.
func equalValues(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if ba, ok := a.(*big.Int); ok {
		bb, ok := b.(*big.Int)
		return ok && ba.Cmp(bb) == 0
	}
	return reflect.DeepEqual(a, b)
}

// assembleDescription folds the free-form description and any remaining
// supported sections into one help text.
func assembleDescription(doc *Doc) string {
	parts := []string{}
	if doc.Description != "" {
		parts = append(parts, doc.Description)
	}
	for _, sec := range doc.Sections {
		parts = append(parts, sec.Header+":\n"+sec.Text)
	}
	return strings.Join(parts, "\n\n")
}
