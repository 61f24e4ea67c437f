package parser

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gactlab/gaction/internal/gtype"
	"github.com/gactlab/gaction/internal/model"
)

// parseCommand interprets the arguments after the command path against one
// terminal command's parameter specifications.
func (p *Parser) parseCommand(spec *model.FunctionSpec, path, args []string, stdout io.Writer) (*Invocation, error) {
	usage := synopsis(p.program, path, spec)

	byFlag := map[string]*model.ParamSpec{}
	byFileFlag := map[string]*model.ParamSpec{}
	for _, prm := range spec.Params {
		if prm.Flag != "" {
			byFlag[prm.Flag] = prm
		}
		if prm.FileFlag != "" {
			byFileFlag[prm.FileFlag] = prm
		}
	}
	known := func(name string) bool {
		_, a := byFlag[name]
		_, b := byFileFlag[name]
		return a || b
	}

	raw := map[string]string{}
	rawFlag := map[string]string{}
	rawList := map[string][]string{}
	switches := map[string]bool{}
	files := map[string]string{}
	var positionals []string

	noMoreFlags := false
	i := 0
	for i < len(args) {
		tok := args[i]
		i++

		if noMoreFlags || !looksLikeFlag(tok, known) {
			positionals = append(positionals, tok)
			continue
		}
		if tok == "--" {
			noMoreFlags = true
			continue
		}
		if tok == "-h" || tok == "--help" {
			fmt.Fprintln(stdout, commandHelp(p.program, path, spec))
			return nil, nil
		}

		name, inline, hasInline := tok, "", false
		if j := strings.Index(tok, "="); j >= 0 && strings.HasPrefix(tok, "--") {
			name, inline, hasInline = tok[:j], tok[j+1:], true
		}

		if prm, ok := byFileFlag[name]; ok {
			value := inline
			if !hasInline {
				if i >= len(args) {
					return nil, usageErrf(usage, fmt.Sprintf("option %s requires a value", name))
				}
				value = args[i]
				i++
			}
			files[prm.Name] = value
			continue
		}

		prm, ok := byFlag[name]
		if !ok {
			msg := fmt.Sprintf("unknown option %s", name)
			if s := suggest(name, flagNames(byFlag, byFileFlag)); s != "" {
				msg += fmt.Sprintf(" (did you mean %s?)", s)
			}
			return nil, usageErrf(usage, msg)
		}

		if prm.Group == model.GroupSwitch {
			if hasInline {
				return nil, usageErrf(usage, fmt.Sprintf("option %s takes no value", name))
			}
			switches[prm.Name] = true
			continue
		}

		if listedParam(spec, prm.Name) {
			var values []string
			if hasInline {
				values = append(values, inline)
			}
			for i < len(args) && !looksLikeFlag(args[i], known) {
				values = append(values, args[i])
				i++
			}
			if len(values) == 0 {
				return nil, usageErrf(usage, fmt.Sprintf("option %s requires at least one value", name))
			}
			rawList[prm.Name] = append(rawList[prm.Name], values...)
			continue
		}

		value := inline
		if !hasInline {
			if i >= len(args) {
				return nil, usageErrf(usage, fmt.Sprintf("option %s requires a value", name))
			}
			value = args[i]
			i++
		}
		raw[prm.Name] = value
		rawFlag[prm.Name] = name
	}

	// A compound parameter takes its value inline or from a file, never both.
	for _, prm := range spec.Params {
		if prm.Group != model.GroupCompound {
			continue
		}
		if _, inline := raw[prm.Name]; inline {
			if _, fromFile := files[prm.Name]; fromFile {
				return nil, usageErrf(usage, fmt.Sprintf(
					"options %s and %s are mutually exclusive", prm.Flag, prm.FileFlag))
			}
		}
	}

	inv := &Invocation{Spec: spec, Values: map[string]any{}, FileValues: files}

	// Positionals bind in declaration order.
	var wantPositional []*model.ParamSpec
	for _, prm := range spec.Params {
		if prm.Group == model.GroupPositional {
			wantPositional = append(wantPositional, prm)
		}
	}
	if len(positionals) > len(wantPositional) {
		extra := positionals[len(wantPositional)]
		return nil, usageErrf(usage, fmt.Sprintf("unexpected argument %q", extra))
	}
	for idx, prm := range wantPositional {
		if idx >= len(positionals) {
			return nil, usageErrf(usage, fmt.Sprintf("missing argument %s", prm.Metavar))
		}
		v, err := convert(usage, prm, prm.Metavar, positionals[idx])
		if err != nil {
			return nil, err
		}
		inv.Values[prm.Name] = v
	}

	for _, prm := range spec.Params {
		if prm.Group == model.GroupPositional {
			continue
		}
		switch {
		case prm.Group == model.GroupSwitch:
			inv.Values[prm.Name] = switches[prm.Name]
		case listedParam(spec, prm.Name):
			if values, ok := rawList[prm.Name]; ok {
				list := make([]any, len(values))
				for j, v := range values {
					list[j] = v
				}
				inv.Values[prm.Name] = list
			} else if prm.HasDefault {
				// The framework-assigned default of a listed IO parameter is
				// the single path "-"; declared defaults are canonical flow
				// lists.
				if prm.Default == "-" {
					inv.Values[prm.Name] = []any{"-"}
				} else {
					v, err := gtype.FromLine(prm.Type, prm.Default)
					if err != nil {
						return nil, fmt.Errorf("corrupt default for %s: %w", prm.Name, err)
					}
					inv.Values[prm.Name] = v
				}
			} else {
				return nil, usageErrf(usage, fmt.Sprintf("missing required option %s", prm.Flag))
			}
		default:
			if value, ok := raw[prm.Name]; ok {
				v, err := convert(usage, prm, rawFlag[prm.Name], value)
				if err != nil {
					return nil, err
				}
				inv.Values[prm.Name] = v
				continue
			}
			if _, fromFile := files[prm.Name]; fromFile {
				continue
			}
			if prm.HasDefault {
				v, err := gtype.FromLine(prm.Type, prm.Default)
				if err != nil {
					return nil, fmt.Errorf("corrupt default for %s: %w", prm.Name, err)
				}
				inv.Values[prm.Name] = v
				continue
			}
			if prm.Required {
				missing := prm.Flag
				if missing == "" {
					missing = prm.FileFlag
				}
				return nil, usageErrf(usage, fmt.Sprintf("missing required option %s", missing))
			}
		}
	}

	return inv, nil
}

// looksLikeFlag decides whether a token is an option or a value. Known flags
// are always options; unknown "--" tokens are options so they can fail
// loudly; a leading "-" followed by a number reads as a negative value.
func looksLikeFlag(tok string, known func(string) bool) bool {
	if tok == "--" {
		return true
	}
	if tok == "-" || !strings.HasPrefix(tok, "-") {
		return false
	}
	if tok == "-h" || tok == "--help" {
		return true
	}
	name := tok
	if j := strings.Index(tok, "="); j >= 0 && strings.HasPrefix(tok, "--") {
		name = tok[:j]
	}
	if known(name) {
		return true
	}
	if strings.HasPrefix(tok, "--") {
		return true
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return true
}

// convert turns one command-line string into the parameter's typed value; a
// conversion failure is a usage error naming the option or metavar.
func convert(usage string, prm *model.ParamSpec, where, literal string) (any, error) {
	v, err := gtype.FromLine(prm.Type, literal)
	if err != nil {
		return nil, usageErrf(usage, fmt.Sprintf("invalid value %q for %s: %v", literal, where, err))
	}
	return v, nil
}

func listedParam(spec *model.FunctionSpec, name string) bool {
	for _, ch := range []*model.ChannelSpec{spec.Input, spec.Output} {
		if ch != nil && ch.Shape == model.ShapeListed && len(ch.Params) > 0 && ch.Params[0] == name {
			return true
		}
	}
	return false
}

func flagNames(byFlag, byFileFlag map[string]*model.ParamSpec) []string {
	names := make([]string, 0, len(byFlag)+len(byFileFlag))
	for name := range byFlag {
		names = append(names, name)
	}
	for name := range byFileFlag {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
