package docspec

import (
	"regexp"
	"strings"

	"github.com/gactlab/gaction/internal/gtype"
)

// Doc is the parsed form of an action docstring.
type Doc struct {
	Summary     string
	Description string
	Params      []*DocParam
	Return      *DocReturn
	// Sections holds the remaining supported sections (Note, Notes,
	// References) in the order they appeared.
	Sections []DocSection
}

// DocParam is one entry of an Args section.
type DocParam struct {
	Name        string
	TypeName    string
	Description string
	// Default is the literal from a "[default: X]" annotation embedded in
	// the description, if present.
	Default *string
}

// DocReturn is the parsed Returns section.
type DocReturn struct {
	TypeName    string
	Description string
}

// DocSection is a supported docstring section other than Args and Returns.
type DocSection struct {
	Header string
	Text   string
}

// The docstring line grammar.
var (
	headerPattern  = regexp.MustCompile(`^(\w+):\s*$`)
	paramPattern   = regexp.MustCompile(`^([*]{0,2}\w+)\s*(?:\((\w+)\))?:\s+(.+)$`)
	returnPattern  = regexp.MustCompile(`^(\w+):\s+(.+)$`)
	defaultPattern = regexp.MustCompile(`(?i)[[(]default:\s+(.+?)\s*[])]`)
)

// knownHeaders is the closed vocabulary of Google-style docstring headers.
// Headers outside it fail the build outright; headers inside it but not in
// supportedHeaders fail as unsupported.
var knownHeaders = map[string]bool{
	"Args": true, "Arguments": true, "Attributes": true, "Example": true,
	"Examples": true, "Methods": true, "Note": true, "Notes": true,
	"Parameters": true, "Raises": true, "References": true, "Return": true,
	"Returns": true, "Warning": true, "Warnings": true, "Warns": true,
	"Yield": true, "Yields": true,
}

var supportedHeaders = map[string]bool{
	"Args": true, "Note": true, "Notes": true, "References": true,
	"Returns": true,
}

// headerAliases folds equivalent headers to their canonical form.
var headerAliases = map[string]string{
	"Arguments":  "Args",
	"Parameters": "Args",
	"Return":     "Returns",
}

// ParseDoc parses an action docstring: a summary line followed by a blank
// line, an optional free-form description, and sections introduced by
// header lines from the supported vocabulary.
func ParseDoc(action, doc string) (*Doc, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, specErrf(action, "action is not documented")
	}

	lines := strings.Split(doc, "\n")

	// The summary is the first non-blank line; at most one leading blank
	// line is tolerated, as raw string literals usually open with one.
	i := 0
	if strings.TrimSpace(lines[i]) == "" {
		i++
		if i >= len(lines) || strings.TrimSpace(lines[i]) == "" {
			return nil, specErrf(action, "docstring summary is a blank line")
		}
	}
	summary := strings.TrimSpace(lines[i])
	i++
	if i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		return nil, specErrf(action, "docstring summary is not followed by a blank line")
	}

	body := dedent(lines[i:])

	parsed := &Doc{Summary: summary}
	type rawSection struct {
		header string
		lines  []string
	}
	sections := []*rawSection{{header: "Description"}}
	seen := map[string]bool{}

	for _, line := range body {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			h := m[1]
			if alias, ok := headerAliases[h]; ok {
				h = alias
			}
			if !knownHeaders[h] {
				return nil, specErrf(action, "unknown docstring header %q", m[1])
			}
			if !supportedHeaders[h] {
				return nil, specErrf(action, "unsupported docstring header %q", m[1])
			}
			if seen[h] {
				return nil, specErrf(action, "duplicate docstring header %q", m[1])
			}
			seen[h] = true
			sections = append(sections, &rawSection{header: h})
			continue
		}
		cur := sections[len(sections)-1]
		cur.lines = append(cur.lines, line)
	}

	for _, sec := range sections {
		text := strings.Join(dedent(sec.lines), "\n")
		switch sec.header {
		case "Description":
			parsed.Description = strings.TrimSpace(text)
		case "Args":
			params, err := parseArgs(action, sec.lines)
			if err != nil {
				return nil, err
			}
			parsed.Params = params
		case "Returns":
			ret, err := parseReturns(action, sec.lines)
			if err != nil {
				return nil, err
			}
			parsed.Return = ret
		default:
			parsed.Sections = append(parsed.Sections, DocSection{
				Header: sec.header,
				Text:   strings.TrimSpace(text),
			})
		}
	}
	return parsed, nil
}

// parseArgs splits an Args section into per-parameter blocks at lines
// matching the parameter grammar; non-matching lines extend the previous
// parameter's description.
func parseArgs(action string, lines []string) ([]*DocParam, error) {
	var params []*DocParam
	seen := map[string]bool{}
	var cur *DocParam

	for _, raw := range dedent(lines) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := paramPattern.FindStringSubmatch(line)
		switch {
		case m != nil:
			name, typeName, desc := m[1], m[2], m[3]
			if strings.HasPrefix(name, "*") {
				return nil, specErrf(action, "docstring must not specify unenumerated arguments")
			}
			if typeName == "" {
				return nil, specErrf(action, "docstring must specify a type for parameter %q", name)
			}
			if typeName == string(gtype.TagNone) {
				return nil, specErrf(action, "docstring specifies type none for parameter %q", name)
			}
			if !gtype.Known(typeName) {
				return nil, specErrf(action, "docstring specifies unsupported type %q for parameter %q", typeName, name)
			}
			if seen[name] {
				return nil, specErrf(action, "docstring contains duplicate parameter %q", name)
			}
			seen[name] = true
			cur = &DocParam{Name: name, TypeName: typeName, Description: desc}
			params = append(params, cur)
		case cur != nil:
			cur.Description += " " + line
		default:
			return nil, specErrf(action, "malformed Args section: %q", line)
		}
	}

	for _, p := range params {
		defaults := defaultPattern.FindAllStringSubmatch(p.Description, -1)
		switch {
		case len(defaults) == 1:
			literal := defaults[0][1]
			p.Default = &literal
		case len(defaults) > 1:
			return nil, specErrf(action, "docstring has multiple defaults for parameter %q", p.Name)
		}
	}
	return params, nil
}

// parseReturns parses the single typed block of a Returns section. The first
// non-blank line must name a supported type; further lines extend the
// description.
func parseReturns(action string, lines []string) (*DocReturn, error) {
	var ret *DocReturn
	for _, raw := range dedent(lines) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if ret == nil {
			m := returnPattern.FindStringSubmatch(line)
			if m == nil {
				return nil, specErrf(action, "docstring Returns section must open with 'type: description'")
			}
			typeName := m[1]
			if typeName == string(gtype.TagNone) {
				return nil, specErrf(action, "docstring specifies type none for return value")
			}
			if !gtype.Known(typeName) {
				return nil, specErrf(action, "docstring specifies unsupported type %q for return value", typeName)
			}
			ret = &DocReturn{TypeName: typeName, Description: m[2]}
			continue
		}
		ret.Description += " " + line
	}
	if ret == nil {
		return nil, specErrf(action, "docstring Returns section is empty")
	}
	return ret, nil
}

// dedent strips the indentation common to all non-blank lines.
func dedent(lines []string) []string {
	margin := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if margin < 0 || indent < margin {
			margin = indent
		}
	}
	if margin <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= margin && strings.TrimSpace(line) != "" {
			out[i] = line[margin:]
		} else {
			out[i] = strings.TrimLeft(line, " \t")
		}
	}
	return out
}
