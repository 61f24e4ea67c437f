package gtype

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func init() {
	register(&Descriptor{
		Tag:      TagMapping,
		Compound: true,
		Ductile:  true,
		Fileable: true,
		fromLine: mappingFromLine,
		toLine:   mappingToLine,
		read:     mappingRead,
		write:    mappingWrite,
	})
	register(&Descriptor{
		Tag:      TagList,
		Compound: true,
		Ductile:  true,
		Fileable: true,
		fromLine: listFromLine,
		toLine:   listToLine,
		read:     listRead,
		write:    listWrite,
	})
}

func mappingFromLine(s string) (any, error) {
	body := strings.TrimSpace(s)
	if !(strings.HasPrefix(body, "{") && strings.HasSuffix(body, "}")) {
		body = "{" + body + "}"
	}
	var out any
	if err := yaml.Unmarshal([]byte(body), &out); err != nil {
		return nil, conversionErr(TagMapping, s, err)
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, conversionErr(TagMapping, s, errors.New("not a mapping"))
	}
	return normalize(m), nil
}

func mappingToLine(v any) (string, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", conversionErr(TagMapping, fmt.Sprintf("%v", v), errors.New("value is not a mapping"))
	}
	return flowMapping(m)
}

func mappingRead(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, conversionErr(TagMapping, "", err)
	}
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, conversionErr(TagMapping, string(data), err)
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, conversionErr(TagMapping, string(data), errors.New("file does not contain a mapping"))
	}
	return normalize(m), nil
}

func mappingWrite(v any, w io.Writer) error {
	m, ok := v.(map[string]any)
	if !ok {
		return conversionErr(TagMapping, fmt.Sprintf("%v", v), errors.New("value is not a mapping"))
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return conversionErr(TagMapping, "", err)
	}
	_, err = w.Write(data)
	return err
}

func listFromLine(s string) (any, error) {
	body := strings.TrimSpace(s)
	if !(strings.HasPrefix(body, "[") && strings.HasSuffix(body, "]")) {
		body = "[" + body + "]"
	}
	var out any
	if err := yaml.Unmarshal([]byte(body), &out); err != nil {
		return nil, conversionErr(TagList, s, err)
	}
	l, ok := out.([]any)
	if !ok {
		return nil, conversionErr(TagList, s, errors.New("not a list"))
	}
	return normalize(l), nil
}

func listToLine(v any) (string, error) {
	l, ok := v.([]any)
	if !ok {
		return "", conversionErr(TagList, fmt.Sprintf("%v", v), errors.New("value is not a list"))
	}
	return flowList(l)
}

// listRead reads the file form of a list: one scalar element per line, with
// trailing blank lines ignored.
func listRead(r io.Reader) (any, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, conversionErr(TagList, "", err)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	elems := make([]any, 0, len(lines))
	for _, line := range lines {
		elem, err := scalarElement(line)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	return elems, nil
}

func listWrite(v any, w io.Writer) error {
	l, ok := v.([]any)
	if !ok {
		return conversionErr(TagList, fmt.Sprintf("%v", v), errors.New("value is not a list"))
	}
	for _, elem := range l {
		d, err := ResolveValue(elem)
		if err != nil {
			return err
		}
		if d.Compound {
			return conversionErr(TagList, fmt.Sprintf("%v", elem), errors.New("list file elements must be scalars"))
		}
		line, err := d.toLine(elem)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// scalarElement resolves one line of a list file through the YAML scalar
// grammar, rejecting collection results.
func scalarElement(line string) (any, error) {
	out, err := yamlScalar(line)
	if err != nil {
		return nil, conversionErr(TagList, line, err)
	}
	switch n := out.(type) {
	case nil, bool, string, float64, time.Time:
		return out, nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		return n, nil
	}
	return nil, conversionErr(TagList, line, fmt.Errorf("element of type %T is not a scalar", out))
}

// normalize rewrites YAML-decoded collections into their canonical native
// forms: ints widen to int64, nested collections recurse.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case map[string]any:
		for k, elem := range n {
			n[k] = normalize(elem)
		}
		return n
	case []any:
		for i, elem := range n {
			n[i] = normalize(elem)
		}
		return n
	}
	return v
}

// flowLine renders a value as a single-line YAML flow form. Strings are
// always double-quoted so that the result parses back unambiguously; the
// caller is responsible for having validated ductility.
func flowLine(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	switch n := v.(type) {
	case string:
		return strconv.Quote(n), nil
	case map[string]any:
		return flowMapping(n)
	case []any:
		return flowList(n)
	case *Table:
		return tableToLine(n)
	}
	d, err := ResolveValue(v)
	if err != nil {
		return "", err
	}
	return d.toLine(v)
}

func flowMapping(m map[string]any) (string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		elem, err := flowLine(m[k])
		if err != nil {
			return "", err
		}
		parts = append(parts, strconv.Quote(k)+": "+elem)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func flowList(l []any) (string, error) {
	parts := make([]string, 0, len(l))
	for _, elem := range l {
		s, err := flowLine(elem)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}
