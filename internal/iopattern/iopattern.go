// Package iopattern matches parameter names against the fixed file/stream
// naming conventions (infile, outfiles, indir, infile1, infileU, ...) and
// assigns the command-line flags and metavars the conventions reserve.
package iopattern

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gactlab/gaction/internal/model"
)

// Assignment is the flag and metavar reserved for one matched parameter.
type Assignment struct {
	Flag    string
	Metavar string
}

// Match records the resolved pattern of one IO channel.
type Match struct {
	Shape model.IOShape
	// Params holds the matched parameter names; indexed shapes are ordered
	// by index with the unindexed slot last.
	Params      []string
	Assignments map[string]Assignment
}

var indexedPattern = regexp.MustCompile(`^(in|out)file(\d+|U)$`)

// Classify resolves the input and output channels for a parameter name set.
// hasDefault reports which parameters carry defaults; the indexed contiguity
// rule is checked both over all indexed parameters and over the required
// subset. Either returned channel may be nil.
func Classify(names []string, hasDefault map[string]bool) (input, output *Match, err error) {
	input, err = classifyChannel("in", names, hasDefault)
	if err != nil {
		return nil, nil, err
	}
	output, err = classifyChannel("out", names, hasDefault)
	if err != nil {
		return nil, nil, err
	}
	return input, output, nil
}

// Returned builds the synthetic output channel carrying a declared return
// value. It has no source parameter; the dispatcher marshals the return
// value to the destination it names.
func Returned() *Match {
	return &Match{
		Shape:  model.ShapeReturned,
		Params: []string{"outfile"},
		Assignments: map[string]Assignment{
			"outfile": {Flag: "-o", Metavar: "FILE"},
		},
	}
}

func classifyChannel(prefix string, names []string, hasDefault map[string]bool) (*Match, error) {
	channel := "input"
	if prefix == "out" {
		channel = "output"
	}

	byShape := map[model.IOShape][]string{}
	for _, name := range names {
		switch {
		case name == prefix+"file":
			byShape[model.ShapeSingle] = append(byShape[model.ShapeSingle], name)
		case name == prefix+"files":
			byShape[model.ShapeListed] = append(byShape[model.ShapeListed], name)
		case name == prefix+"dir":
			byShape[model.ShapeDirectory] = append(byShape[model.ShapeDirectory], name)
		case name == prefix+"prefix":
			byShape[model.ShapePrefix] = append(byShape[model.ShapePrefix], name)
		default:
			if m := indexedPattern.FindStringSubmatch(name); m != nil && m[1] == prefix {
				byShape[model.ShapeIndexed] = append(byShape[model.ShapeIndexed], name)
			}
		}
	}
	if len(byShape) == 0 {
		return nil, nil
	}
	if len(byShape) > 1 {
		shapes := make([]string, 0, len(byShape))
		for shape := range byShape {
			shapes = append(shapes, string(shape))
		}
		sort.Strings(shapes)
		return nil, fmt.Errorf("conflicting %s patterns: %s", channel, strings.Join(shapes, ", "))
	}

	var shape model.IOShape
	var params []string
	for s, p := range byShape {
		shape, params = s, p
	}

	match := &Match{Shape: shape, Params: params, Assignments: map[string]Assignment{}}
	switch shape {
	case model.ShapeSingle:
		match.Assignments[params[0]] = Assignment{Flag: channelFlag(prefix), Metavar: "FILE"}
	case model.ShapeListed:
		match.Assignments[params[0]] = Assignment{Flag: channelFlag(prefix), Metavar: "FILES"}
	case model.ShapeDirectory:
		match.Assignments[params[0]] = Assignment{Flag: channelFlag(prefix), Metavar: "DIR"}
	case model.ShapePrefix:
		match.Assignments[params[0]] = Assignment{Flag: channelFlag(prefix), Metavar: "PREFIX"}
	case model.ShapeIndexed:
		ordered, err := orderIndexed(channel, prefix, params, nil)
		if err != nil {
			return nil, err
		}
		required := make([]string, 0, len(params))
		for _, name := range params {
			if !hasDefault[name] {
				required = append(required, name)
			}
		}
		if len(required) > 0 {
			if _, err := orderIndexed(channel, prefix, required, params); err != nil {
				return nil, err
			}
		}
		match.Params = ordered
		for _, name := range ordered {
			slot := strings.TrimPrefix(name, prefix+"file")
			flag := "-" + slot
			if prefix == "out" {
				flag = "--" + slot
			}
			match.Assignments[name] = Assignment{Flag: flag, Metavar: "FILE" + slot}
		}
	}
	return match, nil
}

func channelFlag(prefix string) string {
	if prefix == "out" {
		return "-o"
	}
	return "-i"
}

// orderIndexed validates that the numeric slots of an indexed parameter set
// are contiguous starting at 1, with an unindexed slot only permitted
// alongside numbered slots, and returns the parameters in slot order. When
// checking the required subset, all names the subset was drawn from are
// passed so diagnostics can say which rule failed.
func orderIndexed(channel, prefix string, names []string, fullSet []string) (ordered []string, err error) {
	subset := ""
	if fullSet != nil {
		subset = "required "
	}

	var indices []int
	byIndex := map[int]string{}
	unindexed := ""
	for _, name := range names {
		slot := strings.TrimPrefix(name, prefix+"file")
		if slot == "U" {
			unindexed = name
			continue
		}
		n, err := strconv.Atoi(slot)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %sindex in %q", channel, subset, name)
		}
		indices = append(indices, n)
		byIndex[n] = name
	}
	if unindexed != "" && len(indices) == 0 {
		return nil, fmt.Errorf("%s %sparameter %q has an unindexed slot with no numbered slots", channel, subset, unindexed)
	}
	sort.Ints(indices)
	for i, n := range indices {
		if n != i+1 {
			return nil, fmt.Errorf("sparse %s %sindices: expected %sfile%d, found %sfile%d", channel, subset, prefix, i+1, prefix, n)
		}
	}
	for _, n := range indices {
		ordered = append(ordered, byIndex[n])
	}
	if unindexed != "" {
		ordered = append(ordered, unindexed)
	}
	return ordered, nil
}
