// Package artifact persists the built command specifications as a YAML
// document so the run-time parser can load them without re-validating the
// registry. The artifact is the sole hand-off between build time and run
// time.
package artifact

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gactlab/gaction/internal/cmdtree"
	"github.com/gactlab/gaction/internal/model"
	"github.com/gactlab/gaction/internal/textio"
)

// File is the serialized artifact document. Commands are stored flat, in
// walk order; the tree is rebuilt on load.
type File struct {
	Program  string                `yaml:"program"`
	Version  string                `yaml:"version"`
	Commands []*model.FunctionSpec `yaml:"commands"`
}

// Save writes the artifact for a built command tree. The path follows the
// textio conventions: "-" writes to stdout and a ".gz" suffix compresses.
func Save(path, program, version string, tree *cmdtree.Tree) error {
	doc := &File{Program: program, Version: version}
	err := tree.Walk(func(_ []string, spec *model.FunctionSpec) error {
		doc.Commands = append(doc.Commands, spec)
		return nil
	})
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling artifact: %w", err)
	}

	w, err := textio.NewWriter(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		w.Close()
		return fmt.Errorf("writing artifact %s: %w", w.Name(), err)
	}
	return w.Close()
}

// Load reads an artifact and rebuilds the command tree, restoring every
// structural guarantee Insert enforces.
func Load(path string) (*File, *cmdtree.Tree, error) {
	r, err := textio.NewReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	raw, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading artifact %s: %w", r.Name(), err)
	}

	doc := &File{}
	if err := yaml.Unmarshal(raw, doc); err != nil {
		return nil, nil, fmt.Errorf("parsing artifact %s: %w", r.Name(), err)
	}

	tree := cmdtree.New()
	for _, spec := range doc.Commands {
		if err := tree.Insert(spec); err != nil {
			return nil, nil, fmt.Errorf("corrupt artifact %s: %w", r.Name(), err)
		}
	}
	return doc, tree, nil
}

// Diff compares the command names of two artifacts, returning commands only
// in a and only in b. Useful when regenerating an artifact in place.
func Diff(a, b *File) (onlyA, onlyB []string) {
	names := func(f *File) map[string]bool {
		m := map[string]bool{}
		for _, spec := range f.Commands {
			m[spec.Action] = true
		}
		return m
	}
	an, bn := names(a), names(b)
	for name := range an {
		if !bn[name] {
			onlyA = append(onlyA, name)
		}
	}
	for name := range bn {
		if !an[name] {
			onlyB = append(onlyB, name)
		}
	}
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	return onlyA, onlyB
}
