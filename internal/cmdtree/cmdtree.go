// Package cmdtree holds the prefix tree of command tokens that the parser
// compiler walks. Each node is a command token; terminal nodes carry the
// function specification reached by that token path.
package cmdtree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gactlab/gaction/internal/model"
)

// Node is one command token in the tree. A node with a Spec is terminal;
// the builder guarantees terminal nodes have no children.
type Node struct {
	Token    string              `yaml:"token,omitempty"`
	Spec     *model.FunctionSpec `yaml:"spec,omitempty"`
	Children map[string]*Node    `yaml:"children,omitempty"`
}

// Tree is the root of the command hierarchy.
type Tree struct {
	Root *Node
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{Root: &Node{Children: map[string]*Node{}}}
}

// Insert adds a function specification under its command path. It fails if
// the path is already taken, prefixes another terminal path, or is prefixed
// by one: a token sequence either dispatches or descends, never both.
func (t *Tree) Insert(spec *model.FunctionSpec) error {
	node := t.Root
	for i, token := range spec.Path {
		if node.Spec != nil {
			return fmt.Errorf("command %q is shadowed by command %q",
				strings.Join(spec.Path, " "), strings.Join(spec.Path[:i], " "))
		}
		if node.Children == nil {
			node.Children = map[string]*Node{}
		}
		child, ok := node.Children[token]
		if !ok {
			child = &Node{Token: token}
			node.Children[token] = child
		}
		node = child
	}
	if node.Spec != nil {
		return fmt.Errorf("duplicate command %q", strings.Join(spec.Path, " "))
	}
	if len(node.Children) > 0 {
		return fmt.Errorf("command %q shadows longer commands", strings.Join(spec.Path, " "))
	}
	node.Spec = spec
	return nil
}

// Lookup descends the tree one token at a time and returns the deepest node
// reached along with the number of tokens consumed.
func (t *Tree) Lookup(tokens []string) (*Node, int) {
	node := t.Root
	consumed := 0
	for _, token := range tokens {
		child, ok := node.Children[token]
		if !ok {
			break
		}
		node = child
		consumed++
	}
	return node, consumed
}

// SubcommandNames returns a node's child tokens in sorted order.
func (n *Node) SubcommandNames() []string {
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk visits every terminal specification under the node in depth-first
// token order using an explicit stack, calling fn with the token path of
// each relative to the node. Every node is visited at most once, so
// accidental structural sharing cannot repeat or loop.
func (n *Node) Walk(fn func(path []string, spec *model.FunctionSpec) error) error {
	type frame struct {
		node *Node
		path []string
	}
	visited := map[*Node]bool{}
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.node] {
			continue
		}
		visited[f.node] = true
		if f.node.Spec != nil {
			if err := fn(f.path, f.node.Spec); err != nil {
				return err
			}
			continue
		}
		// Push in reverse so children pop alphabetically.
		names := f.node.SubcommandNames()
		for i := len(names) - 1; i >= 0; i-- {
			child := f.node.Children[names[i]]
			path := append(append([]string{}, f.path...), names[i])
			stack = append(stack, frame{node: child, path: path})
		}
	}
	return nil
}

// Walk visits every terminal specification in the tree with its full token
// path.
func (t *Tree) Walk(fn func(path []string, spec *model.FunctionSpec) error) error {
	return t.Root.Walk(fn)
}

// Commands returns every terminal command path reachable from the node, one
// space-joined line per command, in walk order.
func (n *Node) Commands() []string {
	var out []string
	_ = n.Walk(func(path []string, _ *model.FunctionSpec) error {
		out = append(out, strings.Join(path, " "))
		return nil
	})
	return out
}

// Commands returns every terminal command path in the tree.
func (t *Tree) Commands() []string {
	return t.Root.Commands()
}
