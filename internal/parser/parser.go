// Package parser turns an argument vector into a dispatch-ready invocation
// by walking the command tree and interpreting each terminal command's
// parameter specifications. All conversion from command-line strings to
// typed values happens here, through the type registry; the dispatcher never
// sees raw strings.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/gactlab/gaction/internal/cmdtree"
	"github.com/gactlab/gaction/internal/model"
)

// Parser resolves argument vectors against a loaded command tree.
type Parser struct {
	program string
	version string
	tree    *cmdtree.Tree
}

// New returns a parser over the given command tree.
func New(program, version string, tree *cmdtree.Tree) *Parser {
	return &Parser{program: program, version: version, tree: tree}
}

// Invocation is a fully parsed command invocation ready for dispatch.
type Invocation struct {
	Spec *model.FunctionSpec
	// Values holds the converted value of every parameter that has one,
	// keyed by parameter name. Switches are always present; compound
	// parameters given by file flag are absent here.
	Values map[string]any
	// FileValues maps compound parameter names to the paths given via their
	// file flags; the dispatcher loads and converts them.
	FileValues map[string]string
}

// Parse resolves an argument vector. Informational requests (help, version,
// commands) are written to stdout and reported as a nil Invocation with a
// nil error; a malformed vector yields a UsageError.
func (p *Parser) Parse(args []string, stdout io.Writer) (*Invocation, error) {
	helpMode := false
	if len(args) > 0 {
		switch args[0] {
		case "-v", "--version", "version":
			fmt.Fprintf(stdout, "%s %s\n", p.program, p.version)
			return nil, nil
		case "-c", "--commands", "commands":
			p.printCommands(stdout, nil, p.tree.Root)
			return nil, nil
		case "help":
			helpMode = true
			args = args[1:]
		}
	}

	node, consumed := p.tree.Lookup(args)
	path, rest := args[:consumed], args[consumed:]

	if node.Spec == nil {
		usage := groupUsage(p.program, path, node)
		if helpMode {
			fmt.Fprint(stdout, usage)
			return nil, nil
		}
		if len(rest) == 0 {
			return nil, usageErrf(usage, "missing command")
		}
		if rest[0] == "-h" || rest[0] == "--help" {
			fmt.Fprint(stdout, usage)
			return nil, nil
		}
		if rest[0] == "-c" || rest[0] == "--commands" {
			p.printCommands(stdout, path, node)
			return nil, nil
		}
		msg := fmt.Sprintf("unknown command %q", rest[0])
		if s := suggest(rest[0], node.SubcommandNames()); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		return nil, usageErrf(usage, msg)
	}

	if helpMode {
		fmt.Fprintln(stdout, commandHelp(p.program, path, node.Spec))
		return nil, nil
	}
	return p.parseCommand(node.Spec, path, rest, stdout)
}

// printCommands lists the terminal commands reachable from the node, each
// line prefixed with the command path already consumed.
func (p *Parser) printCommands(stdout io.Writer, path []string, node *cmdtree.Node) {
	prefix := strings.Join(path, " ")
	for _, cmd := range node.Commands() {
		if prefix != "" {
			cmd = prefix + " " + cmd
		}
		fmt.Fprintln(stdout, cmd)
	}
}
