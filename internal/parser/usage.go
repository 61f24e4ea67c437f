package parser

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/mitchellh/go-wordwrap"

	"github.com/gactlab/gaction/internal/cmdtree"
	"github.com/gactlab/gaction/internal/model"
)

// helpWidth is the wrap column for help and usage text.
const helpWidth = 78

// synopsis renders the one-line usage synopsis of a terminal command:
// options first, positionals last, optional pieces bracketed.
func synopsis(program string, path []string, spec *model.FunctionSpec) string {
	parts := []string{"usage:", program}
	parts = append(parts, path...)
	parts = append(parts, "[-h]")

	var positionals []string
	for _, p := range spec.Params {
		switch p.Group {
		case model.GroupPositional:
			positionals = append(positionals, p.Metavar)
		case model.GroupSwitch:
			parts = append(parts, fmt.Sprintf("[%s]", p.Flag))
		case model.GroupCompound:
			piece := compoundPiece(p)
			if !p.Required {
				piece = "[" + piece + "]"
			}
			parts = append(parts, piece)
		default:
			piece := fmt.Sprintf("%s %s", p.Flag, p.Metavar)
			if !p.Required {
				piece = "[" + piece + "]"
			}
			parts = append(parts, piece)
		}
	}
	parts = append(parts, positionals...)
	return wordwrap.WrapString(strings.Join(parts, " "), helpWidth)
}

func compoundPiece(p *model.ParamSpec) string {
	if p.Flag == "" {
		return fmt.Sprintf("%s PATH", p.FileFlag)
	}
	return fmt.Sprintf("%s %s | %s PATH", p.Flag, p.Metavar, p.FileFlag)
}

// commandHelp renders the full help text of a terminal command.
func commandHelp(program string, path []string, spec *model.FunctionSpec) string {
	var b strings.Builder
	b.WriteString(synopsis(program, path, spec))
	b.WriteString("\n\n")
	b.WriteString(wordwrap.WrapString(spec.Summary, helpWidth))
	b.WriteString("\n")
	if spec.Description != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.WrapString(spec.Description, helpWidth))
		b.WriteString("\n")
	}

	var positionals, options []string
	for _, p := range spec.Params {
		if p.Group == model.GroupPositional {
			positionals = append(positionals, optionEntry(p.Metavar, p.Description))
			continue
		}
		head := p.Flag
		if p.Group != model.GroupSwitch && p.Flag != "" {
			head = fmt.Sprintf("%s %s", p.Flag, p.Metavar)
		}
		options = append(options, optionEntry(head, p.Description))
		if p.FileFlag != "" {
			options = append(options, optionEntry(
				fmt.Sprintf("%s PATH", p.FileFlag),
				fmt.Sprintf("Load %s from a file instead.", p.Name)))
		}
	}
	options = append(options, optionEntry("-h, --help", "Show this help and exit."))

	if len(positionals) > 0 {
		b.WriteString("\narguments:\n")
		b.WriteString(strings.Join(positionals, ""))
	}
	b.WriteString("\noptions:\n")
	b.WriteString(strings.Join(options, ""))
	return b.String()
}

// optionEntry renders one two-column help entry with the description wrapped
// and indented under the option head.
func optionEntry(head, description string) string {
	const indent = "        "
	entry := "  " + head + "\n"
	if description == "" {
		return entry
	}
	wrapped := wordwrap.WrapString(description, helpWidth-uint(len(indent)))
	for _, line := range strings.Split(wrapped, "\n") {
		entry += indent + line + "\n"
	}
	return entry
}

// groupUsage renders the usage text of a non-terminal command node, listing
// its subcommands with the summaries of terminal children.
func groupUsage(program string, path []string, node *cmdtree.Node) string {
	var b strings.Builder
	head := append([]string{"usage:", program}, path...)
	b.WriteString(strings.Join(head, " "))
	b.WriteString(" COMMAND ...\n\ncommands:\n")
	for _, name := range node.SubcommandNames() {
		child := node.Children[name]
		if child.Spec != nil {
			b.WriteString(optionEntry(name, child.Spec.Summary))
		} else {
			b.WriteString(optionEntry(name+" ...", ""))
		}
	}
	return b.String()
}

// suggest returns the candidate closest to the given token, or "" when none
// is close enough to plausibly be a typo.
func suggest(token string, candidates []string) string {
	best := ""
	bestDist := 3
	for _, c := range candidates {
		if d := levenshtein.Distance(token, c, nil); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
