package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gactlab/gaction/internal/artifact"
	"github.com/gactlab/gaction/internal/builder"
	"github.com/gactlab/gaction/internal/cmdtree"
	"github.com/gactlab/gaction/internal/ctxlog"
	"github.com/gactlab/gaction/internal/dispatch"
	"github.com/gactlab/gaction/internal/docspec"
	"github.com/gactlab/gaction/internal/parser"
	"github.com/gactlab/gaction/internal/settings"
)

// Run executes one toolkit invocation: either the artifact setup pass
// (--setup [PATH]) or a parsed command dispatch.
func (a *App) Run(ctx context.Context, args []string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if len(args) > 0 && (args[0] == "--setup" || strings.HasPrefix(args[0], "--setup=")) {
		return a.setup(ctx, args)
	}

	tree, err := a.commandTree(ctx)
	if err != nil {
		return err
	}

	p := parser.New(settings.Program, settings.Version, tree)
	inv, err := p.Parse(args, a.outW)
	if err != nil {
		return err
	}
	if inv == nil {
		// Help, version, or command listing; already written.
		return nil
	}

	return dispatch.New(a.registry, a.outW).Run(ctx, inv)
}

// setup compiles the registry and writes the artifact, validating every
// registered action in the process.
func (a *App) setup(ctx context.Context, args []string) error {
	path := a.settings.Artifact
	if cut, ok := strings.CutPrefix(args[0], "--setup="); ok && cut != "" {
		path = cut
	} else if len(args) > 1 {
		path = args[1]
	}

	tree, err := builder.Build(ctx, a.registry, a.defaults())
	if err != nil {
		return err
	}
	if err := artifact.Save(path, settings.Program, settings.Version, tree); err != nil {
		return err
	}
	a.logger.Info("Artifact written.", "path", path, "commands", len(tree.Commands()))
	fmt.Fprintf(a.outW, "wrote %d command(s) to %s\n", len(tree.Commands()), path)
	return nil
}

// commandTree loads the serialized tree when the artifact exists and falls
// back to compiling the registry in process.
func (a *App) commandTree(ctx context.Context) (*cmdtree.Tree, error) {
	path := a.settings.Artifact
	if path != "" && path != "-" {
		if _, err := os.Stat(path); err == nil {
			_, tree, err := artifact.Load(path)
			if err != nil {
				return nil, err
			}
			a.logger.Debug("Command tree loaded from artifact.", "path", path)
			return tree, nil
		}
	}
	a.logger.Debug("No artifact found, compiling registry.", "path", path)
	return builder.Build(ctx, a.registry, a.defaults())
}

func (a *App) defaults() docspec.Defaults {
	return docspec.Defaults{Threads: a.settings.Defaults.Threads}
}
