// Package builder compiles a populated action registry into the command
// tree. This is the build-time half of the toolkit: everything here runs
// once, before the artifact is written, and performs all validation so the
// run-time parser and dispatcher never have to.
package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/gactlab/gaction/internal/cmdtree"
	"github.com/gactlab/gaction/internal/ctxlog"
	"github.com/gactlab/gaction/internal/docspec"
	"github.com/gactlab/gaction/internal/registry"
)

// Build compiles every registered action into a function specification and
// inserts it into a fresh command tree. Defects are accumulated across all
// actions so a single build pass reports everything that is wrong.
func Build(ctx context.Context, reg *registry.Registry, defaults docspec.Defaults) (*cmdtree.Tree, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting command tree build.", "action_count", len(reg.Names()))

	tree := cmdtree.New()
	var errs []string

	for _, name := range reg.Names() {
		spec, err := docspec.Build(name, reg.Action(name), defaults)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if err := tree.Insert(spec); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		logger.Debug("Compiled action.", "action", name, "command", strings.Join(spec.Path, " "))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("command tree build failed with %d error(s):\n  - %s",
			len(errs), strings.Join(errs, "\n  - "))
	}
	logger.Debug("Command tree build finished.")
	return tree, nil
}
