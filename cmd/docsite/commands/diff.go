package commands

import (
	"context"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/biginformatics/docsite/internal/pipeline"
	"github.com/biginformatics/docsite/internal/resolve"
)

// DiffCmd implements the 'diff' command.
type DiffCmd struct {
	PathCheckFlags
	A string `arg:"" help:"First site configuration" type:"path"`
	B string `arg:"" help:"Second site configuration" type:"path"`
}

func (d *DiffCmd) Run(g *Global, root *CLI) error {
	opts, closeFn, err := root.runnerOptions(d.PathCheckFlags, nil)
	if err != nil {
		return err
	}
	defer closeFn()
	runner := pipeline.NewRunner(opts)

	a, err := runner.Run(context.Background(), d.A)
	if err != nil {
		return err
	}
	b, err := runner.Run(context.Background(), d.B)
	if err != nil {
		return err
	}

	diff := Diff(a.Resolved, b.Resolved)
	if diff == "" {
		printf(g, "No differences\n")
		return nil
	}
	printf(g, "--- %s\n+++ %s\n%s", d.A, d.B, diff)
	return nil
}

// Diff reports the differences between two resolved configurations, or "".
func Diff(a, b *resolve.ResolvedConfig) string {
	return cmp.Diff(a, b, cmpopts.IgnoreUnexported(resolve.Asset{}), cmpopts.EquateEmpty())
}
