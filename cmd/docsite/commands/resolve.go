package commands

import (
	"context"
	"log/slog"

	"github.com/google/renameio/v2"

	ferrors "github.com/biginformatics/docsite/internal/foundation/errors"
	"github.com/biginformatics/docsite/internal/logfields"
	"github.com/biginformatics/docsite/internal/pipeline"
	"github.com/biginformatics/docsite/internal/resolve"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	PathCheckFlags
	Format string `short:"f" help:"Output format" enum:"json,yaml" default:"json"`
	Out    string `short:"o" help:"Write to this file atomically instead of stdout" type:"path"`
}

func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	res, err := runPipeline(context.Background(), root, r.PathCheckFlags)
	if err != nil {
		return err
	}
	data, err := encode(res.Resolved, r.Format)
	if err != nil {
		return err
	}
	if r.Out == "" {
		_, _ = g.out().Write(data)
		return nil
	}
	if err := renameio.WriteFile(r.Out, data, 0o644); err != nil {
		return ferrors.FileSystemError("failed to write resolved configuration").
			WithCause(err).WithContext("path", r.Out).Build()
	}
	slog.Info("Wrote resolved configuration", logfields.Path(r.Out), logfields.Snapshot(res.Resolved.Snapshot()))
	return nil
}

func runPipeline(ctx context.Context, root *CLI, pc PathCheckFlags) (*pipeline.Result, error) {
	opts, closeFn, err := root.runnerOptions(pc, nil)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return pipeline.NewRunner(opts).Run(ctx, root.Config)
}

func encode(cfg *resolve.ResolvedConfig, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = cfg.YAML()
	default:
		data, err = cfg.JSON()
	}
	if err != nil {
		return nil, ferrors.InternalError("failed to encode resolved configuration").WithCause(err).Build()
	}
	return data, nil
}
