package commands

import "context"

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	PathCheckFlags
}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	res, err := runPipeline(context.Background(), root, v.PathCheckFlags)
	if err != nil {
		return err
	}
	out := res.Resolved
	printf(g, "%s: valid (%s, %d preset(s), %d plugin(s), %d asset(s), snapshot %s)\n",
		root.Config, out.SiteURL, len(out.Presets), len(out.Plugins), len(out.Assets), out.Snapshot()[:12])
	return nil
}
