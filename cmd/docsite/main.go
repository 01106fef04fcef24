package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/biginformatics/docsite/cmd/docsite/commands"
	ferrors "github.com/biginformatics/docsite/internal/foundation/errors"
	"github.com/biginformatics/docsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docsite"),
		kong.Description("Resolve, validate and watch documentation site configurations."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)
	err := parser.Run(&commands.Global{Logger: slog.Default()}, cli)
	os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Handle(err))
}
