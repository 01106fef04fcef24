package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/biginformatics/docsite/internal/metrics"
	"github.com/biginformatics/docsite/internal/pipeline"
)

// EnvLogLevel overrides the log level (debug, info, warn, error).
const EnvLogLevel = "DOCSITE_LOG_LEVEL"

// Global carries state shared by all commands.
type Global struct {
	Logger *slog.Logger
	// Out receives command output; nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Site configuration file" default:"site.yaml" type:"path" env:"DOCSITE_CONFIG"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `help:"Log output format" enum:"text,json" default:"text"`
	HistoryDB string           `name:"history-db" help:"SQLite database recording every resolution" env:"DOCSITE_HISTORY_DB"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Resolve  ResolveCmd  `cmd:"" help:"Resolve the site configuration and print or write it"`
	Validate ValidateCmd `cmd:"" help:"Resolve the site configuration and report whether it is valid"`
	Init     InitCmd     `cmd:"" help:"Write a starter site configuration"`
	Diff     DiffCmd     `cmd:"" help:"Show how two site configurations resolve differently"`
	Links    LinksCmd    `cmd:"" help:"Check external navbar and footer links"`
	Watch    WatchCmd    `cmd:"" help:"Re-resolve on change and serve the result over HTTP"`
	History  HistoryCmd  `cmd:"" help:"List recorded resolutions"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(c.newLogger(os.Stderr))
	return nil
}

func (c *CLI) newLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.logLevel()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *CLI) logLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" && level.UnmarshalText([]byte(v)) == nil {
		return level
	}
	return slog.LevelInfo
}

// PathCheckFlags toggles file existence checks.
type PathCheckFlags struct {
	NoPathCheck bool `help:"Skip checking that referenced files exist"`
}

// runnerOptions builds pipeline options for the command. A history store is
// opened when --history-db is set; the returned close func is never nil.
func (c *CLI) runnerOptions(pc PathCheckFlags, rec metrics.Recorder) (pipeline.Options, func(), error) {
	opts := pipeline.Options{
		NoPathCheck:  pc.NoPathCheck,
		EnvOverrides: true,
		Recorder:     rec,
	}
	if c.HistoryDB == "" {
		return opts, func() {}, nil
	}
	store, err := openHistory(c.HistoryDB, true)
	if err != nil {
		return opts, nil, err
	}
	opts.History = store
	return opts, func() { _ = store.Close() }, nil
}

func printf(g *Global, format string, args ...any) {
	_, _ = fmt.Fprintf(g.out(), format, args...)
}
