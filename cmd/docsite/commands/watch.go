package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/biginformatics/docsite/internal/linkcheck"
	"github.com/biginformatics/docsite/internal/metrics"
	"github.com/biginformatics/docsite/internal/pipeline"
	"github.com/biginformatics/docsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	PathCheckFlags
	LinkCheckFlags
	Addr              string        `help:"HTTP listen address" default:"127.0.0.1:3030"`
	Debounce          time.Duration `help:"Quiet period before a change is reloaded" default:"500ms"`
	LinkCheckInterval time.Duration `help:"Interval between link checks (0 disables)" default:"1h"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewPrometheusRecorder(reg)

	opts, closeHistory, err := root.runnerOptions(w.PathCheckFlags, rec)
	if err != nil {
		return err
	}
	defer closeHistory()

	var checker *linkcheck.Checker
	if w.LinkCheckInterval > 0 {
		c, closeChecker, err := w.newChecker(ctx, linkcheck.WithRecorder(rec))
		if err != nil {
			return err
		}
		defer closeChecker()
		checker = c
	}

	svc, err := watch.New(watch.Options{
		ConfigPath:        root.Config,
		Addr:              w.Addr,
		Debounce:          w.Debounce,
		LinkCheckInterval: w.LinkCheckInterval,
		Runner:            pipeline.NewRunner(opts),
		Checker:           checker,
		History:           opts.History,
		Registry:          reg,
		Logger:            slog.Default(),
	})
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}
