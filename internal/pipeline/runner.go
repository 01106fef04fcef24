// Package pipeline runs the load, override, resolve and record sequence shared
// by the CLI commands and watch mode.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/biginformatics/docsite/internal/config"
	ferrors "github.com/biginformatics/docsite/internal/foundation/errors"
	"github.com/biginformatics/docsite/internal/history"
	"github.com/biginformatics/docsite/internal/logfields"
	"github.com/biginformatics/docsite/internal/metrics"
	"github.com/biginformatics/docsite/internal/resolve"
)

// ErrorKindLoad marks history entries for configurations that failed to load.
const ErrorKindLoad = "load"

// Options configure a Runner.
type Options struct {
	// NoPathCheck skips file existence checks.
	NoPathCheck bool
	// EnvOverrides applies DOCSITE_* environment overrides after loading.
	EnvOverrides  bool
	ThemeDefaults *config.ThemeConfig
	Recorder      metrics.Recorder
	// History records every run when set.
	History history.Store
	Logger  *slog.Logger
}

// Result is a successful run.
type Result struct {
	ID          string
	ConfigPath  string
	ProjectRoot string
	Raw         *config.SiteConfig
	Resolved    *resolve.ResolvedConfig
	// Overrides lists the fields replaced from the environment.
	Overrides []string
	Duration  time.Duration
}

// Runner loads and resolves configuration files.
type Runner struct {
	opts     Options
	resolver func(root string) *resolve.Resolver
	now      func() time.Time
}

// NewRunner returns a Runner with defaults filled in.
func NewRunner(opts Options) *Runner {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := &Runner{opts: opts, now: time.Now}
	r.resolver = func(root string) *resolve.Resolver {
		ro := resolve.Options{
			ProjectRoot:   root,
			Year:          r.now().Year(),
			ThemeDefaults: opts.ThemeDefaults,
			Recorder:      opts.Recorder,
		}
		if !opts.NoPathCheck {
			ro.FS = os.DirFS(root)
		}
		return resolve.New(ro)
	}
	return r
}

// Run loads configPath and resolves it against the directory containing it.
// Load failures are classified as not_found or config errors; resolver errors
// are wrapped in a config-category ClassifiedError that keeps the typed
// resolver error in its chain.
func (r *Runner) Run(ctx context.Context, configPath string) (*Result, error) {
	start := r.now()
	id := uuid.NewString()
	log := r.opts.Logger.With(logfields.ResolutionID(id), logfields.Config(configPath))

	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid configuration path").Build()
	}

	raw, err := config.Load(abs)
	if err != nil {
		r.record(ctx, log, &history.Entry{ID: id, ConfigPath: abs, Outcome: history.OutcomeRejected, ErrorKind: ErrorKindLoad, Error: err.Error()})
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, ferrors.NotFoundError("configuration file not found").
				WithContext("path", abs).Build()
		}
		return nil, ferrors.ConfigError("failed to load configuration").
			WithCause(err).WithContext("path", abs).Build()
	}

	res := &Result{ID: id, ConfigPath: abs, ProjectRoot: filepath.Dir(abs), Raw: raw}
	if r.opts.EnvOverrides {
		res.Overrides = config.ApplyEnvOverrides(raw)
		for _, f := range res.Overrides {
			log.Info("Applied environment override", logfields.Field(f))
		}
	}

	out, err := r.resolver(res.ProjectRoot).Resolve(raw)
	res.Duration = r.now().Sub(start)
	if err != nil {
		kind := resolve.ErrorKind(err)
		r.record(ctx, log, &history.Entry{ID: id, ConfigPath: abs, Outcome: history.OutcomeRejected, ErrorKind: kind, Error: err.Error(), Duration: res.Duration})
		log.Warn("Configuration rejected", logfields.Outcome(string(history.OutcomeRejected)), logfields.Error(err))
		return nil, ferrors.ConfigError("configuration rejected").
			WithCause(err).
			WithContextMap(ferrors.ErrorContext{"kind": kind, "path": abs}).
			Build()
	}
	res.Resolved = out

	snapshot := out.Snapshot()
	r.record(ctx, log, &history.Entry{ID: id, ConfigPath: abs, Snapshot: snapshot, Outcome: history.OutcomeSuccess, Duration: res.Duration})
	log.Info("Configuration resolved",
		logfields.Snapshot(snapshot),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return res, nil
}

func (r *Runner) record(ctx context.Context, log *slog.Logger, e *history.Entry) {
	if r.opts.History == nil {
		return
	}
	if err := r.opts.History.Record(ctx, e); err != nil {
		log.Warn("Failed to record resolution history", logfields.Error(err))
	}
}
