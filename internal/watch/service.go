// Package watch keeps a site configuration resolved while it is edited: it
// re-resolves on every change, serves the last good resolution over HTTP and
// periodically checks the site's external links.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "github.com/biginformatics/docsite/internal/foundation/errors"
	"github.com/biginformatics/docsite/internal/history"
	"github.com/biginformatics/docsite/internal/linkcheck"
	"github.com/biginformatics/docsite/internal/logfields"
	"github.com/biginformatics/docsite/internal/pipeline"
)

// DefaultAddr is the HTTP listen address used when none is configured.
const DefaultAddr = "127.0.0.1:3030"

// Options configure a Service.
type Options struct {
	ConfigPath string
	Addr       string
	Debounce   time.Duration
	// LinkCheckInterval schedules link checks; zero disables them.
	LinkCheckInterval time.Duration

	Runner  *pipeline.Runner
	Checker *linkcheck.Checker
	History history.Store
	// Registry is served on /metrics; nil serves an empty registry.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// LinkStatus summarizes the latest link check.
type LinkStatus struct {
	ID        string    `json:"id"`
	CheckedAt time.Time `json:"checkedAt"`
	Policy    string    `json:"policy"`
	Checked   int       `json:"checked"`
	Broken    int       `json:"broken"`
	Skipped   bool      `json:"skipped"`
	Error     string    `json:"error,omitempty"`
}

// Status is the watch service state reported on /status.
type Status struct {
	ConfigPath   string      `json:"configPath"`
	// Healthy matches /healthz: a good resolution is being served.
	Healthy      bool        `json:"healthy"`
	LastReloadOK bool        `json:"lastReloadOk"`
	ResolutionID string      `json:"resolutionId,omitempty"`
	Snapshot     string      `json:"snapshot,omitempty"`
	ResolvedAt   time.Time   `json:"resolvedAt,omitzero"`
	LastError    string      `json:"lastError,omitempty"`
	LastErrorAt  time.Time   `json:"lastErrorAt,omitzero"`
	Reloads      int         `json:"reloads"`
	LinkCheck    *LinkStatus `json:"linkCheck,omitempty"`
}

// Service owns the watcher, the scheduler and the HTTP server.
type Service struct {
	opts   Options
	logger *slog.Logger

	mu          sync.RWMutex
	current     *pipeline.Result
	resolvedAt  time.Time
	lastErr     error
	lastErrAt   time.Time
	reloads     int
	linkStatus  *LinkStatus
	checkMu     sync.Mutex
	now         func() time.Time
	errAdapter  *ferrors.HTTPErrorAdapter
	boundAddrCh chan string
}

// New validates opts and returns a Service.
func New(opts Options) (*Service, error) {
	if opts.ConfigPath == "" {
		return nil, ferrors.ValidationError("config path is required").Build()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(pipeline.Options{})
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Registry == nil {
		opts.Registry = prom.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		opts:        opts,
		logger:      opts.Logger,
		now:         time.Now,
		errAdapter:  ferrors.NewHTTPErrorAdapter(opts.Logger),
		boundAddrCh: make(chan string, 1),
	}, nil
}

// Reload resolves the configuration file again. A failed reload keeps the last
// good resolution and is reported through Status.
func (s *Service) Reload(ctx context.Context) error {
	res, err := s.opts.Runner.Run(ctx, s.opts.ConfigPath)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloads++
	if err != nil {
		s.lastErr, s.lastErrAt = err, s.now()
		return err
	}
	s.current, s.resolvedAt = res, s.now()
	s.lastErr, s.lastErrAt = nil, time.Time{}
	return nil
}

// Current returns the last good resolution. Without one it returns the error
// of the last attempt, or a runtime error before the first attempt.
func (s *Service) Current() (*pipeline.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current != nil {
		return s.current, nil
	}
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	return nil, ferrors.RuntimeError("configuration has not been resolved yet").Build()
}

// Status reports the service state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		ConfigPath:   s.opts.ConfigPath,
		Healthy:      s.current != nil,
		LastReloadOK: s.current != nil && s.lastErr == nil,
		ResolvedAt:   s.resolvedAt,
		LastErrorAt:  s.lastErrAt,
		Reloads:      s.reloads,
	}
	if s.current != nil {
		st.ResolutionID = s.current.ID
		st.Snapshot = s.current.Resolved.Snapshot()
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if s.linkStatus != nil {
		ls := *s.linkStatus
		st.LinkCheck = &ls
	}
	return st
}

// CheckLinks runs the link checker against the last good resolution. Runs are
// serialized.
func (s *Service) CheckLinks(ctx context.Context) (*linkcheck.Report, error) {
	if s.opts.Checker == nil {
		return nil, ferrors.ValidationError("link checking is not enabled").Build()
	}
	cur, err := s.Current()
	if err != nil {
		return nil, err
	}

	s.checkMu.Lock()
	defer s.checkMu.Unlock()
	report, err := s.opts.Checker.Check(ctx, cur.Resolved)
	if report != nil {
		ls := &LinkStatus{
			ID:        report.ID,
			CheckedAt: report.Started,
			Policy:    string(report.Policy),
			Checked:   len(report.Results),
			Broken:    len(report.Broken()),
			Skipped:   report.Skipped,
		}
		if err != nil {
			ls.Error = err.Error()
		}
		s.mu.Lock()
		s.linkStatus = ls
		s.mu.Unlock()
	}
	return report, err
}

// Addr blocks until the HTTP server is listening and returns its address.
func (s *Service) Addr(ctx context.Context) (string, error) {
	select {
	case addr := <-s.boundAddrCh:
		s.boundAddrCh <- addr
		return addr, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Run resolves the configuration, then watches it, serves HTTP and runs the
// link check schedule until ctx is cancelled. A configuration that fails to
// resolve at startup does not stop the service.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Reload(ctx); err != nil {
		s.logger.Warn("Initial resolution failed; waiting for changes", logfields.Error(err))
	}

	watcher, err := NewConfigWatcher(s.opts.ConfigPath, s.opts.Debounce, s.onChange, s.logger)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to start watcher").Build()
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Start(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to start watcher").Build()
	}

	if s.opts.Checker != nil && s.opts.LinkCheckInterval > 0 {
		scheduler, err := s.schedule(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				s.logger.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to listen").
			WithContext("addr", s.opts.Addr).Build()
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.boundAddrCh <- ln.Addr().String()
	s.logger.Info("Watch server listening", slog.String("addr", ln.Addr().String()))

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return ferrors.WrapError(err, ferrors.CategoryRuntime, "watch server failed").Build()
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown watch server: %w", err)
	}
	s.logger.Info("Watch server stopped")
	return nil
}

func (s *Service) onChange(ctx context.Context) {
	if err := s.Reload(ctx); err != nil {
		s.logger.Warn("Reload rejected; keeping last good configuration", logfields.Error(err))
	}
}

func (s *Service) schedule(ctx context.Context) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create scheduler").Build()
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.opts.LinkCheckInterval),
		gocron.NewTask(func() {
			if _, err := s.CheckLinks(ctx); err != nil {
				s.logger.Warn("Scheduled link check failed", logfields.Error(err))
			}
		}),
		gocron.WithName("link-check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to schedule link checks").Build()
	}
	scheduler.Start()
	s.logger.Info("Scheduled link checks", slog.Duration("interval", s.opts.LinkCheckInterval))
	return scheduler, nil
}
