// Package linkcheck verifies the external links a resolved site declares in its
// navbar and footer and applies the site's onBrokenLinks policy to the result.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/biginformatics/docsite/internal/config"
	ferrors "github.com/biginformatics/docsite/internal/foundation/errors"
	"github.com/biginformatics/docsite/internal/logfields"
	"github.com/biginformatics/docsite/internal/metrics"
	"github.com/biginformatics/docsite/internal/resolve"
	"github.com/biginformatics/docsite/internal/version"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultConcurrency = 4
	defaultCacheTTL    = time.Hour
	// Failures are re-checked sooner so a fixed link clears quickly.
	defaultFailureTTL = 5 * time.Minute
)

// Publisher receives broken link events.
type Publisher interface {
	PublishBrokenLink(ctx context.Context, event *BrokenLinkEvent) error
}

// Cache stores per-URL results between runs.
type Cache interface {
	GetCachedResult(ctx context.Context, url string) (*CacheEntry, error)
	SetCachedResult(ctx context.Context, entry *CacheEntry) error
}

// Result is the outcome for one declared link.
type Result struct {
	Link   resolve.Link
	Status int
	Err    string
	Broken bool
	Cached bool
}

// Report summarizes one check run.
type Report struct {
	ID       string
	Policy   config.LinkPolicy
	Started  time.Time
	Duration time.Duration
	Results  []Result
	// Skipped is set when the policy is ignore and nothing was requested.
	Skipped bool
}

// Broken returns the broken results in declaration order.
func (r *Report) Broken() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Broken {
			out = append(out, res)
		}
	}
	return out
}

// Checker checks links over HTTP. It is safe for concurrent use.
type Checker struct {
	client      *http.Client
	recorder    metrics.Recorder
	publisher   Publisher
	cache       Cache
	concurrency int
	cacheTTL    time.Duration
	failureTTL  time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(k *Checker) { k.client = c } }

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(k *Checker) {
		if d > 0 {
			k.client.Timeout = d
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(k *Checker) { k.recorder = r } }

// WithPublisher publishes an event for every broken link.
func WithPublisher(p Publisher) Option { return func(k *Checker) { k.publisher = p } }

// WithCache consults c before requesting a URL and records results in it.
func WithCache(c Cache) Option { return func(k *Checker) { k.cache = c } }

// WithConcurrency bounds the number of in-flight requests.
func WithConcurrency(n int) Option {
	return func(k *Checker) {
		if n > 0 {
			k.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(k *Checker) { k.logger = l } }

// New returns a Checker with sensible defaults.
func New(opts ...Option) *Checker {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	c := &Checker{
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after %d redirects", len(via))
				}
				return nil
			},
		},
		recorder:    metrics.NoopRecorder{},
		concurrency: defaultConcurrency,
		cacheTTL:    defaultCacheTTL,
		failureTTL:  defaultFailureTTL,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check verifies the external links of cfg according to its onBrokenLinks
// policy. Under the fail policy a report with broken links is returned along
// with a link-category error; under warn each broken link is logged; under
// ignore nothing is requested.
func (c *Checker) Check(ctx context.Context, cfg *resolve.ResolvedConfig) (*Report, error) {
	links := cfg.ExternalLinks()
	report := &Report{
		ID:      uuid.NewString(),
		Policy:  cfg.OnBrokenLinks,
		Started: c.now(),
		Results: make([]Result, len(links)),
	}
	for i, l := range links {
		report.Results[i].Link = l
	}

	if cfg.OnBrokenLinks == config.LinkPolicyIgnore {
		report.Skipped = true
		for range links {
			c.recorder.IncLinkCheckResult(metrics.LinkSkipped)
		}
		c.logger.Debug("Link check skipped", logfields.Policy(string(cfg.OnBrokenLinks)))
		return report, nil
	}

	// Each URL is requested once; every declaration of it shares the outcome.
	byURL := make(map[string][]int)
	var urls []string
	for i, r := range report.Results {
		if _, ok := byURL[r.Link.URL]; !ok {
			urls = append(urls, r.Link.URL)
		}
		byURL[r.Link.URL] = append(byURL[r.Link.URL], i)
	}

	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup
	for _, u := range urls {
		select {
		case <-ctx.Done():
			wg.Wait()
			return report, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(idx []int) {
			defer wg.Done()
			defer func() { <-sem }()
			first := &report.Results[idx[0]]
			c.checkOne(ctx, first)
			for _, i := range idx[1:] {
				r := &report.Results[i]
				r.Status, r.Err, r.Broken, r.Cached = first.Status, first.Err, first.Broken, first.Cached
			}
		}(byURL[u])
	}
	wg.Wait()
	report.Duration = c.now().Sub(report.Started)
	c.recorder.ObserveLinkCheckDuration(report.Duration)

	broken := report.Broken()
	published := make(map[string]bool)
	for _, res := range broken {
		c.recorder.IncLinkCheckResult(metrics.LinkBroken)
		if !published[res.Link.URL] {
			published[res.Link.URL] = true
			c.publish(ctx, cfg, report, res)
		}
		c.logger.Warn("Broken link",
			logfields.Field(res.Link.Field),
			logfields.URL(res.Link.URL),
			slog.Int("status", res.Status),
			slog.String("reason", res.Err))
	}
	for range len(report.Results) - len(broken) {
		c.recorder.IncLinkCheckResult(metrics.LinkOK)
	}
	c.logger.Info("Link check completed",
		slog.Int("checked", len(report.Results)),
		slog.Int("broken", len(broken)),
		logfields.Policy(string(cfg.OnBrokenLinks)),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))

	if len(broken) > 0 && cfg.OnBrokenLinks == config.LinkPolicyFail {
		return report, ferrors.LinkError(fmt.Sprintf("%d broken link(s); first: %s (%s)",
			len(broken), broken[0].Link.URL, broken[0].Link.Field)).
			WithContext("broken", len(broken)).
			WithContext("check_id", report.ID).
			Build()
	}
	return report, nil
}

func (c *Checker) checkOne(ctx context.Context, res *Result) {
	url := res.Link.URL
	if c.cache != nil {
		if entry, err := c.cache.GetCachedResult(ctx, url); err == nil && c.fresh(entry) {
			res.Status, res.Err, res.Broken, res.Cached = entry.Status, entry.Error, !entry.IsValid, true
			return
		}
	}

	status, err := c.request(ctx, url)
	res.Status = status
	if err != nil {
		res.Err = err.Error()
		res.Broken = true
	}
	if c.cache != nil {
		c.store(ctx, res)
	}
}

func (c *Checker) fresh(e *CacheEntry) bool {
	if e == nil {
		return false
	}
	ttl := c.cacheTTL
	if !e.IsValid {
		ttl = c.failureTTL
	}
	return c.now().Sub(e.LastChecked) < ttl
}

func (c *Checker) store(ctx context.Context, res *Result) {
	entry := &CacheEntry{
		URL:         res.Link.URL,
		Status:      res.Status,
		IsValid:     !res.Broken,
		Error:       res.Err,
		LastChecked: c.now(),
	}
	if res.Broken {
		entry.FailureCount = 1
		entry.FirstFailedAt = entry.LastChecked
		if prev, err := c.cache.GetCachedResult(ctx, res.Link.URL); err == nil && prev != nil && !prev.IsValid {
			entry.FailureCount = prev.FailureCount + 1
			entry.FirstFailedAt = prev.FirstFailedAt
		}
	}
	if err := c.cache.SetCachedResult(ctx, entry); err != nil {
		c.logger.Debug("Link cache write failed", logfields.URL(res.Link.URL), logfields.Error(err))
	}
}

// request issues a HEAD and falls back to GET for servers that reject HEAD.
func (c *Checker) request(ctx context.Context, url string) (int, error) {
	status, err := c.do(ctx, http.MethodHead, url)
	if err == nil && (status == http.StatusNotFound || status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = c.do(ctx, http.MethodGet, url)
	}
	if err != nil {
		return status, err
	}
	if isReachable(status) {
		return status, nil
	}
	return status, fmt.Errorf("HTTP %d %s", status, http.StatusText(status))
}

func (c *Checker) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "docsite-linkcheck/"+version.Version)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	return resp.StatusCode, nil
}

// isReachable treats auth failures and rate limiting as proof the URL exists.
func isReachable(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return status < 400
}

func (c *Checker) publish(ctx context.Context, cfg *resolve.ResolvedConfig, report *Report, res Result) {
	if c.publisher == nil {
		return
	}
	event := &BrokenLinkEvent{
		URL:       res.Link.URL,
		Status:    res.Status,
		Error:     res.Err,
		Field:     res.Link.Field,
		Label:     res.Link.Label,
		Project:   cfg.OrganizationName + "/" + cfg.ProjectName,
		SiteURL:   cfg.SiteURL,
		Snapshot:  cfg.Snapshot(),
		Policy:    string(report.Policy),
		CheckID:   report.ID,
		Timestamp: c.now(),
	}
	if c.cache != nil {
		if entry, err := c.cache.GetCachedResult(ctx, res.Link.URL); err == nil && entry != nil {
			event.FailureCount = entry.FailureCount
			event.FirstFailedAt = entry.FirstFailedAt
		}
	}
	if err := c.publisher.PublishBrokenLink(ctx, event); err != nil {
		c.logger.Warn("Failed to publish broken link event", logfields.URL(res.Link.URL), logfields.Error(err))
	}
}
