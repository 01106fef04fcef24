package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biginformatics/docsite/internal/config"
	ferrors "github.com/biginformatics/docsite/internal/foundation/errors"
	"github.com/biginformatics/docsite/internal/metrics"
	"github.com/biginformatics/docsite/internal/resolve"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []*BrokenLinkEvent
}

func (p *fakePublisher) PublishBrokenLink(_ context.Context, e *BrokenLinkEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
}

func newMemCache() *memCache { return &memCache{entries: map[string]*CacheEntry{}} }

func (c *memCache) GetCachedResult(_ context.Context, url string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (c *memCache) SetCachedResult(_ context.Context, e *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *e
	c.entries[e.URL] = &cp
	return nil
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu      sync.Mutex
	results map[metrics.LinkResultLabel]int
}

func (r *countingRecorder) IncLinkCheckResult(l metrics.LinkResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = map[metrics.LinkResultLabel]int{}
	}
	r.results[l]++
}

// newSite returns a resolved config whose navbar links to paths on srv.
func newSite(srv *httptest.Server, policy config.LinkPolicy, paths ...string) *resolve.ResolvedConfig {
	cfg := &resolve.ResolvedConfig{
		Title:            "GoBig",
		SiteURL:          "https://biginformatics.github.io/gobig/",
		OrganizationName: "BigInformatics",
		ProjectName:      "gobig",
		OnBrokenLinks:    policy,
	}
	for _, p := range paths {
		cfg.Theme.Navbar.Items = append(cfg.Theme.Navbar.Items, resolve.NavItem{
			Type: "default", Label: p, Href: srv.URL + p, URL: srv.URL + p,
		})
	}
	// Internal routes are never requested.
	cfg.Theme.Navbar.Items = append(cfg.Theme.Navbar.Items, resolve.NavItem{Type: "default", Label: "Docs", To: "/docs", URL: "/gobig/docs"})
	return cfg
}

func newServer(t *testing.T) (*httptest.Server, *sync.Map) {
	t.Helper()
	var hits sync.Map
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		n, _ := hits.LoadOrStore(key, new(atomic.Int64))
		n.(*atomic.Int64).Add(1)
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/get-only":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		case "/private":
			w.WriteHeader(http.StatusForbidden)
		case "/limited":
			w.WriteHeader(http.StatusTooManyRequests)
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func hitCount(hits *sync.Map, key string) int {
	n, ok := hits.Load(key)
	if !ok {
		return 0
	}
	return int(n.(*atomic.Int64).Load())
}

func TestCheck_ReachableStatuses(t *testing.T) {
	srv, hits := newServer(t)
	rec := &countingRecorder{}
	c := New(WithRecorder(rec))

	report, err := c.Check(context.Background(), newSite(srv, config.LinkPolicyFail, "/ok", "/get-only", "/private", "/limited"))
	require.NoError(t, err)
	require.Len(t, report.Results, 4)
	assert.Empty(t, report.Broken())
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 4, rec.results[metrics.LinkOK])

	assert.Equal(t, 1, hitCount(hits, "HEAD /get-only"))
	assert.Equal(t, 1, hitCount(hits, "GET /get-only"))
	assert.Equal(t, 0, hitCount(hits, "GET /ok"))
}

func TestCheck_FailPolicyReturnsLinkError(t *testing.T) {
	srv, _ := newServer(t)
	pub := &fakePublisher{}
	rec := &countingRecorder{}
	c := New(WithPublisher(pub), WithRecorder(rec), WithConcurrency(1))

	report, err := c.Check(context.Background(), newSite(srv, config.LinkPolicyFail, "/ok", "/missing", "/boom"))
	require.Error(t, err)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryLink, ce.Category())
	assert.Contains(t, err.Error(), "2 broken link(s)")
	assert.Contains(t, err.Error(), "themeConfig.navbar.items[1]")

	broken := report.Broken()
	require.Len(t, broken, 2)
	assert.Equal(t, http.StatusNotFound, broken[0].Status)
	assert.Equal(t, http.StatusInternalServerError, broken[1].Status)
	assert.Equal(t, "themeConfig.navbar.items[2]", broken[1].Link.Field)

	require.Len(t, pub.events, 2)
	assert.Equal(t, "BigInformatics/gobig", pub.events[0].Project)
	assert.Equal(t, report.ID, pub.events[0].CheckID)
	assert.Equal(t, "fail", pub.events[0].Policy)
	assert.Equal(t, 2, rec.results[metrics.LinkBroken])
	assert.Equal(t, 1, rec.results[metrics.LinkOK])
}

func TestCheck_WarnPolicyDoesNotFail(t *testing.T) {
	srv, _ := newServer(t)
	report, err := New().Check(context.Background(), newSite(srv, config.LinkPolicyWarn, "/missing"))
	require.NoError(t, err)
	assert.Len(t, report.Broken(), 1)
}

func TestCheck_IgnorePolicySkipsRequests(t *testing.T) {
	srv, hits := newServer(t)
	rec := &countingRecorder{}
	report, err := New(WithRecorder(rec)).Check(context.Background(), newSite(srv, config.LinkPolicyIgnore, "/missing", "/ok"))
	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Empty(t, report.Broken())
	assert.Equal(t, 0, hitCount(hits, "HEAD /missing"))
	assert.Equal(t, 2, rec.results[metrics.LinkSkipped])
}

func TestCheck_FooterLinks(t *testing.T) {
	srv, _ := newServer(t)
	cfg := newSite(srv, config.LinkPolicyFail)
	cfg.Theme.Footer.Links = []resolve.FooterLinkGroup{{
		Title: "Community",
		Items: []resolve.FooterLink{
			{Label: "Chat", Href: srv.URL + "/ok", URL: srv.URL + "/ok"},
			{Label: "Forum", Href: srv.URL + "/gone", URL: srv.URL + "/gone"},
		},
	}}

	report, err := New().Check(context.Background(), cfg)
	require.Error(t, err)
	broken := report.Broken()
	require.Len(t, broken, 1)
	assert.Equal(t, "themeConfig.footer.links[0].items[1]", broken[0].Link.Field)
	assert.Equal(t, "Forum", broken[0].Link.Label)
}

func TestCheck_UsesCache(t *testing.T) {
	srv, hits := newServer(t)
	cache := newMemCache()
	c := New(WithCache(cache))
	site := newSite(srv, config.LinkPolicyWarn, "/ok", "/missing")

	_, err := c.Check(context.Background(), site)
	require.NoError(t, err)
	report, err := c.Check(context.Background(), site)
	require.NoError(t, err)

	assert.Equal(t, 1, hitCount(hits, "HEAD /ok"))
	assert.Equal(t, 1, hitCount(hits, "HEAD /missing"))
	for _, res := range report.Results {
		assert.True(t, res.Cached, res.Link.URL)
	}
	assert.Len(t, report.Broken(), 1)
}

func TestCheck_ExpiredFailureIsRechecked(t *testing.T) {
	srv, hits := newServer(t)
	cache := newMemCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(WithCache(cache))
	c.now = func() time.Time { return now }
	site := newSite(srv, config.LinkPolicyWarn, "/missing")

	_, err := c.Check(context.Background(), site)
	require.NoError(t, err)
	now = now.Add(defaultFailureTTL + time.Second)
	_, err = c.Check(context.Background(), site)
	require.NoError(t, err)

	assert.Equal(t, 2, hitCount(hits, "HEAD /missing"))
	entry, err := cache.GetCachedResult(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	assert.Equal(t, 2, entry.FailureCount)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), entry.FirstFailedAt)
}

func TestCheck_DuplicateURLRequestedOnce(t *testing.T) {
	srv, hits := newServer(t)
	cache := newMemCache()
	pub := &fakePublisher{}
	rec := &countingRecorder{}
	c := New(WithCache(cache), WithPublisher(pub), WithRecorder(rec))

	report, err := c.Check(context.Background(), newSite(srv, config.LinkPolicyWarn, "/missing", "/missing"))
	require.NoError(t, err)

	require.Len(t, report.Broken(), 2)
	assert.Equal(t, 2, rec.results[metrics.LinkBroken])
	assert.Equal(t, 1, hitCount(hits, "HEAD /missing"))
	assert.Len(t, pub.events, 1)
	entry, err := cache.GetCachedResult(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.FailureCount)
	for _, r := range report.Results[:2] {
		assert.Equal(t, http.StatusNotFound, r.Status)
		assert.True(t, r.Broken)
	}
}

func TestCheck_ConnectionErrorIsBroken(t *testing.T) {
	srv, _ := newServer(t)
	site := newSite(srv, config.LinkPolicyWarn, "/ok")
	srv.Close()

	report, err := New(WithTimeout(time.Second)).Check(context.Background(), site)
	require.NoError(t, err)
	broken := report.Broken()
	require.Len(t, broken, 1)
	assert.Zero(t, broken[0].Status)
	assert.Contains(t, broken[0].Err, "request failed")
}

func TestCacheKey(t *testing.T) {
	k := cacheKey("https://example.com/a?b=c")
	assert.Regexp(t, `^url\.[0-9a-f]{64}$`, k)
	assert.Equal(t, k, cacheKey("https://example.com/a?b=c"))
	assert.NotEqual(t, k, cacheKey("https://example.com/a"))
}
