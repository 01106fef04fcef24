package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	resolveDuration   prom.Histogram
	resolveOutcome    *prom.CounterVec
	resolveErrors     *prom.CounterVec
	linkResults       *prom.CounterVec
	linkCheckDuration prom.Histogram
	lastSuccess       prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg. A nil
// registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		resolveDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Duration of site configuration resolutions",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		resolveOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_outcomes_total",
			Help:      "Resolutions by outcome",
		}, []string{"outcome"}),
		resolveErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_errors_total",
			Help:      "Rejected resolutions by error kind",
		}, []string{"kind"}),
		linkResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "link_check_results_total",
			Help:      "External link checks by result",
		}, []string{"result"}),
		linkCheckDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "link_check_duration_seconds",
			Help:      "Duration of a full external link check run",
			Buckets:   prom.DefBuckets,
		}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_successful_resolve_timestamp_seconds",
			Help:      "Unix time of the last successful resolution",
		}),
	}
	reg.MustRegister(pr.resolveDuration, pr.resolveOutcome, pr.resolveErrors,
		pr.linkResults, pr.linkCheckDuration, pr.lastSuccess)
	return pr
}

func (p *PrometheusRecorder) ObserveResolveDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.resolveDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncResolveOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.resolveOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncResolveError(kind string) {
	if p == nil {
		return
	}
	p.resolveErrors.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncLinkCheckResult(result LinkResultLabel) {
	if p == nil {
		return
	}
	p.linkResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveLinkCheckDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.linkCheckDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetLastSuccess(t time.Time) {
	if p == nil {
		return
	}
	p.lastSuccess.Set(float64(t.Unix()))
}

// HTTPHandler serves the metrics of reg in the Prometheus exposition format.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
