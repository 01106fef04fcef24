// Package metrics provides observability hooks for configuration resolution
// and link checking.
//
// Components receive a Recorder and call it unconditionally; NoopRecorder is
// the default so no nil checks are needed at call sites:
//
//	r := resolve.New(resolve.Options{Recorder: metrics.NoopRecorder{}})
//
// Watch mode swaps in a PrometheusRecorder registered on its own registry and
// exposes it through HTTPHandler on /metrics.
package metrics
