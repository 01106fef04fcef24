package metrics

import "time"

// OutcomeLabel enumerates resolution outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeRejected OutcomeLabel = "rejected"
)

// LinkResultLabel enumerates link check results.
type LinkResultLabel string

const (
	LinkOK      LinkResultLabel = "ok"
	LinkBroken  LinkResultLabel = "broken"
	LinkSkipped LinkResultLabel = "skipped"
)

// Recorder defines observability hooks for resolutions and link checks.
// Implementations must tolerate concurrent use.
type Recorder interface {
	ObserveResolveDuration(d time.Duration)
	IncResolveOutcome(outcome OutcomeLabel)
	// IncResolveError counts rejections by error kind (missing_field, unknown_preset, ...).
	IncResolveError(kind string)
	IncLinkCheckResult(result LinkResultLabel)
	ObserveLinkCheckDuration(d time.Duration)
	// SetLastSuccess records the time of the last successful resolution.
	SetLastSuccess(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveResolveDuration(time.Duration)   {}
func (NoopRecorder) IncResolveOutcome(OutcomeLabel)         {}
func (NoopRecorder) IncResolveError(string)                 {}
func (NoopRecorder) IncLinkCheckResult(LinkResultLabel)     {}
func (NoopRecorder) ObserveLinkCheckDuration(time.Duration) {}
func (NoopRecorder) SetLastSuccess(time.Time)               {}
