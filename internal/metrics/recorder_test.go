package metrics

import (
	"sync"
	"testing"
	"time"
)

// testRecorder counts calls; used to check that components drive their recorder.
type testRecorder struct {
	mu       sync.Mutex
	outcomes map[OutcomeLabel]int
	errors   map[string]int
	links    map[LinkResultLabel]int
	resolves int
}

var _ Recorder = (*testRecorder)(nil)
var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func newTestRecorder() *testRecorder {
	return &testRecorder{outcomes: map[OutcomeLabel]int{}, errors: map[string]int{}, links: map[LinkResultLabel]int{}}
}

func (t *testRecorder) ObserveResolveDuration(time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resolves++
}

func (t *testRecorder) IncResolveOutcome(o OutcomeLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outcomes[o]++
}

func (t *testRecorder) IncResolveError(kind string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors[kind]++
}

func (t *testRecorder) IncLinkCheckResult(r LinkResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.links[r]++
}

func (t *testRecorder) ObserveLinkCheckDuration(time.Duration) {}
func (t *testRecorder) SetLastSuccess(time.Time)               {}

func exercise(r Recorder) {
	r.ObserveResolveDuration(time.Millisecond)
	r.IncResolveOutcome(OutcomeRejected)
	r.IncResolveError("unknown_preset")
	r.IncLinkCheckResult(LinkOK)
	r.ObserveLinkCheckDuration(time.Millisecond)
	r.SetLastSuccess(time.Now())
}

func TestRecorderImplementations(t *testing.T) {
	tr := newTestRecorder()
	exercise(tr)
	exercise(NoopRecorder{})
	exercise(NewPrometheusRecorder(nil))

	if tr.resolves != 1 || tr.outcomes[OutcomeRejected] != 1 || tr.errors["unknown_preset"] != 1 || tr.links[LinkOK] != 1 {
		t.Fatalf("unexpected counts: %+v", tr)
	}
}
