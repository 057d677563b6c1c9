package http

import "github.com/smilinTux/forgeprint-sub000/internal/infrastructure/monitoring"

// Recorder receives handler-level events and reports running totals.
// monitoring.Metrics satisfies it.
type Recorder interface {
	RecordSearch(results int)
	IncDriversGenerated()
	Snapshot() monitoring.Snapshot
}

// HandlerMetrics wraps a Recorder; a nil Recorder records nothing.
type HandlerMetrics struct {
	recorder Recorder
}

// NewHandlerMetrics creates a metrics wrapper
func NewHandlerMetrics(recorder Recorder) *HandlerMetrics {
	return &HandlerMetrics{recorder: recorder}
}

// TrackSearch records a completed search.
func (hm *HandlerMetrics) TrackSearch(results int) {
	if hm == nil || hm.recorder == nil {
		return
	}
	hm.recorder.RecordSearch(results)
}

// TrackDriver records a generated driver.
func (hm *HandlerMetrics) TrackDriver() {
	if hm == nil || hm.recorder == nil {
		return
	}
	hm.recorder.IncDriversGenerated()
}

// Snapshot returns the recorder's running totals, or false without one.
func (hm *HandlerMetrics) Snapshot() (monitoring.Snapshot, bool) {
	if hm == nil || hm.recorder == nil {
		return monitoring.Snapshot{}, false
	}
	return hm.recorder.Snapshot(), true
}
