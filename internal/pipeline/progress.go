package pipeline

import "sync"

// Reporter accumulates completion counts across workers and emits
// coarse-grained progress. Counts only ever grow during a run, so observers
// see a monotonic completed count even though photos finish out of order.
type Reporter struct {
	mu        sync.Mutex
	total     int
	completed int
	success   int
	skipped   int
	errors    int
}

// NewReporter creates a Reporter for a run over total photos.
func NewReporter(total int) *Reporter {
	return &Reporter{total: total}
}

// PhotoDone records one terminal photo. When emit is non-nil it is invoked
// with the updated counts while the lock is still held, which serializes
// delivery across workers and keeps the completed count strictly increasing
// from the observer's point of view.
func (r *Reporter) PhotoDone(success, skipped bool, emit func(completed, total int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	switch {
	case success:
		r.success++
	case skipped:
		r.skipped++
	default:
		r.errors++
	}
	if emit != nil {
		emit(r.completed, r.total)
	}
}

// Counts returns the current aggregate counters.
func (r *Reporter) Counts() (completed, success, skipped, errors, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed, r.success, r.skipped, r.errors, r.total
}
