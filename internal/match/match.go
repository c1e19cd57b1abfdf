// Package match finds or interpolates GPS coordinates for a capture
// timestamp against a trackpoint index under a time-difference policy.
package match

import (
	"time"

	"github.com/lyp/geotag/internal/track"
)

// Adaptive threshold bounds, in seconds. When no explicit threshold is
// configured the effective value is the average sampling interval times
// three, clamped to [MinAdaptiveThreshold, MaxAdaptiveThreshold].
const (
	MinAdaptiveThreshold = 60.0
	MaxAdaptiveThreshold = 600.0
)

// EffectiveMaxTimeDiff resolves the matching threshold for a run. A
// configured value > 0 wins; otherwise the threshold adapts to the track's
// sampling density.
func EffectiveMaxTimeDiff(configured float64, ix *track.Index) float64 {
	if configured > 0 {
		return configured
	}
	threshold := ix.AverageInterval() * 3.0
	if threshold < MinAdaptiveThreshold {
		threshold = MinAdaptiveThreshold
	}
	if threshold > MaxAdaptiveThreshold {
		threshold = MaxAdaptiveThreshold
	}
	return threshold
}

// Result is a matched coordinate pair with optional elevation.
type Result struct {
	Latitude  float64
	Longitude float64
	Elevation *float64
}

// Matcher resolves photo timestamps against a trackpoint index.
// Find is deterministic: the same timestamp and configuration always yield
// the same result.
type Matcher struct {
	index            *track.Index
	maxTimeDiff      float64 // seconds
	forceInterpolate bool
}

// New creates a Matcher. maxTimeDiff is the effective threshold in seconds;
// callers resolve adaptive thresholds with EffectiveMaxTimeDiff first.
func New(ix *track.Index, maxTimeDiff float64, forceInterpolate bool) *Matcher {
	return &Matcher{
		index:            ix,
		maxTimeDiff:      maxTimeDiff,
		forceInterpolate: forceInterpolate,
	}
}

// Find returns interpolated coordinates for the photo timestamp, or ok=false
// when the track has no acceptable match.
func (m *Matcher) Find(photoTime time.Time) (Result, bool) {
	if m.index.Empty() {
		return Result{}, false
	}

	beforeIdx, afterIdx := m.index.Bracket(photoTime)

	// Photo predates the track: clamp to the first point.
	if beforeIdx < 0 {
		first := m.index.At(0)
		diff := first.Timestamp.Sub(photoTime).Seconds()
		if m.forceInterpolate || diff <= m.maxTimeDiff {
			return resultFrom(first), true
		}
		return Result{}, false
	}

	// Photo postdates the track: clamp to the last point.
	if afterIdx < 0 {
		last := m.index.At(m.index.Len() - 1)
		diff := photoTime.Sub(last.Timestamp).Seconds()
		if m.forceInterpolate || diff <= m.maxTimeDiff {
			return resultFrom(last), true
		}
		return Result{}, false
	}

	before := m.index.At(beforeIdx)
	after := m.index.At(afterIdx)

	diffBefore := photoTime.Sub(before.Timestamp).Seconds()
	diffAfter := after.Timestamp.Sub(photoTime).Seconds()

	if !m.forceInterpolate && min(diffBefore, diffAfter) > m.maxTimeDiff {
		return Result{}, false
	}

	total := after.Timestamp.Sub(before.Timestamp).Seconds()
	if total <= 0 {
		// Duplicate timestamps: return the earlier point verbatim.
		return resultFrom(before), true
	}

	ratio := diffBefore / total
	res := Result{
		Latitude:  before.Latitude + (after.Latitude-before.Latitude)*ratio,
		Longitude: before.Longitude + (after.Longitude-before.Longitude)*ratio,
	}
	// Elevation is interpolated only when both endpoints carry it.
	if before.Elevation != nil && after.Elevation != nil {
		elev := *before.Elevation + (*after.Elevation-*before.Elevation)*ratio
		res.Elevation = &elev
	}
	return res, true
}

// WithinTrackRange reports whether t lies inside the track's time span,
// inclusive. It only differentiates skip reasons and never gates matching.
func (m *Matcher) WithinTrackRange(t time.Time) bool {
	first, last, ok := m.index.TimeRange()
	if !ok {
		return false
	}
	return !t.Before(first) && !t.After(last)
}

func resultFrom(p track.Point) Result {
	res := Result{Latitude: p.Latitude, Longitude: p.Longitude}
	if p.Elevation != nil {
		elev := *p.Elevation
		res.Elevation = &elev
	}
	return res
}
