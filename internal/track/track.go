// Package track provides the timestamp-sorted trackpoint index the matcher
// operates on, plus the GPX source that builds it.
package track

import (
	"sort"
	"time"
)

// DefaultAverageInterval is assumed when a track has too few points, or only
// duplicate timestamps, to derive a sampling interval from.
const DefaultAverageInterval = 300.0

// Point is one recorded GPS fix.
type Point struct {
	Timestamp time.Time
	Latitude  float64
	Longitude float64
	Elevation *float64
}

// Valid reports whether the point has a timestamp and in-range coordinates.
func (p Point) Valid() bool {
	return !p.Timestamp.IsZero() &&
		p.Latitude >= -90.0 && p.Latitude <= 90.0 &&
		p.Longitude >= -180.0 && p.Longitude <= 180.0
}

// Index is an immutable, timestamp-sorted view over trackpoints. An empty
// index is legal and never matches anything.
type Index struct {
	points []Point
}

// NewIndex copies and sorts the given points by timestamp. Equal timestamps
// keep their encounter order.
func NewIndex(points []Point) *Index {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return &Index{points: sorted}
}

// Len returns the number of trackpoints.
func (ix *Index) Len() int {
	return len(ix.points)
}

// Empty reports whether the index has no trackpoints.
func (ix *Index) Empty() bool {
	return len(ix.points) == 0
}

// Points returns the sorted trackpoints. Callers must not mutate the slice.
func (ix *Index) Points() []Point {
	return ix.points
}

// At returns the point at position i.
func (ix *Index) At(i int) Point {
	return ix.points[i]
}

// TimeRange returns the first and last timestamps. ok is false for an empty
// index.
func (ix *Index) TimeRange() (first, last time.Time, ok bool) {
	if len(ix.points) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return ix.points[0].Timestamp, ix.points[len(ix.points)-1].Timestamp, true
}

// AverageInterval returns the mean of the strictly positive consecutive
// timestamp deltas, in seconds. Tracks with fewer than two points, or where
// every delta is zero, fall back to DefaultAverageInterval.
func (ix *Index) AverageInterval() float64 {
	if len(ix.points) < 2 {
		return DefaultAverageInterval
	}

	var total float64
	var count int
	for i := 1; i < len(ix.points); i++ {
		delta := ix.points[i].Timestamp.Sub(ix.points[i-1].Timestamp).Seconds()
		if delta > 0 {
			total += delta
			count++
		}
	}
	if count == 0 {
		return DefaultAverageInterval
	}
	return total / float64(count)
}

// Bracket locates the last point at or before t and the first point strictly
// after t. Either index is -1 when no such point exists.
func (ix *Index) Bracket(t time.Time) (before, after int) {
	// First point with timestamp > t.
	after = sort.Search(len(ix.points), func(i int) bool {
		return ix.points[i].Timestamp.After(t)
	})
	before = after - 1
	if after == len(ix.points) {
		after = -1
	}
	return before, after
}
