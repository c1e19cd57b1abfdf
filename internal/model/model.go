// Package model holds the domain types shared between the matching engine,
// the processing pipeline and the storage backends.
package model

import "time"

// PhotoState tracks a photo through the processing lifecycle.
type PhotoState int

const (
	StatePending PhotoState = iota
	StateProcessing
	StateSuccess
	StateSkipped
	StateError
)

// String returns the lowercase name used in logs and run reports.
func (s PhotoState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateProcessing:
		return "processing"
	case StateSuccess:
		return "success"
	case StateSkipped:
		return "skipped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is one of the three end states.
func (s PhotoState) Terminal() bool {
	return s == StateSuccess || s == StateSkipped || s == StateError
}

// PhotoRecord is the per-photo unit of work. The pipeline is the sole
// mutator of State, ErrorMessage and the Matched* fields; observers only
// receive copies.
type PhotoRecord struct {
	Path     string
	FileName string

	CaptureTime    *time.Time
	HasExistingGPS bool

	State        PhotoState
	ErrorMessage string

	// MatchedLat and MatchedLon are both set or both unset. Elevation may
	// be unset even when a match exists.
	MatchedLat       *float64
	MatchedLon       *float64
	MatchedElevation *float64
}

// Reset returns the record to Pending and clears everything a previous run
// produced, so the same queue can be reprocessed.
func (r *PhotoRecord) Reset() {
	r.State = StatePending
	r.ErrorMessage = ""
	r.CaptureTime = nil
	r.MatchedLat = nil
	r.MatchedLon = nil
	r.MatchedElevation = nil
}

// SetMatch records interpolated coordinates on the record.
func (r *PhotoRecord) SetMatch(lat, lon float64, elevation *float64) {
	r.MatchedLat = &lat
	r.MatchedLon = &lon
	r.MatchedElevation = elevation
}

// ProcessingSettings is the immutable per-run configuration surface.
type ProcessingSettings struct {
	// MaxTimeDiffSeconds is the matching threshold; <= 0 selects the
	// adaptive threshold derived from track sampling density.
	MaxTimeDiffSeconds float64 `json:"maxTimeDiffSeconds"`

	// TimeOffsetHours converts camera-local capture times to UTC
	// (the offset is subtracted from the raw EXIF time).
	TimeOffsetHours float64 `json:"timeOffsetHours"`

	OverwriteExistingGPS bool `json:"overwriteExistingGps"`
	ForceInterpolate     bool `json:"forceInterpolate"`
	DryRun               bool `json:"dryRun"`

	// WorkerCount bounds the worker pool; <= 0 selects one worker per
	// available processing unit.
	WorkerCount int `json:"workerCount"`
}

// TimeOffsetSeconds returns the configured camera offset in seconds.
func (s ProcessingSettings) TimeOffsetSeconds() float64 {
	return s.TimeOffsetHours * 3600.0
}

// RunSummary aggregates the outcome of one processing run.
type RunSummary struct {
	Total     int
	Success   int
	Skipped   int
	Errors    int
	DryRun    bool
	StartedAt time.Time
	Duration  time.Duration
}
