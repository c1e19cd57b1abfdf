// Package metadata reads capture timestamps from photo EXIF and writes GPS
// fields back, either natively or through the external exiftool binary.
package metadata

import (
	"fmt"
	"time"
)

// Reader exposes the EXIF queries the pipeline needs.
type Reader interface {
	// CaptureTimestamp returns the photo's capture time as a UTC instant,
	// with offsetSeconds subtracted to convert camera-local time to UTC.
	// ok is false when no usable timestamp exists.
	CaptureTimestamp(path string, offsetSeconds float64) (t time.Time, ok bool)

	// HasGPS reports whether the photo already carries GPS coordinates.
	HasGPS(path string) bool
}

// Writer persists GPS coordinates into a photo's metadata container.
type Writer interface {
	Write(path string, lat, lon float64, elevation *float64) error
}

// ToolWriter is a Writer backed by an external binary that may be absent
// from the host.
type ToolWriter interface {
	Writer
	Available() bool
}

// WriteErrorKind classifies write failures.
type WriteErrorKind int

const (
	// ExternalToolUnavailable means the external binary is not installed.
	ExternalToolUnavailable WriteErrorKind = iota
	// ExternalToolTimeout means the external binary did not finish in time.
	ExternalToolTimeout
	// LibraryWriteFailure covers every other failed write.
	LibraryWriteFailure
)

// WriteError describes a failed GPS write. Failures are recovered at the
// per-photo level and never abort a batch.
type WriteError struct {
	Kind   WriteErrorKind
	Path   string
	Detail string
}

func (e *WriteError) Error() string {
	switch e.Kind {
	case ExternalToolUnavailable:
		return "exiftool not found - install it to write to this format"
	case ExternalToolTimeout:
		return fmt.Sprintf("exiftool timed out for %s", e.Path)
	default:
		return fmt.Sprintf("failed to write GPS: %s", e.Detail)
	}
}
