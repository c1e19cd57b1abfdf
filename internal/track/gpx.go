package track

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"
)

// ParseError reports a malformed track source. It is fatal to the load step
// and surfaced to the caller before any photo is touched.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing track file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Source produces a timestamp-sorted trackpoint index from a trace file.
type Source interface {
	Load(path string) (*Index, error)
}

// GPXSource loads GPX 1.0/1.1 trace files.
type GPXSource struct{}

// NewGPXSource returns a Source backed by GPX decoding.
func NewGPXSource() *GPXSource {
	return &GPXSource{}
}

// Load parses the GPX file at path and returns a sorted index over every
// valid trackpoint. Points without a timestamp or with out-of-range
// coordinates are dropped. An empty result is a valid, degenerate outcome.
func (s *GPXSource) Load(path string) (*Index, error) {
	doc, err := gpx.ParseFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var points []Point
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, tp := range seg.Points {
				p := Point{
					Timestamp: tp.Timestamp.UTC(),
					Latitude:  tp.Latitude,
					Longitude: tp.Longitude,
				}
				if tp.Elevation.NotNull() {
					elev := tp.Elevation.Value()
					p.Elevation = &elev
				}
				if p.Valid() {
					points = append(points, p)
				}
			}
		}
	}

	return NewIndex(points), nil
}
