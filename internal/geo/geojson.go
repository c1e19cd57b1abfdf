// Package geo exports run results as GeoJSON for map preview tooling and
// computes projected track statistics.
package geo

import (
	"encoding/json"
	"errors"
	"os"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/lyp/geotag/internal/model"
	"github.com/lyp/geotag/internal/track"
)

// ErrEmptyTrack is returned when there is nothing to export.
var ErrEmptyTrack = errors.New("track has no points")

// trackLineString flattens the index into an XY line string.
func trackLineString(ix *track.Index) geom.LineString {
	points := ix.Points()
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.Longitude, p.Latitude)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq)
}

func photoPoint(rec *model.PhotoRecord) geom.Point {
	coords := geom.Coordinates{
		XY:   geom.XY{X: *rec.MatchedLon, Y: *rec.MatchedLat},
		Type: geom.DimXY,
	}
	if rec.MatchedElevation != nil {
		coords.Z = *rec.MatchedElevation
		coords.Type = geom.DimXYZ
	}
	return geom.NewPoint(coords)
}

// FeatureCollection builds a GeoJSON feature collection holding the track as
// a LineString and every successfully matched photo as a Point.
func FeatureCollection(ix *track.Index, records []*model.PhotoRecord) (geom.GeoJSONFeatureCollection, error) {
	if ix.Empty() {
		return nil, ErrEmptyTrack
	}

	fc := geom.GeoJSONFeatureCollection{
		{
			Geometry:   trackLineString(ix).AsGeometry(),
			Properties: map[string]any{"kind": "track"},
		},
	}

	for _, rec := range records {
		if rec.State != model.StateSuccess || rec.MatchedLat == nil || rec.MatchedLon == nil {
			continue
		}
		props := map[string]any{
			"kind":     "photo",
			"fileName": rec.FileName,
		}
		if rec.CaptureTime != nil {
			props["captureTime"] = rec.CaptureTime.UTC()
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry:   photoPoint(rec).AsGeometry(),
			Properties: props,
		})
	}

	return fc, nil
}

// WriteFeatureCollection marshals the collection to path.
func WriteFeatureCollection(path string, ix *track.Index, records []*model.PhotoRecord) error {
	fc, err := FeatureCollection(ix, records)
	if err != nil {
		return err
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
