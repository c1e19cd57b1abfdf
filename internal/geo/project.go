package geo

import (
	"math"

	"github.com/wroge/wgs84"

	"github.com/lyp/geotag/internal/track"
)

// Coords3857From4326 projects a WGS84 lon/lat pair to web mercator meters.
func Coords3857From4326(lon, lat float64) (x, y float64) {
	transform := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ = transform(lon, lat, 0)
	return x, y
}

// TrackLengthMeters sums the projected segment lengths of the track. The
// web mercator scale factor grows with latitude, so the value is corrected
// by the cosine of each segment's mean latitude.
func TrackLengthMeters(ix *track.Index) float64 {
	points := ix.Points()
	if len(points) < 2 {
		return 0
	}

	var total float64
	prevX, prevY := Coords3857From4326(points[0].Longitude, points[0].Latitude)
	for i := 1; i < len(points); i++ {
		x, y := Coords3857From4326(points[i].Longitude, points[i].Latitude)
		dx, dy := x-prevX, y-prevY
		meanLat := (points[i].Latitude + points[i-1].Latitude) / 2
		total += math.Hypot(dx, dy) * math.Cos(meanLat*math.Pi/180)
		prevX, prevY = x, y
	}
	return total
}
