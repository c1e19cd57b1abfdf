package track

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <trkseg>
      <trkpt lat="47.5000" lon="19.0000">
        <ele>105.0</ele>
        <time>2024-06-01T10:00:00Z</time>
      </trkpt>
      <trkpt lat="47.5010" lon="19.0020">
        <time>2024-06-01T10:00:30Z</time>
      </trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="47.5020" lon="19.0040">
        <ele>110.0</ele>
        <time>2024-06-01T10:01:00Z</time>
      </trkpt>
    </trkseg>
  </trk>
</gpx>`

func writeGPX(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gpx")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGPXSource_Load(t *testing.T) {
	ix, err := NewGPXSource().Load(writeGPX(t, sampleGPX))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if ix.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ix.Len())
	}

	first := ix.At(0)
	want := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Errorf("first timestamp = %s, want %s", first.Timestamp, want)
	}
	if first.Latitude != 47.5 || first.Longitude != 19.0 {
		t.Errorf("first coords = (%f, %f), want (47.5, 19.0)", first.Latitude, first.Longitude)
	}
	if first.Elevation == nil || *first.Elevation != 105.0 {
		t.Errorf("first elevation = %v, want 105", first.Elevation)
	}

	if ix.At(1).Elevation != nil {
		t.Errorf("second point should have no elevation, got %v", *ix.At(1).Elevation)
	}

	// Segments concatenate into one sorted index.
	if ix.At(2).Latitude != 47.502 {
		t.Errorf("third lat = %f, want 47.502", ix.At(2).Latitude)
	}
}

func TestGPXSource_Load_MissingFile(t *testing.T) {
	_, err := NewGPXSource().Load(filepath.Join(t.TempDir(), "nope.gpx"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("error type = %T, want *ParseError", err)
	}
}

func TestGPXSource_Load_DropsPointsWithoutTimestamp(t *testing.T) {
	const gpx = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><trkseg>
    <trkpt lat="47.5" lon="19.0"></trkpt>
    <trkpt lat="47.6" lon="19.1"><time>2024-06-01T10:00:00Z</time></trkpt>
  </trkseg></trk>
</gpx>`

	ix, err := NewGPXSource().Load(writeGPX(t, gpx))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if ix.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (point without time dropped)", ix.Len())
	}
}
