package metadata

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifTimeLayout is the EXIF date format. Cameras record local time with no
// zone; the configured offset converts it to UTC.
const exifTimeLayout = "2006:01:02 15:04:05"

// timestampFields are tried in order of reliability.
var timestampFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// ExifReader reads EXIF metadata with a native decoder.
type ExifReader struct{}

// NewExifReader returns the default Reader implementation.
func NewExifReader() *ExifReader {
	return &ExifReader{}
}

// CaptureTimestamp implements Reader. Any decode failure reads as "no
// timestamp": the photo is skipped, never fatal.
func (r *ExifReader) CaptureTimestamp(path string, offsetSeconds float64) (time.Time, bool) {
	x, err := decode(path)
	if err != nil {
		return time.Time{}, false
	}

	for _, field := range timestampFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		t, err := time.ParseInLocation(exifTimeLayout, raw, time.UTC)
		if err != nil {
			continue
		}
		return t.Add(-time.Duration(offsetSeconds * float64(time.Second))), true
	}

	return time.Time{}, false
}

// HasGPS implements Reader.
func (r *ExifReader) HasGPS(path string) bool {
	x, err := decode(path)
	if err != nil {
		return false
	}
	if _, err := x.Get(exif.GPSLatitude); err != nil {
		return false
	}
	if _, err := x.Get(exif.GPSLongitude); err != nil {
		return false
	}
	return true
}

func decode(path string) (*exif.Exif, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return exif.Decode(f)
}
