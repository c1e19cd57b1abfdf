package metadata

import (
	"bytes"
	"fmt"
	"math"
	"os"

	dsoexif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"

	"github.com/lyp/geotag/internal/format"
)

// gpsIfdPath is the GPS sub-IFD in the standard EXIF layout.
const gpsIfdPath = "IFD/GPSInfo"

// ExifWriter writes GPS fields natively. JPEG containers are rewritten
// in place; containers the library cannot rebuild yield a WriteError so the
// pipeline can surface the failure without corrupting the file.
type ExifWriter struct{}

// NewExifWriter returns the primary Writer implementation.
func NewExifWriter() *ExifWriter {
	return &ExifWriter{}
}

// Write implements Writer.
func (w *ExifWriter) Write(path string, lat, lon float64, elevation *float64) error {
	ext := format.Ext(path)
	if ext != "jpg" && ext != "jpeg" {
		return &WriteError{
			Kind:   LibraryWriteFailure,
			Path:   path,
			Detail: fmt.Sprintf("no native GPS writer for .%s container", ext),
		}
	}
	return w.writeJPEG(path, lat, lon, elevation)
}

func (w *ExifWriter) writeJPEG(path string, lat, lon float64, elevation *float64) error {
	jmp := jpegstructure.NewJpegMediaParser()
	intfc, err := jmp.ParseFile(path)
	if err != nil {
		return &WriteError{Kind: LibraryWriteFailure, Path: path, Detail: err.Error()}
	}
	sl := intfc.(*jpegstructure.SegmentList)

	rootIb, err := sl.ConstructExifBuilder()
	if err != nil {
		return &WriteError{Kind: LibraryWriteFailure, Path: path, Detail: err.Error()}
	}

	gpsIb, err := dsoexif.GetOrCreateIbFromRootIb(rootIb, gpsIfdPath)
	if err != nil {
		return &WriteError{Kind: LibraryWriteFailure, Path: path, Detail: err.Error()}
	}

	if err := setGpsTags(gpsIb, lat, lon, elevation); err != nil {
		return &WriteError{Kind: LibraryWriteFailure, Path: path, Detail: err.Error()}
	}

	if err := sl.SetExif(rootIb); err != nil {
		return &WriteError{Kind: LibraryWriteFailure, Path: path, Detail: err.Error()}
	}

	buf := new(bytes.Buffer)
	if err := sl.Write(buf); err != nil {
		return &WriteError{Kind: LibraryWriteFailure, Path: path, Detail: err.Error()}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &WriteError{Kind: LibraryWriteFailure, Path: path, Detail: err.Error()}
	}
	return nil
}

func setGpsTags(ib *dsoexif.IfdBuilder, lat, lon float64, elevation *float64) error {
	if err := ib.SetStandardWithName("GPSVersionID", []byte{2, 3, 0, 0}); err != nil {
		return err
	}

	latRef := "N"
	if lat < 0 {
		latRef = "S"
	}
	if err := ib.SetStandardWithName("GPSLatitudeRef", latRef); err != nil {
		return err
	}
	if err := ib.SetStandardWithName("GPSLatitude", degreesToRationals(lat)); err != nil {
		return err
	}

	lonRef := "E"
	if lon < 0 {
		lonRef = "W"
	}
	if err := ib.SetStandardWithName("GPSLongitudeRef", lonRef); err != nil {
		return err
	}
	if err := ib.SetStandardWithName("GPSLongitude", degreesToRationals(lon)); err != nil {
		return err
	}

	if elevation != nil {
		ref := []byte{0}
		if *elevation < 0 {
			ref = []byte{1}
		}
		if err := ib.SetStandardWithName("GPSAltitudeRef", ref); err != nil {
			return err
		}
		alt := exifcommon.Rational{
			Numerator:   uint32(math.Abs(*elevation) * 100),
			Denominator: 100,
		}
		if err := ib.SetStandardWithName("GPSAltitude", []exifcommon.Rational{alt}); err != nil {
			return err
		}
	}

	return nil
}

// degreesToRationals converts decimal degrees to the DMS rational triple,
// carrying seconds at 1/10000 precision.
func degreesToRationals(decimal float64) []exifcommon.Rational {
	decimal = math.Abs(decimal)
	deg := math.Floor(decimal)
	minFloat := (decimal - deg) * 60.0
	min := math.Floor(minFloat)
	sec := (minFloat - min) * 60.0

	return []exifcommon.Rational{
		{Numerator: uint32(deg), Denominator: 1},
		{Numerator: uint32(min), Denominator: 1},
		{Numerator: uint32(sec * 10000), Denominator: 10000},
	}
}
