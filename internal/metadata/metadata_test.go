package metadata

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWriteError_Messages(t *testing.T) {
	tests := []struct {
		err  *WriteError
		want string
	}{
		{
			&WriteError{Kind: ExternalToolUnavailable, Path: "a.heic"},
			"exiftool not found - install it to write to this format",
		},
		{
			&WriteError{Kind: ExternalToolTimeout, Path: "a.heic"},
			"exiftool timed out for a.heic",
		},
		{
			&WriteError{Kind: LibraryWriteFailure, Path: "a.jpg", Detail: "truncated segment"},
			"failed to write GPS: truncated segment",
		},
	}
	for _, tc := range tests {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Error() = %q, want %q", got, tc.want)
		}
	}
}

func TestExifWriter_RejectsUnsupportedContainer(t *testing.T) {
	err := NewExifWriter().Write("/p/photo.png", 10, 20, nil)
	if err == nil {
		t.Fatal("expected error for non-JPEG container")
	}

	var werr *WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("error type = %T, want *WriteError", err)
	}
	if werr.Kind != LibraryWriteFailure {
		t.Errorf("Kind = %d, want LibraryWriteFailure", werr.Kind)
	}
	if !strings.Contains(werr.Detail, "png") {
		t.Errorf("Detail %q should name the container", werr.Detail)
	}
}

func TestDegreesToRationals(t *testing.T) {
	// 47.5013 degrees = 47 deg 30 min 4.68 sec.
	rats := degreesToRationals(47.5013)

	if len(rats) != 3 {
		t.Fatalf("len = %d, want 3", len(rats))
	}
	if rats[0].Numerator != 47 || rats[0].Denominator != 1 {
		t.Errorf("degrees = %d/%d, want 47/1", rats[0].Numerator, rats[0].Denominator)
	}
	if rats[1].Numerator != 30 || rats[1].Denominator != 1 {
		t.Errorf("minutes = %d/%d, want 30/1", rats[1].Numerator, rats[1].Denominator)
	}
	if rats[2].Denominator != 10000 {
		t.Fatalf("seconds denominator = %d, want 10000", rats[2].Denominator)
	}
	sec := float64(rats[2].Numerator) / 10000.0
	if sec < 4.67 || sec > 4.69 {
		t.Errorf("seconds = %f, want ~4.68", sec)
	}
}

func TestDegreesToRationals_NegativeUsesMagnitude(t *testing.T) {
	pos := degreesToRationals(19.25)
	neg := degreesToRationals(-19.25)

	for i := range pos {
		if pos[i] != neg[i] {
			t.Errorf("component %d differs for sign: %v vs %v", i, pos[i], neg[i])
		}
	}
	if pos[0].Numerator != 19 || pos[1].Numerator != 15 || pos[2].Numerator != 0 {
		t.Errorf("19.25 deg = %v, want 19 deg 15 min 0 sec", pos)
	}
}

func TestExiftoolWriter_UnavailableFailsClosed(t *testing.T) {
	w := &ExiftoolWriter{timeout: DefaultToolTimeout, log: zerolog.Nop()}

	err := w.Write("/p/a.heic", 10, 20, nil)
	if err == nil {
		t.Fatal("expected error when exiftool is unavailable")
	}

	var werr *WriteError
	if !errors.As(err, &werr) || werr.Kind != ExternalToolUnavailable {
		t.Errorf("error = %v, want ExternalToolUnavailable", err)
	}
	if w.Available() {
		t.Error("Available() = true for unprobed writer")
	}
}
