package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lyp/geotag/internal/model"
)

type stubReader struct {
	gps map[string]bool
}

func (r *stubReader) CaptureTimestamp(path string, offsetSeconds float64) (time.Time, bool) {
	return time.Time{}, false
}

func (r *stubReader) HasGPS(path string) bool {
	return r.gps[filepath.Base(path)]
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindPhotos_TopLevelOnly(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.jpg"))
	touch(t, filepath.Join(dir, "a.HEIC"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "sub", "c.jpg"))

	paths, err := FindPhotos(dir, false)
	if err != nil {
		t.Fatal(err)
	}

	if len(paths) != 2 {
		t.Fatalf("found %d paths, want 2: %v", len(paths), paths)
	}
	// Sorted by path.
	if filepath.Base(paths[0]) != "a.HEIC" || filepath.Base(paths[1]) != "b.jpg" {
		t.Errorf("paths = %v, want [a.HEIC b.jpg]", paths)
	}
}

func TestFindPhotos_Recursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.jpg"))
	touch(t, filepath.Join(dir, "sub", "deep", "b.png"))
	touch(t, filepath.Join(dir, "sub", "skip.txt"))

	paths, err := FindPhotos(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Errorf("found %d paths, want 2: %v", len(paths), paths)
	}
}

func TestFindPhotos_MissingDirectory(t *testing.T) {
	if _, err := FindPhotos(filepath.Join(t.TempDir(), "nope"), false); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestBuildRecords(t *testing.T) {
	reader := &stubReader{gps: map[string]bool{"tagged.jpg": true}}

	records := BuildRecords([]string{
		"/p/tagged.jpg",
		"/p/fresh.jpg",
		"/p/fresh.jpg", // duplicate
	}, reader)

	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 after dedup", len(records))
	}
	for _, rec := range records {
		if rec.State != model.StatePending {
			t.Errorf("%s state = %s, want pending", rec.FileName, rec.State)
		}
	}
	if !records[0].HasExistingGPS {
		t.Error("tagged.jpg should report existing GPS")
	}
	if records[1].HasExistingGPS {
		t.Error("fresh.jpg should not report existing GPS")
	}
	if records[1].FileName != "fresh.jpg" {
		t.Errorf("FileName = %s, want fresh.jpg", records[1].FileName)
	}
}
