package storage

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lyp/geotag/internal/model"
)

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(Config{Type: "none"}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(Discard); !ok {
		t.Errorf("backend type = %T, want Discard", b)
	}

	b, err = NewBackend(Config{
		Type:       "sqlite",
		SqlitePath: filepath.Join(t.TempDir(), "runs.db"),
	}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if err := b.Init(); err != nil {
		t.Errorf("sqlite backend Init: %v", err)
	}

	if _, err := NewBackend(Config{Type: "carrier-pigeon"}, zerolog.Nop()); err == nil {
		t.Error("expected error for unknown backend type")
	}
}

func TestDiscard_AcceptsEverything(t *testing.T) {
	var b Backend = Discard{}

	if err := b.Init(); err != nil {
		t.Error(err)
	}
	if err := b.StartRun("t.gpx", 1, 60, model.ProcessingSettings{}); err != nil {
		t.Error(err)
	}
	if err := b.RecordPhoto(0, model.PhotoRecord{}); err != nil {
		t.Error(err)
	}
	if err := b.EndRun(model.RunSummary{}); err != nil {
		t.Error(err)
	}
	if err := b.Close(); err != nil {
		t.Error(err)
	}
}
