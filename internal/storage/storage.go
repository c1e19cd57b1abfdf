// Package storage persists run reports: one row per processing run plus one
// row per photo outcome, so past geotagging runs can be audited.
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lyp/geotag/internal/model"
	"github.com/lyp/geotag/internal/storage/gormdb"
)

// Backend is the interface all run-report implementations must satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management
	StartRun(trackFile string, photoCount int, effectiveMaxTimeDiff float64, settings model.ProcessingSettings) error
	EndRun(summary model.RunSummary) error

	// Outcome recording
	RecordPhoto(index int, rec model.PhotoRecord) error
}

// Config selects and configures a backend.
type Config struct {
	// Type is one of "sqlite", "postgres" or "none".
	Type string

	SqlitePath string
}

// NewBackend creates a run-report backend based on configuration.
func NewBackend(cfg Config, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "sqlite":
		return gormdb.NewSqlite(cfg.SqlitePath, log)
	case "postgres":
		return gormdb.NewPostgres(log)
	case "none":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown report backend: %s", cfg.Type)
	}
}

// Discard is a Backend that keeps nothing.
type Discard struct{}

func (Discard) Init() error  { return nil }
func (Discard) Close() error { return nil }
func (Discard) StartRun(string, int, float64, model.ProcessingSettings) error {
	return nil
}
func (Discard) EndRun(model.RunSummary) error            { return nil }
func (Discard) RecordPhoto(int, model.PhotoRecord) error { return nil }
