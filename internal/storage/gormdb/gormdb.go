// Package gormdb implements the run-report backend on GORM, against either
// a local SQLite file or a configured Postgres instance.
package gormdb

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lyp/geotag/internal/model"
)

// Run is one processing run.
type Run struct {
	ID        uint      `gorm:"primarykey"`
	StartedAt time.Time `gorm:"index"`
	DurationMs int64

	TrackFile  string
	PhotoCount int

	SuccessCount int
	SkippedCount int
	ErrorCount   int
	DryRun       bool

	EffectiveMaxTimeDiff float64
	Settings             datatypes.JSON
}

// PhotoResult is one photo's outcome within a run.
type PhotoResult struct {
	ID    uint `gorm:"primarykey"`
	RunID uint `gorm:"index"`

	PhotoIndex int
	Path       string
	FileName   string

	State   string
	Message string

	CaptureTime *time.Time
	Latitude    *float64
	Longitude   *float64
	Elevation   *float64
}

// Backend persists runs and photo outcomes through GORM.
type Backend struct {
	db  *gorm.DB
	log zerolog.Logger

	mu    sync.Mutex
	runID uint
}

// NewSqlite opens (or creates) a SQLite report database at path.
func NewSqlite(path string, log zerolog.Logger) (*Backend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite report DB: %w", err)
	}
	return &Backend{db: db, log: log}, nil
}

// NewPostgres connects to the Postgres instance named in configuration.
func NewPostgres(log zerolog.Logger) (*Backend, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		viper.GetString("report.db.host"),
		viper.GetString("report.db.port"),
		viper.GetString("report.db.username"),
		viper.GetString("report.db.password"),
		viper.GetString("report.db.database"),
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres report DB: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)

	return &Backend{db: db, log: log}, nil
}

// Init migrates the report schema.
func (b *Backend) Init() error {
	return b.db.AutoMigrate(&Run{}, &PhotoResult{})
}

// Close releases the underlying connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartRun inserts the run row and remembers its ID for photo outcomes.
func (b *Backend) StartRun(trackFile string, photoCount int, effectiveMaxTimeDiff float64, settings model.ProcessingSettings) error {
	snapshot, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshalling settings snapshot: %w", err)
	}

	run := Run{
		StartedAt:            time.Now(),
		TrackFile:            trackFile,
		PhotoCount:           photoCount,
		DryRun:               settings.DryRun,
		EffectiveMaxTimeDiff: effectiveMaxTimeDiff,
		Settings:             datatypes.JSON(snapshot),
	}
	if err := b.db.Create(&run).Error; err != nil {
		return fmt.Errorf("creating run row: %w", err)
	}

	b.mu.Lock()
	b.runID = run.ID
	b.mu.Unlock()

	b.log.Debug().Uint("runID", run.ID).Msg("Run report started")
	return nil
}

// EndRun finalizes the run row with the terminal counts.
func (b *Backend) EndRun(summary model.RunSummary) error {
	b.mu.Lock()
	runID := b.runID
	b.mu.Unlock()

	return b.db.Model(&Run{}).Where("id = ?", runID).Updates(map[string]any{
		"success_count": summary.Success,
		"skipped_count": summary.Skipped,
		"error_count":   summary.Errors,
		"duration_ms":   summary.Duration.Milliseconds(),
	}).Error
}

// RecordPhoto inserts one photo outcome. Multiple workers complete
// concurrently; GORM serializes on the connection, the run ID under the
// backend mutex.
func (b *Backend) RecordPhoto(index int, rec model.PhotoRecord) error {
	b.mu.Lock()
	runID := b.runID
	b.mu.Unlock()

	result := PhotoResult{
		RunID:       runID,
		PhotoIndex:  index,
		Path:        rec.Path,
		FileName:    rec.FileName,
		State:       rec.State.String(),
		Message:     rec.ErrorMessage,
		CaptureTime: rec.CaptureTime,
		Latitude:    rec.MatchedLat,
		Longitude:   rec.MatchedLon,
		Elevation:   rec.MatchedElevation,
	}
	return b.db.Create(&result).Error
}
