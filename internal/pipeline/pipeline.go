// Package pipeline orchestrates per-photo classification, GPS matching and
// metadata writes under a bounded worker pool with cooperative cancellation.
package pipeline

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lyp/geotag/internal/format"
	"github.com/lyp/geotag/internal/match"
	"github.com/lyp/geotag/internal/metadata"
	"github.com/lyp/geotag/internal/model"
	"github.com/lyp/geotag/internal/track"
)

// Skip reasons recorded on PhotoRecord.ErrorMessage. Skips are outcomes,
// not errors; they never abort the batch.
const (
	SkipUnsupportedFormat = "No metadata support for this format"
	SkipAlreadyHasGPS     = "Already has GPS data"
	SkipNoTimestamp       = "No timestamp found"
	SkipNoMatchInRange    = "No GPS match within time threshold"
	SkipOutsideTrackRange = "Photo time outside GPX range"
)

// Observer receives pipeline notifications. Per-photo updates are addressed
// by the photo's stable index because photos complete in any order across
// workers; completed counts are monotonic.
type Observer interface {
	OnStateChange(index int, record model.PhotoRecord)
	OnProgress(completed, total int)
	OnComplete(successCount, total int)
}

// Pipeline processes a photo queue against a loaded track.
type Pipeline struct {
	reader     metadata.Reader
	writer     metadata.Writer
	toolWriter metadata.ToolWriter
	observer   Observer
	log        zerolog.Logger

	stopRequested atomic.Bool
}

// New wires a Pipeline from its collaborators. observer may be nil.
func New(reader metadata.Reader, writer metadata.Writer, toolWriter metadata.ToolWriter, observer Observer, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		reader:     reader,
		writer:     writer,
		toolWriter: toolWriter,
		observer:   observer,
		log:        log,
	}
}

// Stop requests cooperative cancellation. No further photos are claimed;
// photos already in flight complete normally.
func (p *Pipeline) Stop() {
	p.stopRequested.Store(true)
}

// Process runs the per-photo state machine over every record. Records must
// be Pending; the pipeline is their sole mutator until Process returns.
func (p *Pipeline) Process(ix *track.Index, records []*model.PhotoRecord, settings model.ProcessingSettings) model.RunSummary {
	start := time.Now()
	p.stopRequested.Store(false)

	maxTimeDiff := match.EffectiveMaxTimeDiff(settings.MaxTimeDiffSeconds, ix)
	matcher := match.New(ix, maxTimeDiff, settings.ForceInterpolate)

	workers := settings.WorkerCount
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p.log.Info().
		Int("photos", len(records)).
		Float64("maxTimeDiff", maxTimeDiff).
		Float64("timeOffsetHours", settings.TimeOffsetHours).
		Bool("overwrite", settings.OverwriteExistingGPS).
		Bool("forceInterpolate", settings.ForceInterpolate).
		Bool("dryRun", settings.DryRun).
		Int("workers", workers).
		Msg("Processing photos")

	reporter := NewReporter(len(records))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, rec := range records {
		if p.stopRequested.Load() {
			p.log.Info().Msg("Processing stopped by user")
			break
		}

		i, rec := i, rec
		g.Go(func() error {
			p.processOne(i, rec, matcher, settings)
			reporter.PhotoDone(rec.State == model.StateSuccess, rec.State == model.StateSkipped, p.emitProgress)
			return nil
		})
	}

	_ = g.Wait()

	_, success, skipped, errs, _ := reporter.Counts()
	summary := model.RunSummary{
		Total:     len(records),
		Success:   success,
		Skipped:   skipped,
		Errors:    errs,
		DryRun:    settings.DryRun,
		StartedAt: start,
		Duration:  time.Since(start),
	}

	p.log.Info().
		Int("success", summary.Success).
		Int("total", summary.Total).
		Bool("dryRun", summary.DryRun).
		Msg("Processing complete")

	if p.observer != nil {
		p.observer.OnComplete(summary.Success, summary.Total)
	}
	return summary
}

// processOne drives a single record from Pending to a terminal state.
// Every failure is isolated to the record.
func (p *Pipeline) processOne(index int, rec *model.PhotoRecord, matcher *match.Matcher, settings model.ProcessingSettings) {
	p.transition(index, rec, model.StateProcessing, "")

	info := format.Classify(rec.Path)

	if info.Level == format.Minimal {
		p.transition(index, rec, model.StateSkipped, SkipUnsupportedFormat)
		return
	}

	if rec.HasExistingGPS && !settings.OverwriteExistingGPS {
		p.transition(index, rec, model.StateSkipped, SkipAlreadyHasGPS)
		return
	}

	captureTime, ok := p.reader.CaptureTimestamp(rec.Path, settings.TimeOffsetSeconds())
	if !ok {
		p.transition(index, rec, model.StateSkipped, SkipNoTimestamp)
		return
	}
	rec.CaptureTime = &captureTime

	result, ok := matcher.Find(captureTime)
	if !ok {
		reason := SkipOutsideTrackRange
		if matcher.WithinTrackRange(captureTime) {
			reason = SkipNoMatchInRange
		}
		p.transition(index, rec, model.StateSkipped, reason)
		return
	}

	rec.SetMatch(result.Latitude, result.Longitude, result.Elevation)

	if settings.DryRun {
		p.transition(index, rec, model.StateSuccess, "")
		return
	}

	writer := p.selectWriter(info.Level)
	if err := writer.Write(rec.Path, result.Latitude, result.Longitude, result.Elevation); err != nil {
		p.transition(index, rec, model.StateError, err.Error())
		return
	}

	p.transition(index, rec, model.StateSuccess, "")
}

// selectWriter picks the write strategy for a support level. BMFF containers
// go through the external tool; everything else takes the primary writer.
func (p *Pipeline) selectWriter(level format.Level) metadata.Writer {
	if level == format.NeedsExternalTool {
		return p.toolWriter
	}
	return p.writer
}

// emitProgress is handed to the reporter, which calls it under its lock so
// completed counts reach the observer in increasing order.
func (p *Pipeline) emitProgress(completed, total int) {
	if p.observer != nil {
		p.observer.OnProgress(completed, total)
	}
}

func (p *Pipeline) transition(index int, rec *model.PhotoRecord, state model.PhotoState, message string) {
	rec.State = state
	rec.ErrorMessage = message

	switch state {
	case model.StateSkipped:
		p.log.Debug().Str("photo", rec.FileName).Str("reason", message).Msg("Photo skipped")
	case model.StateError:
		p.log.Warn().Str("photo", rec.FileName).Str("error", message).Msg("Photo failed")
	}

	if p.observer != nil {
		p.observer.OnStateChange(index, *rec)
	}
}
