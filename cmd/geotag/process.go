package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lyp/geotag/internal/events"
	"github.com/lyp/geotag/internal/geo"
	"github.com/lyp/geotag/internal/influx"
	"github.com/lyp/geotag/internal/logging"
	"github.com/lyp/geotag/internal/match"
	"github.com/lyp/geotag/internal/metadata"
	"github.com/lyp/geotag/internal/model"
	"github.com/lyp/geotag/internal/pipeline"
	"github.com/lyp/geotag/internal/scan"
	"github.com/lyp/geotag/internal/storage"
	"github.com/lyp/geotag/internal/track"
)

var (
	maxTimeDiff      float64
	timeOffsetHours  float64
	overwriteGPS     bool
	forceInterpolate bool
	dryRun           bool
	workers          int
	recursive        bool
	geojsonOut       string
)

var processCmd = &cobra.Command{
	Use:   "process <gpx-file> <photo-dir>",
	Short: "Match photos against a GPX track and write GPS coordinates",
	Args:  cobra.ExactArgs(2),
	RunE:  runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().Float64Var(&maxTimeDiff, "max-time-diff", 0, "Maximum seconds between photo and track point (0 = adaptive from track density)")
	processCmd.Flags().Float64Var(&timeOffsetHours, "time-offset", 0, "Hours to shift photo timestamps by before matching (camera clock correction)")
	processCmd.Flags().BoolVar(&overwriteGPS, "overwrite-gps", false, "Overwrite GPS data already present in photos")
	processCmd.Flags().BoolVar(&forceInterpolate, "force-interpolate", false, "Always use the nearest track points, ignoring the time threshold")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Match and report without writing any files")
	processCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent photo workers (0 = number of CPUs)")
	processCmd.Flags().BoolVar(&recursive, "recursive", false, "Scan the photo directory recursively")
	processCmd.Flags().StringVar(&geojsonOut, "geojson", "", "Write the track and matched photos to this GeoJSON file after the run")
}

func runProcess(cmd *cobra.Command, args []string) error {
	gpxPath, photoDir := args[0], args[1]

	settings := model.ProcessingSettings{
		MaxTimeDiffSeconds:   maxTimeDiff,
		TimeOffsetHours:      timeOffsetHours,
		OverwriteExistingGPS: overwriteGPS,
		ForceInterpolate:     forceInterpolate,
		DryRun:               dryRun,
		WorkerCount:          workers,
	}

	ix, err := track.NewGPXSource().Load(gpxPath)
	if err != nil {
		return err
	}
	if ix.Empty() {
		return fmt.Errorf("no usable track points in %s", gpxPath)
	}

	first, last, _ := ix.TimeRange()
	logger.Info().
		Int("points", ix.Len()).
		Time("from", first).
		Time("to", last).
		Float64("lengthMeters", geo.TrackLengthMeters(ix)).
		Msg("Track loaded")

	paths, err := scan.FindPhotos(photoDir, recursive)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", photoDir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported photos found in %s", photoDir)
	}

	reader := metadata.NewExifReader()
	records := scan.BuildRecords(paths, reader)
	logger.Info().Int("photos", len(records)).Str("dir", photoDir).Msg("Photos found")

	bus, err := events.New(logging.NewBusLogger(logger))
	if err != nil {
		return fmt.Errorf("creating event bus: %w", err)
	}

	backend, err := storage.NewBackend(storage.Config{
		Type:       viper.GetString("report.backend"),
		SqlitePath: viper.GetString("report.sqlitePath"),
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Run report backend unavailable, reports disabled")
		backend = storage.Discard{}
	}
	if err := backend.Init(); err != nil {
		logger.Warn().Err(err).Msg("Run report backend failed to initialize, reports disabled")
		backend = storage.Discard{}
	}
	defer backend.Close()

	effectiveMaxTimeDiff := match.EffectiveMaxTimeDiff(settings.MaxTimeDiffSeconds, ix)
	if err := backend.StartRun(gpxPath, len(records), effectiveMaxTimeDiff, settings); err != nil {
		logger.Warn().Err(err).Msg("Failed to record run start")
	}

	bus.Subscribe(events.PhotoState, func(e events.Event) error {
		sc, ok := e.Payload.(pipeline.StateChange)
		if !ok || !sc.Record.State.Terminal() {
			return nil
		}
		return backend.RecordPhoto(sc.Index, sc.Record)
	})

	bus.Subscribe(events.RunProgress, func(e events.Event) error {
		pr, ok := e.Payload.(pipeline.Progress)
		if ok {
			fmt.Printf("\rProcessed %d/%d photos", pr.Completed, pr.Total)
		}
		return nil
	})

	bus.Subscribe(events.RunComplete, func(e events.Event) error {
		fmt.Println()
		return nil
	})

	pipe := pipeline.New(
		reader,
		metadata.NewExifWriter(),
		metadata.NewExiftoolWriter(logger),
		pipeline.NewBusObserver(bus),
		logger,
	)

	// ctrl-c stops claiming new photos; in-flight writes finish cleanly.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info().Msg("Interrupt received, stopping after in-flight photos")
		pipe.Stop()
	}()

	summary := pipe.Process(ix, records, settings)

	if err := backend.EndRun(summary); err != nil {
		logger.Warn().Err(err).Msg("Failed to record run end")
	}

	publishMetrics(gpxPath, summary)
	printSummary(records, summary)

	if geojsonOut != "" {
		if err := geo.WriteFeatureCollection(geojsonOut, ix, records); err != nil {
			return fmt.Errorf("writing GeoJSON: %w", err)
		}
		logger.Info().Str("path", geojsonOut).Msg("GeoJSON written")
	}

	return nil
}

func publishMetrics(trackFile string, summary model.RunSummary) {
	if !viper.GetBool("influx.enabled") {
		return
	}

	backupPath := filepath.Join(viper.GetString("logsDir"), "influx_backup.lp.gz")
	manager := influx.NewManager(logger, backupPath)
	if err := manager.Connect(); err != nil {
		logger.Warn().Err(err).Msg("InfluxDB connection failed, metrics skipped")
		return
	}
	defer manager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := manager.RecordRun(ctx, trackFile, summary); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish run metrics")
	}
}

func printSummary(records []*model.PhotoRecord, summary model.RunSummary) {
	fmt.Printf("Done in %s: %d tagged, %d skipped, %d errors (of %d)\n",
		summary.Duration.Round(time.Millisecond),
		summary.Success, summary.Skipped, summary.Errors, summary.Total)
	if summary.DryRun {
		fmt.Println("Dry run: no files were modified.")
	}

	for _, rec := range records {
		switch rec.State {
		case model.StateError:
			fmt.Printf("  ERROR  %s: %s\n", rec.FileName, rec.ErrorMessage)
		case model.StateSkipped:
			fmt.Printf("  skip   %s: %s\n", rec.FileName, rec.ErrorMessage)
		}
	}
}
