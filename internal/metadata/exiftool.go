package metadata

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultToolTimeout bounds a single exiftool invocation. A timeout is a
// per-photo write failure, never fatal to the batch.
const DefaultToolTimeout = 30 * time.Second

// ExiftoolWriter shells out to exiftool for containers the native writer
// cannot handle. Availability is probed once at construction and held as
// owned state.
type ExiftoolWriter struct {
	binPath   string
	available bool
	timeout   time.Duration
	log       zerolog.Logger
}

// NewExiftoolWriter probes PATH for exiftool and returns the fallback
// writer. A missing binary is not an error here; every Write fails closed
// with ExternalToolUnavailable instead.
func NewExiftoolWriter(log zerolog.Logger) *ExiftoolWriter {
	w := &ExiftoolWriter{
		timeout: DefaultToolTimeout,
		log:     log,
	}

	binPath, err := exec.LookPath("exiftool")
	if err != nil {
		log.Warn().Msg("exiftool not found in PATH")
		return w
	}

	w.binPath = binPath
	w.available = true
	log.Info().Str("path", binPath).Msg("Found exiftool")
	return w
}

// Available implements ToolWriter.
func (w *ExiftoolWriter) Available() bool {
	return w.available
}

// Write implements Writer via an exiftool subprocess.
func (w *ExiftoolWriter) Write(path string, lat, lon float64, elevation *float64) error {
	if !w.available {
		return &WriteError{Kind: ExternalToolUnavailable, Path: path}
	}

	latRef := "N"
	if lat < 0 {
		latRef = "S"
	}
	lonRef := "E"
	if lon < 0 {
		lonRef = "W"
	}

	args := []string{
		"-overwrite_original",
		fmt.Sprintf("-GPSLatitude=%.8f", math.Abs(lat)),
		fmt.Sprintf("-GPSLatitudeRef=%s", latRef),
		fmt.Sprintf("-GPSLongitude=%.8f", math.Abs(lon)),
		fmt.Sprintf("-GPSLongitudeRef=%s", lonRef),
	}
	if elevation != nil {
		altRef := "Above Sea Level"
		if *elevation < 0 {
			altRef = "Below Sea Level"
		}
		args = append(args,
			fmt.Sprintf("-GPSAltitude=%.2f", math.Abs(*elevation)),
			fmt.Sprintf("-GPSAltitudeRef=%s", altRef),
		)
	}
	args = append(args, path)

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, w.binPath, args...).CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &WriteError{Kind: ExternalToolTimeout, Path: path}
	}
	if err != nil {
		return &WriteError{
			Kind:   LibraryWriteFailure,
			Path:   path,
			Detail: fmt.Sprintf("exiftool failed: %s", strings.TrimSpace(string(out))),
		}
	}

	w.log.Debug().Str("path", path).Float64("lat", lat).Float64("lon", lon).
		Msg("exiftool wrote GPS")
	return nil
}
