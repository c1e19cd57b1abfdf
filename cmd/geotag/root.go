package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lyp/geotag/internal/config"
	"github.com/lyp/geotag/internal/logging"
)

var (
	configDir string
	logLevel  string

	logger           zerolog.Logger
	logFile          *os.File
	sessionStartTime = time.Now()
)

var rootCmd = &cobra.Command{
	Use:   "geotag",
	Short: "Write GPS coordinates into photos from a GPX track",
	Long: `Geotag matches photo capture timestamps against a GPX track recorded
alongside them and writes interpolated GPS coordinates into the photo
metadata. Formats without safe native write support are routed through
exiftool when it is installed.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing geotag.cfg.json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override configured log level (trace, debug, info, warn, error)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := config.Load(configDir); err != nil {
			return err
		}
		if logLevel != "" {
			viper.Set("logLevel", logLevel)
		}
		return setupLogging()
	}
}

// setupLogging writes to console and, when the logs directory is usable,
// to a per-session log file as well.
func setupLogging() error {
	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logs directory: %v\n", err)
		}
	}

	var fileWriter io.Writer
	path := logging.LogFilePath(logsDir, sessionStartTime)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", path, err)
	} else {
		logFile = file
		fileWriter = file
	}

	logger = logging.New(fileWriter, viper.GetString("logLevel"))
	return nil
}
