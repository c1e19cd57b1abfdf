// Package config loads application configuration from an optional JSON file
// with sensible defaults for every key.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from geotag.cfg.json in configDir and sets
// default values. A missing file is fine; defaults apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./geotaglogs")

	viper.SetDefault("report.backend", "sqlite")
	viper.SetDefault("report.sqlitePath", "./geotag_runs.db")

	viper.SetDefault("report.db.host", "localhost")
	viper.SetDefault("report.db.port", "5432")
	viper.SetDefault("report.db.username", "postgres")
	viper.SetDefault("report.db.password", "postgres")
	viper.SetDefault("report.db.database", "geotag")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "geotag-metrics")
	viper.SetDefault("influx.bucket", "geotag_runs")

	viper.SetConfigName("geotag.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
