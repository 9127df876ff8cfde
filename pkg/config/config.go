// Package config loads application settings from an optional YAML file and TRADELINE_*
// environment variables. Environment variables win over the file; the file wins over
// defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "TRADELINE"

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	// DBPath is the SQLite run log; empty disables run logging.
	DBPath string `mapstructure:"db_path"`
	// MaxRuns bounds the run log; 0 keeps every run.
	MaxRuns int `mapstructure:"max_runs"`
}

type ThresholdsConfig struct {
	// Path to an INI file with per-bureau overrides; empty means built-in defaults.
	Path string `mapstructure:"path"`
}

type AWSConfig struct {
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	AWS        AWSConfig        `mapstructure:"aws"`
	Log        LogConfig        `mapstructure:"log"`
}

var defaults = map[string]any{
	"server.host":             "127.0.0.1",
	"server.port":             "8080",
	"server.shutdown_timeout": 10 * time.Second,
	"storage.db_path":         "tradeline-atlas.db",
	"storage.max_runs":        1000,
	"thresholds.path":         "",
	"aws.profile":             "",
	"aws.region":              "",
	"log.level":               "info",
	"log.pretty":              false,
}

// LoadConfig reads path when it is not empty. Every key has a default, so each one can be
// set through the environment, e.g. TRADELINE_SERVER_PORT.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Logger builds the process logger. Unknown levels fall back to info.
func (c LogConfig) Logger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if c.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
