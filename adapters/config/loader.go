// Package config provides the optional moltfile configuration loader.
package config

import (
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/molt/core/domain"
	"go.trai.ch/molt/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "moltfile.yaml"

// Config holds engine defaults loaded from a moltfile.
type Config struct {
	// Interval is the default periodic reload interval.
	Interval time.Duration
	// LogJSON switches the logger to JSON output.
	LogJSON bool
	// Telemetry enables OpenTelemetry spans around reloads.
	Telemetry bool
}

// moltfile is the YAML shape of the configuration file.
type moltfile struct {
	Interval string `yaml:"interval"`
	Log      struct {
		JSON bool `yaml:"json"`
	} `yaml:"log"`
	Telemetry struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"telemetry"`
}

// Loader reads moltfiles.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration file nearest to cwd, walking up parent
// directories until one is found.
func (l *Loader) Load(cwd string) (*Config, error) {
	path, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(path)
}

// LoadFile reads and validates a specific configuration file.
func (l *Loader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.With(domain.ErrConfigReadFailed, "path", path), "cause", err.Error())
	}

	var file moltfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.With(domain.ErrConfigParseFailed, "path", path), "cause", err.Error())
	}

	cfg := &Config{
		Interval:  time.Second,
		LogJSON:   file.Log.JSON,
		Telemetry: file.Telemetry.Enabled,
	}

	if file.Interval != "" {
		interval, err := time.ParseDuration(file.Interval)
		if err != nil {
			return nil, zerr.With(zerr.With(domain.ErrConfigParseFailed, "path", path), "interval", file.Interval)
		}
		if interval <= 0 {
			return nil, zerr.With(zerr.With(domain.ErrInvalidInterval, "path", path), "interval", file.Interval)
		}
		cfg.Interval = interval
	}

	l.Logger.Debug("configuration loaded", "path", path, "interval", cfg.Interval.String())
	return cfg, nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd

	for {
		path := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}
