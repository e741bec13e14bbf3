// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the doxysearch configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvDataDir overrides the data directories. It may hold several paths
	// separated by the OS path list separator.
	EnvDataDir = "DOXYSEARCH_DATA_DIR"

	// EnvLogLevel overrides the log level.
	EnvLogLevel = "DOXYSEARCH_LOG_LEVEL"
)

// Config holds all doxysearch configuration.
type Config struct {
	// DataDirs are searched for Doxygen search directories in addition to
	// the defaults.
	DataDirs []string `yaml:"data_dirs"`

	// IndexPages includes linked page text in full-text search.
	IndexPages bool `yaml:"index_pages"`

	Log   LogConfig   `yaml:"log"`
	Serve ServeConfig `yaml:"serve"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days"`
}

// ServeConfig configures the MCP server.
type ServeConfig struct {
	// Watch reloads search directories when they change.
	Watch bool `yaml:"watch"`

	// Debounce is the quiet period after a change before reloading.
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Serve: ServeConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// DefaultPath returns the default configuration file path,
// $XDG_CONFIG_HOME/doxysearch/config.yaml or the OS equivalent.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "doxysearch", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override values from the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %q: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if cfg.Serve.Debounce < 0 {
		return nil, fmt.Errorf("parsing config %q: negative serve.debounce %v", path, cfg.Serve.Debounce)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dirs := os.Getenv(EnvDataDir); dirs != "" {
		c.DataDirs = append(c.DataDirs, filepath.SplitList(dirs)...)
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}
