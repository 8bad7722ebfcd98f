package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"example.com/fc2csv/internal/common"
	"example.com/fc2csv/internal/layout"
)

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

type ReportConfig struct {
	Summary  string `yaml:"summary"`
	PDF      string `yaml:"pdf"`
	Manifest string `yaml:"manifest"`
	Rejects  string `yaml:"rejects"`
}

// Config is the optional fc2csv configuration file.
type Config struct {
	OutDir     string       `yaml:"outDir"`
	Layout     string       `yaml:"layout"`
	Timezone   string       `yaml:"timezone"`
	RecordSize int          `yaml:"recordSize"`
	Logs       LogConfig    `yaml:"logs"`
	Reports    ReportConfig `yaml:"reports"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML configuration. Relative paths are resolved against the
// directory holding the file.
func Load(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	baseDir := filepath.Dir(path)
	resolvePath := func(p string) string {
		p = strings.TrimSpace(p)
		if p == "" {
			return ""
		}
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Clean(filepath.Join(baseDir, p))
	}
	cfg.OutDir = resolvePath(cfg.OutDir)
	cfg.Layout = resolvePath(cfg.Layout)
	cfg.Logs.File = resolvePath(cfg.Logs.File)
	cfg.Reports.Summary = resolvePath(cfg.Reports.Summary)
	cfg.Reports.PDF = resolvePath(cfg.Reports.PDF)
	cfg.Reports.Manifest = resolvePath(cfg.Reports.Manifest)
	cfg.Reports.Rejects = resolvePath(cfg.Reports.Rejects)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutDir == "" {
		c.OutDir = "."
	}
	if c.RecordSize == 0 {
		c.RecordSize = layout.RecordSize
	}
	if c.Logs.MaxSizeMB <= 0 {
		c.Logs.MaxSizeMB = 25
	}
	if c.Logs.MaxAgeDays <= 0 {
		c.Logs.MaxAgeDays = 7
	}
	if c.Logs.MaxBackups <= 0 {
		c.Logs.MaxBackups = 5
	}
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.RecordSize != layout.RecordSize {
		return fmt.Errorf("recordSize %d not supported, records are %d bytes", c.RecordSize, layout.RecordSize)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := common.ParseLevel(c.Logs.Level); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone of file name time stamps.
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	switch strings.ToLower(tz) {
	case "", "local":
		return time.Local, nil
	case "utc":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Table loads the configured field table, or the built-in Atom2 table.
func (c Config) Table() (*layout.Table, error) {
	if c.Layout == "" {
		return layout.Atom2()
	}
	return layout.Load(c.Layout)
}

// FileSink returns the rotating log file settings, or false when logging
// to a file is disabled.
func (c Config) FileSink() (common.FileSink, bool) {
	if c.Logs.File == "" {
		return common.FileSink{}, false
	}
	return common.FileSink{
		Path:       c.Logs.File,
		MaxSizeMB:  c.Logs.MaxSizeMB,
		MaxAgeDays: c.Logs.MaxAgeDays,
		MaxBackups: c.Logs.MaxBackups,
		Compress:   c.Logs.Compress,
	}, true
}
