// Package config holds the dashboard configuration: YAML file, defaults and
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/dataset"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
)

// DefaultPath is where the CLI looks for a config file.
const DefaultPath = "diamonds.yaml"

// Config holds all dashboard configuration.
type Config struct {
	Name string `yaml:"name"`

	Dataset   DatasetConfig   `yaml:"dataset"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Server    Server          `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatasetConfig configures the loader.
type DatasetConfig struct {
	Path    string            `yaml:"path"`
	Sheet   string            `yaml:"sheet,omitempty"`
	Derived []dataset.Product `yaml:"derived"`
}

// DashboardConfig configures the query layer.
type DashboardConfig struct {
	RangeColumn    string   `yaml:"range_column"`
	CategoryColumn string   `yaml:"category_column"`
	TargetMeasure  string   `yaml:"target_measure"`
	Bins           int      `yaml:"bins"`
	HeadRows       int      `yaml:"head_rows"`
	InclusiveHigh  bool     `yaml:"inclusive_high"`
	CountAxisMax   float64  `yaml:"count_axis_max"`
	CountAxisTick  float64  `yaml:"count_axis_tick"`
	Palette        []string `yaml:"palette,omitempty"`
	RandomColors   bool     `yaml:"random_colors"`
}

// Server configures the HTTP dashboard.
type Server struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	ChartWidth      int    `yaml:"chart_width"`
	ChartHeight     int    `yaml:"chart_height"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "Diamonds",

		Dataset: DatasetConfig{
			Path:    "data/diamonds.csv",
			Derived: []dataset.Product{dataset.Volume},
		},

		Dashboard: DashboardConfig{
			RangeColumn:    engine.DefaultRangeColumn,
			CategoryColumn: engine.DefaultCategoryColumn,
			TargetMeasure:  engine.DefaultTargetMeasure,
			Bins:           engine.DefaultBins,
			HeadRows:       engine.DefaultHeadRows,
			CountAxisMax:   5000,
			CountAxisTick:  500,
		},

		Server: Server{
			Addr:            ":8050",
			ReadTimeout:     "10s",
			WriteTimeout:    "30s",
			ShutdownTimeout: "10s",
			ChartWidth:      900,
			ChartHeight:     420,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("DIAMONDS_DATA"); path != "" {
		c.Dataset.Path = path
	}
	if addr := os.Getenv("DIAMONDS_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("DIAMONDS_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
}

// GetReadTimeout returns the server read timeout as a duration.
func (s Server) GetReadTimeout() time.Duration {
	return parseDuration(s.ReadTimeout, 10*time.Second)
}

// GetWriteTimeout returns the server write timeout as a duration.
func (s Server) GetWriteTimeout() time.Duration {
	return parseDuration(s.WriteTimeout, 30*time.Second)
}

// GetShutdownTimeout returns the graceful shutdown budget as a duration.
func (s Server) GetShutdownTimeout() time.Duration {
	return parseDuration(s.ShutdownTimeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ValidLevels lists the accepted logging levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// ValidFormats lists the accepted logging encoders.
var ValidFormats = []string{"json", "console"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path not configured (set dataset.path or DIAMONDS_DATA)")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server address not configured")
	}
	if c.Dashboard.RangeColumn == "" || c.Dashboard.CategoryColumn == "" {
		return fmt.Errorf("dashboard range_column and category_column are required")
	}
	if c.Dashboard.Bins < 1 {
		return fmt.Errorf("invalid bins: %d (must be >= 1)", c.Dashboard.Bins)
	}
	if c.Dashboard.HeadRows < 1 {
		return fmt.Errorf("invalid head_rows: %d (must be >= 1)", c.Dashboard.HeadRows)
	}
	for _, p := range c.Dataset.Derived {
		if p.Name == "" {
			return fmt.Errorf("derived column without a name")
		}
	}
	if !contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if !contains(ValidFormats, c.Logging.Format) {
		return fmt.Errorf("invalid logging format: %s (valid: %v)", c.Logging.Format, ValidFormats)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// LoaderOptions maps the dataset section onto loader options.
func (c *Config) LoaderOptions() dataset.Options {
	return dataset.Options{
		Name:    c.Name,
		Sheet:   c.Dataset.Sheet,
		Derived: c.Dataset.Derived,
	}
}

// EngineOptions maps the dashboard section onto engine options.
func (c *Config) EngineOptions() []engine.Option {
	d := c.Dashboard
	opts := []engine.Option{
		engine.WithRangeColumn(d.RangeColumn),
		engine.WithCategoryColumn(d.CategoryColumn),
		engine.WithTargetMeasure(d.TargetMeasure),
		engine.WithBins(d.Bins),
		engine.WithHeadRows(d.HeadRows),
		engine.WithInclusiveUpperBound(d.InclusiveHigh),
		engine.WithCountAxis(0, d.CountAxisMax, d.CountAxisTick),
	}
	if len(d.Palette) > 0 {
		opts = append(opts, engine.WithPalette(d.Palette...))
	}
	if d.RandomColors {
		opts = append(opts, engine.WithRandomColors(nil))
	}
	return opts
}
