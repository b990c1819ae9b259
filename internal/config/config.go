package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given explicitly.
const DefaultPath = "gaussblur.yaml"

type Config struct {
	InputPath      string        `yaml:"-"`
	OutputPath     string        `yaml:"-"`
	Workers        int           `yaml:"workers"`
	Border         string        `yaml:"border"`
	JPEGQuality    int           `yaml:"jpeg_quality"`
	PNGCompression string        `yaml:"png_compression"`
	PDF            PDFConfig     `yaml:"pdf"`
	Logging        LoggingConfig `yaml:"logging"`
}

// PDFConfig controls how a PDF input is rasterized.
type PDFConfig struct {
	Page int `yaml:"page"`
	DPI  int `yaml:"dpi"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stderr, stdout
}

// Default returns the configuration used when no file is present.
// Workers == 0 means "pick from the host".
func Default() *Config {
	return &Config{
		InputPath:      "input.jpg",
		OutputPath:     "output.jpg",
		Border:         "reflect101",
		JPEGQuality:    95,
		PNGCompression: "default",
		PDF: PDFConfig{
			Page: 0,
			DPI:  150,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads a YAML config on top of Default. A missing file at
// DefaultPath is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg as YAML at path.
func Write(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	switch strings.ToLower(c.Border) {
	case "reflect101", "replicate", "reflect":
	default:
		return fmt.Errorf("unknown border mode %q", c.Border)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be in [1,100], got %d", c.JPEGQuality)
	}
	switch strings.ToLower(c.PNGCompression) {
	case "default", "none", "speed", "best":
	default:
		return fmt.Errorf("unknown png_compression %q", c.PNGCompression)
	}
	if c.PDF.Page < 0 {
		return fmt.Errorf("pdf.page must be >= 0, got %d", c.PDF.Page)
	}
	if c.PDF.DPI <= 0 {
		return fmt.Errorf("pdf.dpi must be > 0, got %d", c.PDF.DPI)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	return nil
}
