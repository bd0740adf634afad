package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"romkit/domain/audio"
	"romkit/domain/naming"
	"romkit/infrastructure/unpack"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when --config is not given
const DefaultPath = "romkit.yaml"

// Config represents the complete application configuration
type Config struct {
	Tools   ToolsConfig   `yaml:"tools"`
	Convert ConvertConfig `yaml:"convert"`
	Rename  RenameConfig  `yaml:"rename"`
}

// ToolsConfig names the external executables; a bare name is resolved through PATH
type ToolsConfig struct {
	FFmpeg   string `yaml:"ffmpeg"`
	FFprobe  string `yaml:"ffprobe"`
	SevenZip string `yaml:"7z"`
	Unrar    string `yaml:"unrar"`
	BSDTar   string `yaml:"bsdtar"`
	Tar      string `yaml:"tar"`
}

// ConvertConfig contains audio conversion settings
type ConvertConfig struct {
	Channels          int     `yaml:"channels"`
	SampleRate        int     `yaml:"sample_rate"`
	DurationTolerance float64 `yaml:"duration_tolerance"`
}

// RenameConfig contains filename sanitizer settings
type RenameConfig struct {
	MaxLength int `yaml:"max_length"`
}

// Default returns the built-in configuration
func Default() *Config {
	tools := unpack.DefaultTools()
	return &Config{
		Tools: ToolsConfig{
			FFmpeg:   "ffmpeg",
			FFprobe:  "ffprobe",
			SevenZip: tools.SevenZip,
			Unrar:    tools.Unrar,
			BSDTar:   tools.BSDTar,
			Tar:      tools.Tar,
		},
		Convert: ConvertConfig{
			Channels:          audio.DefaultChannels,
			SampleRate:        0,
			DurationTolerance: audio.DefaultDurationTolerance,
		},
		Rename: RenameConfig{
			MaxLength: naming.DefaultMaxLength,
		},
	}
}

// Load reads the configuration from the specified YAML file.
// Values missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the numeric settings
func (c *Config) Validate() error {
	if c.Convert.Channels < 1 {
		return fmt.Errorf("convert.channels must be positive, got %d", c.Convert.Channels)
	}
	if c.Convert.SampleRate < 0 {
		return fmt.Errorf("convert.sample_rate must not be negative, got %d", c.Convert.SampleRate)
	}
	if c.Convert.DurationTolerance < 0 {
		return fmt.Errorf("convert.duration_tolerance must not be negative, got %g", c.Convert.DurationTolerance)
	}
	if c.Rename.MaxLength < 1 {
		return fmt.Errorf("rename.max_length must be positive, got %d", c.Rename.MaxLength)
	}
	return nil
}

// UnpackTools returns the extractor executables for the archive registry
func (c *Config) UnpackTools() unpack.Tools {
	return unpack.Tools{
		SevenZip: c.Tools.SevenZip,
		Unrar:    c.Tools.Unrar,
		BSDTar:   c.Tools.BSDTar,
		Tar:      c.Tools.Tar,
	}
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
