package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors for config management
var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrEmptyPath   = errors.New("tool path is required")
)

// ConfigManager provides list and update operations for config entries
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Tool represents a configured executable
type Tool struct {
	Name string
	Path string
}

func (m *ConfigManager) toolFields() map[string]*string {
	t := &m.config.Tools
	return map[string]*string{
		"ffmpeg":  &t.FFmpeg,
		"ffprobe": &t.FFprobe,
		"7z":      &t.SevenZip,
		"unrar":   &t.Unrar,
		"bsdtar":  &t.BSDTar,
		"tar":     &t.Tar,
	}
}

// ToolNames returns the names accepted by SetTool
func (m *ConfigManager) ToolNames() []string {
	fields := m.toolFields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListTools returns all tools sorted by name
func (m *ConfigManager) ListTools() []Tool {
	fields := m.toolFields()
	result := make([]Tool, 0, len(fields))
	for _, name := range m.ToolNames() {
		result = append(result, Tool{Name: name, Path: *fields[name]})
	}
	return result
}

// SetTool points a tool at a different executable and saves the config
func (m *ConfigManager) SetTool(name, path string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	path = strings.TrimSpace(path)

	field, ok := m.toolFields()[name]
	if !ok {
		return fmt.Errorf("%w: %q (known: %s)", ErrUnknownTool, name, strings.Join(m.ToolNames(), ", "))
	}
	if path == "" {
		return fmt.Errorf("%w: %s", ErrEmptyPath, name)
	}

	*field = path
	return Save(m.config, m.configPath)
}
