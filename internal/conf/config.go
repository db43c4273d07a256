package conf

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultPath is the main configuration file of hcp.
	DefaultPath = "/etc/hcp/config.toml"
	// DefaultDropInDir holds drop-in files applied after DefaultPath.
	DefaultDropInDir = "/etc/hcp/config.toml.d/"
)

func init() {
	sources := &ConfigSource{
		Path:      DefaultPath,
		DropInDir: DefaultDropInDir,
	}
	config, err := sources.Read()
	if err != nil {
		config = Defaults()
	}
	Configuration = config
}

// defaultConfig contains the embedded default configuration file.
// This file is compiled into the binary and serves as the base layer
// of configuration before /etc/hcp/config.toml and drop-in files are applied.
//
//go:embed default.toml
var defaultConfig string

// Configuration is the global immutable state.
var Configuration Config

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config represents the immutable public configuration object.
type Config struct {
	LogLevel  slog.Level
	LogFormat string
	Journal   bool
	Validate  bool
	Cache     bool
}

// Defaults returns the configuration described by the embedded defaults.
func Defaults() Config {
	var c Config
	dto, err := parseConfigDTO(defaultConfig)
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded defaults: %v", err))
	}
	c.Update(dto)
	return c
}

// Update applies non-nil values from a configDTO.
func (c *Config) Update(dto configDTO) {
	if dto.LogLevel != nil {
		if level, ok := ParseLevel(*dto.LogLevel); ok {
			c.LogLevel = level
		}
	}
	if dto.LogFormat != nil {
		switch strings.ToLower(*dto.LogFormat) {
		case FormatText:
			c.LogFormat = FormatText
		case FormatJSON:
			c.LogFormat = FormatJSON
		}
	}
	if dto.Journal != nil {
		c.Journal = *dto.Journal
	}
	if dto.Validate != nil {
		c.Validate = *dto.Validate
	}
	if dto.Cache != nil {
		c.Cache = *dto.Cache
	}
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// ConfigSource orchestrates loading configuration from multiple sources.
// See the Read method.
type ConfigSource struct {
	Path      string
	DropInDir string
}

// Read loads and returns the complete Config by merging all layers:
// 1. Embedded defaults
// 2. Main configuration file
// 3. Drop-in files
func (cs *ConfigSource) Read() (Config, error) {
	resolved := Config{}

	dto, err := parseConfigDTO(defaultConfig)
	if err != nil {
		slog.Error("failed to parse embedded defaults", "error", err)
		return resolved, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	resolved.Update(dto)

	data, err := os.ReadFile(cs.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			// Existing but unreadable file should result in failure.
			return resolved, fmt.Errorf("failed to load %s: %w", cs.Path, err)
		}
	} else {
		mainDTO, err := parseConfigDTO(string(data))
		if err != nil {
			return resolved, fmt.Errorf("failed to parse %s: %w", cs.Path, err)
		}
		resolved.Update(mainDTO)
	}

	dropInDTOs, err := cs.parseDropInFiles()
	if err != nil {
		slog.Error("failed to load drop-in files", "error", err, "dir", cs.DropInDir)
		return resolved, err
	}
	for _, dropInDTO := range dropInDTOs {
		resolved.Update(dropInDTO)
	}

	return resolved, nil
}

type configDTO struct {
	LogLevel  *string `toml:"log-level"`
	LogFormat *string `toml:"log-format"`
	Journal   *bool   `toml:"journal"`
	Validate  *bool   `toml:"validate"`
	Cache     *bool   `toml:"cache"`
}

// parseConfigDTO parses a TOML string into a configDTO.
func parseConfigDTO(data string) (configDTO, error) {
	var dto configDTO

	if err := toml.Unmarshal([]byte(data), &dto); err != nil {
		return dto, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return dto, nil
}

// findDropInFiles returns the drop-in files in lexical order, or nil if the
// drop-in directory does not exist.
func (cs *ConfigSource) findDropInFiles() ([]string, error) {
	if cs.DropInDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(cs.DropInDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read drop-in directory %s: %w", cs.DropInDir, err)
	}

	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		filenames = append(filenames, filepath.Join(cs.DropInDir, entry.Name()))
	}
	sort.Strings(filenames)

	return filenames, nil
}

// parseDropInFiles loads .toml files.
func (cs *ConfigSource) parseDropInFiles() ([]configDTO, error) {
	paths, err := cs.findDropInFiles()
	if err != nil {
		return nil, err
	}

	var dtos []configDTO
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		dto, err := parseConfigDTO(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		dtos = append(dtos, dto)
	}

	return dtos, nil
}
