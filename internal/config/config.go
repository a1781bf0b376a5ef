// Package config loads the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-html2pdf/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config file exceeds maximum size")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxFileSize limits config input to prevent memory exhaustion.
const MaxFileSize = 1 << 20

// appDir is the per-user config subdirectory.
const appDir = "go-html2pdf"

// Field limits.
const (
	MaxPathLength    = 4096 // PATH_MAX on Linux
	MaxCommandLength = 4096
	MaxNameLength    = 100
	MaxWorkers       = 256
	MaxDPI           = 2400
	MaxLevel         = 9
)

// Defaults.
const (
	DefaultTimeout     = 2 * time.Minute
	DefaultNetworkIdle = 500 * time.Millisecond
	DefaultDPI         = 300
	DefaultLevel       = 9
)

// Config holds all configuration for a conversion.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Transcode TranscodeConfig `yaml:"transcode"`
	Reduce    ReduceConfig    `yaml:"reduce"`
	Output    OutputConfig    `yaml:"output"`
	Browser   BrowserConfig   `yaml:"browser"`
}

// RenderConfig controls page loading and measurement.
type RenderConfig struct {
	Timeout        string `yaml:"timeout"`        // Go duration, whole conversion
	NetworkIdle    string `yaml:"networkIdle"`    // Go duration with no in-flight request
	StrictGeometry bool   `yaml:"strictGeometry"` // fail instead of emitting a 0x0 page
}

// TranscodeConfig controls image interception.
type TranscodeConfig struct {
	Enabled bool `yaml:"enabled"`
	Workers int  `yaml:"workers"` // 0 = GOMAXPROCS
	Level   int  `yaml:"level"`   // lossless effort, 0-9
}

// ReduceConfig controls the size-reduction step.
type ReduceConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Command    string `yaml:"command"`    // empty = run Script with sh
	Script     string `yaml:"script"`     // script name, default shrinkpdf
	ScriptsDir string `yaml:"scriptsDir"` // custom {dir}/scripts/{name}.sh
	DPI        int    `yaml:"dpi"`
}

// OutputConfig defines where PDFs are written.
type OutputConfig struct {
	Dir string `yaml:"dir"` // empty = current directory
}

// BrowserConfig selects and launches the headless browser.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`       // empty = auto-detect or download
	NoSandbox bool   `yaml:"noSandbox"` // required in most containers
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Timeout:     DefaultTimeout.String(),
			NetworkIdle: DefaultNetworkIdle.String(),
		},
		Transcode: TranscodeConfig{Enabled: true, Level: DefaultLevel},
		Reduce:    ReduceConfig{Enabled: true, DPI: DefaultDPI},
	}
}

// Validate checks ranges, durations and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	timeout, err := parseDuration("render.timeout", c.Render.Timeout)
	if err != nil {
		return err
	}
	if timeout <= 0 && c.Render.Timeout != "" {
		return fmt.Errorf("%w: render.timeout must be positive, got %s", ErrInvalidValue, c.Render.Timeout)
	}
	if _, err := parseDuration("render.networkIdle", c.Render.NetworkIdle); err != nil {
		return err
	}

	if c.Transcode.Workers < 0 || c.Transcode.Workers > MaxWorkers {
		return fmt.Errorf("%w: transcode.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Transcode.Workers)
	}
	if c.Transcode.Level < 0 || c.Transcode.Level > MaxLevel {
		return fmt.Errorf("%w: transcode.level must be between 0 and %d, got %d", ErrInvalidValue, MaxLevel, c.Transcode.Level)
	}

	if c.Reduce.DPI < 1 || c.Reduce.DPI > MaxDPI {
		return fmt.Errorf("%w: reduce.dpi must be between 1 and %d, got %d", ErrInvalidValue, MaxDPI, c.Reduce.DPI)
	}
	if err := validateFieldLength("reduce.command", c.Reduce.Command, MaxCommandLength); err != nil {
		return err
	}
	if err := validateFieldLength("reduce.script", c.Reduce.Script, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("reduce.scriptsDir", c.Reduce.ScriptsDir, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	return validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength)
}

// TimeoutDuration returns render.timeout, or DefaultTimeout when unset or invalid.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := parseDuration("render.timeout", c.Render.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// NetworkIdleDuration returns render.networkIdle, or DefaultNetworkIdle
// when unset or invalid. Zero is honoured.
func (c *Config) NetworkIdleDuration() time.Duration {
	if c.Render.NetworkIdle == "" {
		return DefaultNetworkIdle
	}
	d, err := parseDuration("render.networkIdle", c.Render.NetworkIdle)
	if err != nil || d < 0 {
		return DefaultNetworkIdle
	}
	return d
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidValue, field, value)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxFileSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists, in lookup order, the files a config name resolves to:
// <name>.yaml and <name>.yml in the current directory, then in
// <user config dir>/go-html2pdf/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing SearchPaths entry.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
