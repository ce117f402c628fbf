package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type (
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	}

	MSR struct {
		// Device is a printf template with one %d for the core index.
		Device string `yaml:"device"`
	}

	Output struct {
		Format string `yaml:"format"`
	}

	Config struct {
		Log    Log    `yaml:"log"`
		MSR    MSR    `yaml:"msr"`
		Output Output `yaml:"output"`
	}
)

const (
	// Flags
	ConfigFlag       = "config"
	LogLevelFlag     = "log.level"
	LogFormatFlag    = "log.format"
	MSRDeviceFlag    = "msr.device"
	OutputFormatFlag = "output"

	// DefaultPath is read when --config is not given. It may be absent.
	DefaultPath = "/etc/turboctl/config.yaml"
)

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		MSR: MSR{
			Device: "/dev/cpu/%d/msr",
		},
		Output: Output{
			Format: "text",
		},
	}
}

// Load loads configuration from an io.Reader
func Load(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.sanitize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromFile loads configuration from a file
func FromFile(filePath string) (*Config, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Load(file)
}

// FromFileOrDefault is FromFile, except that a missing file yields the
// default configuration.
func FromFileOrDefault(filePath string) (*Config, error) {
	cfg, err := FromFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

type ConfigUpdaterFn func(*Config) error

// RegisterFlags adds the configuration flags to fs. The returned function
// copies the flags the user actually set over cfg, so flags win over the
// file and the file wins over defaults.
func RegisterFlags(fs *pflag.FlagSet) ConfigUpdaterFn {
	def := DefaultConfig()
	logLevel := fs.String(LogLevelFlag, def.Log.Level, "Logging level: debug, info, warn, error")
	logFormat := fs.String(LogFormatFlag, def.Log.Format, "Logging format: text or json")
	device := fs.String(MSRDeviceFlag, def.MSR.Device, "MSR device path template, %d is replaced by the core index")
	output := fs.StringP(OutputFormatFlag, "o", def.Output.Format, "Report format: text or json")

	return func(cfg *Config) error {
		if fs.Changed(LogLevelFlag) {
			cfg.Log.Level = *logLevel
		}
		if fs.Changed(LogFormatFlag) {
			cfg.Log.Format = *logFormat
		}
		if fs.Changed(MSRDeviceFlag) {
			cfg.MSR.Device = *device
		}
		if fs.Changed(OutputFormatFlag) {
			cfg.Output.Format = *output
		}

		cfg.sanitize()
		return cfg.Validate()
	}
}

func (c *Config) sanitize() {
	c.Log.Level = strings.TrimSpace(c.Log.Level)
	c.Log.Format = strings.TrimSpace(c.Log.Format)
	c.MSR.Device = strings.TrimSpace(c.MSR.Device)
	c.Output.Format = strings.TrimSpace(c.Output.Format)
}

func (c *Config) Validate() error {
	var errs []string
	{ // log level
		validLogLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if _, valid := validLogLevels[c.Log.Level]; !valid {
			errs = append(errs, fmt.Sprintf("invalid log level: %s", c.Log.Level))
		}
	}
	{ // log format
		validFormats := map[string]bool{
			"text": true,
			"json": true,
		}
		if _, valid := validFormats[c.Log.Format]; !valid {
			errs = append(errs, fmt.Sprintf("invalid log format: %s", c.Log.Format))
		}
	}
	{ // msr device
		if strings.Count(c.MSR.Device, "%d") != 1 || strings.Count(c.MSR.Device, "%") != 1 {
			errs = append(errs, fmt.Sprintf("invalid msr device template: %q needs exactly one %%d", c.MSR.Device))
		}
	}
	{ // output format
		if c.Output.Format != "text" && c.Output.Format != "json" {
			errs = append(errs, fmt.Sprintf("invalid output format: %s", c.Output.Format))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, ", "))
	}

	return nil
}

func (c *Config) String() string {
	bytes, err := yaml.Marshal(c)
	if err == nil {
		return string(bytes)
	}
	return fmt.Sprintf("%s: %s\n%s: %s\n%s: %s\n%s: %s\n",
		LogLevelFlag, c.Log.Level,
		LogFormatFlag, c.Log.Format,
		MSRDeviceFlag, c.MSR.Device,
		OutputFormatFlag, c.Output.Format)
}
