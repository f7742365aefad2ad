/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/ssargent/bytevec/pkg/bytevec"
	"gopkg.in/yaml.v3"
)

// DefaultMaxDecodeSize caps decode input at 16 MiB unless configured otherwise.
const DefaultMaxDecodeSize = 16 << 20

// Output formats for decoded values.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatCBOR = "cbor"
	FormatHex  = "hex"
)

// Config represents the bytevec tool configuration
type Config struct {
	SizeType      string  `yaml:"size_type" toml:"size_type"`
	MaxDecodeSize uint64  `yaml:"max_decode_size" toml:"max_decode_size"`
	Output        Output  `yaml:"output" toml:"output"`
	Codegen       Codegen `yaml:"codegen" toml:"codegen"`
	Storage       Storage `yaml:"storage" toml:"storage"`
	Logging       Logging `yaml:"logging" toml:"logging"`
}

// Output controls how decoded values are printed
type Output struct {
	Format string `yaml:"format" toml:"format"`
}

// Codegen contains defaults for bytevec gen
type Codegen struct {
	// Package overrides the schema's package name when set.
	Package string `yaml:"package" toml:"package"`
	// Suffix is appended to the schema file's base name to name the output.
	Suffix string `yaml:"suffix" toml:"suffix"`
}

// Storage contains the encoded value store configuration
type Storage struct {
	DataDir string `yaml:"data_dir" toml:"data_dir"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level" toml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		SizeType:      "u32",
		MaxDecodeSize: DefaultMaxDecodeSize,
		Output: Output{
			Format: FormatYAML,
		},
		Codegen: Codegen{
			Suffix: "_bytevec.go",
		},
		Storage: Storage{
			DataDir: "./data",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Width returns the configured size type.
func (c *Config) Width() (bytevec.Width, error) {
	return bytevec.ParseWidth(c.SizeType)
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	if _, err := c.Width(); err != nil {
		return fmt.Errorf("invalid size_type: %w", err)
	}
	if c.MaxDecodeSize == 0 {
		return fmt.Errorf("max_decode_size must be positive")
	}
	switch c.Output.Format {
	case FormatYAML, FormatJSON, FormatCBOR, FormatHex:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if c.Codegen.Suffix != "" && !strings.HasSuffix(c.Codegen.Suffix, ".go") {
		return fmt.Errorf("codegen suffix %q must end in .go", c.Codegen.Suffix)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadConfig loads configuration from the specified path. Fields the file
// leaves out keep their defaults. Files ending in .toml are read as TOML,
// anything else as YAML.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isTOML(configPath) {
		err = toml.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	if isTOML(configPath) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(config); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./bytevec.yaml"
	}

	// For Linux/macOS, use ~/.config/bytevec/config.yaml
	configDir := filepath.Join(homeDir, ".config", "bytevec")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
