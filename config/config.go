// Package config loads and saves the assembler's optional asm.toml project
// file: compression/entry/padding knobs, output format selection, and
// diagnostic verbosity.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds every asm.toml-configurable knob.
type Config struct {
	Assemble struct {
		Compress bool   `toml:"compress"`
		Entry    string `toml:"entry"`
		PadTo    int    `toml:"pad_to"`
	} `toml:"assemble"`

	Output struct {
		Format  string `toml:"format"` // bin | hex
		Listing bool   `toml:"listing"`
	} `toml:"output"`

	Diagnostics struct {
		WarnUnusedLabels bool `toml:"warn_unused_labels"`
		WarnUnusedConsts bool `toml:"warn_unused_consts"`
		Color            bool `toml:"color"`
	} `toml:"diagnostics"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assemble.Compress = false
	cfg.Assemble.Entry = "0x00000000"
	cfg.Assemble.PadTo = 0

	cfg.Output.Format = "bin"
	cfg.Output.Listing = false

	cfg.Diagnostics.WarnUnusedLabels = true
	cfg.Diagnostics.WarnUnusedConsts = true
	cfg.Diagnostics.Color = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path:
// ~/.config/rv32asm/asm.toml on darwin/linux, %APPDATA%\rv32asm\asm.toml on
// windows.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rv32asm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "asm.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rv32asm")

	default:
		return "asm.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "asm.toml"
	}

	return filepath.Join(configDir, "asm.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path. A missing file is not an error --
// it returns DefaultConfig() unchanged.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user-supplied config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
