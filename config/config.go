// Package config provides configuration loading for the packfs binary.
//
// Configuration is loaded from a single YAML file specified by:
//   - PACKFS_CONFIG environment variable, or
//   - --config flag passed to the command
//
// Values not present in the file keep their defaults. Command line flags
// are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mwantia/packfs/log"
	"github.com/mwantia/packfs/mounter"
	"gopkg.in/yaml.v3"
)

// Config is the complete configuration of a packfs run.
type Config struct {
	// Game configures where the packages are read from.
	Game GameConfig `yaml:"game"`

	// Mount configures how packages are mounted.
	Mount MountConfig `yaml:"mount"`

	// Index configures the optional namespace export.
	Index IndexConfig `yaml:"index"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// GameConfig configures the package directory.
type GameConfig struct {
	// Path is the local package directory.
	Path string `yaml:"path"`

	// Source is a source address (s3://, consul://, local://) and takes
	// precedence over Path.
	Source string `yaml:"source"`

	// Extracted serves Path as a single extracted package instead of
	// mounting the package files found in it.
	Extracted bool `yaml:"extracted"`

	// BootScript is the logical path of the script handed to the runner.
	// Default: /system/boot.lua
	BootScript string `yaml:"boot_script"`
}

// MountConfig configures the package mount sequence.
type MountConfig struct {
	// Root is the logical path all packages are mounted at.
	// Default: /
	Root string `yaml:"root"`

	// MainPackage is the mandatory package mounted first.
	// Default: data.b25c
	MainPackage string `yaml:"main_package"`

	// PatchPattern selects patch packages ('#' matches a digit).
	// Default: patch###.b25c
	PatchPattern string `yaml:"patch_pattern"`

	// LanguagePattern selects language packages.
	// Default: lang_*.b25c
	LanguagePattern string `yaml:"language_pattern"`
}

// IndexConfig configures the namespace export.
type IndexConfig struct {
	// Address of the index store (sqlite://, postgres://). Empty disables the export.
	Address string `yaml:"address"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error, fatal.
	// Default: info
	Level string `yaml:"level"`

	// File enables a rotated log file.
	File string `yaml:"file"`

	// NoTerminal disables terminal output.
	NoTerminal bool `yaml:"no_terminal"`

	// JSON switches to JSON formatted log lines.
	JSON bool `yaml:"json"`
}

// Default returns the configuration used for values missing in the file.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			BootScript: "/system/boot.lua",
		},
		Mount: MountConfig{
			Root:            "/",
			MainPackage:     mounter.DefaultMainPackage,
			PatchPattern:    mounter.DefaultPatchPattern,
			LanguagePattern: mounter.DefaultLanguagePattern,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the PACKFS_CONFIG environment variable.
// Without PACKFS_CONFIG the defaults are returned.
func Load() (*Config, error) {
	configPath := os.Getenv("PACKFS_CONFIG")
	if configPath == "" {
		return Default(), nil
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
// ${HOME} and other environment variables are expanded in paths.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", path, err)
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Game.Path = expandVars(c.Game.Path, vars)
	c.Game.Source = expandVars(c.Game.Source, vars)
	c.Index.Address = expandVars(c.Index.Address, vars)
	c.Log.File = expandVars(c.Log.File, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// SourceAddress returns the address the packages are read from.
func (c *Config) SourceAddress() string {
	if c.Game.Source != "" {
		return c.Game.Source
	}

	return c.Game.Path
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() log.LogLevel {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.Info
	}

	return level
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.SourceAddress() == "" {
		errs = append(errs, fmt.Errorf("game.path or game.source is required"))
	}

	if c.Game.Extracted && c.Game.Path == "" {
		errs = append(errs, fmt.Errorf("game.extracted requires game.path"))
	}

	if c.Game.BootScript == "" {
		errs = append(errs, fmt.Errorf("game.boot_script is required"))
	}

	if !strings.HasPrefix(c.Mount.Root, "/") {
		errs = append(errs, fmt.Errorf("mount.root must be absolute: %q", c.Mount.Root))
	}

	if c.Mount.MainPackage == "" || strings.ContainsAny(c.Mount.MainPackage, `/\`) {
		errs = append(errs, fmt.Errorf("mount.main_package must be a file name: %q", c.Mount.MainPackage))
	}

	if c.Mount.PatchPattern == "" {
		errs = append(errs, fmt.Errorf("mount.patch_pattern is required"))
	}

	if c.Mount.LanguagePattern == "" {
		errs = append(errs, fmt.Errorf("mount.language_pattern is required"))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}
