package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	appName  = "shelf"
	fileName = "shelf.yml"
)

// ProjectGroup describes where to scan for repositories and how to label them.
type ProjectGroup struct {
	Root string `yaml:"root" toml:"root"`
	// Exclude holds regular expressions matched against full directory paths.
	Exclude []string `yaml:"exclude" toml:"exclude"`
	Title   string   `yaml:"title" toml:"title"`
	// Extract is a regular expression whose first capture group is the title.
	Extract string `yaml:"extract" toml:"extract"`
	// Recurse scans inside every discovered repository with this group as template.
	Recurse bool `yaml:"recurse" toml:"recurse"`
}

// ManualDirectory is offered as a candidate without scanning.
type ManualDirectory struct {
	Path  string `yaml:"path" toml:"path"`
	Label string `yaml:"label" toml:"label"`
}

// Config holds the shelf configuration
type Config struct {
	Projects    []ProjectGroup    `yaml:"projects" toml:"projects"`
	Directories []ManualDirectory `yaml:"directories" toml:"directories"`
}

// ErrNoHome is returned when neither XDG_CONFIG_HOME nor HOME is usable.
var ErrNoHome = errors.New("HOME is not set and XDG_CONFIG_HOME is empty")

// Path resolves the default config file location from the environment.
func Path(getenv func(string) string) (string, error) {
	if xdg := strings.TrimSpace(getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, appName, fileName), nil
	}
	home := strings.TrimSpace(getenv("HOME"))
	if home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the config at override, or at the default location when
// override is empty. A missing or malformed file is an error.
func Load(override string) (Config, error) {
	path := override
	if path == "" {
		p, err := Path(os.Getenv)
		if err != nil {
			return Config{}, fmt.Errorf("locate config: %w", err)
		}
		path = p
	}
	return LoadFile(path)
}

// LoadFile reads, decodes, validates and expands the config at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not open config at %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("could not parse config at %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("could not parse config at %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config at %s: %w", path, err)
	}
	if err := cfg.expand(); err != nil {
		return Config{}, fmt.Errorf("config at %s: %w", path, err)
	}
	return cfg, nil
}

// expand resolves ~ in every root and directory path.
func (c *Config) expand() error {
	for i := range c.Projects {
		p, err := ExpandPath(c.Projects[i].Root)
		if err != nil {
			return fmt.Errorf("projects[%d].root: %w", i, err)
		}
		c.Projects[i].Root = p
	}
	for i := range c.Directories {
		p, err := ExpandPath(c.Directories[i].Path)
		if err != nil {
			return fmt.Errorf("directories[%d].path: %w", i, err)
		}
		c.Directories[i].Path = p
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
