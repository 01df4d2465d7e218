package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"prefset/internal/merge"
	"prefset/internal/starter"
)

// DefaultPath is the project config file looked up in the working directory.
const DefaultPath = "prefset.yaml"

const DefaultDSN = "sqlite://prefset.db"

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Pack     PackConfig     `yaml:"pack"`
	Library  LibraryConfig  `yaml:"library"`
	Exclude  []string       `yaml:"exclude"`
	Merge    MergeConfig    `yaml:"merge"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// PackConfig selects the starter pack. An empty path means the bundled pack.
type PackConfig struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

type LibraryConfig struct {
	Paths []string `yaml:"paths"`
}

type MergeConfig struct {
	NotesSeparator *string `yaml:"notes_separator"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the config used when no project file exists.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Project:  "prefset",
		Version:  1,
		Database: DatabaseConfig{DSN: DefaultDSN},
		Pack:     PackConfig{ID: starter.DefaultPackID},
		Library:  LibraryConfig{Paths: []string{"./sets"}},
		Log:      LogConfig{Level: "info"},
	}
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = DefaultDSN
	}
	if strings.TrimSpace(cfg.Pack.ID) == "" {
		cfg.Pack.ID = starter.DefaultPackID
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// LoadOrDefault loads path, falling back to Default when the file is absent.
func LoadOrDefault(path string) (*ProjectConfig, error) {
	cfg, err := LoadProjectConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// NotesSeparator returns the configured merge separator, or the merge default.
func (c *ProjectConfig) NotesSeparator() string {
	if c.Merge.NotesSeparator == nil {
		return merge.DefaultNotesSeparator
	}
	return *c.Merge.NotesSeparator
}

var logLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if len(cfg.Library.Paths) == 0 {
		return fmt.Errorf("at least one library path is required")
	}
	for i, path := range cfg.Library.Paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("library path %d is empty", i)
		}
	}
	if !strings.Contains(cfg.Database.DSN, "://") {
		return fmt.Errorf("database dsn must include a scheme: %q", cfg.Database.DSN)
	}
	if _, ok := logLevels[strings.ToLower(cfg.Log.Level)]; !ok {
		return fmt.Errorf("unknown log level: %q", cfg.Log.Level)
	}

	return nil
}
