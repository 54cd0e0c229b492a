// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config holds devcheck settings: compiled-in defaults, overlaid by
// an optional .devcheck.yaml, an optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for a run.
type Config struct {
	// StateDir is where run state is written, relative to the repo root.
	StateDir string `yaml:"state_dir"`

	Guard     GuardConfig     `yaml:"guard"`
	Branch    BranchConfig    `yaml:"branch"`
	Coverage  CoverageConfig  `yaml:"coverage"`
	Copyright CopyrightConfig `yaml:"copyright"`
	Files     FilesConfig     `yaml:"files"`
}

// GuardConfig configures the fail-string guard.
type GuardConfig struct {
	Marker      string   `yaml:"marker"`
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// BranchConfig configures branch-name validation.
type BranchConfig struct {
	Pattern string `yaml:"pattern"`
	Default string `yaml:"default"`
}

// CoverageConfig configures the coverage check.
type CoverageConfig struct {
	Min      float64  `yaml:"min"`
	Packages []string `yaml:"packages"`
}

// CopyrightConfig configures the copyright-banner check.
type CopyrightConfig struct {
	Extensions []string `yaml:"extensions"`
}

// FilesConfig controls which files file-based checks look at.
type FilesConfig struct {
	ExcludePrefixes  []string `yaml:"exclude_prefixes"`
	IncludeUntracked bool     `yaml:"include_untracked"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		StateDir: DefaultStateDir,
		Guard: GuardConfig{
			Marker:      DefaultMarker,
			ExcludeDirs: clone(DefaultGuardExcludeDirs),
		},
		Branch: BranchConfig{
			Pattern: DefaultBranchPattern,
			Default: DefaultBranch,
		},
		Coverage: CoverageConfig{
			Min:      DefaultCoverageMin,
			Packages: []string{"./..."},
		},
		Copyright: CopyrightConfig{
			Extensions: clone(DefaultCopyrightExtensions),
		},
		Files: FilesConfig{
			ExcludePrefixes: clone(DefaultExcludePrefixes),
		},
	}
}

// Load builds the configuration for the repository at root. path names the
// YAML file; empty means <root>/.devcheck.yaml. Missing files are not errors.
func Load(root, path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	if err := cfg.mergeFile(path, explicit); err != nil {
		return nil, err
	}

	env, err := readDotEnv(filepath.Join(root, ".env"))
	if err != nil {
		return nil, err
	}
	for _, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return env, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	if v := env[EnvMarker]; v != "" {
		c.Guard.Marker = v
	}
	if v := env[EnvStateDir]; v != "" {
		c.StateDir = v
	}
	if v := env[EnvBranchPattern]; v != "" {
		c.Branch.Pattern = v
	}
	if v := env[EnvCoverageMin]; v != "" {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCoverageMin, err)
		}
		c.Coverage.Min = pct
	}
	return nil
}

// Validate rejects settings no check could run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Guard.Marker) == "" {
		return errors.New("guard.marker must not be empty")
	}
	if c.Coverage.Min < 0 || c.Coverage.Min > 100 {
		return fmt.Errorf("coverage.min must be within 0..100, got %v", c.Coverage.Min)
	}
	if c.StateDir == "" {
		return errors.New("state_dir must not be empty")
	}
	if _, err := regexp.Compile(c.Branch.Pattern); err != nil {
		return fmt.Errorf("branch.pattern: %w", err)
	}
	return nil
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
