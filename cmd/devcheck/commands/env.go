// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kiransingh99/gurbani-analysis/internal/checks"
	"github.com/kiransingh99/gurbani-analysis/internal/config"
	"github.com/kiransingh99/gurbani-analysis/internal/projectroot"
	"github.com/kiransingh99/gurbani-analysis/internal/runner"
	"github.com/kiransingh99/gurbani-analysis/internal/scanner"
)

const configFileHint = config.FileName

// globalOptions holds the persistent flags shared by all subcommands.
type globalOptions struct {
	verbose    bool
	configPath string
	stateDir   string
	json       bool
}

// env is everything a command needs to act on the current repository.
type env struct {
	root   string
	cfg    *config.Config
	logger *zap.Logger
	store  *runner.StateStore
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func loadEnv(opts *globalOptions) (*env, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := projectroot.Find(wd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root, opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.stateDir != "" {
		cfg.StateDir = opts.stateDir
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	logger.Debug("environment resolved", zap.String("root", root), zap.String("state_dir", cfg.StateDir))

	stateDir := cfg.StateDir
	if !filepath.IsAbs(stateDir) {
		stateDir = filepath.Join(root, stateDir)
	}

	return &env{
		root:   root,
		cfg:    cfg,
		logger: logger,
		store:  runner.NewStateStore(stateDir),
	}, nil
}

func (e *env) deps(fix bool) *runner.Deps {
	scn := scanner.New(e.root)
	scn.IncludeUntracked = e.cfg.Files.IncludeUntracked
	return &runner.Deps{
		RepoRoot: e.root,
		StateDir: e.store.Dir(),
		Scanner:  scn,
		Config:   e.cfg,
		Logger:   e.logger,
		Fix:      fix,
	}
}

func (e *env) runner(fix bool) *runner.Runner {
	return runner.NewRunner(checks.Registry(), e.store, e.deps(fix))
}

func (e *env) close() {
	_ = e.logger.Sync()
}
