// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kiransingh99/gurbani-analysis/internal/config"
	"github.com/kiransingh99/gurbani-analysis/internal/scanner"
)

// Deps contains dependencies injected into checks.
type Deps struct {
	RepoRoot string
	StateDir string
	Scanner  *scanner.Scanner
	Config   *config.Config
	Logger   *zap.Logger

	// Fix lets checks that can repair the tree (autoformat) do so.
	Fix bool

	// Now is the clock used by date-sensitive checks. Nil means time.Now.
	Now func() time.Time
}

// Clock returns the current time according to deps.
func (d *Deps) Clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Log returns the configured logger, or a no-op one.
func (d *Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Check is one named verification step.
type Check interface {
	// ID returns the machine identifier (e.g. "lint").
	ID() string

	// Label returns the human-readable test name printed in reports.
	Label() string

	// Run executes the check.
	Run(ctx context.Context, deps *Deps) Result
}
