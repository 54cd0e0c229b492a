// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"bytes"
	"context"
	"strings"

	"github.com/kiransingh99/gurbani-analysis/internal/config"
	"github.com/kiransingh99/gurbani-analysis/internal/guard"
	"github.com/kiransingh99/gurbani-analysis/internal/runner"
)

type FailString struct{}

func NewFailString() runner.Check { return &FailString{} }

func (s *FailString) ID() string    { return "fail-string" }
func (s *FailString) Label() string { return "Fail string" }

func (s *FailString) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.New()
	}

	g := guard.New(cfg.Guard.Marker, cfg.Guard.ExcludeDirs)
	g.Logger = deps.Log()
	g.SkipDir(deps.RepoRoot, deps.StateDir)

	report, err := g.Scan(ctx, deps.RepoRoot)
	if err != nil {
		return runner.Result{Check: s.ID(), Status: runner.StatusError, ExitCode: guard.Errored.ExitCode(), Note: err.Error()}
	}

	var note bytes.Buffer
	report.Write(&note)

	code := report.Outcome.ExitCode()
	return runner.Result{
		Check:    s.ID(),
		Status:   runner.StatusFromExitCode(code),
		ExitCode: code,
		Note:     strings.TrimSpace(note.String()),
	}
}
