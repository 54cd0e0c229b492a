// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kiransingh99/gurbani-analysis/internal/config"
	"github.com/kiransingh99/gurbani-analysis/internal/runner"
)

// ExitCoverageLow marks a passing test suite whose coverage is under the
// configured minimum.
const ExitCoverageLow = 3

type Coverage struct{}

func NewCoverage() runner.Check { return &Coverage{} }

func (s *Coverage) ID() string    { return "coverage" }
func (s *Coverage) Label() string { return "Code coverage" }

func (s *Coverage) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	res := runner.Result{Check: s.ID()}

	if deps.StateDir == "" {
		res.Status, res.ExitCode, res.Note = runner.StatusError, 2, "state dir not set"
		return res
	}
	if err := os.MkdirAll(deps.StateDir, 0o755); err != nil {
		res.Status, res.ExitCode, res.Note = runner.StatusError, 2, err.Error()
		return res
	}
	profile := filepath.Join(deps.StateDir, "coverage.out")

	cfg := deps.Config
	if cfg == nil {
		cfg = config.New()
	}

	args := append([]string{"go", "test", "-coverprofile=" + profile, "-covermode=atomic"}, cfg.Coverage.Packages...)
	if r := runCommand(ctx, deps, "", args...); r.Status != runner.StatusPass {
		r.Check = s.ID()
		r.Note = strings.TrimSpace("Check unit tests are passing before running coverage!\n" + r.Note)
		return r
	}

	co := execute(ctx, deps, "go", "tool", "cover", "-func="+profile)
	if co.code != 0 || co.err != nil {
		res.Status, res.ExitCode = runner.StatusError, 2
		res.Note = strings.TrimSpace(fmt.Sprintf("go tool cover failed: %s", tail(co.output, noteTailLines)))
		return res
	}

	total, err := ParseTotalCoverage(co.output)
	if err != nil {
		res.Status, res.ExitCode, res.Note = runner.StatusError, 2, fmt.Sprintf("Failed to parse coverage: %v", err)
		return res
	}

	res.Note = fmt.Sprintf("Code coverage is %.1f%% (minimum %.1f%%)\nCoverage file: %s", total, cfg.Coverage.Min, profile)
	if total < cfg.Coverage.Min {
		res.Status = runner.StatusFail
		res.ExitCode = ExitCoverageLow
		return res
	}
	res.Status = runner.StatusPass
	return res
}

// ParseTotalCoverage extracts the percentage from the
// "total:\t(statements)\tXX.X%" line of `go tool cover -func` output.
func ParseTotalCoverage(out string) (float64, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "total:") {
			continue
		}
		parts := strings.Fields(line)
		last := strings.TrimSuffix(parts[len(parts)-1], "%")
		return strconv.ParseFloat(last, 64)
	}
	return 0, fmt.Errorf("total coverage line not found")
}
