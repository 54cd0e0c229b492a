// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

var (
	passed  = color.New(color.FgGreen, color.Bold).SprintFunc()
	failed  = color.New(color.FgRed, color.Bold).SprintFunc()
	skipped = color.New(color.FgYellow).SprintFunc()
)

// Runner executes checks one after another.
type Runner struct {
	checks []Check
	store  *StateStore
	deps   *Deps
	out    io.Writer
}

// NewRunner creates a new runner with the given checks and dependencies.
func NewRunner(checks []Check, store *StateStore, deps *Deps) *Runner {
	return &Runner{
		checks: checks,
		store:  store,
		deps:   deps,
		out:    os.Stdout,
	}
}

// SetOutput redirects the report. Defaults to stdout.
func (r *Runner) SetOutput(w io.Writer) {
	r.out = w
}

// Checks returns the registered checks in order.
func (r *Runner) Checks() []Check {
	return r.checks
}

// RunAll executes all checks in order.
// A failing check never stops the sequence.
func (r *Runner) RunAll(ctx context.Context) (*Summary, error) {
	return r.executeSequence(ctx, r.checks)
}

// Resume re-runs only the checks that failed in the last run.
func (r *Runner) Resume(ctx context.Context) (*Summary, error) {
	failedIDs, err := r.store.LoadFailed()
	if err != nil {
		return nil, fmt.Errorf("loading failed checks: %w", err)
	}

	if len(failedIDs) == 0 {
		_, _ = fmt.Fprintln(r.out, "No failed checks to resume.")
		return &Summary{}, nil
	}

	var toRun []Check
	for _, id := range failedIDs {
		if c := r.find(id); c != nil {
			toRun = append(toRun, c)
		}
	}

	return r.executeSequence(ctx, toRun)
}

// RunList executes a specific list of check ids, in the order given.
func (r *Runner) RunList(ctx context.Context, ids []string) (*Summary, error) {
	var toRun []Check
	for _, id := range ids {
		c := r.find(id)
		if c == nil {
			return nil, fmt.Errorf("check not found: %s", id)
		}
		toRun = append(toRun, c)
	}
	return r.executeSequence(ctx, toRun)
}

func (r *Runner) find(id string) Check {
	for _, c := range r.checks {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// executeSequence runs checks in order, recording each result.
// The returned error covers state persistence only; check failures are
// reported through the summary.
func (r *Runner) executeSequence(ctx context.Context, checks []Check) (*Summary, error) {
	log := r.deps.Log()
	summary := &Summary{}
	var ids, failedIDs []string

	for _, c := range checks {
		id, label := c.ID(), c.Label()
		ids = append(ids, id)
		summary.Checks = append(summary.Checks, label)

		_, _ = fmt.Fprintf(r.out, "\n%s\nRunning %s\n%s\n", rule, label, rule)

		start := time.Now()
		res := c.Run(ctx, r.deps)
		if res.Check == "" {
			res.Check = id
		}
		log.Debug("check finished",
			zap.String("check", id),
			zap.String("status", string(res.Status)),
			zap.Int("exit_code", res.ExitCode),
			zap.Duration("elapsed", time.Since(start)))

		if err := r.store.WriteResult(res); err != nil {
			return nil, fmt.Errorf("writing result for %s: %w", id, err)
		}

		switch {
		case res.Status == StatusSkip:
			_, _ = fmt.Fprintf(r.out, "%s %s\n", label, skipped("SKIPPED"))
		case res.Status.Failed():
			failedIDs = append(failedIDs, id)
			summary.Failed = append(summary.Failed, label)
			kind := ""
			if res.Status == StatusError {
				kind = "error, "
			}
			_, _ = fmt.Fprintf(r.out, "%s %s (%sexit %d)\n", label, failed("FAILED"), kind, res.ExitCode)
		default:
			_, _ = fmt.Fprintf(r.out, "%s %s\n", label, passed("PASSED"))
		}
		if res.Note != "" {
			_, _ = fmt.Fprintln(r.out, res.Note)
		}
	}

	last := LastRun{Status: "pass", Checks: ids, Failed: failedIDs}
	if !summary.OK() {
		last.Status = "fail"
	}
	if err := r.store.WriteLastRun(last); err != nil {
		return nil, fmt.Errorf("writing last run: %w", err)
	}

	_, _ = fmt.Fprintf(r.out, "\n%s\n%s", rule, summary.String())
	return summary, nil
}
