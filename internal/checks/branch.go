// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kiransingh99/gurbani-analysis/internal/config"
	"github.com/kiransingh99/gurbani-analysis/internal/runner"
)

// Branch verdicts. Being on the default branch is not a failure, only a hint.
const (
	BranchValid = iota
	BranchInvalid
	BranchError
)

const invalidBranchHelp = `Branch name is invalid. Branch name must be of the format:
    GA<issue number>.<hyphenated-description-of-issue>

Permitted characters in the description are:
- Alphanumeric characters
- Hyphen (-)
- Underscore (_)
- Full stop (.)

Resolve by doing the following:
    1. git branch -m <new-branch>
    2. git push origin --delete <old-branch>
    3. git push origin -u <new-branch>`

type BranchName struct{}

func NewBranchName() runner.Check { return &BranchName{} }

func (s *BranchName) ID() string    { return "branch-name" }
func (s *BranchName) Label() string { return "Branch name" }

func (s *BranchName) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	res := runner.Result{Check: s.ID()}

	co := execute(ctx, deps, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if co.code != 0 || co.err != nil {
		res.Status = runner.StatusError
		res.ExitCode = BranchError
		res.Note = strings.TrimSpace(fmt.Sprintf("git rev-parse failed (exit %d): %s", co.code, tail(co.output, noteTailLines)))
		return res
	}

	cfg := deps.Config
	if cfg == nil {
		cfg = config.New()
	}
	code, msg, err := ValidateBranch(strings.TrimSpace(co.output), cfg.Branch)
	if err != nil {
		res.Status = runner.StatusError
		res.ExitCode = BranchError
		res.Note = err.Error()
		return res
	}

	res.ExitCode = code
	res.Status = runner.StatusFromExitCode(code)
	res.Note = msg
	return res
}

// ValidateBranch classifies a branch name and returns the exit code and the
// message to show.
func ValidateBranch(name string, cfg config.BranchConfig) (int, string, error) {
	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return BranchError, "", fmt.Errorf("invalid branch pattern: %w", err)
	}

	switch {
	case re.MatchString(name):
		return BranchValid, "Branch name is valid. Make sure the branch is attached to an issue.", nil
	case name == cfg.Default:
		return BranchValid, fmt.Sprintf("Still on %s. Move your changes to a new branch by doing:\n    git checkout -b <new-branch>", cfg.Default), nil
	default:
		return BranchInvalid, fmt.Sprintf("%q: %s", name, invalidBranchHelp), nil
	}
}
