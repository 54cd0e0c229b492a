// SPDX-License-Identifier: AGPL-3.0-or-later

// Package checks holds the verification steps devcheck runs.
package checks

import (
	"github.com/kiransingh99/gurbani-analysis/internal/runner"
)

const golangciInstall = "go install github.com/golangci/golangci-lint/v2/cmd/golangci-lint@v2.6.2"

func NewLint() runner.Check {
	return NewExecCheck("lint", "Lint", golangciInstall, "golangci-lint", "run", "./...")
}

func NewUnitTests() runner.Check {
	return NewExecCheck("unit-tests", "Unit tests", "", "go", "test", "./...")
}

func NewTypeCheck() runner.Check {
	return NewExecCheck("type-check", "Type check", "", "go", "vet", "./...")
}

// Registry returns the checks in the order `devcheck run` executes them.
func Registry() []runner.Check {
	return []runner.Check{
		NewAutoformat(),
		NewBranchName(),
		NewCoverage(),
		NewCopyright(),
		NewFailString(),
		NewLint(),
		NewUnitTests(),
		NewTypeCheck(),
	}
}
