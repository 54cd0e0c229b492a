// SPDX-License-Identifier: AGPL-3.0-or-later

package config

// FileName is the optional per-repository config file.
const FileName = ".devcheck.yaml"

const (
	DefaultStateDir = ".devcheck/run"

	// DefaultMarker is split so the guard never matches its own source.
	DefaultMarker = "FAIL_" + "COMMIT"

	DefaultBranchPattern = `^GA\d+\.[A-Za-z0-9\-_.]+$`
	DefaultBranch        = "main"

	DefaultCoverageMin = 100.0
)

// Environment overrides.
const (
	EnvMarker        = "DEVCHECK_MARKER"
	EnvStateDir      = "DEVCHECK_STATE_DIR"
	EnvBranchPattern = "DEVCHECK_BRANCH_PATTERN"
	EnvCoverageMin   = "DEVCHECK_COVERAGE_MIN"
)

var envKeys = []string{EnvMarker, EnvStateDir, EnvBranchPattern, EnvCoverageMin}

var (
	DefaultGuardExcludeDirs = []string{
		".git",
		".github",
		".devcheck",
		"vendor",
		"node_modules",
	}

	DefaultCopyrightExtensions = []string{".go"}

	DefaultExcludePrefixes = []string{
		".github/",
		"artifacts/",
	}
)
