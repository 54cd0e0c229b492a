// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"fmt"
	"strings"
)

// Summary is the outcome of one runner invocation.
type Summary struct {
	Checks []string // labels, in run order
	Failed []string // labels of failed checks, in run order
}

// FailedCount returns the number of failed checks.
func (s *Summary) FailedCount() int { return len(s.Failed) }

// ExitCode is the process status for the run: the number of failed checks.
func (s *Summary) ExitCode() int { return len(s.Failed) }

// OK reports whether every check passed.
func (s *Summary) OK() bool { return len(s.Failed) == 0 }

// String renders the final report block.
func (s *Summary) String() string {
	var b strings.Builder
	if s.OK() {
		b.WriteString("All tests passed.\n")
		return b.String()
	}

	noun := "tests"
	if len(s.Failed) == 1 {
		noun = "test"
	}
	fmt.Fprintf(&b, "%d %s failed:\n", len(s.Failed), noun)
	for _, label := range s.Failed {
		fmt.Fprintf(&b, "  - %s\n", label)
	}
	return b.String()
}
