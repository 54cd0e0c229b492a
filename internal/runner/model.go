// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

// Status represents the outcome of a check execution.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
	StatusSkip  Status = "skip"
)

// Failed reports whether the status counts towards the failure tally.
func (s Status) Failed() bool {
	return s == StatusFail || s == StatusError
}

// StatusFromExitCode maps a process exit code onto a check status:
// 0 passes, 1 fails, anything else is a tooling error.
func StatusFromExitCode(code int) Status {
	switch code {
	case 0:
		return StatusPass
	case 1:
		return StatusFail
	default:
		return StatusError
	}
}

// Result is the outcome of a single check.
// Matches .devcheck/run/checks/<id>.json.
type Result struct {
	Check    string `json:"check"`
	Status   Status `json:"status"`
	ExitCode int    `json:"exit_code"`
	Note     string `json:"note,omitempty"`
}

// LastRun is the summary of the last execution.
// Matches .devcheck/run/last-run.json.
type LastRun struct {
	Status string   `json:"status"` // "pass" or "fail"
	Checks []string `json:"checks"` // ids in run order
	Failed []string `json:"failed"` // ids of failed checks
}
