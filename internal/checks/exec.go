// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/kiransingh99/gurbani-analysis/internal/runner"
)

// ExitCommandNotFound is reported when a check's tool is not installed.
const ExitCommandNotFound = 127

// noteTailLines bounds how much command output ends up in a result note.
const noteTailLines = 20

// ExecCheck runs one external command and maps its exit status.
type ExecCheck struct {
	id      string
	label   string
	args    []string
	install string // hint printed when args[0] is missing
}

// NewExecCheck returns a check running args from the repository root.
func NewExecCheck(id, label, install string, args ...string) *ExecCheck {
	return &ExecCheck{id: id, label: label, args: args, install: install}
}

func (s *ExecCheck) ID() string    { return s.id }
func (s *ExecCheck) Label() string { return s.label }

func (s *ExecCheck) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	res := runCommand(ctx, deps, s.install, s.args...)
	res.Check = s.id
	return res
}

// commandOutput is the raw outcome of one command.
type commandOutput struct {
	code   int
	output string
	err    error // set when the command could not be started
}

// execute runs args in the repo root and captures combined output.
func execute(ctx context.Context, deps *runner.Deps, args ...string) commandOutput {
	deps.Log().Debug("running command", zap.Strings("args", args), zap.String("dir", deps.RepoRoot))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = deps.RepoRoot
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return commandOutput{output: string(out)}
	case errors.As(err, &exitErr):
		return commandOutput{code: exitErr.ExitCode(), output: string(out)}
	case errors.Is(err, exec.ErrNotFound):
		return commandOutput{code: ExitCommandNotFound, err: err}
	default:
		return commandOutput{code: 2, output: string(out), err: err}
	}
}

// runCommand executes args and turns the outcome into a result: 0 passes,
// 1 fails, any other code is an error.
func runCommand(ctx context.Context, deps *runner.Deps, install string, args ...string) runner.Result {
	co := execute(ctx, deps, args...)
	if co.code == ExitCommandNotFound && co.err != nil {
		return missingTool(args[0], install)
	}

	res := runner.Result{
		Status:   runner.StatusFromExitCode(co.code),
		ExitCode: co.code,
	}
	if res.Status != runner.StatusPass {
		res.Note = tail(co.output, noteTailLines)
		if co.err != nil {
			res.Note = strings.TrimSpace(fmt.Sprintf("%v\n%s", co.err, res.Note))
		}
	}
	return res
}

func missingTool(bin, install string) runner.Result {
	note := bin + " not found."
	if install != "" {
		note += " Run: " + install
	}
	return runner.Result{
		Status:   runner.StatusError,
		ExitCode: ExitCommandNotFound,
		Note:     note,
	}
}

// tail keeps the last n lines of output.
func tail(output string, n int) string {
	output = strings.TrimSpace(output)
	lines := strings.Split(output, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
		return "...(truncated)...\n" + strings.Join(lines, "\n")
	}
	return output
}
