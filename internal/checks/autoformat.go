// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/kiransingh99/gurbani-analysis/internal/runner"
	"github.com/kiransingh99/gurbani-analysis/internal/scanner"
)

const gofumptInstall = "go install mvdan.cc/gofumpt@v0.6.0"

// batchSize keeps gofumpt argument lists under ARG_MAX.
const batchSize = 200

type Autoformat struct{}

func NewAutoformat() runner.Check { return &Autoformat{} }

func (s *Autoformat) ID() string    { return "autoformat" }
func (s *Autoformat) Label() string { return "Autoformat" }

func (s *Autoformat) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	files, err := sourceFiles(ctx, deps, []string{".go"})
	if err != nil {
		return runner.Result{
			Check:    s.ID(),
			Status:   runner.StatusError,
			ExitCode: 2,
			Note:     fmt.Sprintf("Failed to list files: %v", err),
		}
	}

	if len(files) == 0 {
		return runner.Result{Check: s.ID(), Status: runner.StatusPass, Note: "No Go files to check"}
	}

	if _, err := exec.LookPath("gofumpt"); err != nil {
		res := missingTool("gofumpt", gofumptInstall)
		res.Check = s.ID()
		return res
	}

	unformatted, fail := s.gofumpt(ctx, deps, "-l", files)
	if fail != nil {
		return *fail
	}
	sort.Strings(unformatted)
	unformatted = unique(unformatted)

	if deps.Fix {
		if len(unformatted) == 0 {
			return runner.Result{Check: s.ID(), Status: runner.StatusPass, Note: "All files already formatted"}
		}
		if _, fail := s.gofumpt(ctx, deps, "-w", unformatted); fail != nil {
			return *fail
		}
		return runner.Result{
			Check:  s.ID(),
			Status: runner.StatusPass,
			Note:   fmt.Sprintf("Reformatted %d files in place:\n  %s", len(unformatted), strings.Join(unformatted, "\n  ")),
		}
	}

	if len(unformatted) > 0 {
		var msg bytes.Buffer
		msg.WriteString("Unformatted files:\n")
		for _, f := range unformatted {
			msg.WriteString("  " + f + "\n")
		}
		msg.WriteString("\nTo fix, run:\n  devcheck run autoformat --fix")

		return runner.Result{
			Check:    s.ID(),
			Status:   runner.StatusFail,
			ExitCode: 1,
			Note:     msg.String(),
		}
	}

	return runner.Result{Check: s.ID(), Status: runner.StatusPass}
}

// gofumpt runs gofumpt with flag over files in batches and returns the paths
// it printed. A non-nil result means gofumpt itself failed.
func (s *Autoformat) gofumpt(ctx context.Context, deps *runner.Deps, flag string, files []string) ([]string, *runner.Result) {
	var listed []string
	for i := 0; i < len(files); i += batchSize {
		end := min(i+batchSize, len(files))

		co := execute(ctx, deps, append([]string{"gofumpt", flag}, files[i:end]...)...)
		if co.code != 0 || co.err != nil {
			return nil, &runner.Result{
				Check:    s.ID(),
				Status:   runner.StatusError,
				ExitCode: 2,
				Note:     strings.TrimSpace(fmt.Sprintf("gofumpt execution failed (exit %d)\n%s", co.code, tail(co.output, noteTailLines))),
			}
		}
		for _, line := range strings.Split(co.output, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				listed = append(listed, line)
			}
		}
	}
	return listed, nil
}

// sourceFiles lists repository files with the given extensions, honouring
// the configured prefix excludes.
func sourceFiles(ctx context.Context, deps *runner.Deps, exts []string) ([]string, error) {
	if deps.Scanner == nil {
		return nil, fmt.Errorf("no scanner configured")
	}
	opts := scanner.FilterOptions{
		ExcludeDirs:       scanner.DefaultExcludeDirs(),
		IncludeExtensions: exts,
	}
	if deps.Config != nil {
		opts.ExcludePrefixes = deps.Config.Files.ExcludePrefixes
	}
	return deps.Scanner.FilesFiltered(ctx, opts)
}

func unique(sorted []string) []string {
	var out []string
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
