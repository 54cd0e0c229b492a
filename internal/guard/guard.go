// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard fails a build when a marker string is left in the tree.
//
// The search is a single grep invocation; its exit status is translated
// into the guard's own: grep 1 (no lines selected) is Clean, grep 0 is Found,
// and anything else is Errored.
package guard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Outcome classifies a scan.
type Outcome int

const (
	Clean Outcome = iota
	Found
	Errored
)

// ExitCode is the process status for the outcome.
func (o Outcome) ExitCode() int {
	return int(o)
}

func (o Outcome) String() string {
	switch o {
	case Clean:
		return "clean"
	case Found:
		return "found"
	default:
		return "errored"
	}
}

// Report is the result of one scan.
type Report struct {
	Outcome Outcome
	Marker  string
	// Matches holds grep's "path:line:text" lines when Outcome is Found.
	Matches []string
	// Diagnostic carries grep's stderr when Outcome is Errored.
	Diagnostic string
}

// Write prints the report the way the guard command shows it.
func (r *Report) Write(w io.Writer) {
	switch r.Outcome {
	case Clean:
		_, _ = fmt.Fprintf(w, "No files found containing %q.\n", r.Marker)
	case Found:
		_, _ = fmt.Fprintf(w, "Found %q in the following places:\n", r.Marker)
		for _, m := range r.Matches {
			_, _ = fmt.Fprintf(w, "  %s\n", m)
		}
		_, _ = fmt.Fprintf(w, "Remove every occurrence of %q before committing.\n", r.Marker)
	default:
		_, _ = fmt.Fprintf(w, "Searching for %q failed.\n", r.Marker)
		if r.Diagnostic != "" {
			_, _ = fmt.Fprintln(w, r.Diagnostic)
		}
	}
}

// Guard searches a directory tree for Marker.
type Guard struct {
	Marker      string
	ExcludeDirs []string
	// SkipPaths are slash-separated paths relative to the scan root whose
	// matches are dropped. grep's --exclude-dir only sees base names, so a
	// nested directory such as a relocated state dir is filtered here.
	SkipPaths []string

	// Bin is the search binary. Empty means "grep".
	Bin    string
	Logger *zap.Logger
}

// New returns a guard for marker skipping the given directory names.
func New(marker string, excludeDirs []string) *Guard {
	return &Guard{Marker: marker, ExcludeDirs: excludeDirs}
}

// SkipDir adds dir to SkipPaths when it lies inside root. Directories
// outside root are never scanned and are ignored.
func (g *Guard) SkipDir(root, dir string) {
	if dir == "" {
		return
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return
	}
	g.SkipPaths = append(g.SkipPaths, filepath.ToSlash(rel))
}

// Args returns the grep arguments for a scan of the current directory.
func (g *Guard) Args() []string {
	args := []string{"-rnIF"}
	for _, d := range g.ExcludeDirs {
		args = append(args, "--exclude-dir="+d)
	}
	return append(args, "-e", g.Marker, "--", ".")
}

// Scan searches root. The returned error is non-nil only when the scan
// could not be attempted; a failing grep is reported as Errored.
func (g *Guard) Scan(ctx context.Context, root string) (*Report, error) {
	if g.Marker == "" {
		return nil, errors.New("guard: empty marker")
	}

	bin := g.Bin
	if bin == "" {
		bin = "grep"
	}
	log := g.Logger
	if log == nil {
		log = zap.NewNop()
	}

	args := g.Args()
	log.Debug("scanning for marker", zap.String("bin", bin), zap.Strings("args", args), zap.String("root", root))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = root
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	report := &Report{Marker: g.Marker}

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		report.Matches = g.keep(splitLines(stdout.String()))
		if len(report.Matches) > 0 {
			report.Outcome = Found
		} else {
			report.Outcome = Clean
		}
	case errors.As(err, &exitErr) && exitErr.ExitCode() == 1:
		report.Outcome = Clean
	default:
		report.Outcome = Errored
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		report.Diagnostic = fmt.Sprintf("%s %s: %s", bin, strings.Join(args, " "), diag)
	}

	log.Debug("scan finished", zap.Stringer("outcome", report.Outcome), zap.Int("matches", len(report.Matches)))
	return report, nil
}

// keep drops matches that fall under SkipPaths.
func (g *Guard) keep(matches []string) []string {
	if len(g.SkipPaths) == 0 {
		return matches
	}
	var out []string
	for _, m := range matches {
		if !g.skipped(m) {
			out = append(out, m)
		}
	}
	return out
}

func (g *Guard) skipped(match string) bool {
	for _, p := range g.SkipPaths {
		if strings.HasPrefix(match, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if l != "" {
			lines = append(lines, strings.TrimPrefix(l, "./"))
		}
	}
	return lines
}
