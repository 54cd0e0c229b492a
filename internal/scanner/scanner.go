// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Scanner lists the repository's files through git.
type Scanner struct {
	repoRoot string

	// IncludeUntracked adds files git does not track yet (still honouring
	// .gitignore) to every listing.
	IncludeUntracked bool

	mu    sync.Mutex
	cache []string
}

// New creates a new Scanner for the given repository root.
func New(repoRoot string) *Scanner {
	return &Scanner{
		repoRoot: repoRoot,
	}
}

// Files returns tracked files, plus untracked ones when IncludeUntracked is
// set. The result is cached for the instance lifetime.
func (s *Scanner) Files(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache != nil {
		return s.cache, nil
	}

	files, err := s.lsFiles(ctx)
	if err != nil {
		return nil, err
	}
	if s.IncludeUntracked {
		others, err := s.lsFiles(ctx, "--others", "--exclude-standard")
		if err != nil {
			return nil, err
		}
		files = append(files, others...)
	}

	s.cache = files
	return s.cache, nil
}

// lsFiles runs git ls-files -z with extra arguments.
func (s *Scanner) lsFiles(ctx context.Context, args ...string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"ls-files", "-z"}, args...)...)
	cmd.Dir = s.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	if len(out) == 0 {
		return []string{}, nil
	}

	// -z separates by NUL bytes.
	trimmed := strings.TrimSuffix(string(out), "\x00")
	return strings.Split(trimmed, "\x00"), nil
}

// FilesFiltered returns listed files matching the filter options.
func (s *Scanner) FilesFiltered(ctx context.Context, opts FilterOptions) ([]string, error) {
	all, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}
	return FilterFiles(all, opts), nil
}

// GoFiles returns only .go files, applying default excludes.
func (s *Scanner) GoFiles(ctx context.Context) ([]string, error) {
	return s.FilesFiltered(ctx, FilterOptions{
		ExcludeDirs:       DefaultExcludeDirs(),
		IncludeExtensions: []string{".go"},
	})
}
