// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFiles(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		opts     FilterOptions
		expected []string
	}{
		{
			name:  "exclude node_modules",
			paths: []string{"a.go", "node_modules/bad.js", "pkg/good.go"},
			opts: FilterOptions{
				ExcludeDirs: []string{"node_modules"},
			},
			expected: []string{"a.go", "pkg/good.go"},
		},
		{
			name:  "exclude nested vendor",
			paths: []string{"vendor/a", "pkg/vendor/b", "internal/c"},
			opts: FilterOptions{
				ExcludeDirs: []string{"vendor"},
			},
			expected: []string{"internal/c"},
		},
		{
			name:  "segment matching only",
			paths: []string{"vendor_stuff/a", "myvendor/b"},
			opts: FilterOptions{
				ExcludeDirs: []string{"vendor"},
			},
			expected: []string{"myvendor/b", "vendor_stuff/a"},
		},
		{
			name:  "file named like an excluded dir is kept",
			paths: []string{"docs/build", "build/out.go"},
			opts: FilterOptions{
				ExcludeDirs: []string{"build"},
			},
			expected: []string{"docs/build"},
		},
		{
			name:  "prefix excludes",
			paths: []string{".github/workflows/ci.yml", "artifacts/x.go", "README.md", "src/README.md", "main.go"},
			opts: FilterOptions{
				ExcludePrefixes: []string{".github/", "artifacts/", "README.md"},
			},
			expected: []string{"main.go", "src/README.md"},
		},
		{
			name:  "extension filter",
			paths: []string{"a.go", "b.md", "c.go"},
			opts: FilterOptions{
				IncludeExtensions: []string{".go"},
			},
			expected: []string{"a.go", "c.go"},
		},
		{
			name:  "excludes and extensions",
			paths: []string{"vendor/a.go", "b.go", "c.js", ""},
			opts: FilterOptions{
				ExcludeDirs:       []string{"vendor"},
				IncludeExtensions: []string{".go"},
			},
			expected: []string{"b.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterFiles(tt.paths, tt.opts)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScanner(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	initRepo(t, dir)

	createFile(t, dir, "main.go")
	createFile(t, dir, "vendor/foo.go")
	createFile(t, dir, "node_modules/bar.js")
	createFile(t, dir, ".gitignore", "ignored.txt")
	createFile(t, dir, "ignored.txt")
	createFile(t, dir, "pkg/util.go")

	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	s := New(dir)

	files, err := s.Files(ctx)
	require.NoError(t, err)
	assert.Contains(t, files, "main.go")
	assert.Contains(t, files, "vendor/foo.go")
	assert.NotContains(t, files, "ignored.txt") // respected .gitignore

	filtered, err := s.FilesFiltered(ctx, FilterOptions{
		ExcludeDirs: []string{"vendor", "node_modules"},
	})
	require.NoError(t, err)
	assert.Contains(t, filtered, "main.go")
	assert.Contains(t, filtered, "pkg/util.go")
	assert.NotContains(t, filtered, "vendor/foo.go")
	assert.NotContains(t, filtered, "node_modules/bar.js")

	goFiles, err := s.GoFiles(ctx)
	require.NoError(t, err)
	assert.Contains(t, goFiles, "main.go")
	assert.Contains(t, goFiles, "pkg/util.go")
	assert.NotContains(t, goFiles, "vendor/foo.go")
	assert.NotContains(t, goFiles, ".gitignore")
}

func TestScanner_IncludeUntracked(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	initRepo(t, dir)
	createFile(t, dir, ".gitignore", "ignored.go")
	createFile(t, dir, "tracked.go")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	createFile(t, dir, "new.go")
	createFile(t, dir, "ignored.go")

	tracked, err := New(dir).GoFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tracked.go"}, tracked)

	s := New(dir)
	s.IncludeUntracked = true
	all, err := s.GoFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.go", "tracked.go"}, all)
}

func TestScanner_NotARepo(t *testing.T) {
	_, err := New(t.TempDir()).Files(context.Background())
	require.Error(t, err)
}

func initRepo(t *testing.T, dir string) {
	t.Helper()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}

func createFile(t *testing.T, dir, path string, content ...string) {
	t.Helper()
	fullPath := filepath.Join(dir, path)
	err := os.MkdirAll(filepath.Dir(fullPath), 0o755)
	require.NoError(t, err)

	data := ""
	if len(content) > 0 {
		data = content[0]
	}
	err = os.WriteFile(fullPath, []byte(data), 0o644)
	require.NoError(t, err)
}
