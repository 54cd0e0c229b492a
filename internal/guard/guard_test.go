// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = "DO_NOT_" + "SHIP"

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func TestScan_Clean(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":     "package main\n",
		"pkg/util.go": "package pkg\n",
	})

	report, err := New(marker, nil).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, Clean, report.Outcome)
	assert.Equal(t, 0, report.Outcome.ExitCode())
	assert.Empty(t, report.Matches)

	var out bytes.Buffer
	report.Write(&out)
	assert.Contains(t, out.String(), "No files found")
}

func TestScan_Found(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":     "package main\n// " + marker + "\n",
		"pkg/util.go": "package pkg\n",
	})

	report, err := New(marker, nil).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, Found, report.Outcome)
	assert.Equal(t, 1, report.Outcome.ExitCode())
	assert.Equal(t, []string{"main.go:2:// " + marker}, report.Matches)

	var out bytes.Buffer
	report.Write(&out)
	assert.Contains(t, out.String(), "main.go:2:")
}

func TestScan_ExcludedDirsNeverScanned(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":                 "package main\n",
		"vendor/lib/x.go":         marker,
		"nested/.github/ci.yml":   marker,
		"node_modules/a/index.js": marker,
	})

	g := New(marker, []string{"vendor", ".github", "node_modules"})
	report, err := g.Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, Clean, report.Outcome)
}

func TestScan_ExcludeIsNotPrefixMatch(t *testing.T) {
	root := writeTree(t, map[string]string{
		"vendor_stuff/x.go": marker,
	})

	report, err := New(marker, []string{"vendor"}).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, Found, report.Outcome)
	assert.Equal(t, []string{"vendor_stuff/x.go:1:" + marker}, report.Matches)
}

func TestScan_SkipDirDropsNestedMatches(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":                 "package main\n",
		"tmp/state/checks/x.json": `{"note": "` + marker + `"}`,
		"tmp/statement/y.txt":     "package y\n",
		"other/tmp/state/z.json":  "package z\n",
	})

	g := New(marker, nil)
	g.SkipDir(root, filepath.Join(root, "tmp", "state"))
	assert.Equal(t, []string{"tmp/state"}, g.SkipPaths)

	report, err := g.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, Clean, report.Outcome)
	assert.Empty(t, report.Matches)

	require.NoError(t, os.WriteFile(filepath.Join(root, "tmp", "statement", "y.txt"), []byte(marker), 0o644))
	report, err = g.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, Found, report.Outcome)
	assert.Equal(t, []string{"tmp/statement/y.txt:1:" + marker}, report.Matches)
}

func TestSkipDir_IgnoresDirsOutsideRoot(t *testing.T) {
	root := t.TempDir()
	g := New(marker, nil)
	g.SkipDir(root, "")
	g.SkipDir(root, root)
	g.SkipDir(root, filepath.Join(filepath.Dir(root), "elsewhere"))
	assert.Empty(t, g.SkipPaths)

	g.SkipDir(root, "rel/state")
	assert.Equal(t, []string{"rel/state"}, g.SkipPaths)
}

func TestScan_ToolError(t *testing.T) {
	g := New(marker, nil)
	g.Bin = "devcheck-no-such-grep"

	report, err := g.Scan(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Errored, report.Outcome)
	assert.Equal(t, 2, report.Outcome.ExitCode())
	assert.NotEmpty(t, report.Diagnostic)

	var out bytes.Buffer
	report.Write(&out)
	assert.Contains(t, out.String(), "failed")
}

func TestScan_MissingRootIsToolError(t *testing.T) {
	report, err := New(marker, nil).Scan(context.Background(), filepath.Join(t.TempDir(), "gone"))
	require.NoError(t, err)
	assert.Equal(t, Errored, report.Outcome)
}

func TestScan_EmptyMarker(t *testing.T) {
	_, err := New("", nil).Scan(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestArgs(t *testing.T) {
	g := New("X", []string{".git", "vendor"})
	assert.Equal(t,
		[]string{"-rnIF", "--exclude-dir=.git", "--exclude-dir=vendor", "-e", "X", "--", "."},
		g.Args())
}
