// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiransingh99/gurbani-analysis/cmd/devcheck/internal/clierr"
	"github.com/kiransingh99/gurbani-analysis/internal/config"
)

const testMarker = "NOT_" + "FOR_MERGE"

// workspace creates a throwaway repository root and moves into it.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files["go.mod"] = "module example.com/ws\n"
	for name, content := range files {
		full := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	chdir(t, root)
	t.Setenv(config.EnvMarker, testMarker)
	return root
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand_SingleCheckPasses(t *testing.T) {
	workspace(t, map[string]string{"main.go": "package main\n"})

	out, err := execute(t, "run", "fail-string")
	require.NoError(t, err)
	assert.Contains(t, out, "Fail string PASSED")
	assert.Contains(t, out, "All tests passed.")
}

func TestRunCommand_FailureSetsExitCode(t *testing.T) {
	workspace(t, map[string]string{"main.go": "package main // " + testMarker + "\n"})

	out, err := execute(t, "run", "fail-string")
	require.Error(t, err)
	assert.Equal(t, 1, clierr.ExitCodeOf(err))
	assert.Empty(t, clierr.Message(err))
	assert.Contains(t, out, "Fail string FAILED (exit 1)")
	assert.Contains(t, out, "main.go:1:")
	assert.Contains(t, out, "1 test failed:\n  - Fail string\n")

	report, err := execute(t, "run", "report")
	require.NoError(t, err)
	assert.Contains(t, report, "Status: fail")
	assert.Contains(t, report, "  - fail-string")
}

func TestRunCommand_ResumeAfterFix(t *testing.T) {
	root := workspace(t, map[string]string{"main.go": "package main // " + testMarker + "\n"})

	_, err := execute(t, "run", "fail-string")
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))

	out, err := execute(t, "run", "resume")
	require.NoError(t, err)
	assert.Contains(t, out, "Fail string PASSED")

	_, err = execute(t, "run", "reset")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, config.DefaultStateDir))
	assert.True(t, os.IsNotExist(err))
}

func TestRunCommand_CustomStateDirIsNotScanned(t *testing.T) {
	workspace(t, map[string]string{"main.go": "package main\n"})

	for i := 0; i < 2; i++ {
		out, err := execute(t, "--state-dir", "tmp/state", "run", "fail-string")
		require.NoError(t, err, "run %d:\n%s", i+1, out)
		assert.Contains(t, out, "Fail string PASSED")
	}

	out, err := execute(t, "--state-dir", "tmp/state", "guard")
	require.NoError(t, err)
	assert.Contains(t, out, "No files found")
}

func TestRunCommand_StaleFindingInStateDirClearsAfterFix(t *testing.T) {
	root := workspace(t, map[string]string{"main.go": "package main // " + testMarker + "\n"})
	t.Setenv(config.EnvStateDir, "tmp/state")

	_, err := execute(t, "run", "fail-string")
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))

	out, err := execute(t, "run", "fail-string")
	require.NoError(t, err)
	assert.Contains(t, out, "Fail string PASSED")
	assert.NotContains(t, out, "tmp/state")
}

func TestRunCommand_UnknownCheck(t *testing.T) {
	workspace(t, map[string]string{})

	_, err := execute(t, "run", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check not found: nope")
}

func TestRunListJSON(t *testing.T) {
	out, err := execute(t, "run", "list", "--json")
	require.NoError(t, err)

	var payload struct {
		Checks []checkListItem `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Checks, 8)
	assert.Equal(t, "autoformat", payload.Checks[0].ID)
	assert.Equal(t, "Type check", payload.Checks[7].Label)
}

func TestGuardCommand(t *testing.T) {
	root := workspace(t, map[string]string{
		"main.go":       "package main\n",
		"vendor/dep.go": testMarker,
	})

	out, err := execute(t, "guard")
	require.NoError(t, err)
	assert.Contains(t, out, "No files found")

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte(testMarker+"\n"), 0o644))

	out, err = execute(t, "guard")
	require.Error(t, err)
	assert.Equal(t, 1, clierr.ExitCodeOf(err))
	assert.Contains(t, out, "notes.txt:1:"+testMarker)
	assert.NotContains(t, out, "vendor/dep.go")
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("DEVCHECK_VERSION", "1.2.3")
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "devcheck version 1.2.3\n", out)
}
