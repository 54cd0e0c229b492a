// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the repository a command is run from.
package projectroot

import (
	"fmt"
	"os"
	"path/filepath"
)

// markers identify a repository root, checked in order at each level.
var markers = []string{"go.mod", ".git"}

// Find walks up from start to the nearest directory containing go.mod or .git.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod or .git found above %s", start)
		}
		dir = parent
	}
}
