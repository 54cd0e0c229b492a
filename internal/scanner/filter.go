// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"sort"
	"strings"
)

// FilterOptions defines criteria for including or excluding files.
type FilterOptions struct {
	// ExcludeDirs is a list of directory names to exclude.
	// Matching is segment-aware: "vendor" excludes "vendor/foo" and "pkg/vendor/bar",
	// but not "vendor_stuff/foo".
	ExcludeDirs []string

	// ExcludePrefixes drops paths starting with any of these repo-relative
	// prefixes (e.g. ".github/"). An entry without a trailing slash also
	// matches the exact path, so "README.md" drops only that file.
	ExcludePrefixes []string

	// IncludeExtensions is a list of extensions to include (e.g., ".go").
	// If empty, all extensions are included.
	IncludeExtensions []string
}

// DefaultExcludeDirs returns the directories file-based checks never look in.
func DefaultExcludeDirs() []string {
	return []string{
		"node_modules",
		".git",
		"dist",
		"build",
		"vendor",
		"testdata",
		".idea",
		".bin",
		".devcheck",
	}
}

// FilterFiles applies the filter options to a list of file paths.
// It returns a new slice of strings, sorted deterministically.
func FilterFiles(paths []string, opts FilterOptions) []string {
	if len(paths) == 0 {
		return nil
	}

	var filtered []string
	for _, path := range paths {
		if path == "" {
			continue
		}
		if shouldExclude(path, opts.ExcludeDirs) {
			continue
		}
		if hasExcludedPrefix(path, opts.ExcludePrefixes) {
			continue
		}
		if !shouldIncludeExtension(path, opts.IncludeExtensions) {
			continue
		}
		filtered = append(filtered, path)
	}

	sort.Strings(filtered)
	return filtered
}

// shouldExclude returns true if the directory part of path contains any of
// the excluded segments.
func shouldExclude(path string, excludes []string) bool {
	if len(excludes) == 0 {
		return false
	}
	parts := strings.Split(path, "/")
	for _, part := range parts[:len(parts)-1] {
		for _, exclude := range excludes {
			if part == exclude {
				return true
			}
		}
	}
	return false
}

func hasExcludedPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || (strings.HasSuffix(p, "/") && strings.HasPrefix(path, p)) {
			return true
		}
	}
	return false
}

// shouldIncludeExtension returns true if length is 0 OR path matches one extension.
func shouldIncludeExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
