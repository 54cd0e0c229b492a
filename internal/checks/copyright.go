// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kiransingh99/gurbani-analysis/internal/config"
	"github.com/kiransingh99/gurbani-analysis/internal/runner"
)

// Every checked file must open with:
//
//	// -----------------------------------------------------------------------------
//	// <file name> - <description>
//	//
//	// <Month> <yyyy>, <author>
//	//
//	// Copyright (c) [<yyyy> - ]<current year>
//	// All rights reserved.
//	// -----------------------------------------------------------------------------
//
// with the comment prefix chosen by extension. A leading shebang is skipped.

const months = "January|February|March|April|May|June|July|August|September|October|November|December"

var bannerRule = strings.Repeat("-", 77)

var commentPrefixes = map[string]string{
	".go":   "//",
	".c":    "//",
	".h":    "//",
	".js":   "//",
	".ts":   "//",
	".sh":   "#",
	".py":   "#",
	".yml":  "#",
	".yaml": "#",
	".toml": "#",
}

// CommentPrefix returns the line-comment marker used for a file.
func CommentPrefix(name string) string {
	if p, ok := commentPrefixes[filepath.Ext(name)]; ok {
		return p
	}
	return "#"
}

// BannerPatterns builds the expected banner for a file, one pattern per line.
func BannerPatterns(name string, year int) []*regexp.Regexp {
	p := regexp.QuoteMeta(CommentPrefix(name))
	base := regexp.QuoteMeta(path.Base(filepath.ToSlash(name)))
	y := strconv.Itoa(year)

	exprs := []string{
		`^` + p + ` ` + bannerRule + `$`,
		`^` + p + ` ` + base + ` - \S.*$`,
		`^` + p + `$`,
		`^` + p + ` (` + months + `) 20[0-9]{2}, \p{L}[\p{L}\p{M} .'-]*$`,
		`^` + p + `$`,
		`^` + p + ` Copyright \(c\) (20[0-9]{2} - )?` + y + `$`,
		`^` + p + ` All rights reserved\.$`,
		`^` + p + ` ` + bannerRule + `$`,
	}

	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// CheckBanner reads the head of r and returns the first line that breaks the
// banner for name. ok is true when the banner is intact.
func CheckBanner(r io.Reader, name string, year int) (line string, ok bool, err error) {
	sc := bufio.NewScanner(r)
	first := true
	for _, re := range BannerPatterns(name, year) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", false, err
			}
			return "<end of file>", false, nil
		}
		line = strings.TrimRight(sc.Text(), "\r")
		if first && strings.HasPrefix(line, "#!") {
			first = false
			if !sc.Scan() {
				return "<end of file>", false, sc.Err()
			}
			line = strings.TrimRight(sc.Text(), "\r")
		}
		first = false
		if !re.MatchString(line) {
			return line, false, nil
		}
	}
	return "", true, nil
}

type Copyright struct{}

func NewCopyright() runner.Check { return &Copyright{} }

func (s *Copyright) ID() string    { return "copyright" }
func (s *Copyright) Label() string { return "Copyright" }

func (s *Copyright) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.New()
	}

	if len(cfg.Copyright.Extensions) == 0 {
		return runner.Result{Check: s.ID(), Status: runner.StatusPass, Note: "No extensions configured for copyright checks"}
	}

	files, err := sourceFiles(ctx, deps, cfg.Copyright.Extensions)
	if err != nil {
		return runner.Result{
			Check:    s.ID(),
			Status:   runner.StatusError,
			ExitCode: 2,
			Note:     fmt.Sprintf("Failed to list files: %v", err),
		}
	}

	year := deps.Clock().Year()
	var failures []string
	for _, p := range files {
		bad, err := checkFile(filepath.Join(deps.RepoRoot, p), p, year)
		if err != nil {
			failures = append(failures, fmt.Sprintf("   - %s: %v", p, err))
			continue
		}
		if bad != "" {
			failures = append(failures, fmt.Sprintf("   - %s: %s", p, bad))
		}
	}

	if len(failures) > 0 {
		sort.Strings(failures)
		return runner.Result{
			Check:    s.ID(),
			Status:   runner.StatusFail,
			ExitCode: 1,
			Note:     "Copyright notice checks failed! The following files need to be fixed:\n" + strings.Join(failures, "\n"),
		}
	}

	return runner.Result{
		Check:  s.ID(),
		Status: runner.StatusPass,
		Note:   fmt.Sprintf("Copyright notices found in %d files. A manual look is still recommended.", len(files)),
	}
}

// checkFile returns the offending line, or "" when the banner is intact or
// the file is empty.
func checkFile(full, name string, year int) (string, error) {
	f, err := os.Open(full)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		return "", nil
	}

	line, ok, err := CheckBanner(f, name, year)
	if err != nil || ok {
		return "", err
	}
	if line == "" {
		line = "<empty line>"
	}
	return line, nil
}
