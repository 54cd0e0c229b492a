// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiransingh99/gurbani-analysis/cmd/devcheck/internal/clierr"
	"github.com/kiransingh99/gurbani-analysis/internal/checks"
	"github.com/kiransingh99/gurbani-analysis/internal/runner"
)

// NewRunCommand builds `devcheck run` and its state-management subcommands.
func NewRunCommand(opts *globalOptions) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "run [check...]",
		Short: "Run every check in order, or only the named ones",
		Long: `Run the repository checks one after another and print PASSED or FAILED
for each, followed by a summary. The exit status is the number of failed checks.
State is kept in the state dir so failures can be resumed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			r := e.runner(fix)
			r.SetOutput(cmd.OutOrStdout())

			var summary *runner.Summary
			if len(args) == 0 {
				summary, err = r.RunAll(cmd.Context())
			} else {
				summary, err = r.RunList(cmd.Context(), args)
			}
			return summaryErr(summary, err)
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "let checks that can repair the tree do so (autoformat)")

	cmd.AddCommand(newRunListCommand(opts))
	cmd.AddCommand(newRunResumeCommand(opts))
	cmd.AddCommand(newRunReportCommand(opts))
	cmd.AddCommand(newRunResetCommand(opts))

	return cmd
}

// summaryErr turns a finished run into the process status: the number of
// failed checks. The summary is already printed, so the error is silent.
func summaryErr(summary *runner.Summary, err error) error {
	if err != nil {
		return err
	}
	if !summary.OK() {
		return clierr.Silent(summary.ExitCode())
	}
	return nil
}

type checkListItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func newRunListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available checks in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := checks.Registry()
			list := make([]checkListItem, 0, len(registry))
			for _, c := range registry {
				list = append(list, checkListItem{ID: c.ID(), Label: c.Label()})
			}

			out := cmd.OutOrStdout()
			if opts.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"checks": list})
			}

			for _, c := range list {
				_, _ = fmt.Fprintf(out, "%-12s %s\n", c.ID, c.Label)
			}
			return nil
		},
	}
}

func newRunResumeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Re-run the checks that failed last time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			r := e.runner(false)
			r.SetOutput(cmd.OutOrStdout())
			return summaryErr(r.Resume(cmd.Context()))
		},
	}
}

func newRunResetCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()
			return e.store.Reset()
		},
	}
}

func newRunReportCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show last run status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			last, err := e.store.ReadLastRun()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(last)
			}

			if last == nil {
				_, _ = fmt.Fprintln(out, "No run state found.")
				return nil
			}

			_, _ = fmt.Fprintf(out, "Status: %s\n", last.Status)
			if len(last.Failed) == 0 {
				_, _ = fmt.Fprintln(out, "All passed.")
				return nil
			}
			_, _ = fmt.Fprintln(out, "Failed:")
			for _, id := range last.Failed {
				_, _ = fmt.Fprintf(out, "  - %s\n", id)
			}
			return nil
		},
	}
}
