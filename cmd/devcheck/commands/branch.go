// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiransingh99/gurbani-analysis/cmd/devcheck/internal/clierr"
	"github.com/kiransingh99/gurbani-analysis/internal/checks"
)

// NewBranchCommand builds `devcheck branch`, the standalone branch-name check.
func NewBranchCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "branch",
		Short: "Check that the current branch is named GA<issue>.<description>",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return clierr.Wrap(checks.BranchError, "branch", err)
			}
			defer e.close()

			res := checks.NewBranchName().Run(cmd.Context(), e.deps(false))
			if res.Note != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Note)
			}
			if res.ExitCode != 0 {
				return clierr.Silent(res.ExitCode)
			}
			return nil
		},
	}
}
