// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/spf13/cobra"

	"github.com/kiransingh99/gurbani-analysis/cmd/devcheck/internal/clierr"
	"github.com/kiransingh99/gurbani-analysis/internal/guard"
)

// NewGuardCommand builds `devcheck guard`, the standalone fail-string scan.
// Exit status: 0 clean, 1 marker found, 2 the search itself failed.
func NewGuardCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "guard",
		Short: "Fail if the marker string appears anywhere in the working tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return clierr.Wrap(guard.Errored.ExitCode(), "guard", err)
			}
			defer e.close()

			g := guard.New(e.cfg.Guard.Marker, e.cfg.Guard.ExcludeDirs)
			g.Logger = e.logger
			g.SkipDir(e.root, e.store.Dir())

			report, err := g.Scan(cmd.Context(), e.root)
			if err != nil {
				return clierr.Wrap(guard.Errored.ExitCode(), "guard", err)
			}

			report.Write(cmd.OutOrStdout())
			if code := report.Outcome.ExitCode(); code != 0 {
				return clierr.Silent(code)
			}
			return nil
		},
	}
}
