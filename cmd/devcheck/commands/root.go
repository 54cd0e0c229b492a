// SPDX-License-Identifier: AGPL-3.0-or-later

/*
devcheck - developer-workflow checks for the gurbani-analysis repository.
It runs the formatter, branch-name, coverage, copyright, fail-string, lint,
unit-test and type checks in a fixed order and reports a summary.

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package commands contains the Cobra commands of the devcheck CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the devcheck root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("DEVCHECK_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "devcheck",
		Short:         "devcheck - run the repository's pre-merge checks",
		Long:          "devcheck runs autoformat, branch-name, coverage, copyright, fail-string, lint, unit-test and type checks and exits with the number that failed.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "config file (default <repo>/"+configFileHint+")")
	flags.StringVar(&opts.stateDir, "state-dir", "", "directory to store run state (default from config)")
	flags.BoolVar(&opts.json, "json", false, "output results in JSON where supported")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of devcheck",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "devcheck version %s\n", version)
		},
	})

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewGuardCommand(opts))
	cmd.AddCommand(NewBranchCommand(opts))

	return cmd
}
