// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/kiransingh99/gurbani-analysis/cmd/devcheck/commands"
	"github.com/kiransingh99/gurbani-analysis/cmd/devcheck/internal/clierr"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		if msg := clierr.Message(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(clierr.ExitCodeOf(err))
	}
}
