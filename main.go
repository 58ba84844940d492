// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"qkdhal/cmd"
	"qkdhal/internal/log"
	"qkdhal/pkg/build"
)

// main is the entry point of the qkdhal tool. Build information comes
// first so that every subcommand can report it; development builds run
// with the defaults of pkg/build.
func main() {
	if err := build.Initialize(); err != nil {
		log.Debugf("build information incomplete: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
