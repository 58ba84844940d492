// SPDX-License-Identifier: MIT

// Package cmd implements the qkdhal command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"qkdhal/internal/config"
	"qkdhal/internal/log"
	"qkdhal/pkg/build"
	"qkdhal/pkg/hal/deps"

	_ "qkdhal/pkg/hal/all"
)

// options holds the global flags and the configuration they resolve to.
type options struct {
	ConfigPath string
	Verbose    bool

	cfg *config.Config
}

// NewRootCommand builds the command tree. Output goes to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	info := build.Get()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           info.Name,
		Short:         "Hardware abstraction layer for the QKD lab bench",
		Version:       info.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "f", "",
		"Configuration file. Default is "+config.DefaultConfigFile+" in the working directory, if present")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"Show debug output")

	rootCmd.AddCommand(
		newListCommand(),
		newDepsCommand(),
		newDevicesCommand(),
		newAcquireCommand(opts),
		newEmitCommand(opts),
		newMonitorCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

// load reads the configuration and applies its global settings.
func (o *options) load() error {
	cfg, err := config.LoadConfig(o.ConfigPath)
	if err != nil {
		return err
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	if o.Verbose {
		level = log.LevelDebug
	}
	log.SetLevel(level)
	deps.Disable(cfg.Dependencies.Disabled...)

	o.cfg = cfg
	return nil
}

// Execute runs the command line with the process arguments.
func Execute() error {
	rootCmd := NewRootCommand(os.Stdout)
	rootCmd.SetArgs(os.Args[1:])
	return rootCmd.Execute()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), build.Get())
		},
	}
}
