// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/deps"
	"qkdhal/pkg/hal/registry"
	"qkdhal/pkg/hal/soundcard"
)

func newListCommand() *cobra.Command {
	var namespace, category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered hardware types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if category == "" {
				fmt.Fprint(cmd.OutOrStdout(), registry.Render(namespace, nil))
				return nil
			}
			c, err := hal.ParseCategory(category)
			if err != nil {
				return err
			}
			ct, _ := registry.ContractFor(c)
			fmt.Fprint(cmd.OutOrStdout(), registry.Render(namespace, ct.InterfaceType))
			return nil
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", registry.DefaultNamespace,
		"Import path whose sub-packages are listed")
	cmd.Flags().StringVarP(&category, "category", "c", "",
		"Only list types implementing this category (adc, dac, laser, ...)")
	return cmd
}

func newDepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Show the availability of optional driver dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, d := range deps.Status(registry.Requirements()...) {
				status, detail := "available", ""
				switch {
				case d.Disabled:
					status, detail = "disabled", "by configuration"
				case !d.Provided:
					status, detail = "missing", "not compiled in"
				case d.ProbeErr != nil:
					status, detail = "missing", d.ProbeErr.Error()
				}
				rows = append(rows, []string{d.Name, status, detail})
			}
			return renderTable(cmd.OutOrStdout(), []string{"DEPENDENCY", "STATUS", "DETAIL"}, rows)
		},
	}
}

func newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the sound card devices usable by the soundcard drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := soundcard.Devices()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(devices))
			for _, d := range devices {
				rows = append(rows, []string{
					strconv.Itoa(d.ID), d.Name,
					strconv.Itoa(d.MaxInputChannels), strconv.Itoa(d.MaxOutputChannels),
					fmt.Sprintf("%g", d.DefaultSampleRate), d.Kind(),
				})
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "NAME", "IN", "OUT", "RATE", "KIND"}, rows)
		},
	}
}
