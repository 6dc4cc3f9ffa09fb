// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gogpu/kernelc/dialect"
)

func newDialectsCommand(global *globalFlags) *cobra.Command {
	var load []string

	cmd := &cobra.Command{
		Use:   "dialects [flags]",
		Short: "List the known dialects and their intrinsics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := dialect.NewRegistry()
			for _, path := range load {
				d, err := dialect.LoadFile(path)
				if err != nil {
					return err
				}
				if err := reg.Register(d); err != nil {
					return err
				}
				global.logger().V(1).Info("registered dialect", "name", d.Name, "path", path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDialects(reg))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&load, "load", nil, "also list the dialect in this YAML file (repeatable)")
	return cmd
}

func renderDialects(reg *dialect.Registry) string {
	t := table.NewWriter()
	t.SetTitle("Dialects")
	t.AppendHeader(table.Row{"Name", "Local", "Atomic add", "Atomic add (float)", "Atomic sub", "Atomic mul", "Barrier"})
	for _, name := range reg.Names() {
		d, _ := reg.Lookup(name)
		sub := d.Atomics.Sub
		if sub == "" {
			sub = d.Atomics.AddInt + " (negated)"
		}
		t.AppendRow(table.Row{
			d.Name,
			d.Spaces.Local,
			d.Atomics.AddInt,
			d.Atomics.AddFloat,
			sub,
			d.Atomics.MulInt,
			d.Barriers.Local,
		})
	}
	return t.Render()
}
