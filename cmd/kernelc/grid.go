// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gogpu/kernelc/kernelctx"
	"github.com/gogpu/kernelc/unitfile"
)

type gridFlags struct {
	global []int64
	local  []int64
}

func newGridCommand(global *globalFlags) *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "grid [flags] [unit.yaml]",
		Short: "Show the worker grid and device limits of a unit file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := global.logger()
			grid, device, err := loadGrid(args, &flags, log)
			if err != nil {
				return err
			}
			log.V(1).Info("worker grid", "grid", grid.String())
			fmt.Fprintln(cmd.OutOrStdout(), renderGrid(grid))
			if device != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderDevice(device))
			}
			return nil
		},
	}

	cmd.Flags().Int64SliceVar(&flags.global, "global", nil, "global work size per dimension")
	cmd.Flags().Int64SliceVar(&flags.local, "local", nil, "local work size per dimension (default: one group)")
	return cmd
}

func loadGrid(args []string, flags *gridFlags, log logr.Logger) (*kernelctx.WorkerGrid, *kernelctx.Device, error) {
	if len(args) == 1 {
		file, err := unitfile.ParseFile(args[0], unitfile.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		return file.Grid, file.Device, nil
	}
	if len(flags.global) == 0 {
		return nil, nil, errors.New("either a unit file or --global is required")
	}
	local := flags.local
	if len(local) == 0 {
		local = flags.global
	}
	grid, err := kernelctx.NewWorkerGrid(flags.global, local)
	return grid, nil, err
}

func renderGrid(grid *kernelctx.WorkerGrid) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Worker grid (%dD)", grid.Dims()))
	t.AppendHeader(table.Row{"Dim", "Global", "Local", "Groups"})
	for dim := 0; dim < grid.Dims(); dim++ {
		g, _ := grid.GlobalGroupSize(dim)
		l, _ := grid.LocalGroupSize(dim)
		n, _ := grid.NumGroups(dim)
		t.AppendRow(table.Row{dimName(dim), g, l, n})
	}
	t.AppendFooter(table.Row{"", grid.TotalThreads(), grid.GroupThreads(), ""})
	return t.Render()
}

func renderDevice(d *kernelctx.Device) string {
	t := table.NewWriter()
	t.SetTitle("Device " + d.Name)
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRows([]table.Row{
		{"global memory", d.GlobalMemorySize},
		{"local memory", d.LocalMemorySize},
		{"max work group size", d.MaxWorkGroupSize},
		{"max work item sizes", fmt.Sprint(d.MaxWorkItemSizes)},
		{"double precision", d.DoubleFP},
		{"extensions", strings.Join(d.Extensions, " ")},
	})
	return t.Render()
}

func dimName(dim int) string {
	return [kernelctx.MaxDims]string{"x", "y", "z"}[dim]
}
