// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbosity int
}

func newRootCommand() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "kernelc",
		Short:         "Lower finalized kernel instructions to OpenCL C or CUDA C",
		Version:       kernelcVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", "log verbosity (repeat for more)")

	root.AddCommand(
		newEmitCommand(&flags),
		newGridCommand(&flags),
		newDialectsCommand(&flags),
	)
	return root
}

// logger returns a logr.Logger writing text records to stderr. Each -v
// enables one more logr verbosity level.
func (f *globalFlags) logger() logr.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(-f.verbosity),
	})
	return logr.FromSlogHandler(handler)
}
