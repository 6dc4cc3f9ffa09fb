// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gogpu/kernelc"
	"github.com/gogpu/kernelc/dialect"
	"github.com/gogpu/kernelc/unitfile"
)

type emitFlags struct {
	dialect         string
	output          string
	outDir          string
	indent          int
	jobs            int
	noValidate      bool
	legacyAtomicSub bool
}

func newEmitCommand(global *globalFlags) *cobra.Command {
	var flags emitFlags

	cmd := &cobra.Command{
		Use:   "emit [flags] <unit.yaml>...",
		Short: "Emit kernel source for every kernel of the unit files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.output != "" && flags.outDir != "" {
				return errors.New("-o and --out-dir are mutually exclusive")
			}
			return runEmit(cmd, global, &flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.dialect, "dialect", "", "dialect name or YAML file (default: from the unit file, else opencl)")
	f.StringVarP(&flags.output, "output", "o", "", "write all kernels to this file")
	f.StringVar(&flags.outDir, "out-dir", "", "write one file per kernel into this directory")
	f.IntVar(&flags.indent, "indent", 1, "indent level of emitted statements")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "kernels compiled concurrently (default: GOMAXPROCS)")
	f.BoolVar(&flags.noValidate, "no-validate", false, "skip the contract check before emission")
	f.BoolVar(&flags.legacyAtomicSub, "legacy-atomic-sub", false, "emit atomic subtraction as an add of the operand")
	return cmd
}

func runEmit(cmd *cobra.Command, global *globalFlags, flags *emitFlags, paths []string) error {
	log := global.logger()

	var units []*kernelc.Unit
	fileDialect := ""
	for _, path := range paths {
		file, err := unitfile.ParseFile(path, unitfile.WithLogger(log))
		if err != nil {
			return err
		}
		if fileDialect == "" {
			fileDialect = file.Dialect
		}
		units = append(units, file.Units...)
		log.V(1).Info("loaded unit file", "path", path, "kernels", len(file.Units))
	}

	d, err := resolveDialect(flags.dialect, fileDialect)
	if err != nil {
		return err
	}

	opts := kernelc.DefaultOptions()
	opts.Dialect = d
	opts.Validate = !flags.noValidate
	opts.IndentLevel = flags.indent
	opts.LegacyAtomicSub = flags.legacyAtomicSub
	opts.Logger = log
	if flags.jobs > 0 {
		opts.Concurrency = flags.jobs
	}

	if flags.outDir != "" {
		sink, err := newDirSink(flags.outDir, sourceExt(d.Name))
		if err != nil {
			return err
		}
		for _, u := range units {
			if err := kernelc.CompileTo(sink, u, opts); err != nil {
				return err
			}
		}
		return nil
	}

	results, err := kernelc.CompileAll(cmd.Context(), units, opts)
	if err != nil {
		return err
	}
	text := joinResults(results)

	if flags.output == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	return writeFileAtomic(flags.output, []byte(text))
}

// resolveDialect picks the flag value over the unit file's choice.
func resolveDialect(flag, fromFile string) (*dialect.Dialect, error) {
	switch {
	case flag != "":
		return dialect.Resolve(flag)
	case fromFile != "":
		return dialect.Resolve(fromFile)
	default:
		return dialect.OpenCL(), nil
	}
}

func joinResults(results []*kernelc.Result) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "// kernel %s (%s)\n", r.Name, r.Dialect)
		sb.WriteString(r.Text())
	}
	return sb.String()
}

func sourceExt(dialectName string) string {
	if dialectName == dialect.NameCUDA {
		return ".cu"
	}
	return ".cl"
}
