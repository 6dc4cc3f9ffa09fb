// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command kernelc lowers kernel unit files to kernel language source.
//
// Usage:
//
//	kernelc emit [flags] <unit.yaml>
//	kernelc grid [flags] [unit.yaml]
//	kernelc dialects [flags]
//
// Examples:
//
//	kernelc emit reduce.yaml                      # OpenCL C to stdout
//	kernelc emit --dialect cuda -o reduce.cu reduce.yaml
//	kernelc emit --out-dir build/ kernels.yaml    # one file per kernel
//	kernelc grid --global 1024,768 --local 16,16  # inspect a worker grid
//	kernelc dialects --load mydialect.yaml        # list known dialects
package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

const kernelcVersion = "0.1.0-dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
