// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"github.com/gogpu/kernelc/dialect"
	"github.com/gogpu/kernelc/lir"
)

// GridInfo supplies the compile-time work sizes of the bound worker grid.
// *kernelctx.WorkerGrid satisfies it.
type GridInfo interface {
	LocalGroupSize(dim int) (int64, error)
	GlobalGroupSize(dim int) (int64, error)
}

// Options configures statement emission.
type Options struct {
	// Dialect supplies qualifiers, intrinsic names and identity primitives.
	// Defaults to OpenCL C if nil.
	Dialect *dialect.Dialect

	// Grid folds local and global size queries into constants. If nil the
	// queries are rendered with the dialect's runtime primitives.
	Grid GridInfo

	// IndentLevel is the indentation depth of emitted statements.
	IndentLevel int

	// LegacyAtomicSub renders atomic subtraction as the add intrinsic applied
	// to the un-negated operand, matching output of earlier compilers.
	// The result adds instead of subtracting.
	LegacyAtomicSub bool
}

// DefaultOptions returns options for OpenCL C statements inside a kernel body.
func DefaultOptions() Options {
	return Options{
		Dialect:     dialect.OpenCL(),
		IndentLevel: 1,
	}
}

func (o *Options) validate() error {
	if o.Dialect == nil {
		o.Dialect = dialect.OpenCL()
	}
	if o.IndentLevel < 0 {
		return lir.NewError(lir.ErrConfiguration, "negative indent level %d", o.IndentLevel)
	}
	return o.Dialect.Validate()
}
