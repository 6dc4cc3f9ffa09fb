// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package kernelc lowers finalized kernel instruction sequences to kernel
// language source text.
//
// A compilation unit is one kernel body: its execution context (worker grid
// and workgroup-local allocations) and its ordered instruction sequence.
// Compile renders the local array declarations and the statements of the
// body for one dialect:
//
//	grid, _ := kernelctx.NewWorkerGrid1D(1024, 64)
//	kctx, _ := kernelctx.New(grid)
//	tile, _ := kctx.AllocateFloatLocalArray(64)
//
//	unit := &kernelc.Unit{Name: "reduce", Context: kctx, Body: body}
//	res, err := kernelc.Compile(unit, kernelc.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(res.Text())
//
// Units that share one worker grid are independent and can be compiled
// concurrently with CompileAll.
//
// For lower-level access use the emit package directly:
//
//	text, err := emit.Emit(body, emit.DefaultOptions())
package kernelc

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/kernelc/dialect"
	"github.com/gogpu/kernelc/emit"
	"github.com/gogpu/kernelc/kernelctx"
	"github.com/gogpu/kernelc/lir"
)

// Unit is one kernel compilation unit.
type Unit struct {
	// Name identifies the kernel in logs and results.
	Name string

	// Context is the unit's execution context. Its grid folds size queries
	// and its local arrays become the preamble declarations.
	Context *kernelctx.Context

	// Body is the finalized instruction sequence, in emission order.
	Body []lir.Instruction
}

// CompileOptions configures kernel compilation.
type CompileOptions struct {
	// Dialect is the target kernel language (default: OpenCL C).
	Dialect *dialect.Dialect

	// Validate checks upstream contracts on the whole body before any
	// text is rendered.
	Validate bool

	// IndentLevel is the indentation depth of emitted lines (default: 1).
	IndentLevel int

	// LegacyAtomicSub reproduces the add-based atomic subtraction of older
	// compilers. See emit.Options.
	LegacyAtomicSub bool

	// Concurrency bounds the units CompileAll compiles at once.
	Concurrency int

	// Logger receives per-unit compilation logs.
	Logger logr.Logger
}

// DefaultOptions returns sensible default options.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		Dialect:     dialect.OpenCL(),
		Validate:    true,
		IndentLevel: 1,
		Concurrency: runtime.GOMAXPROCS(0),
		Logger:      logr.Discard(),
	}
}

// Result is the output of one compiled unit.
type Result struct {
	// ID uniquely identifies this compilation in logs.
	ID xid.ID

	Name    string
	Dialect string

	// Declarations holds the local array declarations of the preamble.
	Declarations string

	// Body holds the emitted statements.
	Body string

	// LocalMemoryBytes is the workgroup-local memory the unit declares.
	LocalMemoryBytes int64
}

// Text returns the declarations followed by the body.
func (r *Result) Text() string {
	return r.Declarations + r.Body
}

// Compile renders one unit. It either succeeds completely or returns an
// error and no result.
func Compile(unit *Unit, opts CompileOptions) (*Result, error) {
	id := xid.New()
	if unit == nil || unit.Context == nil {
		return nil, fmt.Errorf("kernelc: %w", lir.NewError(lir.ErrConfiguration, "unit has no execution context"))
	}
	if opts.Dialect == nil {
		opts.Dialect = dialect.OpenCL()
	}
	log := opts.Logger.WithValues("unit", id.String(), "kernel", unit.Name, "dialect", opts.Dialect.Name)

	res, err := compile(id, unit, opts)
	if err != nil {
		log.Error(err, "compilation failed")
		return nil, fmt.Errorf("kernelc: %s: %w", unit.Name, err)
	}
	log.V(1).Info("compiled kernel",
		"instructions", len(unit.Body),
		"locals", len(unit.Context.LocalArrays()),
		"bytes", len(res.Declarations)+len(res.Body))
	return res, nil
}

func compile(id xid.ID, unit *Unit, opts CompileOptions) (*Result, error) {
	if opts.Validate {
		if errs := lir.Validate(unit.Body); len(errs) > 0 {
			return nil, fmt.Errorf("%d contract violations, first: %w", len(errs), errs[0].AsError())
		}
	}

	emitOpts := emit.Options{
		Dialect:         opts.Dialect,
		Grid:            unit.Context.Grid(),
		IndentLevel:     opts.IndentLevel,
		LegacyAtomicSub: opts.LegacyAtomicSub,
	}
	decls, err := emit.WriteLocalDeclarations(unit.Context.LocalArrays(), emitOpts)
	if err != nil {
		return nil, err
	}
	body, err := emit.Emit(unit.Body, emitOpts)
	if err != nil {
		return nil, err
	}
	return &Result{
		ID:               id,
		Name:             unit.Name,
		Dialect:          opts.Dialect.Name,
		Declarations:     decls,
		Body:             body,
		LocalMemoryBytes: unit.Context.LocalMemoryBytes(),
	}, nil
}

// CompileTo compiles unit and hands the text to sink. Exactly one of
// sink.Commit or sink.Discard is called.
func CompileTo(sink emit.Sink, unit *Unit, opts CompileOptions) error {
	name := ""
	if unit != nil {
		name = unit.Name
	}
	res, err := Compile(unit, opts)
	if err != nil {
		sink.Discard(name, err)
		return err
	}
	if err := sink.Commit(name, res.Text()); err != nil {
		return fmt.Errorf("kernelc: %s: %w", name, err)
	}
	return nil
}

// CompileAll compiles independent units concurrently, at most
// opts.Concurrency at a time. Results are in input order. The first failure
// cancels the units not yet started and is returned.
func CompileAll(ctx context.Context, units []*Unit, opts CompileOptions) ([]*Result, error) {
	if opts.Dialect == nil {
		opts.Dialect = dialect.OpenCL()
	}
	if err := opts.Dialect.Validate(); err != nil {
		return nil, fmt.Errorf("kernelc: %w", err)
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(units))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Compile(unit, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	opts.Logger.V(1).Info("compiled kernels", "count", len(results))
	return results, nil
}

// Validate checks an instruction sequence against upstream contracts.
func Validate(insts []lir.Instruction) []lir.ValidationError {
	return lir.Validate(insts)
}
