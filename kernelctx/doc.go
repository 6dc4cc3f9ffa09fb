// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package kernelctx models the execution context a generated kernel sees:
// per-thread and per-group identity, barriers, workgroup-local allocation,
// and the Worker Grid the kernel is launched over.
//
// A Context is built once per kernel compilation unit and bound to exactly
// one WorkerGrid. Identity accessors return lir.Query values that a dialect
// renders with its own primitives; the context never bakes in one kernel
// language's naming. Grid sizes are known at compile time and are read
// directly from the grid.
//
// Barriers are returned as instructions to be placed in the instruction
// stream. They are emitted, never executed, by the compiler.
package kernelctx
