// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package emit renders finalized lir instruction sequences as kernel
// language statements.
//
// Each instruction kind has exactly one emission rule. Addressing follows the
// memory space of the address alone: Local-space addresses are written as
// base[index], every other space as a cast pointer dereference
// *((__global float *) base). Intrinsic names, qualifiers and identity
// primitives come from a dialect.Dialect, so the same rules serve OpenCL C
// and CUDA C.
//
// Statements are written in input order. The emitter keeps no state between
// calls; emitting the same sequence twice yields identical text.
//
// Example:
//
//	out, err := emit.Emit(insts, emit.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(out)
package emit
