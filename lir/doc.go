// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package lir defines the low-level instruction representation consumed by
// the kernel statement emitter.
//
// A lir instruction sequence is the output of an optimizer that has already
// canonicalized the program, allocated destination slots and computed every
// address. Nothing in this package performs address arithmetic or register
// allocation; it only describes the finished instructions so that a backend
// can render them as kernel-language text.
//
// # Memory Spaces
//
// Every memory access names the space it touches:
//
//	Global     device memory, addressed through a typed pointer cast
//	Local      workgroup-local (shared) arrays, addressed by element index
//	Private    per-thread memory, addressed through a typed pointer cast
//	Constant   read-only device memory, addressed through a typed pointer cast
//
// The addressing strategy is a pure function of the space (see StrategyFor).
// The space of an Address is fixed when the Address is built and cannot be
// changed afterwards.
//
// # Instructions
//
// Instruction kinds form a closed set (Assign, Move, Load, VectorLoad, Store,
// VectorStore, AtomicAddStore, AtomicSubStore, AtomicMulStore, Expr, Pragma,
// LocalAlloc). Backends dispatch on them with a type switch.
package lir
