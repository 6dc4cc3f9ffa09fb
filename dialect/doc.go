// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package dialect describes the target kernel languages the statement
// emitter can write.
//
// A Dialect is pure configuration: memory-space qualifiers, type spellings,
// atomic and vector intrinsic names, barrier calls and the spelling of the
// execution-context identity primitives. The same emission logic serves every
// dialect, so supporting a new kernel language means writing a Dialect, not a
// new emitter.
//
// # Built-in Dialects
//
//	opencl   OpenCL C 1.2 with the runtime's float-add and int-multiply atomics
//	cuda     CUDA C++ kernels
//
// # Identity Templates
//
// Identity primitives are templates with two placeholders:
//
//	{d}     the dimension number (0, 1, 2)
//	{xyz}   the dimension letter (x, y, z)
//
// so OpenCL's "get_global_id({d})" and CUDA's
// "(blockIdx.{xyz} * blockDim.{xyz} + threadIdx.{xyz})" are both expressible.
//
// # Custom Dialects
//
// Dialects can be loaded from YAML. A file may extend a registered dialect
// and override only what differs:
//
//	name: opencl-native-float
//	extends: opencl
//	atomics:
//	  add_float: atomic_add_float
package dialect
