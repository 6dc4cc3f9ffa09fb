// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package unitfile decodes YAML descriptions of kernel compilation units.
//
// A unit file binds one worker grid, an optional device and any number of
// kernels. Each kernel declares its local arrays and lists its finalized
// instructions, one single-key mapping per instruction:
//
//	dialect: opencl
//	grid:
//	  global: [1024]
//	  local: [64]
//	kernels:
//	  - name: reduce
//	    locals:
//	      - {name: tile, type: float, size: 64}
//	    body:
//	      - assign: {dst: "i_2:int", src: {query: thread_id, dim: 0}}
//	      - load: {dst: "f_4:float", addr: {space: global, type: float, base: "ul_0:long"}}
//	      - store: {addr: {space: local, type: float, base: tile, index: "i_3:int"}, value: "f_4:float"}
//	      - barrier: local
//
// Operands are written as "name:type" for variables, bare names for local
// arrays, YAML numbers and booleans for constants, and mappings for
// composite expressions. The YAML line of every instruction becomes its
// span, so errors point back into the file.
package unitfile
