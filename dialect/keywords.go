// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dialect

import (
	"slices"

	"github.com/samber/lo"
)

// cKeywords contains the C99 reserved words shared by every C-family
// kernel language.
var cKeywords = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {}, "continue": {},
	"default": {}, "do": {}, "double": {}, "else": {}, "enum": {}, "extern": {},
	"float": {}, "for": {}, "goto": {}, "if": {}, "inline": {}, "int": {},
	"long": {}, "register": {}, "restrict": {}, "return": {}, "short": {},
	"signed": {}, "sizeof": {}, "static": {}, "struct": {}, "switch": {},
	"typedef": {}, "union": {}, "unsigned": {}, "void": {}, "volatile": {},
	"while": {}, "_Bool": {}, "_Complex": {}, "_Imaginary": {},
}

// openclKeywords contains OpenCL C qualifiers, types and builtins that may
// not be redeclared.
var openclKeywords = map[string]struct{}{
	// Address space and access qualifiers
	"__global": {}, "global": {}, "__local": {}, "local": {},
	"__private": {}, "private": {}, "__constant": {}, "constant": {},
	"__kernel": {}, "kernel": {}, "__read_only": {}, "read_only": {},
	"__write_only": {}, "write_only": {}, "__read_write": {}, "read_write": {},

	// Types
	"bool": {}, "uchar": {}, "ushort": {}, "uint": {}, "ulong": {}, "half": {},
	"size_t": {}, "ptrdiff_t": {}, "intptr_t": {}, "uintptr_t": {},
	"image2d_t": {}, "image3d_t": {}, "sampler_t": {}, "event_t": {},

	// Work-item and synchronization builtins
	"get_work_dim": {}, "get_global_size": {}, "get_global_id": {},
	"get_local_size": {}, "get_local_id": {}, "get_num_groups": {},
	"get_group_id": {}, "get_global_offset": {}, "barrier": {},
	"mem_fence": {}, "read_mem_fence": {}, "write_mem_fence": {},
}

// cudaKeywords contains CUDA qualifiers and builtin variables.
var cudaKeywords = map[string]struct{}{
	"__global__": {}, "__device__": {}, "__host__": {}, "__shared__": {},
	"__constant__": {}, "__managed__": {}, "__restrict__": {},
	"threadIdx": {}, "blockIdx": {}, "blockDim": {}, "gridDim": {}, "warpSize": {},
	"__syncthreads": {}, "__threadfence": {}, "__threadfence_block": {},
	"bool": {}, "true": {}, "false": {}, "class": {}, "namespace": {},
	"template": {}, "typename": {}, "this": {}, "new": {}, "delete": {},
}

func openclReserved() []string {
	names := lo.Keys(openclKeywords)
	slices.Sort(names)
	return names
}

func cudaReserved() []string {
	names := lo.Keys(cudaKeywords)
	slices.Sort(names)
	return names
}
