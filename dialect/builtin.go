// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dialect

// Names of the built-in dialects.
const (
	NameOpenCL = "opencl"
	NameCUDA   = "cuda"
)

// Runtime library intrinsics the OpenCL kernel preamble provides.
const (
	OpenCLAtomicAddFloat = "atomicAdd_Tornado_Floats"
	OpenCLAtomicMulInt   = "atomicMul_Tornado_Int"
)

// Helper functions the CUDA kernel preamble provides. CUDA has no built-in
// vector load/store by element index and no integer atomic multiply.
const (
	CUDAVectorLoad   = "vload%d"
	CUDAVectorStore  = "vstore%d"
	CUDAAtomicMulInt = "atomicMul_int"
)

// OpenCL returns the OpenCL C dialect.
func OpenCL() *Dialect {
	return &Dialect{
		Name: NameOpenCL,
		Spaces: SpaceQualifiers{
			Global:   "__global",
			Local:    "__local",
			Private:  "__private",
			Constant: "__constant",
		},
		Atomics: Atomics{
			AddInt:   "atomic_add",
			AddFloat: OpenCLAtomicAddFloat,
			Sub:      "atomic_sub",
			MulInt:   OpenCLAtomicMulInt,
		},
		Vector: VectorIntrinsics{
			Load:  "vload%d",
			Store: "vstore%d",
		},
		Barriers: Barriers{
			Local:  "barrier(CLK_LOCAL_MEM_FENCE)",
			Global: "barrier(CLK_GLOBAL_MEM_FENCE)",
		},
		Identity: Identity{
			ThreadID:   "get_global_id({d})",
			GroupID:    "get_group_id({d})",
			LocalID:    "get_local_id({d})",
			LocalSize:  "get_local_size({d})",
			GlobalSize: "get_global_size({d})",
		},
		FloatSuffix: "F",
		Reserved:    openclReserved(),
	}
}

// CUDA returns the CUDA C++ dialect. Global, private and constant pointers
// carry no qualifier; local arrays are __shared__.
func CUDA() *Dialect {
	return &Dialect{
		Name: NameCUDA,
		Spaces: SpaceQualifiers{
			Local: "__shared__",
		},
		Types: map[string]string{
			"uchar":  "unsigned char",
			"ushort": "unsigned short",
			"uint":   "unsigned int",
			"long":   "long long",
			"ulong":  "unsigned long long",
			"half":   "__half",
			"long2":  "longlong2",
			"long4":  "longlong4",
			"ulong2": "ulonglong2",
			"ulong4": "ulonglong4",
		},
		Atomics: Atomics{
			AddInt:   "atomicAdd",
			AddFloat: "atomicAdd",
			Sub:      "atomicSub",
			MulInt:   CUDAAtomicMulInt,
		},
		Vector: VectorIntrinsics{
			Load:  CUDAVectorLoad,
			Store: CUDAVectorStore,
		},
		Barriers: Barriers{
			Local:  "__syncthreads()",
			Global: "__syncthreads()",
		},
		Identity: Identity{
			ThreadID:   "(blockIdx.{xyz} * blockDim.{xyz} + threadIdx.{xyz})",
			GroupID:    "blockIdx.{xyz}",
			LocalID:    "threadIdx.{xyz}",
			LocalSize:  "blockDim.{xyz}",
			GlobalSize: "(gridDim.{xyz} * blockDim.{xyz})",
		},
		FloatSuffix: "f",
		Reserved:    cudaReserved(),
	}
}
