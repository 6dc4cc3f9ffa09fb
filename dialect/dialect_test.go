// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dialect

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/kernelc/lir"
)

func TestBuiltinsValidate(t *testing.T) {
	for _, d := range []*Dialect{OpenCL(), CUDA()} {
		require.NoError(t, d.Validate(), d.Name)
	}
}

func TestCastText(t *testing.T) {
	tests := []struct {
		dialect *Dialect
		cast    lir.AddressCast
		want    string
	}{
		{OpenCL(), lir.NewAddressCast(lir.SpaceGlobal, lir.Float), "(__global float *)"},
		{OpenCL(), lir.NewAddressCast(lir.SpacePrivate, lir.Int), "(__private int *)"},
		{OpenCL(), lir.NewAddressCast(lir.SpaceConstant, lir.Vector(lir.ScalarFloat, 4)), "(__constant float4 *)"},
		{CUDA(), lir.NewAddressCast(lir.SpaceGlobal, lir.Float), "(float *)"},
		{CUDA(), lir.NewAddressCast(lir.SpaceGlobal, lir.Long), "(long long *)"},
		{CUDA(), lir.NewAddressCast(lir.SpaceGlobal, lir.Vector(lir.ScalarLong, 4)), "(longlong4 *)"},
	}

	for _, tt := range tests {
		got, err := tt.dialect.CastText(tt.cast)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %v", tt.dialect.Name, tt.cast)
	}

	_, err := OpenCL().CastText(lir.NewAddressCast(lir.SpaceUnknown, lir.Int))
	require.Error(t, err)
	assert.True(t, errors.Is(err, lir.ErrContract))
}

func TestQueryText(t *testing.T) {
	cl, cuda := OpenCL(), CUDA()

	tests := []struct {
		d    *Dialect
		q    lir.Query
		want string
	}{
		{cl, lir.Query{Kind: lir.QueryThreadID, Dim: 0}, "get_global_id(0)"},
		{cl, lir.Query{Kind: lir.QueryGroupID, Dim: 1}, "get_group_id(1)"},
		{cl, lir.Query{Kind: lir.QueryLocalSize, Dim: 2}, "get_local_size(2)"},
		{cuda, lir.Query{Kind: lir.QueryThreadID, Dim: 1}, "(blockIdx.y * blockDim.y + threadIdx.y)"},
		{cuda, lir.Query{Kind: lir.QueryLocalID, Dim: 2}, "threadIdx.z"},
		{cuda, lir.Query{Kind: lir.QueryGlobalSize, Dim: 0}, "(gridDim.x * blockDim.x)"},
	}

	for _, tt := range tests {
		got, err := tt.d.QueryText(tt.q)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := cl.QueryText(lir.Query{Kind: lir.QueryThreadID, Dim: 3})
	require.ErrorIs(t, err, lir.ErrDimension)
}

func TestIntrinsicNames(t *testing.T) {
	cl := OpenCL()
	assert.Equal(t, "vload4", cl.VectorLoadName(4))
	assert.Equal(t, "vstore16", cl.VectorStoreName(16))
	assert.Equal(t, "barrier(CLK_LOCAL_MEM_FENCE)", cl.BarrierText(lir.ScopeLocal))
	assert.Equal(t, "barrier(CLK_GLOBAL_MEM_FENCE)", cl.BarrierText(lir.ScopeGlobal))

	fixed := OpenCL()
	fixed.Vector.Load = "load_vec"
	assert.Equal(t, "load_vec", fixed.VectorLoadName(8))

	// CUDA intrinsics without a built-in form come from the preamble helpers.
	cuda := CUDA()
	assert.Equal(t, CUDAAtomicMulInt, cuda.Atomics.MulInt)
	assert.Equal(t, fmt.Sprintf(CUDAVectorLoad, 2), cuda.VectorLoadName(2))
	assert.Equal(t, fmt.Sprintf(CUDAVectorStore, 4), cuda.VectorStoreName(4))
}

func TestFloatLiteral(t *testing.T) {
	cl, cuda := OpenCL(), CUDA()
	assert.Equal(t, "1.0F", cl.FloatLiteral(1, lir.Float))
	assert.Equal(t, "0.5f", cuda.FloatLiteral(0.5, lir.Float))
	assert.Equal(t, "2.0", cl.FloatLiteral(2, lir.Double))
	assert.Equal(t, "1e+20F", cl.FloatLiteral(1e20, lir.Float))
	assert.Equal(t, "NAN", cl.FloatLiteral(math.NaN(), lir.Float))
	assert.Equal(t, "INFINITY", cuda.FloatLiteral(math.Inf(1), lir.Float))
	assert.Equal(t, "-INFINITY", cl.FloatLiteral(math.Inf(-1), lir.Double))
}

func TestIsReserved(t *testing.T) {
	cl, cuda := OpenCL(), CUDA()
	assert.True(t, cl.IsReserved("while"))
	assert.True(t, cl.IsReserved("local"))
	assert.False(t, cuda.IsReserved("local"))
	assert.True(t, cuda.IsReserved("threadIdx"))
	assert.False(t, cl.IsReserved("lmem"))
}

func TestValidateMissing(t *testing.T) {
	d := OpenCL()
	d.Atomics.MulInt = ""
	d.Identity.LocalID = ""

	err := d.Validate()
	require.ErrorIs(t, err, lir.ErrConfig)
	assert.Contains(t, err.Error(), "atomics.mul_int, identity.local_id")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{NameCUDA, NameOpenCL}, r.Names())

	d, ok := r.Lookup(NameOpenCL)
	require.True(t, ok)
	d.Atomics.AddInt = "mutated"
	again, _ := r.Lookup(NameOpenCL)
	assert.Equal(t, "atomic_add", again.Atomics.AddInt, "Lookup must return a copy")

	_, err := r.Get("metal")
	require.ErrorIs(t, err, lir.ErrConfig)

	custom := OpenCL()
	custom.Name = "opencl2"
	require.NoError(t, r.Register(custom))
	assert.Contains(t, r.Names(), "opencl2")

	require.Error(t, r.Register(&Dialect{Name: "empty"}))
}

func TestLoadExtends(t *testing.T) {
	src := `
name: opencl-native-float
extends: opencl
atomics:
  add_float: atomic_add_float
types:
  half: ushort
`
	d, err := NewRegistry().Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "opencl-native-float", d.Name)
	assert.Equal(t, "atomic_add_float", d.Atomics.AddFloat)
	assert.Equal(t, "atomic_add", d.Atomics.AddInt)
	assert.Equal(t, "__global", d.Spaces.Global)
	assert.Equal(t, "ushort", d.TypeName(lir.Half))
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", "name: x\nextends: opencl\natomix: {}\n"},
		{"unknown base", "name: x\nextends: metal\n"},
		{"missing names", "name: bare\n"},
		{"extends without name", "extends: cuda\n"},
		{"not yaml", "name: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry().Load(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, lir.ErrConfig)
		})
	}
}

func TestResolve(t *testing.T) {
	d, err := Resolve(NameCUDA)
	require.NoError(t, err)
	assert.Equal(t, NameCUDA, d.Name)

	path := filepath.Join(t.TempDir(), "mine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: mine\nextends: opencl\nfloat_suffix: f\n"), 0o600))
	d, err = Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", d.Name)
	assert.Equal(t, "f", d.FloatSuffix)

	_, err = Resolve("nonexistent")
	require.ErrorIs(t, err, lir.ErrConfig)
}
