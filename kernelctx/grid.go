// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernelctx

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/kernelc/lir"
)

// MaxDims is the largest supported grid dimensionality.
const MaxDims = 3

// WorkerGrid is the launch configuration of a kernel: per-dimension global
// work size and local (workgroup) work size. It is immutable and may be read
// concurrently by any number of compilations.
type WorkerGrid struct {
	global []int64
	local  []int64
}

// NewWorkerGrid returns a grid with len(global) dimensions.
// Every size must be positive and each global size must be a multiple of
// the local size in the same dimension.
func NewWorkerGrid(global, local []int64) (*WorkerGrid, error) {
	dims := len(global)
	if dims < 1 || dims > MaxDims {
		return nil, lir.NewError(lir.ErrConfiguration, "grid must have 1 to %d dimensions, got %d", MaxDims, dims)
	}
	if len(local) != dims {
		return nil, lir.NewError(lir.ErrConfiguration, "grid has %d global sizes but %d local sizes", dims, len(local))
	}
	for d := 0; d < dims; d++ {
		if global[d] <= 0 || local[d] <= 0 {
			return nil, lir.NewError(lir.ErrConfiguration, "dimension %d: work sizes must be positive (global %d, local %d)", d, global[d], local[d])
		}
		if global[d]%local[d] != 0 {
			return nil, lir.NewError(lir.ErrConfiguration, "dimension %d: global size %d is not a multiple of local size %d", d, global[d], local[d])
		}
	}
	return &WorkerGrid{
		global: slices.Clone(global),
		local:  slices.Clone(local),
	}, nil
}

// NewWorkerGrid1D returns a one-dimensional grid.
func NewWorkerGrid1D(global, local int64) (*WorkerGrid, error) {
	return NewWorkerGrid([]int64{global}, []int64{local})
}

// NewWorkerGrid2D returns a two-dimensional grid.
func NewWorkerGrid2D(globalX, globalY, localX, localY int64) (*WorkerGrid, error) {
	return NewWorkerGrid([]int64{globalX, globalY}, []int64{localX, localY})
}

// NewWorkerGrid3D returns a three-dimensional grid.
func NewWorkerGrid3D(global, local [3]int64) (*WorkerGrid, error) {
	return NewWorkerGrid(global[:], local[:])
}

// Dims returns the dimensionality of the grid.
func (g *WorkerGrid) Dims() int {
	return len(g.global)
}

// GlobalWork returns a copy of the global work sizes.
func (g *WorkerGrid) GlobalWork() []int64 {
	return slices.Clone(g.global)
}

// LocalWork returns a copy of the local work sizes.
func (g *WorkerGrid) LocalWork() []int64 {
	return slices.Clone(g.local)
}

func (g *WorkerGrid) checkDim(dim int) error {
	if dim < 0 || dim >= len(g.global) {
		return lir.NewError(lir.ErrOutOfRange, "dimension %d outside %d-dimensional grid", dim, len(g.global))
	}
	return nil
}

// LocalGroupSize returns the local work size of dimension dim.
func (g *WorkerGrid) LocalGroupSize(dim int) (int64, error) {
	if err := g.checkDim(dim); err != nil {
		return 0, err
	}
	return g.local[dim], nil
}

// GlobalGroupSize returns the global work size of dimension dim.
func (g *WorkerGrid) GlobalGroupSize(dim int) (int64, error) {
	if err := g.checkDim(dim); err != nil {
		return 0, err
	}
	return g.global[dim], nil
}

// NumGroups returns the number of workgroups along dimension dim.
func (g *WorkerGrid) NumGroups(dim int) (int64, error) {
	if err := g.checkDim(dim); err != nil {
		return 0, err
	}
	return g.global[dim] / g.local[dim], nil
}

// GroupThreads returns the number of threads in one workgroup.
func (g *WorkerGrid) GroupThreads() int64 {
	n := int64(1)
	for _, l := range g.local {
		n *= l
	}
	return n
}

// TotalThreads returns the number of threads in the whole grid.
func (g *WorkerGrid) TotalThreads() int64 {
	n := int64(1)
	for _, s := range g.global {
		n *= s
	}
	return n
}

// String returns e.g. "2D global=[1024 768] local=[16 16]".
func (g *WorkerGrid) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dD global=%v local=%v", g.Dims(), g.global, g.local)
	return b.String()
}
