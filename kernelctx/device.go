// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernelctx

import (
	"encoding/binary"
	"slices"

	"github.com/gogpu/kernelc/lir"
)

// Device describes the limits of the accelerator a kernel targets.
// Zero limits are treated as unknown and not checked.
type Device struct {
	Name string

	// GlobalMemorySize and LocalMemorySize are in bytes.
	GlobalMemorySize int64
	LocalMemorySize  int64

	// MaxWorkGroupSize bounds the number of threads in one workgroup.
	MaxWorkGroupSize int64

	// MaxWorkItemSizes bounds the local size per dimension.
	MaxWorkItemSizes [MaxDims]int64

	DoubleFP   bool
	Extensions []string
	ByteOrder  binary.ByteOrder
	CVersion   string
}

// HasExtension reports whether the device advertises ext.
func (d *Device) HasExtension(ext string) bool {
	return slices.Contains(d.Extensions, ext)
}

// CheckGrid reports a configuration error if grid exceeds the device limits.
func (d *Device) CheckGrid(grid *WorkerGrid) error {
	if d.MaxWorkGroupSize > 0 && grid.GroupThreads() > d.MaxWorkGroupSize {
		return lir.NewError(lir.ErrConfiguration, "device %s: workgroup of %d threads exceeds maximum %d",
			d.Name, grid.GroupThreads(), d.MaxWorkGroupSize)
	}
	for dim, size := range grid.local {
		if limit := d.MaxWorkItemSizes[dim]; limit > 0 && size > limit {
			return lir.NewError(lir.ErrConfiguration, "device %s: local size %d in dimension %d exceeds maximum %d",
				d.Name, size, dim, limit)
		}
	}
	return nil
}

// CheckElement reports a configuration error if the device cannot hold t.
func (d *Device) CheckElement(t lir.ElementType) error {
	if t.Kind == lir.ScalarDouble && !d.DoubleFP {
		return lir.NewError(lir.ErrConfiguration, "device %s does not support double precision", d.Name)
	}
	return nil
}
