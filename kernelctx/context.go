// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernelctx

import (
	"slices"

	"github.com/go-logr/logr"
	"github.com/samber/lo"

	"github.com/gogpu/kernelc/lir"
)

// Context is the execution context of one kernel compilation unit.
//
// Identity accessors and barriers are pure. Local allocation appends to the
// unit's allocation list, so a Context must not be shared between units.
type Context struct {
	grid   *WorkerGrid
	device *Device
	prefix string
	logger logr.Logger

	names  *namer
	locals []lir.LocalArray
}

// Option configures a Context.
type Option func(*Context)

// WithDevice binds a device descriptor. The grid is checked against its
// limits and local allocations are checked against its local memory size.
func WithDevice(d *Device) Option {
	return func(c *Context) {
		c.device = d
	}
}

// WithNamePrefix sets the base name of anonymous local arrays.
func WithNamePrefix(prefix string) Option {
	return func(c *Context) {
		c.prefix = prefix
	}
}

// WithReserved sets the predicate used to avoid generating reserved words
// as local array names, typically (*dialect.Dialect).IsReserved.
func WithReserved(reserved func(string) bool) Option {
	return func(c *Context) {
		c.names.reserved = reserved
	}
}

// WithLogger sets the logger used for allocation tracing.
func WithLogger(logger logr.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// New returns a Context bound to grid.
func New(grid *WorkerGrid, opts ...Option) (*Context, error) {
	if grid == nil {
		return nil, lir.NewError(lir.ErrConfiguration, "execution context needs a worker grid")
	}
	c := &Context{
		grid:   grid,
		prefix: DefaultNamePrefix,
		logger: logr.Discard(),
		names:  newNamer(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.device != nil {
		if err := c.device.CheckGrid(grid); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Grid returns the bound worker grid.
func (c *Context) Grid() *WorkerGrid {
	return c.grid
}

// Device returns the bound device, or nil.
func (c *Context) Device() *Device {
	return c.device
}

func identity(kind lir.QueryKind, dim int) (lir.Query, error) {
	if dim < 0 || dim >= MaxDims {
		return lir.Query{}, lir.NewError(lir.ErrOutOfRange, "%s dimension %d out of range", kind, dim)
	}
	return lir.Query{Kind: kind, Dim: dim}, nil
}

// ThreadID returns the global thread index in dimension dim.
func (c *Context) ThreadID(dim int) (lir.Query, error) {
	return identity(lir.QueryThreadID, dim)
}

// GroupID returns the workgroup index in dimension dim.
func (c *Context) GroupID(dim int) (lir.Query, error) {
	return identity(lir.QueryGroupID, dim)
}

// LocalID returns the thread index within its workgroup in dimension dim.
func (c *Context) LocalID(dim int) (lir.Query, error) {
	return identity(lir.QueryLocalID, dim)
}

// ThreadIDX and the other shorthands are the dimension 0, 1 and 2 forms
// of ThreadID, GroupID and LocalID.
func (c *Context) ThreadIDX() lir.Query { return lir.Query{Kind: lir.QueryThreadID, Dim: 0} }
func (c *Context) ThreadIDY() lir.Query { return lir.Query{Kind: lir.QueryThreadID, Dim: 1} }
func (c *Context) ThreadIDZ() lir.Query { return lir.Query{Kind: lir.QueryThreadID, Dim: 2} }
func (c *Context) GroupIDX() lir.Query { return lir.Query{Kind: lir.QueryGroupID, Dim: 0} }
func (c *Context) GroupIDY() lir.Query { return lir.Query{Kind: lir.QueryGroupID, Dim: 1} }
func (c *Context) GroupIDZ() lir.Query { return lir.Query{Kind: lir.QueryGroupID, Dim: 2} }
func (c *Context) LocalIDX() lir.Query { return lir.Query{Kind: lir.QueryLocalID, Dim: 0} }
func (c *Context) LocalIDY() lir.Query { return lir.Query{Kind: lir.QueryLocalID, Dim: 1} }
func (c *Context) LocalIDZ() lir.Query { return lir.Query{Kind: lir.QueryLocalID, Dim: 2} }

// LocalGroupSize returns the bound grid's local size in dimension dim.
// Dimensions at or beyond the grid's dimensionality are out of range.
func (c *Context) LocalGroupSize(dim int) (int64, error) {
	return c.grid.LocalGroupSize(dim)
}

// GlobalGroupSize returns the bound grid's global size in dimension dim.
func (c *Context) GlobalGroupSize(dim int) (int64, error) {
	return c.grid.GlobalGroupSize(dim)
}

// LocalBarrier returns a workgroup barrier on local memory.
func (c *Context) LocalBarrier() lir.Instruction {
	return lir.Instruction{Kind: lir.Expr{X: lir.Barrier{Scope: lir.ScopeLocal}}}
}

// GlobalBarrier returns a barrier on global memory.
func (c *Context) GlobalBarrier() lir.Instruction {
	return lir.Instruction{Kind: lir.Expr{X: lir.Barrier{Scope: lir.ScopeGlobal}}}
}

// AllocateLocalArray declares a workgroup-local array of size elements and
// returns it for use as the base of Local-space addresses.
func (c *Context) AllocateLocalArray(elem lir.ElementType, size int64) (lir.LocalArray, error) {
	return c.AllocateNamedLocalArray(c.prefix, elem, size)
}

// AllocateNamedLocalArray is AllocateLocalArray with an explicit base name.
// The name is made unique within the unit.
func (c *Context) AllocateNamedLocalArray(name string, elem lir.ElementType, size int64) (lir.LocalArray, error) {
	if !elem.IsValid() {
		return lir.LocalArray{}, lir.NewError(lir.ErrConfiguration, "local array %q: invalid element type %s", name, elem)
	}
	if size <= 0 {
		return lir.LocalArray{}, lir.NewError(lir.ErrConfiguration, "local array %q: size must be positive, got %d", name, size)
	}
	arr := lir.LocalArray{Elem: elem, Size: size}
	if d := c.device; d != nil {
		if err := d.CheckElement(elem); err != nil {
			return lir.LocalArray{}, err
		}
		if total := c.LocalMemoryBytes() + arr.Bytes(); d.LocalMemorySize > 0 && total > d.LocalMemorySize {
			return lir.LocalArray{}, lir.NewError(lir.ErrConfiguration,
				"local array %q: %d bytes of local memory exceed device %s limit of %d",
				name, total, d.Name, d.LocalMemorySize)
		}
	}
	arr.Name = c.names.call(name)
	c.locals = append(c.locals, arr)
	c.logger.V(2).Info("allocated local array", "name", arr.Name, "type", elem.String(), "size", size)
	return arr, nil
}

// AllocateIntLocalArray allocates a local int array.
func (c *Context) AllocateIntLocalArray(size int64) (lir.LocalArray, error) {
	return c.AllocateLocalArray(lir.Int, size)
}

// AllocateLongLocalArray allocates a local long array.
func (c *Context) AllocateLongLocalArray(size int64) (lir.LocalArray, error) {
	return c.AllocateLocalArray(lir.Long, size)
}

// AllocateFloatLocalArray allocates a local float array.
func (c *Context) AllocateFloatLocalArray(size int64) (lir.LocalArray, error) {
	return c.AllocateLocalArray(lir.Float, size)
}

// AllocateDoubleLocalArray allocates a local double array.
func (c *Context) AllocateDoubleLocalArray(size int64) (lir.LocalArray, error) {
	return c.AllocateLocalArray(lir.Double, size)
}

// LocalArrays returns the unit's local allocations in allocation order.
func (c *Context) LocalArrays() []lir.LocalArray {
	return slices.Clone(c.locals)
}

// LocalMemoryBytes returns the local memory used by all allocations.
func (c *Context) LocalMemoryBytes() int64 {
	return lo.SumBy(c.locals, func(a lir.LocalArray) int64 { return a.Bytes() })
}

// Launch dispatches a kernel from inside a kernel. Nested dispatch is not
// supported and Launch always fails with lir.ErrNotImplemented.
func (c *Context) Launch(kernel string, grid *WorkerGrid) error {
	return lir.NewError(lir.ErrUnsupportedFeature, "nested launch of kernel %q is not implemented", kernel)
}
