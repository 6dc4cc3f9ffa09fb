// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lir

import "fmt"

// MemorySpace classifies where an addressed value lives.
// The zero value is SpaceUnknown, which has no addressing strategy.
type MemorySpace uint8

const (
	SpaceUnknown MemorySpace = iota
	SpaceGlobal
	SpaceLocal
	SpacePrivate
	SpaceConstant
)

// String returns the space name.
func (s MemorySpace) String() string {
	switch s {
	case SpaceGlobal:
		return "global"
	case SpaceLocal:
		return "local"
	case SpacePrivate:
		return "private"
	case SpaceConstant:
		return "constant"
	case SpaceUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("space(%d)", uint8(s))
	}
}

// ParseMemorySpace maps a space name to its MemorySpace.
// "shared" is accepted for local and "generic" for private.
func ParseMemorySpace(name string) (MemorySpace, bool) {
	switch name {
	case "global":
		return SpaceGlobal, true
	case "local", "shared":
		return SpaceLocal, true
	case "private", "generic":
		return SpacePrivate, true
	case "constant":
		return SpaceConstant, true
	}
	return SpaceUnknown, false
}

// Strategy is the way an address is rendered.
type Strategy uint8

const (
	// StrategyPointer dereferences a typed cast of the base: *((T *) base).
	StrategyPointer Strategy = iota

	// StrategyIndex subscripts a fixed-size array: base[index].
	StrategyIndex
)

// String returns the strategy name.
func (s Strategy) String() string {
	if s == StrategyIndex {
		return "index"
	}
	return "pointer"
}

// StrategyFor returns the addressing strategy for a memory space.
// Local arrays are declared with a fixed size in the kernel preamble and are
// only accessed by element index; every other space is addressed by casting a
// byte-offset base to the element pointer type. The second result is false for
// spaces without a defined strategy.
func StrategyFor(space MemorySpace) (Strategy, bool) {
	switch space {
	case SpaceLocal:
		return StrategyIndex, true
	case SpaceGlobal, SpacePrivate, SpaceConstant:
		return StrategyPointer, true
	default:
		return StrategyPointer, false
	}
}

// AddressCast reinterprets a base reference as a pointer to Elem in Space.
// It is immutable once built.
type AddressCast struct {
	space MemorySpace
	elem  ElementType
}

// NewAddressCast returns the cast to a pointer to elem in space.
func NewAddressCast(space MemorySpace, elem ElementType) AddressCast {
	return AddressCast{space: space, elem: elem}
}

// Space returns the memory space the cast points into.
func (c AddressCast) Space() MemorySpace { return c.space }

// Elem returns the pointee element type.
func (c AddressCast) Elem() ElementType { return c.elem }

// String returns a dialect-neutral description such as "(global float *)".
func (c AddressCast) String() string {
	return fmt.Sprintf("(%s %s *)", c.space, c.elem)
}

// Address is a resolved memory location: a cast, a base reference and an
// optional element index. The memory space is taken from the cast when the
// Address is built and never changes.
type Address struct {
	cast  AddressCast
	base  Value
	index Value
}

// NewAddress returns an address without an index.
func NewAddress(cast AddressCast, base Value) Address {
	return Address{cast: cast, base: base}
}

// NewIndexedAddress returns an address with an element index.
func NewIndexedAddress(cast AddressCast, base, index Value) Address {
	return Address{cast: cast, base: base, index: index}
}

// Cast returns the address cast.
func (a Address) Cast() AddressCast { return a.cast }

// Space returns the memory space of the address.
func (a Address) Space() MemorySpace { return a.cast.space }

// Base returns the base reference.
func (a Address) Base() Value { return a.base }

// Index returns the element index, or nil.
func (a Address) Index() Value { return a.index }

// HasIndex reports whether an index is present.
func (a Address) HasIndex() bool { return a.index != nil }

// Strategy returns the addressing strategy of the address space.
func (a Address) Strategy() (Strategy, bool) {
	return StrategyFor(a.cast.space)
}
