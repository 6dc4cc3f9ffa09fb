// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lir

import "fmt"

// Instruction is one finalized instruction of a kernel body.
type Instruction struct {
	Kind InstructionKind

	// Span is the upstream provenance of the instruction, if known.
	Span Span
}

// InstructionKind represents the different kinds of instructions.
type InstructionKind interface {
	instructionKind()
}

// Span locates an instruction in the program it was compiled from.
type Span struct {
	Source string
	Line   int
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s.Source == "" && s.Line == 0
}

// String returns "source:line".
func (s Span) String() string {
	switch {
	case s.Source != "" && s.Line > 0:
		return fmt.Sprintf("%s:%d", s.Source, s.Line)
	case s.Line > 0:
		return fmt.Sprintf("line %d", s.Line)
	default:
		return s.Source
	}
}

// Assign writes Src to Dst. Src may be a composite expression.
type Assign struct {
	Dst Variable
	Src Value
}

func (Assign) instructionKind() {}

// Move copies a plain value into Dst.
type Move struct {
	Dst Variable
	Src Value
}

func (Move) instructionKind() {}

// Load reads Addr into Dst.
type Load struct {
	Dst  Variable
	Addr Address
}

func (Load) instructionKind() {}

// VectorLoad reads a vector at Index from Addr through a vector load
// intrinsic. An empty Intrinsic selects the dialect's name for Dst's width.
type VectorLoad struct {
	Dst       Variable
	Intrinsic string
	Index     Value
	Addr      Address
}

func (VectorLoad) instructionKind() {}

// Store writes Value to Addr.
type Store struct {
	Addr  Address
	Value Value
}

func (Store) instructionKind() {}

// VectorStore writes a vector Value at Index into Addr through a vector store
// intrinsic. An empty Intrinsic selects the dialect's name for the width.
type VectorStore struct {
	Intrinsic string
	Value     Value
	Index     Value
	Addr      Address
	Width     int
}

func (VectorStore) instructionKind() {}

// Lanes returns the vector width of the store: Width when set, otherwise the
// width of a Variable value. A result below 2 means the width is unknown.
func (s VectorStore) Lanes() int {
	if s.Width != 0 {
		return s.Width
	}
	if v, ok := s.Value.(Variable); ok {
		return v.Type.Width()
	}
	return 0
}

// AtomicTarget is the destination of an atomic store: either a memory
// address or, when the optimizer proved there is no contention, a plain
// scalar slot. Exactly one must be set.
type AtomicTarget struct {
	Addr   *Address
	Scalar *Variable
}

// AtomicAt returns a target at a memory address.
func AtomicAt(addr Address) AtomicTarget {
	return AtomicTarget{Addr: &addr}
}

// AtomicScalar returns a target in a scalar slot.
func AtomicScalar(dst Variable) AtomicTarget {
	return AtomicTarget{Scalar: &dst}
}

// AtomicAddStore atomically adds Value to its target.
type AtomicAddStore struct {
	Target AtomicTarget
	Value  Value
	Float  bool
}

func (AtomicAddStore) instructionKind() {}

// AtomicSubStore atomically subtracts an integer Value from its target.
type AtomicSubStore struct {
	Target AtomicTarget
	Value  Value
}

func (AtomicSubStore) instructionKind() {}

// AtomicMulStore atomically multiplies its target by an integer Value.
type AtomicMulStore struct {
	Target AtomicTarget
	Value  Value
}

func (AtomicMulStore) instructionKind() {}

// Expr evaluates X for its side effects.
type Expr struct {
	X Value
}

func (Expr) instructionKind() {}

// Pragma is a directive line that is never semicolon terminated.
type Pragma struct {
	Text Value
}

func (Pragma) instructionKind() {}

// LocalAlloc is the size part of a local array declaration.
type LocalAlloc struct {
	Size Value
}

func (LocalAlloc) instructionKind() {}

// Name returns the opcode name of an instruction kind.
func Name(kind InstructionKind) string {
	switch k := kind.(type) {
	case Assign:
		return "ASSIGN"
	case Move:
		return "MOVE"
	case Load:
		return "LOAD"
	case VectorLoad:
		return "VLOAD"
	case Store:
		return "STORE"
	case VectorStore:
		return "VSTORE"
	case AtomicAddStore:
		if k.Float {
			return "ATOMIC_ADD_FLOAT_STORE"
		}
		return "ATOMIC_ADD_STORE"
	case AtomicSubStore:
		return "ATOMIC_SUB_STORE"
	case AtomicMulStore:
		return "ATOMIC_MUL_STORE"
	case Expr:
		return "EXPR"
	case Pragma:
		return "PRAGMA"
	case LocalAlloc:
		return "LOCAL_ALLOC"
	default:
		return fmt.Sprintf("%T", kind)
	}
}

// At wraps a kind into an Instruction with provenance.
func At(kind InstructionKind, span Span) Instruction {
	return Instruction{Kind: kind, Span: span}
}
