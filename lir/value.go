// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lir

// Value is an operand of an instruction.
// Plain values (Variable, constants, LocalArray) render as a single token;
// composite values are expressions whose rendering recurses into operands.
type Value interface {
	value()
}

// Variable is an allocated destination slot or a kernel parameter.
type Variable struct {
	Name string
	Type ElementType
}

func (Variable) value() {}

// IntConst is an integer literal.
type IntConst struct {
	Value int64
	Type  ElementType
}

func (IntConst) value() {}

// FloatConst is a floating point literal.
type FloatConst struct {
	Value float64
	Type  ElementType
}

func (FloatConst) value() {}

// BoolConst is a boolean literal.
type BoolConst bool

func (BoolConst) value() {}

// LocalArray references a fixed-size array in workgroup-local memory.
// It is usable as the base of a Local-space Address.
type LocalArray struct {
	Name string
	Elem ElementType
	Size int64
}

func (LocalArray) value() {}

// Bytes returns the storage size of the array.
func (a LocalArray) Bytes() int64 {
	return a.Elem.Size() * a.Size
}

// BinaryOp is an infix operator.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpLogicalAnd
	OpLogicalOr
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

var binaryTokens = [...]string{
	OpAdd:          "+",
	OpSub:          "-",
	OpMul:          "*",
	OpDiv:          "/",
	OpMod:          "%",
	OpAnd:          "&",
	OpOr:           "|",
	OpXor:          "^",
	OpShl:          "<<",
	OpShr:          ">>",
	OpLogicalAnd:   "&&",
	OpLogicalOr:    "||",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
}

// String returns the operator token.
func (op BinaryOp) String() string {
	if int(op) < len(binaryTokens) {
		return binaryTokens[op]
	}
	return "?"
}

// isBoolean reports whether op yields a truth value.
func (op BinaryOp) isBoolean() bool {
	return op >= OpLogicalAnd && op <= OpGreaterEqual
}

// ParseBinaryOp maps an operator token to its BinaryOp.
func ParseBinaryOp(token string) (BinaryOp, bool) {
	for op, t := range binaryTokens {
		if t == token {
			return BinaryOp(op), true
		}
	}
	return 0, false
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	OpNegate UnaryOp = iota
	OpNot
	OpBitNot
)

// String returns the operator token.
func (op UnaryOp) String() string {
	switch op {
	case OpNegate:
		return "-"
	case OpNot:
		return "!"
	case OpBitNot:
		return "~"
	}
	return "?"
}

// Binary is X Op Y.
type Binary struct {
	Op   BinaryOp
	X, Y Value
}

func (Binary) value() {}

// Unary is Op X.
type Unary struct {
	Op UnaryOp
	X  Value
}

func (Unary) value() {}

// Call invokes a named function or builtin.
type Call struct {
	Func string
	Args []Value
}

func (Call) value() {}

// Convert is a value conversion to To.
type Convert struct {
	To ElementType
	X  Value
}

func (Convert) value() {}

// Select is Cond ? Accept : Reject.
type Select struct {
	Cond, Accept, Reject Value
}

func (Select) value() {}

// LoadExpr reads the value stored at Addr. It is the inline form of a load used
// as the right-hand side of an Assign.
type LoadExpr struct {
	Addr Address
}

func (LoadExpr) value() {}

// QueryKind selects an execution-context quantity.
type QueryKind uint8

const (
	QueryThreadID QueryKind = iota
	QueryGroupID
	QueryLocalID
	QueryLocalSize
	QueryGlobalSize
)

// String returns the query name.
func (k QueryKind) String() string {
	switch k {
	case QueryThreadID:
		return "thread_id"
	case QueryGroupID:
		return "group_id"
	case QueryLocalID:
		return "local_id"
	case QueryLocalSize:
		return "local_size"
	case QueryGlobalSize:
		return "global_size"
	}
	return "query?"
}

// ParseQueryKind maps a query name to its kind.
func ParseQueryKind(name string) (QueryKind, bool) {
	for k := QueryThreadID; k <= QueryGlobalSize; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// Query reads a per-thread identity or a grid size in dimension Dim.
type Query struct {
	Kind QueryKind
	Dim  int
}

func (Query) value() {}

// BarrierScope selects the set of threads a barrier synchronizes.
type BarrierScope uint8

const (
	// ScopeLocal synchronizes the threads of one workgroup on local memory.
	ScopeLocal BarrierScope = iota

	// ScopeGlobal synchronizes on global memory.
	ScopeGlobal
)

// String returns the scope name.
func (s BarrierScope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "local"
}

// Barrier is a synchronization intrinsic call.
type Barrier struct {
	Scope BarrierScope
}

func (Barrier) value() {}

// Verbatim is text emitted exactly as given.
type Verbatim struct {
	Text string
}

func (Verbatim) value() {}

// IsComposite reports whether rendering v recurses into other values.
func IsComposite(v Value) bool {
	switch v.(type) {
	case Variable, IntConst, FloatConst, BoolConst, LocalArray, Verbatim:
		return false
	default:
		return v != nil
	}
}
