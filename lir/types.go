// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lir

import "fmt"

// ScalarKind identifies a scalar element kind.
type ScalarKind uint8

const (
	ScalarInvalid ScalarKind = iota
	ScalarBool
	ScalarChar
	ScalarUChar
	ScalarShort
	ScalarUShort
	ScalarInt
	ScalarUInt
	ScalarLong
	ScalarULong
	ScalarHalf
	ScalarFloat
	ScalarDouble
)

var scalarNames = [...]string{
	ScalarInvalid: "invalid",
	ScalarBool:    "bool",
	ScalarChar:    "char",
	ScalarUChar:   "uchar",
	ScalarShort:   "short",
	ScalarUShort:  "ushort",
	ScalarInt:     "int",
	ScalarUInt:    "uint",
	ScalarLong:    "long",
	ScalarULong:   "ulong",
	ScalarHalf:    "half",
	ScalarFloat:   "float",
	ScalarDouble:  "double",
}

var scalarSizes = [...]int64{
	ScalarBool:   1,
	ScalarChar:   1,
	ScalarUChar:  1,
	ScalarShort:  2,
	ScalarUShort: 2,
	ScalarInt:    4,
	ScalarUInt:   4,
	ScalarLong:   8,
	ScalarULong:  8,
	ScalarHalf:   2,
	ScalarFloat:  4,
	ScalarDouble: 8,
}

// String returns the OpenCL C spelling of the scalar kind.
func (k ScalarKind) String() string {
	if int(k) < len(scalarNames) {
		return scalarNames[k]
	}
	return fmt.Sprintf("scalar(%d)", uint8(k))
}

// ParseScalarKind maps an OpenCL C scalar spelling back to its kind.
func ParseScalarKind(name string) (ScalarKind, bool) {
	for k, n := range scalarNames {
		if n == name && ScalarKind(k) != ScalarInvalid {
			return ScalarKind(k), true
		}
	}
	return ScalarInvalid, false
}

// ElementType is a scalar or short-vector element type.
// Lanes of 0 or 1 denote a scalar.
type ElementType struct {
	Kind  ScalarKind
	Lanes uint8
}

// Common element types.
var (
	Bool   = ElementType{Kind: ScalarBool}
	Char   = ElementType{Kind: ScalarChar}
	Short  = ElementType{Kind: ScalarShort}
	Int    = ElementType{Kind: ScalarInt}
	UInt   = ElementType{Kind: ScalarUInt}
	Long   = ElementType{Kind: ScalarLong}
	ULong  = ElementType{Kind: ScalarULong}
	Half   = ElementType{Kind: ScalarHalf}
	Float  = ElementType{Kind: ScalarFloat}
	Double = ElementType{Kind: ScalarDouble}
)

// Vector returns the vector type with the given lane count.
func Vector(kind ScalarKind, lanes uint8) ElementType {
	return ElementType{Kind: kind, Lanes: lanes}
}

// IsValid reports whether t names a known kind and a legal lane count.
func (t ElementType) IsValid() bool {
	if t.Kind == ScalarInvalid || int(t.Kind) >= len(scalarNames) {
		return false
	}
	switch t.Lanes {
	case 0, 1, 2, 3, 4, 8, 16:
		return true
	}
	return false
}

// IsVector reports whether t has more than one lane.
func (t ElementType) IsVector() bool {
	return t.Lanes > 1
}

// Width returns the lane count, 1 for scalars.
func (t ElementType) Width() int {
	if t.Lanes <= 1 {
		return 1
	}
	return int(t.Lanes)
}

// Scalar returns the element type of a single lane.
func (t ElementType) Scalar() ElementType {
	return ElementType{Kind: t.Kind}
}

// IsFloat reports whether the lanes hold floating point values.
func (t ElementType) IsFloat() bool {
	return t.Kind == ScalarHalf || t.Kind == ScalarFloat || t.Kind == ScalarDouble
}

// IsInteger reports whether the lanes hold integers.
func (t ElementType) IsInteger() bool {
	switch t.Kind {
	case ScalarChar, ScalarUChar, ScalarShort, ScalarUShort,
		ScalarInt, ScalarUInt, ScalarLong, ScalarULong:
		return true
	}
	return false
}

// Size returns the storage size of t in bytes. Three-lane vectors occupy
// the storage of four lanes.
func (t ElementType) Size() int64 {
	if !t.IsValid() {
		return 0
	}
	lanes := int64(t.Width())
	if lanes == 3 {
		lanes = 4
	}
	return scalarSizes[t.Kind] * lanes
}

// String returns the OpenCL C spelling, e.g. "float" or "int4".
func (t ElementType) String() string {
	if t.Lanes > 1 {
		return fmt.Sprintf("%s%d", t.Kind, t.Lanes)
	}
	return t.Kind.String()
}

// ParseElementType parses "float", "int4", "uchar16" and similar spellings.
func ParseElementType(name string) (ElementType, error) {
	end := len(name)
	for end > 0 && name[end-1] >= '0' && name[end-1] <= '9' {
		end--
	}
	kind, ok := ParseScalarKind(name[:end])
	if !ok {
		return ElementType{}, fmt.Errorf("unknown element type %q", name)
	}
	t := ElementType{Kind: kind}
	if end < len(name) {
		var lanes int
		if _, err := fmt.Sscanf(name[end:], "%d", &lanes); err != nil || lanes > 16 {
			return ElementType{}, fmt.Errorf("invalid vector width in %q", name)
		}
		t.Lanes = uint8(lanes) //nolint:gosec // G115: bounded above
	}
	if !t.IsValid() {
		return ElementType{}, fmt.Errorf("invalid vector width in %q", name)
	}
	return t, nil
}
