// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dialect

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/gogpu/kernelc/lir"
)

// SpaceQualifiers spells the memory-space qualifier used in address casts
// and declarations. An empty qualifier is omitted from the output.
type SpaceQualifiers struct {
	Global   string `yaml:"global"`
	Local    string `yaml:"local"`
	Private  string `yaml:"private"`
	Constant string `yaml:"constant"`
}

// Atomics names the atomic read-modify-write intrinsics.
type Atomics struct {
	// AddInt is the integer atomic add.
	AddInt string `yaml:"add_int"`

	// AddFloat is the float atomic add. Native float atomics are not
	// guaranteed, so this is usually a library function.
	AddFloat string `yaml:"add_float"`

	// Sub is the integer atomic subtract. If empty, subtraction is emitted
	// as AddInt of the negated operand.
	Sub string `yaml:"sub"`

	// MulInt is the integer atomic multiply, usually a library function.
	MulInt string `yaml:"mul_int"`
}

// VectorIntrinsics names the vector load and store functions. A name
// containing %d is formatted with the vector width.
type VectorIntrinsics struct {
	Load  string `yaml:"load"`
	Store string `yaml:"store"`
}

// Barriers spells the barrier calls, without the statement terminator.
type Barriers struct {
	Local  string `yaml:"local"`
	Global string `yaml:"global"`
}

// Identity holds templates for the execution-context primitives.
type Identity struct {
	ThreadID   string `yaml:"thread_id"`
	GroupID    string `yaml:"group_id"`
	LocalID    string `yaml:"local_id"`
	LocalSize  string `yaml:"local_size"`
	GlobalSize string `yaml:"global_size"`
}

// Dialect configures the emitter for one kernel language.
type Dialect struct {
	Name    string `yaml:"name"`
	Extends string `yaml:"extends,omitempty"`

	Spaces   SpaceQualifiers   `yaml:"spaces"`
	Types    map[string]string `yaml:"types,omitempty"`
	Atomics  Atomics           `yaml:"atomics"`
	Vector   VectorIntrinsics  `yaml:"vector"`
	Barriers Barriers          `yaml:"barriers"`
	Identity Identity          `yaml:"identity"`

	// FloatSuffix is appended to single precision literals.
	FloatSuffix string `yaml:"float_suffix"`

	// Reserved lists identifiers that generated names must avoid in
	// addition to the C keywords.
	Reserved []string `yaml:"reserved,omitempty"`
}

// Clone returns a deep copy of d.
func (d *Dialect) Clone() *Dialect {
	c := *d
	c.Types = maps.Clone(d.Types)
	c.Reserved = slices.Clone(d.Reserved)
	return &c
}

// Validate reports missing required names as a configuration error.
func (d *Dialect) Validate() error {
	required := map[string]string{
		"name":                 d.Name,
		"atomics.add_int":      d.Atomics.AddInt,
		"atomics.add_float":    d.Atomics.AddFloat,
		"atomics.mul_int":      d.Atomics.MulInt,
		"vector.load":          d.Vector.Load,
		"vector.store":         d.Vector.Store,
		"barriers.local":       d.Barriers.Local,
		"barriers.global":      d.Barriers.Global,
		"identity.thread_id":   d.Identity.ThreadID,
		"identity.group_id":    d.Identity.GroupID,
		"identity.local_id":    d.Identity.LocalID,
		"identity.local_size":  d.Identity.LocalSize,
		"identity.global_size": d.Identity.GlobalSize,
	}
	missing := lo.Keys(lo.PickBy(required, func(_ string, v string) bool { return v == "" }))
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return lir.NewError(lir.ErrConfiguration, "dialect %q: missing %s", d.Name, strings.Join(missing, ", "))
}

// Qualifier returns the qualifier for space. The second result is false for
// spaces the dialect cannot address.
func (d *Dialect) Qualifier(space lir.MemorySpace) (string, bool) {
	switch space {
	case lir.SpaceGlobal:
		return d.Spaces.Global, true
	case lir.SpaceLocal:
		return d.Spaces.Local, true
	case lir.SpacePrivate:
		return d.Spaces.Private, true
	case lir.SpaceConstant:
		return d.Spaces.Constant, true
	default:
		return "", false
	}
}

// TypeName returns the dialect spelling of t.
func (d *Dialect) TypeName(t lir.ElementType) string {
	name := t.String()
	if override, ok := d.Types[name]; ok {
		return override
	}
	return name
}

// CastText renders an address cast, e.g. "(__global float *)".
func (d *Dialect) CastText(cast lir.AddressCast) (string, error) {
	qual, ok := d.Qualifier(cast.Space())
	if !ok {
		return "", lir.NewError(lir.ErrContractViolation, "dialect %s: no qualifier for memory space %s", d.Name, cast.Space())
	}
	if qual == "" {
		return fmt.Sprintf("(%s *)", d.TypeName(cast.Elem())), nil
	}
	return fmt.Sprintf("(%s %s *)", qual, d.TypeName(cast.Elem())), nil
}

var dimLetters = [3]string{"x", "y", "z"}

// QueryText renders an execution-context query for dimension q.Dim.
func (d *Dialect) QueryText(q lir.Query) (string, error) {
	if q.Dim < 0 || q.Dim >= len(dimLetters) {
		return "", lir.NewError(lir.ErrOutOfRange, "%s dimension %d", q.Kind, q.Dim)
	}
	var tmpl string
	switch q.Kind {
	case lir.QueryThreadID:
		tmpl = d.Identity.ThreadID
	case lir.QueryGroupID:
		tmpl = d.Identity.GroupID
	case lir.QueryLocalID:
		tmpl = d.Identity.LocalID
	case lir.QueryLocalSize:
		tmpl = d.Identity.LocalSize
	case lir.QueryGlobalSize:
		tmpl = d.Identity.GlobalSize
	default:
		return "", lir.NewError(lir.ErrContractViolation, "unknown query kind %d", q.Kind)
	}
	r := strings.NewReplacer("{d}", strconv.Itoa(q.Dim), "{xyz}", dimLetters[q.Dim])
	return r.Replace(tmpl), nil
}

// BarrierText renders the barrier call for scope.
func (d *Dialect) BarrierText(scope lir.BarrierScope) string {
	if scope == lir.ScopeGlobal {
		return d.Barriers.Global
	}
	return d.Barriers.Local
}

// VectorLoadName returns the vector load intrinsic for width lanes.
func (d *Dialect) VectorLoadName(width int) string {
	return formatWidth(d.Vector.Load, width)
}

// VectorStoreName returns the vector store intrinsic for width lanes.
func (d *Dialect) VectorStoreName(width int) string {
	return formatWidth(d.Vector.Store, width)
}

func formatWidth(pattern string, width int) string {
	if strings.Contains(pattern, "%d") {
		return fmt.Sprintf(pattern, width)
	}
	return pattern
}

// FloatLiteral renders a floating point constant of type t. Non-finite
// values use the NAN and INFINITY macros.
func (d *Dialect) FloatLiteral(v float64, t lir.ElementType) string {
	switch {
	case math.IsNaN(v):
		return "NAN"
	case math.IsInf(v, 1):
		return "INFINITY"
	case math.IsInf(v, -1):
		return "-INFINITY"
	}
	bits := 64
	if t.Kind != lir.ScalarDouble {
		bits = 32
	}
	s := strconv.FormatFloat(v, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	if t.Kind == lir.ScalarFloat {
		s += d.FloatSuffix
	}
	return s
}

// IsReserved reports whether name may not be used as a generated identifier.
func (d *Dialect) IsReserved(name string) bool {
	if _, ok := cKeywords[name]; ok {
		return true
	}
	return slices.Contains(d.Reserved, name)
}
