// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package unitfile

import (
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/kernelc/kernelctx"
	"github.com/gogpu/kernelc/lir"
)

// parser decodes the instructions of one kernel.
type parser struct {
	source string
	kctx   *kernelctx.Context
	locals map[string]lir.LocalArray

	// span of the instruction being decoded
	span lir.Span
}

func (p *parser) errorf(n *yaml.Node, format string, args ...any) error {
	span := p.span
	if n != nil && n.Line > 0 {
		span = lir.Span{Source: p.source, Line: n.Line}
	}
	return lir.NewErrorWithSpan(lir.ErrConfiguration, span, format, args...)
}

// withSpan attributes a span-less *lir.Error to the current instruction.
func (p *parser) withSpan(err error) error {
	if e, ok := err.(*lir.Error); ok && e.Span == nil && !p.span.IsZero() {
		span := p.span
		e.Span = &span
	}
	return err
}

func (p *parser) body(nodes []yaml.Node) ([]lir.Instruction, error) {
	insts := make([]lir.Instruction, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		p.span = lir.Span{Source: p.source, Line: n.Line}
		kind, err := p.instruction(n)
		if err != nil {
			return nil, p.withSpan(err)
		}
		insts = append(insts, lir.At(kind, p.span))
	}
	return insts, nil
}

// instruction decodes a single-key mapping {op: args}.
//
//nolint:gocyclo,cyclop // one case per instruction form
func (p *parser) instruction(n *yaml.Node) (lir.InstructionKind, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, p.errorf(n, "instruction must be a mapping with exactly one operation")
	}
	op, arg := n.Content[0].Value, n.Content[1]

	switch op {
	case "assign", "move":
		f, err := p.fields(arg, "dst", "src")
		if err != nil {
			return nil, err
		}
		dst, err := p.variable(f["dst"])
		if err != nil {
			return nil, err
		}
		src, err := p.value(f["src"])
		if err != nil {
			return nil, err
		}
		if op == "move" {
			return lir.Move{Dst: dst, Src: src}, nil
		}
		return lir.Assign{Dst: dst, Src: src}, nil

	case "load":
		f, err := p.fields(arg, "dst", "addr")
		if err != nil {
			return nil, err
		}
		dst, err := p.variable(f["dst"])
		if err != nil {
			return nil, err
		}
		addr, err := p.address(f["addr"])
		if err != nil {
			return nil, err
		}
		return lir.Load{Dst: dst, Addr: addr}, nil

	case "vload":
		f, err := p.fields(arg, "dst", "index", "addr", "?intrinsic")
		if err != nil {
			return nil, err
		}
		dst, err := p.variable(f["dst"])
		if err != nil {
			return nil, err
		}
		index, err := p.value(f["index"])
		if err != nil {
			return nil, err
		}
		addr, err := p.address(f["addr"])
		if err != nil {
			return nil, err
		}
		return lir.VectorLoad{Dst: dst, Intrinsic: scalarText(f["intrinsic"]), Index: index, Addr: addr}, nil

	case "store":
		f, err := p.fields(arg, "addr", "value")
		if err != nil {
			return nil, err
		}
		addr, err := p.address(f["addr"])
		if err != nil {
			return nil, err
		}
		value, err := p.value(f["value"])
		if err != nil {
			return nil, err
		}
		return lir.Store{Addr: addr, Value: value}, nil

	case "vstore":
		f, err := p.fields(arg, "value", "index", "addr", "?intrinsic", "?width")
		if err != nil {
			return nil, err
		}
		value, err := p.value(f["value"])
		if err != nil {
			return nil, err
		}
		index, err := p.value(f["index"])
		if err != nil {
			return nil, err
		}
		addr, err := p.address(f["addr"])
		if err != nil {
			return nil, err
		}
		width, err := p.optionalInt(f["width"])
		if err != nil {
			return nil, err
		}
		return lir.VectorStore{Intrinsic: scalarText(f["intrinsic"]), Value: value, Index: index, Addr: addr, Width: int(width)}, nil

	case "atomic_add", "atomic_sub", "atomic_mul":
		return p.atomic(op, arg)

	case "expr":
		x, err := p.value(arg)
		if err != nil {
			return nil, err
		}
		return lir.Expr{X: x}, nil

	case "pragma":
		if arg.Kind != yaml.ScalarNode {
			return nil, p.errorf(arg, "pragma must be text")
		}
		return lir.Pragma{Text: lir.Verbatim{Text: arg.Value}}, nil

	case "barrier":
		scope, err := p.barrierScope(arg)
		if err != nil {
			return nil, err
		}
		if scope == lir.ScopeGlobal {
			return p.kctx.GlobalBarrier().Kind, nil
		}
		return p.kctx.LocalBarrier().Kind, nil

	case "local_alloc":
		size, err := p.value(arg)
		if err != nil {
			return nil, err
		}
		return lir.LocalAlloc{Size: size}, nil

	case "launch":
		return nil, p.kctx.Launch(arg.Value, p.kctx.Grid())

	default:
		return nil, p.errorf(n.Content[0], "unknown operation %q", op)
	}
}

func (p *parser) atomic(op string, arg *yaml.Node) (lir.InstructionKind, error) {
	f, err := p.fields(arg, "?addr", "?scalar", "value", "?float")
	if err != nil {
		return nil, err
	}
	var target lir.AtomicTarget
	if n := f["addr"]; n != nil {
		addr, err := p.address(n)
		if err != nil {
			return nil, err
		}
		target.Addr = &addr
	}
	if n := f["scalar"]; n != nil {
		dst, err := p.variable(n)
		if err != nil {
			return nil, err
		}
		target.Scalar = &dst
	}
	value, err := p.value(f["value"])
	if err != nil {
		return nil, err
	}

	switch op {
	case "atomic_sub":
		return lir.AtomicSubStore{Target: target, Value: value}, nil
	case "atomic_mul":
		return lir.AtomicMulStore{Target: target, Value: value}, nil
	}
	float := lir.IsFloatOperand(value)
	if n := f["float"]; n != nil {
		if err := n.Decode(&float); err != nil {
			return nil, p.errorf(n, "float must be a boolean")
		}
	}
	return lir.AtomicAddStore{Target: target, Value: value, Float: float}, nil
}

// fields returns the entries of a mapping node. Keys prefixed with "?" are
// optional; any other key is rejected.
func (p *parser) fields(n *yaml.Node, keys ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, p.errorf(n, "expected a mapping with keys %s", strings.Join(keys, ", "))
	}
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		name, optional := strings.CutPrefix(k, "?")
		allowed[name] = optional
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if _, ok := allowed[key]; !ok {
			return nil, p.errorf(n.Content[i], "unexpected key %q", key)
		}
		if _, dup := out[key]; dup {
			return nil, p.errorf(n.Content[i], "duplicate key %q", key)
		}
		out[key] = n.Content[i+1]
	}
	for name, optional := range allowed {
		if _, ok := out[name]; !ok && !optional {
			return nil, p.errorf(n, "missing key %q", name)
		}
	}
	return out, nil
}

// variable decodes "name:type".
func (p *parser) variable(n *yaml.Node) (lir.Variable, error) {
	if n.Kind != yaml.ScalarNode || n.Tag != "!!str" {
		return lir.Variable{}, p.errorf(n, "expected a variable \"name:type\"")
	}
	name, typ, ok := strings.Cut(n.Value, ":")
	if !ok || name == "" {
		return lir.Variable{}, p.errorf(n, "variable %q needs the form \"name:type\"", n.Value)
	}
	elem, err := lir.ParseElementType(typ)
	if err != nil {
		return lir.Variable{}, p.errorf(n, "variable %s: %v", name, err)
	}
	return lir.Variable{Name: name, Type: elem}, nil
}

func (p *parser) optionalInt(n *yaml.Node) (int64, error) {
	if n == nil {
		return 0, nil
	}
	v, err := strconv.ParseInt(n.Value, 0, 64)
	if err != nil {
		return 0, p.errorf(n, "expected an integer, got %q", n.Value)
	}
	return v, nil
}

func (p *parser) barrierScope(n *yaml.Node) (lir.BarrierScope, error) {
	switch n.Value {
	case "local", "":
		return lir.ScopeLocal, nil
	case "global":
		return lir.ScopeGlobal, nil
	}
	return 0, p.errorf(n, "unknown barrier scope %q", n.Value)
}

// address decodes {space, type, base, index}.
func (p *parser) address(n *yaml.Node) (lir.Address, error) {
	if n == nil {
		return lir.Address{}, p.errorf(nil, "missing address")
	}
	f, err := p.fields(n, "space", "type", "base", "?index")
	if err != nil {
		return lir.Address{}, err
	}
	space, ok := lir.ParseMemorySpace(f["space"].Value)
	if !ok {
		return lir.Address{}, p.errorf(f["space"], "unknown memory space %q", f["space"].Value)
	}
	elem, err := lir.ParseElementType(f["type"].Value)
	if err != nil {
		return lir.Address{}, p.errorf(f["type"], "%v", err)
	}
	base, err := p.value(f["base"])
	if err != nil {
		return lir.Address{}, err
	}
	cast := lir.NewAddressCast(space, elem)
	if n := f["index"]; n != nil {
		index, err := p.value(n)
		if err != nil {
			return lir.Address{}, err
		}
		return lir.NewIndexedAddress(cast, base, index), nil
	}
	return lir.NewAddress(cast, base), nil
}

func scalarText(n *yaml.Node) string {
	if n == nil {
		return ""
	}
	return n.Value
}

// compositeKeys are the discriminating keys of composite value mappings.
var compositeKeys = []string{"int", "float", "bin", "un", "call", "query", "load", "cast", "text", "select", "barrier"}

// value decodes an operand.
//
//nolint:gocyclo,cyclop // one case per value form
func (p *parser) value(n *yaml.Node) (lir.Value, error) {
	if n == nil {
		return nil, p.errorf(nil, "missing value")
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return p.scalar(n)
	case yaml.MappingNode:
	default:
		return nil, p.errorf(n, "expected a value")
	}

	var kind string
	for i := 0; i < len(n.Content); i += 2 {
		if k := n.Content[i].Value; slices.Contains(compositeKeys, k) {
			if kind != "" {
				return nil, p.errorf(n, "value has both %q and %q", kind, k)
			}
			kind = k
		}
	}

	switch kind {
	case "int":
		f, err := p.fields(n, "int", "?type")
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(f["int"].Value, 0, 64)
		if err != nil {
			return nil, p.errorf(f["int"], "invalid integer %q", f["int"].Value)
		}
		t, err := p.optionalType(f["type"], lir.Int)
		if err != nil {
			return nil, err
		}
		return lir.IntConst{Value: v, Type: t}, nil

	case "float":
		f, err := p.fields(n, "float", "?type")
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(f["float"].Value, 64)
		if err != nil {
			return nil, p.errorf(f["float"], "invalid float %q", f["float"].Value)
		}
		t, err := p.optionalType(f["type"], lir.Float)
		if err != nil {
			return nil, err
		}
		return lir.FloatConst{Value: v, Type: t}, nil

	case "bin":
		f, err := p.fields(n, "bin", "x", "y")
		if err != nil {
			return nil, err
		}
		op, ok := lir.ParseBinaryOp(f["bin"].Value)
		if !ok {
			return nil, p.errorf(f["bin"], "unknown binary operator %q", f["bin"].Value)
		}
		x, err := p.value(f["x"])
		if err != nil {
			return nil, err
		}
		y, err := p.value(f["y"])
		if err != nil {
			return nil, err
		}
		return lir.Binary{Op: op, X: x, Y: y}, nil

	case "un":
		f, err := p.fields(n, "un", "x")
		if err != nil {
			return nil, err
		}
		var op lir.UnaryOp
		switch f["un"].Value {
		case "-":
			op = lir.OpNegate
		case "!":
			op = lir.OpNot
		case "~":
			op = lir.OpBitNot
		default:
			return nil, p.errorf(f["un"], "unknown unary operator %q", f["un"].Value)
		}
		x, err := p.value(f["x"])
		if err != nil {
			return nil, err
		}
		return lir.Unary{Op: op, X: x}, nil

	case "call":
		f, err := p.fields(n, "call", "?args")
		if err != nil {
			return nil, err
		}
		call := lir.Call{Func: f["call"].Value}
		if args := f["args"]; args != nil {
			if args.Kind != yaml.SequenceNode {
				return nil, p.errorf(args, "call arguments must be a list")
			}
			for _, a := range args.Content {
				v, err := p.value(a)
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, v)
			}
		}
		return call, nil

	case "query":
		f, err := p.fields(n, "query", "dim")
		if err != nil {
			return nil, err
		}
		return p.query(f["query"], f["dim"])

	case "load":
		f, err := p.fields(n, "load")
		if err != nil {
			return nil, err
		}
		addr, err := p.address(f["load"])
		if err != nil {
			return nil, err
		}
		return lir.LoadExpr{Addr: addr}, nil

	case "cast":
		f, err := p.fields(n, "cast", "x")
		if err != nil {
			return nil, err
		}
		to, err := lir.ParseElementType(f["cast"].Value)
		if err != nil {
			return nil, p.errorf(f["cast"], "%v", err)
		}
		x, err := p.value(f["x"])
		if err != nil {
			return nil, err
		}
		return lir.Convert{To: to, X: x}, nil

	case "text":
		f, err := p.fields(n, "text")
		if err != nil {
			return nil, err
		}
		return lir.Verbatim{Text: f["text"].Value}, nil

	case "select":
		f, err := p.fields(n, "select", "then", "else")
		if err != nil {
			return nil, err
		}
		cond, err := p.value(f["select"])
		if err != nil {
			return nil, err
		}
		accept, err := p.value(f["then"])
		if err != nil {
			return nil, err
		}
		reject, err := p.value(f["else"])
		if err != nil {
			return nil, err
		}
		return lir.Select{Cond: cond, Accept: accept, Reject: reject}, nil

	case "barrier":
		f, err := p.fields(n, "barrier")
		if err != nil {
			return nil, err
		}
		scope, err := p.barrierScope(f["barrier"])
		if err != nil {
			return nil, err
		}
		return lir.Barrier{Scope: scope}, nil
	}
	return nil, p.errorf(n, "value mapping needs one of %s", strings.Join(compositeKeys, ", "))
}

// scalar decodes a constant, a variable or a local array name.
func (p *parser) scalar(n *yaml.Node) (lir.Value, error) {
	switch n.Tag {
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, p.errorf(n, "invalid integer %q", n.Value)
		}
		return lir.IntConst{Value: v, Type: lir.Int}, nil
	case "!!float":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, p.errorf(n, "invalid float %q", n.Value)
		}
		return lir.FloatConst{Value: v, Type: lir.Float}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, p.errorf(n, "invalid boolean %q", n.Value)
		}
		return lir.BoolConst(b), nil
	case "!!str":
		if strings.Contains(n.Value, ":") {
			return p.variable(n)
		}
		if arr, ok := p.locals[n.Value]; ok {
			return arr, nil
		}
		return nil, p.errorf(n, "unknown local array %q", n.Value)
	}
	return nil, p.errorf(n, "unsupported scalar %q", n.Value)
}

func (p *parser) optionalType(n *yaml.Node, def lir.ElementType) (lir.ElementType, error) {
	if n == nil {
		return def, nil
	}
	t, err := lir.ParseElementType(n.Value)
	if err != nil {
		return lir.ElementType{}, p.errorf(n, "%v", err)
	}
	return t, nil
}

// query decodes an execution-context query through the kernel context, so
// identity dimensions are checked the same way as in generated code.
func (p *parser) query(kindNode, dimNode *yaml.Node) (lir.Value, error) {
	kind, ok := lir.ParseQueryKind(kindNode.Value)
	if !ok {
		return nil, p.errorf(kindNode, "unknown query %q", kindNode.Value)
	}
	dim, err := strconv.Atoi(dimNode.Value)
	if err != nil {
		return nil, p.errorf(dimNode, "invalid dimension %q", dimNode.Value)
	}
	switch kind {
	case lir.QueryThreadID:
		return p.kctx.ThreadID(dim)
	case lir.QueryGroupID:
		return p.kctx.GroupID(dim)
	case lir.QueryLocalID:
		return p.kctx.LocalID(dim)
	case lir.QueryLocalSize:
		if _, err := p.kctx.LocalGroupSize(dim); err != nil {
			return nil, err
		}
	case lir.QueryGlobalSize:
		if _, err := p.kctx.GlobalGroupSize(dim); err != nil {
			return nil, err
		}
	}
	return lir.Query{Kind: kind, Dim: dim}, nil
}
