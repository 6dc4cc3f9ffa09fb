// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"math"
	"strconv"

	"github.com/gogpu/kernelc/lir"
)

// writeValue writes a value. Composite values are written recursively;
// nested composite operands are parenthesized.
//
//nolint:gocyclo,cyclop // value dispatch requires handling all value kinds
func (w *Writer) writeValue(v lir.Value) error {
	switch x := v.(type) {
	case lir.Variable:
		if x.Name == "" {
			return w.contract("variable has no name")
		}
		w.write(x.Name)
		return nil

	case lir.LocalArray:
		if x.Name == "" {
			return w.contract("local array has no name")
		}
		w.write(x.Name)
		return nil

	case lir.IntConst:
		w.write(intLiteral(x))
		return nil

	case lir.FloatConst:
		t := x.Type
		if t.Kind == lir.ScalarInvalid {
			t = lir.Float
		}
		w.write(w.dialect.FloatLiteral(x.Value, t))
		return nil

	case lir.BoolConst:
		w.write(strconv.FormatBool(bool(x)))
		return nil

	case lir.Binary:
		if err := w.writeOperand(x.X); err != nil {
			return err
		}
		w.write(" %s ", x.Op)
		return w.writeOperand(x.Y)

	case lir.Unary:
		w.write(x.Op.String())
		return w.writeOperand(x.X)

	case lir.Call:
		return w.writeCall(x)

	case lir.Convert:
		w.write("(%s) ", w.dialect.TypeName(x.To))
		return w.writeOperand(x.X)

	case lir.Select:
		if err := w.writeOperand(x.Cond); err != nil {
			return err
		}
		w.write(" ? ")
		if err := w.writeOperand(x.Accept); err != nil {
			return err
		}
		w.write(" : ")
		return w.writeOperand(x.Reject)

	case lir.LoadExpr:
		return w.writeAddress(x.Addr)

	case lir.Query:
		return w.writeQuery(x)

	case lir.Barrier:
		w.write(w.dialect.BarrierText(x.Scope))
		return nil

	case lir.Verbatim:
		w.write(x.Text)
		return nil

	case nil:
		return w.contract("missing value")

	default:
		return w.contract("unsupported value kind: %T", v)
	}
}

// writeOperand writes v, parenthesized if it is an operator expression or
// a negative literal.
func (w *Writer) writeOperand(v lir.Value) error {
	if !needsParens(v) {
		return w.writeValue(v)
	}
	w.write("(")
	if err := w.writeValue(v); err != nil {
		return err
	}
	w.write(")")
	return nil
}

func needsParens(v lir.Value) bool {
	switch x := v.(type) {
	case lir.Binary, lir.Unary, lir.Convert, lir.Select:
		return true
	case lir.IntConst:
		return x.Value < 0
	case lir.FloatConst:
		return math.Signbit(x.Value) && !math.IsNaN(x.Value)
	}
	return false
}

func (w *Writer) writeCall(c lir.Call) error {
	if c.Func == "" {
		return w.contract("call has no function name")
	}
	w.write("%s(", c.Func)
	for i, arg := range c.Args {
		if i > 0 {
			w.write(", ")
		}
		if err := w.writeValue(arg); err != nil {
			return err
		}
	}
	w.write(")")
	return nil
}

// writeAddress writes the lvalue form of addr chosen by its memory space:
// base[index] for index addressing, *((cast) base) for pointer addressing.
func (w *Writer) writeAddress(addr lir.Address) error {
	strategy, err := w.checkAddress(addr)
	if err != nil {
		return err
	}
	if strategy == lir.StrategyIndex {
		if !addr.HasIndex() {
			return w.contract("%s address needs an index", addr.Space())
		}
		if err := w.writeOperand(addr.Base()); err != nil {
			return err
		}
		w.write("[")
		if err := w.writeValue(addr.Index()); err != nil {
			return err
		}
		w.write("]")
		return nil
	}
	w.write("*(")
	if err := w.writeCastBase(addr); err != nil {
		return err
	}
	w.write(")")
	return nil
}

// writeCastBase writes "(cast) base" as passed to vector intrinsics.
func (w *Writer) writeCastBase(addr lir.Address) error {
	if _, err := w.checkAddress(addr); err != nil {
		return err
	}
	cast, err := w.dialect.CastText(addr.Cast())
	if err != nil {
		return w.attribute(err)
	}
	w.write("%s ", cast)
	return w.writeOperand(addr.Base())
}

func (w *Writer) checkAddress(addr lir.Address) (lir.Strategy, error) {
	strategy, ok := addr.Strategy()
	if !ok {
		return 0, w.contract("address in memory space %s has no addressing strategy", addr.Space())
	}
	if addr.Base() == nil {
		return 0, w.contract("address has no base")
	}
	return strategy, nil
}

// writeQuery writes an execution-context query. Size queries are folded to
// constants when a grid is bound.
func (w *Writer) writeQuery(q lir.Query) error {
	if size, ok, err := w.foldSize(q); ok {
		if err != nil {
			return w.attribute(err)
		}
		w.write(strconv.FormatInt(size, 10))
		return nil
	}
	text, err := w.dialect.QueryText(q)
	if err != nil {
		return w.attribute(err)
	}
	w.write(text)
	return nil
}

// foldSize reads a size query from the bound grid. ok is false when q is not
// a size query or no grid is bound.
func (w *Writer) foldSize(q lir.Query) (size int64, ok bool, err error) {
	if w.grid == nil {
		return 0, false, nil
	}
	switch q.Kind {
	case lir.QueryLocalSize:
		size, err = w.grid.LocalGroupSize(q.Dim)
	case lir.QueryGlobalSize:
		size, err = w.grid.GlobalGroupSize(q.Dim)
	default:
		return 0, false, nil
	}
	return size, true, err
}

// intLiteral renders an integer constant with the suffix of its type.
func intLiteral(c lir.IntConst) string {
	s := strconv.FormatInt(c.Value, 10)
	switch c.Type.Kind {
	case lir.ScalarUInt, lir.ScalarUShort, lir.ScalarUChar:
		return s + "U"
	case lir.ScalarLong:
		return s + "L"
	case lir.ScalarULong:
		return s + "UL"
	}
	return s
}
