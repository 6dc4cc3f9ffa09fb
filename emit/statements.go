// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"github.com/gogpu/kernelc/lir"
)

// writeInstruction writes one instruction.
func (w *Writer) writeInstruction(inst lir.Instruction) error {
	w.span = inst.Span
	defer func() { w.span = lir.Span{} }()
	return w.writeInstructionKind(inst.Kind)
}

// writeInstructionKind writes an instruction based on its kind.
//
//nolint:gocyclo,cyclop // one case per instruction kind
func (w *Writer) writeInstructionKind(kind lir.InstructionKind) error {
	switch k := kind.(type) {
	case lir.Assign:
		return w.writeAssign(k)

	case lir.Move:
		return w.writeMove(k)

	case lir.Load:
		return w.writeLoad(k)

	case lir.VectorLoad:
		return w.writeVectorLoad(k)

	case lir.Store:
		return w.writeStore(k)

	case lir.VectorStore:
		return w.writeVectorStore(k)

	case lir.AtomicAddStore:
		intrinsic := w.dialect.Atomics.AddInt
		if k.Float {
			intrinsic = w.dialect.Atomics.AddFloat
		}
		return w.writeAtomic(k.Target, intrinsic, k.Value, false)

	case lir.AtomicSubStore:
		return w.writeAtomicSub(k)

	case lir.AtomicMulStore:
		if lir.IsFloatOperand(k.Value) {
			return w.contract("atomic multiply has no float form")
		}
		return w.writeAtomic(k.Target, w.dialect.Atomics.MulInt, k.Value, false)

	case lir.Expr:
		return w.writeExprStatement(k)

	case lir.Pragma:
		return w.writePragma(k)

	case lir.LocalAlloc:
		return w.writeLocalAlloc(k)

	case nil:
		return w.contract("missing instruction kind")

	default:
		return w.contract("unsupported instruction kind: %T", kind)
	}
}

// writeAssign writes "dst = rhs;". The right-hand side may be composite.
func (w *Writer) writeAssign(a lir.Assign) error {
	w.writeIndent()
	if err := w.writeDestination(a.Dst); err != nil {
		return err
	}
	w.assign()
	if err := w.writeValue(a.Src); err != nil {
		return err
	}
	w.delimiter()
	w.eol()
	return nil
}

// writeMove writes "dst = src;" for a plain source value.
func (w *Writer) writeMove(m lir.Move) error {
	if lir.IsComposite(m.Src) {
		return w.contract("move source must be a plain value, got %T", m.Src)
	}
	return w.writeAssign(lir.Assign{Dst: m.Dst, Src: m.Src})
}

// writeLoad writes "dst = base[index];" or "dst = *((cast) base);".
func (w *Writer) writeLoad(l lir.Load) error {
	w.writeIndent()
	if err := w.writeDestination(l.Dst); err != nil {
		return err
	}
	w.assign()
	if err := w.writeAddress(l.Addr); err != nil {
		return err
	}
	w.delimiter()
	w.eol()
	return nil
}

// writeVectorLoad writes "dst = vloadN(index, (cast) base);".
func (w *Writer) writeVectorLoad(l lir.VectorLoad) error {
	name := l.Intrinsic
	if name == "" {
		if !l.Dst.Type.IsVector() {
			return w.contract("vector load into %s needs a vector destination or an intrinsic name", l.Dst.Type)
		}
		name = w.dialect.VectorLoadName(l.Dst.Type.Width())
	}
	w.writeIndent()
	if err := w.writeDestination(l.Dst); err != nil {
		return err
	}
	w.assign()
	w.write("%s(", name)
	if err := w.writeValue(l.Index); err != nil {
		return err
	}
	w.write(", ")
	if err := w.writeCastBase(l.Addr); err != nil {
		return err
	}
	w.write(")")
	w.delimiter()
	w.eol()
	return nil
}

// writeStore writes "base[index] = rhs;" or "*((cast) base) = rhs;".
func (w *Writer) writeStore(s lir.Store) error {
	w.writeIndent()
	if err := w.writeAddress(s.Addr); err != nil {
		return err
	}
	w.assign()
	if err := w.writeValue(s.Value); err != nil {
		return err
	}
	w.delimiter()
	w.eol()
	return nil
}

// writeVectorStore writes "vstoreN(rhs, index, (cast) base);". The argument
// order is fixed by the intrinsic signature.
func (w *Writer) writeVectorStore(s lir.VectorStore) error {
	name := s.Intrinsic
	if name == "" {
		width := s.Lanes()
		if width < 2 {
			return w.contract("vector store needs an intrinsic name or a vector width")
		}
		name = w.dialect.VectorStoreName(width)
	}
	w.writeIndent()
	w.write("%s(", name)
	if err := w.writeValue(s.Value); err != nil {
		return err
	}
	w.write(", ")
	if err := w.writeValue(s.Index); err != nil {
		return err
	}
	w.write(", ")
	if err := w.writeCastBase(s.Addr); err != nil {
		return err
	}
	w.write(")")
	w.delimiter()
	w.eol()
	return nil
}

func (w *Writer) writeAtomicSub(s lir.AtomicSubStore) error {
	if lir.IsFloatOperand(s.Value) {
		return w.contract("atomic subtract has no float form")
	}
	switch {
	case w.legacyAtomicSub:
		return w.writeAtomic(s.Target, w.dialect.Atomics.AddInt, s.Value, false)
	case w.dialect.Atomics.Sub != "":
		return w.writeAtomic(s.Target, w.dialect.Atomics.Sub, s.Value, false)
	default:
		return w.writeAtomic(s.Target, w.dialect.Atomics.AddInt, s.Value, true)
	}
}

// writeAtomic writes "intrinsic(&(target), rhs);" for an address target and
// degrades to "dst = rhs;" for a scalar target. With negate the operand is
// written as -(rhs).
func (w *Writer) writeAtomic(target lir.AtomicTarget, intrinsic string, rhs lir.Value, negate bool) error {
	switch {
	case target.Addr != nil && target.Scalar != nil:
		return w.contract("atomic store has both an address and a scalar destination")

	case target.Scalar != nil:
		w.writeIndent()
		if err := w.writeDestination(*target.Scalar); err != nil {
			return err
		}
		w.assign()
		if err := w.writeValue(rhs); err != nil {
			return err
		}
		w.delimiter()
		w.eol()
		return nil

	case target.Addr != nil:
		if intrinsic == "" {
			return w.contract("dialect %s has no atomic intrinsic for this operation", w.dialect.Name)
		}
		w.writeIndent()
		w.write("%s(&(", intrinsic)
		if err := w.writeAddress(*target.Addr); err != nil {
			return err
		}
		w.write("), ")
		if negate {
			w.write("-(")
		}
		if err := w.writeValue(rhs); err != nil {
			return err
		}
		if negate {
			w.write(")")
		}
		w.write(")")
		w.delimiter()
		w.eol()
		return nil

	default:
		return w.contract("atomic store has neither an address nor a scalar destination")
	}
}

// writeExprStatement writes a side-effecting expression followed by ";".
func (w *Writer) writeExprStatement(e lir.Expr) error {
	w.writeIndent()
	if err := w.writeValue(e.X); err != nil {
		return err
	}
	w.delimiter()
	w.eol()
	return nil
}

// writePragma writes the directive text on its own line without a
// terminator.
func (w *Writer) writePragma(p lir.Pragma) error {
	w.writeIndent()
	if err := w.writeValue(p.Text); err != nil {
		return err
	}
	w.eol()
	return nil
}

// writeLocalAlloc writes the size text only. The surrounding declaration is
// written by WriteLocalDeclarations.
func (w *Writer) writeLocalAlloc(a lir.LocalAlloc) error {
	if c, ok := a.Size.(lir.IntConst); ok && c.Value <= 0 {
		return w.attribute(lir.NewError(lir.ErrConfiguration, "local allocation size must be positive, got %d", c.Value))
	}
	return w.writeValue(a.Size)
}

func (w *Writer) writeDestination(dst lir.Variable) error {
	if dst.Name == "" {
		return w.contract("destination has no name")
	}
	w.write(dst.Name)
	return nil
}
