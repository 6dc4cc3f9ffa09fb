// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lir

import "fmt"

// ValidationError describes one broken upstream contract.
type ValidationError struct {
	Message string

	// Instruction is the index of the offending instruction, or -1.
	Instruction int
	Span        Span
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if !e.Span.IsZero() {
		return fmt.Sprintf("instruction %d (%s): %s", e.Instruction, e.Span, e.Message)
	}
	if e.Instruction >= 0 {
		return fmt.Sprintf("instruction %d: %s", e.Instruction, e.Message)
	}
	return e.Message
}

// AsError converts the validation error to a contract violation.
func (e ValidationError) AsError() *Error {
	return NewErrorWithSpan(ErrContractViolation, e.Span, "instruction %d: %s", e.Instruction, e.Message)
}

// Validator checks an instruction sequence against the contracts the
// optimizer guarantees. It renders nothing.
type Validator struct {
	errors  []ValidationError
	current int
	span    Span
}

// Validate checks every instruction and returns the violations found, or nil.
func Validate(insts []Instruction) []ValidationError {
	v := &Validator{}
	for i := range insts {
		v.current = i
		v.span = insts[i].Span
		v.validateInstruction(insts[i].Kind)
	}
	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

func (v *Validator) addError(format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Message:     fmt.Sprintf(format, args...),
		Instruction: v.current,
		Span:        v.span,
	})
}

//nolint:gocyclo // one case per instruction kind
func (v *Validator) validateInstruction(kind InstructionKind) {
	switch k := kind.(type) {
	case Assign:
		v.validateVariable("destination", k.Dst)
		v.validateValue("source", k.Src)
	case Move:
		v.validateVariable("destination", k.Dst)
		v.validateValue("source", k.Src)
		if IsComposite(k.Src) {
			v.addError("move source must be a plain value, got %T", k.Src)
		}
	case Load:
		v.validateVariable("destination", k.Dst)
		v.validateAddress(k.Addr)
	case VectorLoad:
		v.validateVariable("destination", k.Dst)
		v.validateValue("index", k.Index)
		v.validateAddress(k.Addr)
	case Store:
		v.validateAddress(k.Addr)
		v.validateValue("value", k.Value)
	case VectorStore:
		v.validateValue("value", k.Value)
		v.validateValue("index", k.Index)
		v.validateAddress(k.Addr)
		if k.Intrinsic == "" && k.Lanes() < 2 {
			v.addError("vector store needs an intrinsic name or a vector width")
		}
	case AtomicAddStore:
		v.validateAtomic(k.Target, k.Value)
	case AtomicSubStore:
		v.validateAtomic(k.Target, k.Value)
		v.validateIntegerOperand("subtract", k.Value)
	case AtomicMulStore:
		v.validateAtomic(k.Target, k.Value)
		v.validateIntegerOperand("multiply", k.Value)
	case Expr:
		v.validateValue("expression", k.X)
	case Pragma:
		v.validateValue("pragma", k.Text)
	case LocalAlloc:
		v.validateValue("size", k.Size)
		if c, ok := k.Size.(IntConst); ok && c.Value <= 0 {
			v.addError("local allocation size must be positive, got %d", c.Value)
		}
	case nil:
		v.addError("missing instruction kind")
	default:
		v.addError("unknown instruction kind %T", kind)
	}
}

func (v *Validator) validateVariable(role string, dst Variable) {
	if dst.Name == "" {
		v.addError("%s has no name", role)
	}
}

func (v *Validator) validateAtomic(target AtomicTarget, value Value) {
	switch {
	case target.Addr != nil && target.Scalar != nil:
		v.addError("atomic store has both an address and a scalar destination")
	case target.Addr != nil:
		v.validateAddress(*target.Addr)
	case target.Scalar != nil:
		v.validateVariable("scalar destination", *target.Scalar)
	default:
		v.addError("atomic store has neither an address nor a scalar destination")
	}
	v.validateValue("value", value)
}

// validateIntegerOperand rejects float operands on atomics that only exist
// in integer form.
func (v *Validator) validateIntegerOperand(op string, value Value) {
	if IsFloatOperand(value) {
		v.addError("atomic %s has no float form", op)
	}
}

// IsFloatOperand reports whether v is known to carry a floating point type.
func IsFloatOperand(v Value) bool {
	switch x := v.(type) {
	case FloatConst:
		return true
	case Variable:
		return x.Type.IsFloat()
	case Convert:
		return x.To.IsFloat()
	case Unary:
		return x.Op == OpNegate && IsFloatOperand(x.X)
	case Binary:
		if x.Op.isBoolean() {
			return false
		}
		return IsFloatOperand(x.X) || IsFloatOperand(x.Y)
	case Select:
		return IsFloatOperand(x.Accept) || IsFloatOperand(x.Reject)
	}
	return false
}

func (v *Validator) validateAddress(addr Address) {
	strategy, ok := addr.Strategy()
	if !ok {
		v.addError("address in memory space %s has no addressing strategy", addr.Space())
		return
	}
	if addr.Base() == nil {
		v.addError("address has no base")
	} else {
		v.validateValue("address base", addr.Base())
	}
	if strategy == StrategyIndex {
		if !addr.HasIndex() {
			v.addError("%s address needs an index", addr.Space())
		} else {
			v.validateValue("address index", addr.Index())
		}
	}
}

func (v *Validator) validateValue(role string, value Value) {
	switch x := value.(type) {
	case nil:
		v.addError("%s is missing", role)
	case Variable:
		v.validateVariable(role, x)
	case LocalArray:
		if x.Name == "" {
			v.addError("%s local array has no name", role)
		}
	case Binary:
		v.validateValue(role, x.X)
		v.validateValue(role, x.Y)
	case Unary:
		v.validateValue(role, x.X)
	case Call:
		if x.Func == "" {
			v.addError("%s call has no function name", role)
		}
		for _, arg := range x.Args {
			v.validateValue(role, arg)
		}
	case Convert:
		v.validateValue(role, x.X)
	case Select:
		v.validateValue(role, x.Cond)
		v.validateValue(role, x.Accept)
		v.validateValue(role, x.Reject)
	case LoadExpr:
		v.validateAddress(x.Addr)
	case Query:
		if x.Dim < 0 || x.Dim > 2 {
			v.addError("%s query %s dimension %d out of range", role, x.Kind, x.Dim)
		}
	}
}
