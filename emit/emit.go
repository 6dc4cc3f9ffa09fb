// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"fmt"

	"github.com/gogpu/kernelc/lir"
)

// Emit renders insts in order and returns the statements text.
// Emission stops at the first failing instruction and no partial text is
// returned.
func Emit(insts []lir.Instruction, opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", fmt.Errorf("emit: %w", err)
	}
	w := newWriter(&opts)
	for i := range insts {
		if err := w.writeInstruction(insts[i]); err != nil {
			return "", fmt.Errorf("emit: instruction %d (%s): %w", i, lir.Name(insts[i].Kind), err)
		}
	}
	return w.String(), nil
}

// EmitInstruction renders a single instruction.
func EmitInstruction(inst lir.Instruction, opts Options) (string, error) {
	return Emit([]lir.Instruction{inst}, opts)
}

// WriteLocalDeclarations renders the preamble declarations of local arrays,
// e.g. "__local float lmem[256];". The size is written with the LocalAlloc
// rule.
func WriteLocalDeclarations(arrays []lir.LocalArray, opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", fmt.Errorf("emit: %w", err)
	}
	w := newWriter(&opts)
	qual, _ := opts.Dialect.Qualifier(lir.SpaceLocal)
	for _, arr := range arrays {
		if arr.Name == "" {
			return "", fmt.Errorf("emit: %w", w.contract("local array has no name"))
		}
		if !arr.Elem.IsValid() {
			return "", fmt.Errorf("emit: %w", w.contract("local array %s has invalid element type", arr.Name))
		}
		w.writeIndent()
		if qual != "" {
			w.write("%s ", qual)
		}
		w.write("%s %s[", opts.Dialect.TypeName(arr.Elem), arr.Name)
		size := lir.LocalAlloc{Size: lir.IntConst{Value: arr.Size, Type: lir.Int}}
		if err := w.writeInstructionKind(size); err != nil {
			return "", fmt.Errorf("emit: local array %s: %w", arr.Name, err)
		}
		w.write("]")
		w.delimiter()
		w.eol()
	}
	return w.String(), nil
}
