// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"strings"
	"testing"

	"github.com/gogpu/kernelc/lir"
)

// Operands shared by the emission tests.
var (
	ulBase  = lir.Variable{Name: "ul_1", Type: lir.Long}
	idx     = lir.Variable{Name: "i_4", Type: lir.Int}
	fDst    = lir.Variable{Name: "f_1", Type: lir.Float}
	fSrc    = lir.Variable{Name: "f_2", Type: lir.Float}
	iSrc    = lir.Variable{Name: "i_2", Type: lir.Int}
	iDst    = lir.Variable{Name: "i_3", Type: lir.Int}
	v4Dst   = lir.Variable{Name: "v_1", Type: lir.Vector(lir.ScalarFloat, 4)}
	tileArr = lir.LocalArray{Name: "arr", Elem: lir.Float, Size: 64}

	globalFloat = lir.NewAddressCast(lir.SpaceGlobal, lir.Float)
	globalInt   = lir.NewAddressCast(lir.SpaceGlobal, lir.Int)
	localFloat  = lir.NewAddressCast(lir.SpaceLocal, lir.Float)
)

// bodyOptions returns OpenCL options without indentation.
func bodyOptions() Options {
	opts := DefaultOptions()
	opts.IndentLevel = 0
	return opts
}

func mustEmit(t *testing.T, opts Options, kinds ...lir.InstructionKind) string {
	t.Helper()
	out, err := Emit(instructions(kinds...), opts)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	return out
}

func instructions(kinds ...lir.InstructionKind) []lir.Instruction {
	insts := make([]lir.Instruction, len(kinds))
	for i, k := range kinds {
		insts[i] = lir.Instruction{Kind: k}
	}
	return insts
}

func mustContain(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("expected output to contain %q\ngot:\n%s", want, out)
	}
}

func mustNotContain(t *testing.T, out, unwanted string) {
	t.Helper()
	if strings.Contains(out, unwanted) {
		t.Errorf("expected output NOT to contain %q\ngot:\n%s", unwanted, out)
	}
}

func atAddr(addr lir.Address) *lir.Address {
	return &addr
}
