// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernelc_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr/testr"

	"github.com/gogpu/kernelc"
	"github.com/gogpu/kernelc/dialect"
	"github.com/gogpu/kernelc/kernelctx"
	"github.com/gogpu/kernelc/lir"
)

// reduceUnit builds a workgroup reduction: each thread copies one element
// into local memory, synchronizes and thread 0 adds its sum to the output.
func reduceUnit(t *testing.T, grid *kernelctx.WorkerGrid, name string) *kernelc.Unit {
	t.Helper()
	kctx, err := kernelctx.New(grid)
	if err != nil {
		t.Fatal(err)
	}
	tile, err := kctx.AllocateFloatLocalArray(64)
	if err != nil {
		t.Fatal(err)
	}

	in := lir.Variable{Name: "ul_0", Type: lir.Long}
	out := lir.Variable{Name: "ul_1", Type: lir.Long}
	gid := lir.Variable{Name: "i_2", Type: lir.Int}
	lid := lir.Variable{Name: "i_3", Type: lir.Int}
	f := lir.Variable{Name: "f_4", Type: lir.Float}
	localFloat := lir.NewAddressCast(lir.SpaceLocal, lir.Float)
	globalFloat := lir.NewAddressCast(lir.SpaceGlobal, lir.Float)

	return &kernelc.Unit{
		Name:    name,
		Context: kctx,
		Body: []lir.Instruction{
			{Kind: lir.Assign{Dst: gid, Src: kctx.ThreadIDX()}},
			{Kind: lir.Assign{Dst: lid, Src: kctx.LocalIDX()}},
			{Kind: lir.Load{Dst: f, Addr: lir.NewAddress(globalFloat, in)}},
			{Kind: lir.Store{Addr: lir.NewIndexedAddress(localFloat, tile, lid), Value: f}},
			kctx.LocalBarrier(),
			{Kind: lir.Load{Dst: f, Addr: lir.NewIndexedAddress(localFloat, tile, lir.IntConst{Value: 0, Type: lir.Int})}},
			{Kind: lir.AtomicAddStore{Target: lir.AtomicAt(lir.NewAddress(globalFloat, out)), Value: f, Float: true}},
		},
	}
}

func TestCompile(t *testing.T) {
	grid, err := kernelctx.NewWorkerGrid1D(1024, 64)
	if err != nil {
		t.Fatal(err)
	}
	opts := kernelc.DefaultOptions()
	opts.Logger = testr.NewWithOptions(t, testr.Options{Verbosity: 1})

	res, err := kernelc.Compile(reduceUnit(t, grid, "reduce"), opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := "    __local float lmem[64];\n" +
		"    i_2 = get_global_id(0);\n" +
		"    i_3 = get_local_id(0);\n" +
		"    f_4 = *((__global float *) ul_0);\n" +
		"    lmem[i_3] = f_4;\n" +
		"    barrier(CLK_LOCAL_MEM_FENCE);\n" +
		"    f_4 = lmem[0];\n" +
		"    atomicAdd_Tornado_Floats(&(*((__global float *) ul_1)), f_4);\n"
	if got := res.Text(); got != want {
		t.Errorf("unexpected text:\n%s\nwant:\n%s", got, want)
	}
	if res.ID.IsNil() {
		t.Error("result has no id")
	}
	if res.Name != "reduce" || res.Dialect != dialect.NameOpenCL {
		t.Errorf("unexpected result metadata: %+v", res)
	}
	if res.LocalMemoryBytes != 256 {
		t.Errorf("LocalMemoryBytes = %d, want 256", res.LocalMemoryBytes)
	}
}

func TestCompile_CUDA(t *testing.T) {
	grid, err := kernelctx.NewWorkerGrid1D(1024, 64)
	if err != nil {
		t.Fatal(err)
	}
	opts := kernelc.DefaultOptions()
	opts.Dialect = dialect.CUDA()

	res, err := kernelc.Compile(reduceUnit(t, grid, "reduce"), opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, want := range []string{
		"__shared__ float lmem[64];",
		"i_2 = (blockIdx.x * blockDim.x + threadIdx.x);",
		"__syncthreads();",
		"atomicAdd(&(*((float *) ul_1)), f_4);",
	} {
		if !strings.Contains(res.Text(), want) {
			t.Errorf("expected %q in:\n%s", want, res.Text())
		}
	}
}

func TestCompile_ValidationFailure(t *testing.T) {
	grid, err := kernelctx.NewWorkerGrid1D(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	kctx, err := kernelctx.New(grid)
	if err != nil {
		t.Fatal(err)
	}
	unit := &kernelc.Unit{
		Name:    "bad",
		Context: kctx,
		Body: []lir.Instruction{
			lir.At(lir.Move{
				Dst: lir.Variable{Name: "i_1", Type: lir.Int},
				Src: lir.Binary{Op: lir.OpAdd, X: lir.IntConst{Value: 1}, Y: lir.IntConst{Value: 2}},
			}, lir.Span{Source: "bad.yaml", Line: 3}),
		},
	}

	opts := kernelc.DefaultOptions()
	opts.Logger = testr.New(t)
	_, err = kernelc.Compile(unit, opts)
	if !errors.Is(err, lir.ErrContract) {
		t.Fatalf("expected contract violation, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad.yaml:3") {
		t.Errorf("error lacks provenance: %v", err)
	}

	// Without validation the emitter rejects the same instruction.
	opts.Validate = false
	_, err = kernelc.Compile(unit, opts)
	if !errors.Is(err, lir.ErrContract) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

func TestCompile_VectorStoreWidthFromValue(t *testing.T) {
	grid, err := kernelctx.NewWorkerGrid1D(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	kctx, err := kernelctx.New(grid)
	if err != nil {
		t.Fatal(err)
	}
	unit := &kernelc.Unit{
		Name:    "store4",
		Context: kctx,
		Body: []lir.Instruction{
			{Kind: lir.VectorStore{
				Value: lir.Variable{Name: "v_1", Type: lir.Vector(lir.ScalarFloat, 4)},
				Index: lir.Variable{Name: "i_2", Type: lir.Int},
				Addr:  lir.NewAddress(lir.NewAddressCast(lir.SpaceGlobal, lir.Float), lir.Variable{Name: "ul_0", Type: lir.Long}),
			}},
		},
	}

	res, err := kernelc.Compile(unit, kernelc.DefaultOptions())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if want := "    vstore4(v_1, i_2, (__global float *) ul_0);\n"; res.Text() != want {
		t.Errorf("unexpected text %q, want %q", res.Text(), want)
	}
}

func TestCompile_NoContext(t *testing.T) {
	_, err := kernelc.Compile(&kernelc.Unit{Name: "x"}, kernelc.DefaultOptions())
	if !errors.Is(err, lir.ErrConfig) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestCompileAll_PreservesOrder(t *testing.T) {
	grid, err := kernelctx.NewWorkerGrid1D(1024, 64)
	if err != nil {
		t.Fatal(err)
	}
	units := make([]*kernelc.Unit, 16)
	for i := range units {
		units[i] = reduceUnit(t, grid, fmt.Sprintf("k%d", i))
	}
	opts := kernelc.DefaultOptions()
	opts.Concurrency = 4

	results, err := kernelc.CompileAll(context.Background(), units, opts)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(results) != len(units) {
		t.Fatalf("got %d results, want %d", len(results), len(units))
	}
	ids := make(map[string]struct{})
	for i, res := range results {
		if res.Name != units[i].Name {
			t.Errorf("result %d is %s, want %s", i, res.Name, units[i].Name)
		}
		if res.Text() != results[0].Text() {
			t.Errorf("result %d differs from result 0", i)
		}
		ids[res.ID.String()] = struct{}{}
	}
	if len(ids) != len(units) {
		t.Errorf("got %d distinct ids, want %d", len(ids), len(units))
	}
}

func TestCompileAll_Failure(t *testing.T) {
	grid, err := kernelctx.NewWorkerGrid1D(1024, 64)
	if err != nil {
		t.Fatal(err)
	}
	units := []*kernelc.Unit{
		reduceUnit(t, grid, "ok"),
		{Name: "orphan"},
	}
	results, err := kernelc.CompileAll(context.Background(), units, kernelc.DefaultOptions())
	if err == nil {
		t.Fatal("expected error")
	}
	if results != nil {
		t.Errorf("expected no results on failure, got %d", len(results))
	}
}

// recordingSink collects Commit and Discard calls.
type recordingSink struct {
	mu        sync.Mutex
	committed map[string]string
	discarded map[string]error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{committed: map[string]string{}, discarded: map[string]error{}}
}

func (s *recordingSink) Commit(name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed[name] = text
	return nil
}

func (s *recordingSink) Discard(name string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discarded[name] = cause
}

func TestCompileTo(t *testing.T) {
	grid, err := kernelctx.NewWorkerGrid1D(1024, 64)
	if err != nil {
		t.Fatal(err)
	}
	sink := newRecordingSink()

	if err := kernelc.CompileTo(sink, reduceUnit(t, grid, "good"), kernelc.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if err := kernelc.CompileTo(sink, &kernelc.Unit{Name: "bad"}, kernelc.DefaultOptions()); err == nil {
		t.Fatal("expected error")
	}

	if _, ok := sink.committed["good"]; !ok {
		t.Error("good unit was not committed")
	}
	if _, ok := sink.committed["bad"]; ok {
		t.Error("bad unit was committed")
	}
	if !errors.Is(sink.discarded["bad"], lir.ErrConfig) {
		t.Errorf("bad unit discard cause = %v", sink.discarded["bad"])
	}
	if len(sink.discarded) != 1 || len(sink.committed) != 1 {
		t.Errorf("committed %d, discarded %d", len(sink.committed), len(sink.discarded))
	}
}
