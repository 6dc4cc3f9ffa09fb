// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernelctx_test

import (
	"errors"

	"github.com/go-logr/logr/funcr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gogpu/kernelc/kernelctx"
	"github.com/gogpu/kernelc/lir"
)

var _ = Describe("Context", func() {
	var (
		grid *kernelctx.WorkerGrid
		kctx *kernelctx.Context
	)

	BeforeEach(func() {
		var err error
		grid, err = kernelctx.NewWorkerGrid2D(256, 256, 16, 16)
		Expect(err).NotTo(HaveOccurred())

		kctx, err = kernelctx.New(grid)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should require a grid", func() {
		_, err := kernelctx.New(nil)
		Expect(err).To(MatchError(lir.ErrConfig))
	})

	It("should expose the bound grid", func() {
		Expect(kctx.Grid()).To(BeIdenticalTo(grid))
		Expect(kctx.Device()).To(BeNil())
	})

	It("should return dimension-indexed identity queries", func() {
		q, err := kctx.ThreadID(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(q).To(Equal(lir.Query{Kind: lir.QueryThreadID, Dim: 1}))

		q, err = kctx.GroupID(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(q).To(Equal(kctx.GroupIDX()))

		q, err = kctx.LocalID(2)
		Expect(err).NotTo(HaveOccurred())
		Expect(q).To(Equal(kctx.LocalIDZ()))

		Expect(kctx.ThreadIDY()).To(Equal(lir.Query{Kind: lir.QueryThreadID, Dim: 1}))

		_, err = kctx.LocalID(3)
		Expect(err).To(MatchError(lir.ErrDimension))
	})

	It("should read sizes from the grid", func() {
		size, err := kctx.LocalGroupSize(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(size).To(Equal(int64(16)))

		size, err = kctx.GlobalGroupSize(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(size).To(Equal(int64(256)))

		_, err = kctx.GlobalGroupSize(2)
		Expect(err).To(MatchError(lir.ErrDimension))
	})

	It("should return barrier instructions", func() {
		Expect(kctx.LocalBarrier().Kind).To(Equal(lir.Expr{X: lir.Barrier{Scope: lir.ScopeLocal}}))
		Expect(kctx.GlobalBarrier().Kind).To(Equal(lir.Expr{X: lir.Barrier{Scope: lir.ScopeGlobal}}))
	})

	It("should allocate uniquely named local arrays", func() {
		a, err := kctx.AllocateFloatLocalArray(256)
		Expect(err).NotTo(HaveOccurred())
		b, err := kctx.AllocateIntLocalArray(16)
		Expect(err).NotTo(HaveOccurred())
		c, err := kctx.AllocateNamedLocalArray("tile", lir.Vector(lir.ScalarFloat, 4), 8)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Name).To(Equal("lmem"))
		Expect(b.Name).To(Equal("lmem_1"))
		Expect(c.Name).To(Equal("tile"))
		Expect(kctx.LocalArrays()).To(Equal([]lir.LocalArray{a, b, c}))
		Expect(kctx.LocalMemoryBytes()).To(Equal(int64(256*4 + 16*4 + 8*16)))
	})

	It("should use the configured prefix and reserved words", func() {
		reserved := func(name string) bool { return name == "local" }
		kctx, err := kernelctx.New(grid, kernelctx.WithNamePrefix("scratch"), kernelctx.WithReserved(reserved))
		Expect(err).NotTo(HaveOccurred())

		a, err := kctx.AllocateLongLocalArray(4)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Name).To(Equal("scratch"))
		Expect(a.Elem).To(Equal(lir.Long))

		b, err := kctx.AllocateNamedLocalArray("local", lir.Int, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Name).To(Equal("local_"))
	})

	DescribeTable("should reject non-positive sizes",
		func(size int64) {
			_, err := kctx.AllocateDoubleLocalArray(size)
			Expect(err).To(MatchError(lir.ErrConfig))
			Expect(kctx.LocalArrays()).To(BeEmpty())
		},
		Entry("zero", int64(0)),
		Entry("negative", int64(-16)),
	)

	It("should reject invalid element types", func() {
		_, err := kctx.AllocateLocalArray(lir.ElementType{}, 4)
		Expect(err).To(MatchError(lir.ErrConfig))
	})

	Context("with a device", func() {
		var device *kernelctx.Device

		BeforeEach(func() {
			device = &kernelctx.Device{
				Name:             "small",
				LocalMemorySize:  1024,
				MaxWorkGroupSize: 256,
			}
		})

		It("should check the grid against the device", func() {
			big, err := kernelctx.NewWorkerGrid2D(256, 256, 32, 32)
			Expect(err).NotTo(HaveOccurred())

			_, err = kernelctx.New(big, kernelctx.WithDevice(device))
			Expect(err).To(MatchError(lir.ErrConfig))
		})

		It("should enforce the local memory size", func() {
			kctx, err := kernelctx.New(grid, kernelctx.WithDevice(device))
			Expect(err).NotTo(HaveOccurred())

			_, err = kctx.AllocateFloatLocalArray(200)
			Expect(err).NotTo(HaveOccurred())

			_, err = kctx.AllocateFloatLocalArray(57)
			Expect(err).To(MatchError(ContainSubstring("exceed device small limit of 1024")))

			_, err = kctx.AllocateFloatLocalArray(56)
			Expect(err).NotTo(HaveOccurred())
			Expect(kctx.LocalMemoryBytes()).To(Equal(int64(1024)))
		})

		It("should reject doubles without double precision support", func() {
			kctx, err := kernelctx.New(grid, kernelctx.WithDevice(device))
			Expect(err).NotTo(HaveOccurred())

			_, err = kctx.AllocateDoubleLocalArray(4)
			Expect(err).To(MatchError(lir.ErrConfig))
		})
	})

	It("should trace allocations through the configured logger", func() {
		var lines []string
		log := funcr.New(func(_, args string) {
			lines = append(lines, args)
		}, funcr.Options{Verbosity: 2})

		traced, err := kernelctx.New(grid, kernelctx.WithLogger(log))
		Expect(err).NotTo(HaveOccurred())
		_, err = traced.AllocateIntLocalArray(32)
		Expect(err).NotTo(HaveOccurred())

		Expect(lines).To(HaveLen(1))
		Expect(lines[0]).To(ContainSubstring(`"name"="lmem"`))
		Expect(lines[0]).To(ContainSubstring(`"size"=32`))
	})

	It("should refuse nested launches", func() {
		err := kctx.Launch("child", grid)
		Expect(errors.Is(err, lir.ErrNotImplemented)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring(`"child"`)))
	})
})
