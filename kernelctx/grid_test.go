// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernelctx_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gogpu/kernelc/kernelctx"
	"github.com/gogpu/kernelc/lir"
)

var _ = Describe("WorkerGrid", func() {
	It("should report sizes per dimension", func() {
		grid, err := kernelctx.NewWorkerGrid2D(1024, 768, 16, 8)
		Expect(err).NotTo(HaveOccurred())

		Expect(grid.Dims()).To(Equal(2))
		Expect(grid.GlobalWork()).To(Equal([]int64{1024, 768}))
		Expect(grid.LocalWork()).To(Equal([]int64{16, 8}))

		size, err := grid.LocalGroupSize(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(size).To(Equal(int64(8)))

		size, err = grid.GlobalGroupSize(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(size).To(Equal(int64(1024)))

		groups, err := grid.NumGroups(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(groups).To(Equal(int64(96)))

		Expect(grid.GroupThreads()).To(Equal(int64(128)))
		Expect(grid.TotalThreads()).To(Equal(int64(1024 * 768)))
		Expect(grid.String()).To(Equal("2D global=[1024 768] local=[16 8]"))
	})

	It("should fail on dimensions beyond its dimensionality", func() {
		grid, err := kernelctx.NewWorkerGrid2D(64, 64, 8, 8)
		Expect(err).NotTo(HaveOccurred())

		_, err = grid.GlobalGroupSize(2)
		Expect(err).To(MatchError(lir.ErrDimension))
		Expect(errors.Is(err, lir.ErrContract)).To(BeTrue())

		_, err = grid.LocalGroupSize(-1)
		Expect(err).To(MatchError(lir.ErrDimension))

		_, err = grid.NumGroups(3)
		Expect(err).To(MatchError(lir.ErrDimension))
	})

	It("should not share its backing arrays", func() {
		global := []int64{32}
		grid, err := kernelctx.NewWorkerGrid(global, []int64{4})
		Expect(err).NotTo(HaveOccurred())

		global[0] = 99
		grid.GlobalWork()[0] = 77
		Expect(grid.GlobalWork()).To(Equal([]int64{32}))
	})

	DescribeTable("should reject invalid configurations",
		func(global, local []int64) {
			_, err := kernelctx.NewWorkerGrid(global, local)
			Expect(err).To(MatchError(lir.ErrConfig))
		},
		Entry("no dimensions", []int64{}, []int64{}),
		Entry("four dimensions", []int64{1, 1, 1, 1}, []int64{1, 1, 1, 1}),
		Entry("mismatched lengths", []int64{8, 8}, []int64{8}),
		Entry("zero global size", []int64{0}, []int64{1}),
		Entry("negative local size", []int64{8}, []int64{-2}),
		Entry("indivisible sizes", []int64{10}, []int64{4}),
	)

	It("should build three-dimensional grids", func() {
		grid, err := kernelctx.NewWorkerGrid3D([3]int64{8, 8, 8}, [3]int64{2, 2, 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(grid.Dims()).To(Equal(3))
		Expect(grid.GroupThreads()).To(Equal(int64(8)))
	})
})

var _ = Describe("Device", func() {
	var device *kernelctx.Device

	BeforeEach(func() {
		device = &kernelctx.Device{
			Name:             "test-gpu",
			LocalMemorySize:  1024,
			MaxWorkGroupSize: 256,
			MaxWorkItemSizes: [3]int64{256, 16, 1},
			Extensions:       []string{"cl_khr_fp64", "cl_khr_int64_base_atomics"},
		}
	})

	It("should accept grids within limits", func() {
		grid, err := kernelctx.NewWorkerGrid2D(512, 64, 32, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(device.CheckGrid(grid)).To(Succeed())
	})

	It("should reject oversized workgroups", func() {
		grid, err := kernelctx.NewWorkerGrid1D(1024, 512)
		Expect(err).NotTo(HaveOccurred())
		Expect(device.CheckGrid(grid)).To(MatchError(lir.ErrConfig))
	})

	It("should reject oversized work items", func() {
		grid, err := kernelctx.NewWorkerGrid2D(64, 64, 4, 32)
		Expect(err).NotTo(HaveOccurred())
		Expect(device.CheckGrid(grid)).To(MatchError(ContainSubstring("dimension 1")))
	})

	It("should report extensions and double support", func() {
		Expect(device.HasExtension("cl_khr_fp64")).To(BeTrue())
		Expect(device.HasExtension("cl_khr_fp16")).To(BeFalse())
		Expect(device.CheckElement(lir.Double)).To(MatchError(lir.ErrConfig))
		Expect(device.CheckElement(lir.Float)).To(Succeed())

		device.DoubleFP = true
		Expect(device.CheckElement(lir.Double)).To(Succeed())
	})
})
