// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package unitfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/kernelc"
	"github.com/gogpu/kernelc/dialect"
	"github.com/gogpu/kernelc/kernelctx"
	"github.com/gogpu/kernelc/lir"
)

// File is a decoded unit file.
type File struct {
	// Source is the name spans refer to.
	Source string

	// Dialect is the dialect the file asks for, or empty.
	Dialect string

	Grid   *kernelctx.WorkerGrid
	Device *kernelctx.Device
	Units  []*kernelc.Unit

	logger logr.Logger
}

// Option configures decoding.
type Option func(*File)

// WithLogger routes the execution-context logs of every decoded unit to
// logger.
func WithLogger(logger logr.Logger) Option {
	return func(f *File) {
		f.logger = logger
	}
}

type fileNode struct {
	Dialect string       `yaml:"dialect"`
	Grid    gridNode     `yaml:"grid"`
	Device  *deviceNode  `yaml:"device"`
	Kernels []kernelNode `yaml:"kernels"`
}

type gridNode struct {
	Global []int64 `yaml:"global"`
	Local  []int64 `yaml:"local"`
}

type deviceNode struct {
	Name             string   `yaml:"name"`
	GlobalMemory     int64    `yaml:"global_memory"`
	LocalMemory      int64    `yaml:"local_memory"`
	MaxWorkGroupSize int64    `yaml:"max_work_group_size"`
	MaxWorkItemSizes []int64  `yaml:"max_work_item_sizes"`
	DoubleFP         bool     `yaml:"double_fp"`
	Extensions       []string `yaml:"extensions"`
	ByteOrder        string   `yaml:"byte_order"`
	CVersion         string   `yaml:"c_version"`
}

type kernelNode struct {
	Name   string      `yaml:"name"`
	Locals []localNode `yaml:"locals"`
	Body   []yaml.Node `yaml:"body"`
}

type localNode struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Size int64  `yaml:"size"`
}

// ParseFile reads and decodes the unit file at path.
func ParseFile(path string, opts ...Option) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read unit file %s", path)
	}
	f, err := Parse(bytes.NewReader(data), path, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "parse unit file %s", path)
	}
	return f, nil
}

// Parse decodes a unit file. source names the file in instruction spans.
func Parse(r io.Reader, source string, opts ...Option) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc fileNode
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, lir.NewError(lir.ErrConfiguration, "%s: empty unit file", source)
		}
		return nil, lir.NewError(lir.ErrConfiguration, "%s: %v", source, err)
	}

	grid, err := kernelctx.NewWorkerGrid(doc.Grid.Global, doc.Grid.Local)
	if err != nil {
		return nil, err
	}
	f := &File{
		Source:  source,
		Dialect: doc.Dialect,
		Grid:    grid,
		logger:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if doc.Device != nil {
		if f.Device, err = doc.Device.device(); err != nil {
			return nil, err
		}
	}
	if len(doc.Kernels) == 0 {
		return nil, lir.NewError(lir.ErrConfiguration, "%s: no kernels", source)
	}

	names := make(map[string]struct{}, len(doc.Kernels))
	for i := range doc.Kernels {
		k := &doc.Kernels[i]
		if k.Name == "" {
			return nil, lir.NewError(lir.ErrConfiguration, "%s: kernel %d has no name", source, i)
		}
		if _, dup := names[k.Name]; dup {
			return nil, lir.NewError(lir.ErrConfiguration, "%s: duplicate kernel %q", source, k.Name)
		}
		names[k.Name] = struct{}{}

		unit, err := f.unit(k)
		if err != nil {
			return nil, err
		}
		f.Units = append(f.Units, unit)
	}
	return f, nil
}

func (d *deviceNode) device() (*kernelctx.Device, error) {
	dev := &kernelctx.Device{
		Name:             d.Name,
		GlobalMemorySize: d.GlobalMemory,
		LocalMemorySize:  d.LocalMemory,
		MaxWorkGroupSize: d.MaxWorkGroupSize,
		DoubleFP:         d.DoubleFP,
		Extensions:       d.Extensions,
		CVersion:         d.CVersion,
	}
	if len(d.MaxWorkItemSizes) > kernelctx.MaxDims {
		return nil, lir.NewError(lir.ErrConfiguration, "device %s: %d work item sizes, at most %d", d.Name, len(d.MaxWorkItemSizes), kernelctx.MaxDims)
	}
	copy(dev.MaxWorkItemSizes[:], d.MaxWorkItemSizes)
	switch d.ByteOrder {
	case "", "little":
		dev.ByteOrder = binary.LittleEndian
	case "big":
		dev.ByteOrder = binary.BigEndian
	default:
		return nil, lir.NewError(lir.ErrConfiguration, "device %s: unknown byte order %q", d.Name, d.ByteOrder)
	}
	return dev, nil
}

// unit builds the execution context and instruction sequence of one kernel.
func (f *File) unit(k *kernelNode) (*kernelc.Unit, error) {
	opts := []kernelctx.Option{
		kernelctx.WithLogger(f.logger.WithValues("kernel", k.Name)),
	}
	if f.Device != nil {
		opts = append(opts, kernelctx.WithDevice(f.Device))
	}
	if d, ok := dialect.Lookup(f.Dialect); ok {
		opts = append(opts, kernelctx.WithReserved(d.IsReserved))
	}
	kctx, err := kernelctx.New(f.Grid, opts...)
	if err != nil {
		return nil, err
	}

	p := &parser{
		source: f.Source,
		kctx:   kctx,
		locals: make(map[string]lir.LocalArray, len(k.Locals)),
	}
	for _, l := range k.Locals {
		if _, dup := p.locals[l.Name]; dup {
			return nil, lir.NewError(lir.ErrConfiguration, "kernel %s: duplicate local array %q", k.Name, l.Name)
		}
		elem, err := lir.ParseElementType(l.Type)
		if err != nil {
			return nil, lir.NewError(lir.ErrConfiguration, "kernel %s: local array %q: %v", k.Name, l.Name, err)
		}
		arr, err := kctx.AllocateNamedLocalArray(l.Name, elem, l.Size)
		if err != nil {
			return nil, err
		}
		p.locals[l.Name] = arr
	}

	body, err := p.body(k.Body)
	if err != nil {
		return nil, err
	}
	return &kernelc.Unit{Name: k.Name, Context: kctx, Body: body}, nil
}

// LocalNames returns the allocated names of a unit's local arrays.
func LocalNames(u *kernelc.Unit) []string {
	return lo.Map(u.Context.LocalArrays(), func(a lir.LocalArray, _ int) string { return a.Name })
}
