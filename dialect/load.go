// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dialect

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/kernelc/lir"
)

// Load decodes a YAML dialect, resolving "extends" against Default.
func Load(r io.Reader) (*Dialect, error) {
	return Default.Load(r)
}

// Load decodes a YAML dialect. Unknown fields are rejected. When the file
// names a dialect in "extends", the fields it sets override a copy of that
// dialect.
func (r *Registry) Load(src io.Reader) (*Dialect, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "read dialect")
	}

	var header struct {
		Extends string `yaml:"extends"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, lir.NewError(lir.ErrConfiguration, "parse dialect: %v", err)
	}

	d := &Dialect{}
	if header.Extends != "" {
		base, err := r.Get(header.Extends)
		if err != nil {
			return nil, err
		}
		d = base
		d.Name = ""
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(d); err != nil && !errors.Is(err, io.EOF) {
		return nil, lir.NewError(lir.ErrConfiguration, "parse dialect: %v", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile reads a YAML dialect from path.
func LoadFile(path string) (*Dialect, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dialect %s", path)
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load dialect %s", path)
	}
	return d, nil
}

// Resolve returns the registered dialect called nameOrPath, or loads it from
// a file when the argument looks like a path.
func Resolve(nameOrPath string) (*Dialect, error) {
	if d, ok := Lookup(nameOrPath); ok {
		return d, nil
	}
	ext := strings.ToLower(filepath.Ext(nameOrPath))
	if ext == ".yaml" || ext == ".yml" {
		return LoadFile(nameOrPath)
	}
	return Default.Get(nameOrPath)
}
