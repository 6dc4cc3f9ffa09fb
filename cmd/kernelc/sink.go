// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tebeka/atexit"
)

// dirSink writes each committed kernel to <dir>/<name><ext>. A discarded
// kernel leaves no file behind.
type dirSink struct {
	dir string
	ext string
}

func newDirSink(dir, ext string) (*dirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output directory %s", dir)
	}
	return &dirSink{dir: dir, ext: ext}, nil
}

func (s *dirSink) path(name string) string {
	return filepath.Join(s.dir, name+s.ext)
}

func (s *dirSink) Commit(name, text string) error {
	return writeFileAtomic(s.path(name), []byte(text))
}

func (s *dirSink) Discard(name string, _ error) {
	_ = os.Remove(s.path(name))
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place. The temporary file is removed on exit if the rename never
// happens.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	tmpName := tmp.Name()
	atexit.Register(func() { _ = os.Remove(tmpName) })

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "close %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "rename %s", path)
	}
	return nil
}
