// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/gogpu/kernelc/dialect"
	"github.com/gogpu/kernelc/lir"
)

const indentUnit = "    "

// Writer accumulates the text of one emission pass. It is owned by a single
// pass and never shared.
type Writer struct {
	out strings.Builder

	indent  int
	dialect *dialect.Dialect
	grid    GridInfo

	legacyAtomicSub bool

	// span of the instruction being written, for error attribution
	span lir.Span
}

func newWriter(opts *Options) *Writer {
	return &Writer{
		indent:          opts.IndentLevel,
		dialect:         opts.Dialect,
		grid:            opts.Grid,
		legacyAtomicSub: opts.LegacyAtomicSub,
	}
}

// String returns the text written so far.
func (w *Writer) String() string {
	return w.out.String()
}

// write writes text to the output. If args are provided, uses fmt.Fprintf.
//
//nolint:goprintffuncname
func (w *Writer) write(format string, args ...any) {
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
}

func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString(indentUnit)
	}
}

// assign writes " = ".
func (w *Writer) assign() {
	w.out.WriteString(" = ")
}

// delimiter terminates a statement.
func (w *Writer) delimiter() {
	w.out.WriteByte(';')
}

func (w *Writer) eol() {
	w.out.WriteByte('\n')
}

// contract reports an upstream contract violation at the current instruction.
// The error carries a stack trace.
func (w *Writer) contract(format string, args ...any) error {
	return errors.WithStack(lir.NewErrorWithSpan(lir.ErrContractViolation, w.span, format, args...))
}

// attribute attaches the current span to a span-less *lir.Error.
func (w *Writer) attribute(err error) error {
	var e *lir.Error
	if errors.As(err, &e) && e.Span == nil && !w.span.IsZero() {
		span := w.span
		e.Span = &span
	}
	return errors.WithStack(err)
}
