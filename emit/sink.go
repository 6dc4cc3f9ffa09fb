// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"github.com/gogpu/kernelc/lir"
)

// Sink receives the output of one emission session.
//
//go:generate mockgen -write_package_comment=false -package=emit -destination=mock_sink_test.go github.com/gogpu/kernelc/emit Sink
type Sink interface {
	// Commit receives the complete text of a successful session.
	Commit(name, text string) error

	// Discard reports that the session failed. No text is delivered.
	Discard(name string, cause error)
}

// EmitTo renders insts as one session named name. Exactly one of
// sink.Commit or sink.Discard is called, so partial text never reaches
// the sink.
func EmitTo(sink Sink, name string, insts []lir.Instruction, opts Options) (err error) {
	var text string
	defer func() {
		if r := recover(); r != nil {
			sink.Discard(name, lir.NewError(lir.ErrContractViolation, "emission of %s panicked: %v", name, r))
			panic(r)
		}
		if err != nil {
			sink.Discard(name, err)
			return
		}
		err = sink.Commit(name, text)
	}()
	text, err = Emit(insts, opts)
	return err
}
