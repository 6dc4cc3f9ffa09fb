// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernelctx

import "fmt"

// DefaultNamePrefix is the base name of anonymous local arrays.
const DefaultNamePrefix = "lmem"

// namer hands out unique local-array names within one compilation unit.
type namer struct {
	used     map[string]struct{}
	counter  uint32
	reserved func(string) bool
}

func newNamer(reserved func(string) bool) *namer {
	return &namer{
		used:     make(map[string]struct{}),
		reserved: reserved,
	}
}

// call returns base if it is free, otherwise base with a numeric suffix.
// Reserved words get a trailing underscore first.
func (n *namer) call(base string) string {
	if base == "" {
		base = DefaultNamePrefix
	}
	if n.reserved != nil && n.reserved(base) {
		base += "_"
	}
	if !n.isUsed(base) {
		n.reserve(base)
		return base
	}
	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", base, n.counter)
		if !n.isUsed(candidate) {
			n.reserve(candidate)
			return candidate
		}
	}
}

func (n *namer) isUsed(name string) bool {
	_, used := n.used[name]
	return used
}

// reserve marks a name as used without returning it.
func (n *namer) reserve(name string) {
	n.used[name] = struct{}{}
}
