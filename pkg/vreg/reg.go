// Package vreg implements the virtual-register value model: the
// union-find-backed VirtReg, stack-resident MemoryLocation, and the
// fixed physical-register alphabet. This mirrors
// original_source/include/vcfg/virtual_mips.h's VirtReg/MemoryLocation
// declarations and original_source/src/virtual_mips.cpp's unite/
// find_root/color_to_reg definitions.
package vreg

import (
	"strconv"
	"sync/atomic"
)

// REG_NUM is the count of allocatable colors; SaveStart splits the
// color space into caller-saved t* (colors < SaveStart) and
// callee-saved s* (colors >= SaveStart).
const (
	RegNum    = 17
	SaveStart = 9
)

// globalCounter is the process-wide monotonic id source for newly
// created (non-physical) virtual registers. Guarded with sync/atomic
// per spec: allocation itself is sequential per function, but nothing
// stops a caller from building two functions on separate goroutines.
var globalCounter uint64

// VirtReg is a single SSA-style value: either still virtual (only a
// numeric id) or physically assigned (a fixed textual name). Equality
// is defined as "same numeric id OR same union-find root" - see Equal.
type VirtReg struct {
	// Identity. Number is the creation-order id; Name is populated once
	// Allocated is set to true, becoming this register's final textual
	// identity.
	Number uint64
	Name   string

	Allocated bool
	Spilled   bool

	// Union-find state. Parent is nil for a root; UnionSize counts the
	// registers merged into this root (used for union-by-size).
	Parent    *VirtReg
	UnionSize int

	// Neighbors is this register's interference set, always indexed by
	// the union-find root of each conflicting register.
	Neighbors map[*VirtReg]struct{}

	// OverlapLocation is set by the call-overlap scanner when this
	// register's caller-saved color must be rescued across a call.
	OverlapLocation *MemoryLocation
}

// Create allocates a fresh virtual register with a unique numeric id.
func Create() *VirtReg {
	n := atomic.AddUint64(&globalCounter, 1) - 1
	return &VirtReg{
		Number:    n,
		UnionSize: 1,
		Neighbors: make(map[*VirtReg]struct{}),
	}
}

// createConstant builds a physical-register singleton: born allocated,
// with its name fixed, and exempt from coloring.
func createConstant(name string) *VirtReg {
	n := atomic.AddUint64(&globalCounter, 1) - 1
	return &VirtReg{
		Number:    n,
		Name:      name,
		Allocated: true,
		UnionSize: 1,
		Neighbors: make(map[*VirtReg]struct{}),
	}
}

// FindRoot returns r's union-find root, path-compressing along the
// way.
func FindRoot(r *VirtReg) *VirtReg {
	if r.Parent == nil {
		return r
	}
	root := FindRoot(r.Parent)
	r.Parent = root
	return root
}

// Unite merges the equivalence classes of x and y (union-by-size).
// Used by the phi-coalescing rule in pkg/regalloc's collect pass.
func Unite(x, y *VirtReg) {
	rx, ry := FindRoot(x), FindRoot(y)
	if rx == ry {
		return
	}
	if rx.UnionSize < ry.UnionSize {
		rx, ry = ry, rx
	}
	ry.Parent = rx
	rx.UnionSize += ry.UnionSize
}

// Equal implements spec.md's register equality: same numeric id, or
// same union-find root.
func (r *VirtReg) Equal(other *VirtReg) bool {
	if r.Number == other.Number {
		return true
	}
	return FindRoot(r) == FindRoot(other)
}

// IsRepresentative reports whether r is its own union-find root - the
// representative whose identity the allocator assigns a color to.
func (r *VirtReg) IsRepresentative() bool {
	return FindRoot(r) == r
}

// ColorToName maps an allocator color index to its physical register
// name: t{c} for caller-saved colors, s{c-SaveStart} for callee-saved.
func ColorToName(color int) string {
	if color < SaveStart {
		return "t" + strconv.Itoa(color)
	}
	return "s" + strconv.Itoa(color-SaveStart)
}

// String renders the register for diagnostics: its physical name if
// allocated, else "$undef<number>".
func (r *VirtReg) String() string {
	if r.Allocated {
		return "$" + r.Name
	}
	return "$undef" + strconv.FormatUint(r.Number, 10)
}
