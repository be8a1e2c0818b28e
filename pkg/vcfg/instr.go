// Package vcfg implements the SSA-style virtual-register IR: tagged
// instruction variants, basic blocks with cyclic-safe successor
// back-references, functions, and modules. This mirrors
// original_source/include/vcfg/virtual_mips.h and
// original_source/src/virtual_mips.cpp, generalizing the C++ class
// hierarchy (Ternary/BinaryImm/Binary/Unary/UnaryImm/Memory/...) into
// Go structs distinguished by a Mnemonic tag, following this repo's
// own convention of a closed tagged-variant Instruction interface
// (see pkg/rtl.Instruction) rather than virtual dispatch.
package vcfg

import (
	"fmt"
	"io"

	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// Instruction is the interface every IR instruction implements: it
// can enumerate every virtual register it mentions (read or defined),
// report the single register it defines, answer whether it reads a
// given register, rewrite itself in place to swap one register for
// another (used by the spill rewriter), and print itself.
type Instruction interface {
	// Registers visits every non-physical register this instruction
	// mentions, whether read or defined.
	Registers(visit func(*vreg.VirtReg))
	// Def returns the register this instruction defines, or nil.
	Def() *vreg.VirtReg
	// Uses reports whether this instruction reads r.
	Uses(r *vreg.VirtReg) bool
	// Replace substitutes every occurrence of old with next.
	Replace(old, next *vreg.VirtReg)
	// Output writes this instruction's textual form (no trailing
	// newline, no indentation).
	Output(w io.Writer)
}

func skipAllocated(visit func(*vreg.VirtReg), regs ...*vreg.VirtReg) {
	for _, r := range regs {
		if r != nil && !r.Allocated {
			visit(r)
		}
	}
}

// Ternary is a three-register operation: Lhs = Op0 <mnemonic> Op1
// (add, addu, sub, subu, ...).
type Ternary struct {
	Mnemonic  string
	Lhs       *vreg.VirtReg
	Op0, Op1  *vreg.VirtReg
}

func NewTernary(mnemonic string, lhs, op0, op1 *vreg.VirtReg) *Ternary {
	return &Ternary{Mnemonic: mnemonic, Lhs: lhs, Op0: op0, Op1: op1}
}

func (i *Ternary) Registers(visit func(*vreg.VirtReg)) {
	skipAllocated(visit, i.Lhs, i.Op0, i.Op1)
}
func (i *Ternary) Def() *vreg.VirtReg { return i.Lhs }
func (i *Ternary) Uses(r *vreg.VirtReg) bool {
	return r.Equal(i.Op0) || r.Equal(i.Op1)
}
func (i *Ternary) Replace(old, next *vreg.VirtReg) {
	if i.Lhs.Equal(old) {
		i.Lhs = next
	}
	if i.Op0.Equal(old) {
		i.Op0 = next
	}
	if i.Op1.Equal(old) {
		i.Op1 = next
	}
}
func (i *Ternary) Output(w io.Writer) {
	fmt.Fprintf(w, "%s %s, %s, %s", i.Mnemonic, i.Lhs, i.Op0, i.Op1)
}

// BinaryImm is a two-register plus immediate operation: Lhs =
// Rhs <mnemonic> Imm (addi, addiu, andi, ...).
type BinaryImm struct {
	Mnemonic string
	Lhs, Rhs *vreg.VirtReg
	Imm      int64
}

func NewBinaryImm(mnemonic string, lhs, rhs *vreg.VirtReg, imm int64) *BinaryImm {
	return &BinaryImm{Mnemonic: mnemonic, Lhs: lhs, Rhs: rhs, Imm: imm}
}

func (i *BinaryImm) Registers(visit func(*vreg.VirtReg)) { skipAllocated(visit, i.Lhs, i.Rhs) }
func (i *BinaryImm) Def() *vreg.VirtReg                  { return i.Lhs }
func (i *BinaryImm) Uses(r *vreg.VirtReg) bool           { return r.Equal(i.Rhs) }
func (i *BinaryImm) Replace(old, next *vreg.VirtReg) {
	if i.Lhs.Equal(old) {
		i.Lhs = next
	}
	if i.Rhs.Equal(old) {
		i.Rhs = next
	}
}
func (i *BinaryImm) Output(w io.Writer) {
	fmt.Fprintf(w, "%s %s, %s, %d", i.Mnemonic, i.Lhs, i.Rhs, i.Imm)
}

// Binary is a two-register operation: Lhs = <mnemonic> Rhs (move,
// negu, seb, seh, clo, clz, ...).
type Binary struct {
	Mnemonic string
	Lhs, Rhs *vreg.VirtReg
}

func NewBinary(mnemonic string, lhs, rhs *vreg.VirtReg) *Binary {
	return &Binary{Mnemonic: mnemonic, Lhs: lhs, Rhs: rhs}
}

func (i *Binary) Registers(visit func(*vreg.VirtReg)) { skipAllocated(visit, i.Lhs, i.Rhs) }
func (i *Binary) Def() *vreg.VirtReg                  { return i.Lhs }
func (i *Binary) Uses(r *vreg.VirtReg) bool           { return r.Equal(i.Rhs) }
func (i *Binary) Replace(old, next *vreg.VirtReg) {
	if i.Lhs.Equal(old) {
		i.Lhs = next
	}
	if i.Rhs.Equal(old) {
		i.Rhs = next
	}
}
func (i *Binary) Output(w io.Writer) {
	fmt.Fprintf(w, "%s %s, %s", i.Mnemonic, i.Lhs, i.Rhs)
}

// Unary is a single-register instruction that neither reads nor
// writes any other register through this field (jr uses T but never
// defines; syscall args come through fixed physical registers).
type Unary struct {
	Mnemonic string
	T        *vreg.VirtReg
	// Defines controls whether T is a definition (li-style) or a use
	// (jr-style). jr never defines.
	Defines bool
}

func NewUnary(mnemonic string, t *vreg.VirtReg, defines bool) *Unary {
	return &Unary{Mnemonic: mnemonic, T: t, Defines: defines}
}

func (i *Unary) Registers(visit func(*vreg.VirtReg)) { skipAllocated(visit, i.T) }
func (i *Unary) Def() *vreg.VirtReg {
	if i.Defines {
		return i.T
	}
	return nil
}
func (i *Unary) Uses(r *vreg.VirtReg) bool {
	if i.Defines {
		return false
	}
	return r.Equal(i.T)
}
func (i *Unary) Replace(old, next *vreg.VirtReg) {
	if i.T.Equal(old) {
		i.T = next
	}
}
func (i *Unary) Output(w io.Writer) {
	fmt.Fprintf(w, "%s %s", i.Mnemonic, i.T)
}

// UnaryImm is a single-register plus immediate instruction: T =
// <mnemonic> Imm (li, lui).
type UnaryImm struct {
	Mnemonic string
	T        *vreg.VirtReg
	Imm      int64
}

func NewUnaryImm(mnemonic string, t *vreg.VirtReg, imm int64) *UnaryImm {
	return &UnaryImm{Mnemonic: mnemonic, T: t, Imm: imm}
}

func (i *UnaryImm) Registers(visit func(*vreg.VirtReg)) { skipAllocated(visit, i.T) }
func (i *UnaryImm) Def() *vreg.VirtReg                  { return i.T }
func (i *UnaryImm) Uses(r *vreg.VirtReg) bool           { return false }
func (i *UnaryImm) Replace(old, next *vreg.VirtReg) {
	if i.T.Equal(old) {
		i.T = next
	}
}
func (i *UnaryImm) Output(w io.Writer) {
	fmt.Fprintf(w, "%s %s, %d", i.Mnemonic, i.T, i.Imm)
}

// Memory is a load/store: lw loads into Target from Loc (a
// definition); sw stores Target into Loc (a use).
type Memory struct {
	Mnemonic string
	Target   *vreg.VirtReg
	Loc      *vreg.MemoryLocation
	IsLoad   bool
}

func NewMemory(mnemonic string, target *vreg.VirtReg, loc *vreg.MemoryLocation, isLoad bool) *Memory {
	return &Memory{Mnemonic: mnemonic, Target: target, Loc: loc, IsLoad: isLoad}
}

func (i *Memory) Registers(visit func(*vreg.VirtReg)) {
	skipAllocated(visit, i.Target, i.Loc.Base)
}
func (i *Memory) Def() *vreg.VirtReg {
	if i.IsLoad {
		return i.Target
	}
	return nil
}
func (i *Memory) Uses(r *vreg.VirtReg) bool {
	if r.Equal(i.Loc.Base) {
		return true
	}
	if !i.IsLoad {
		return r.Equal(i.Target)
	}
	return false
}
func (i *Memory) Replace(old, next *vreg.VirtReg) {
	if i.Target.Equal(old) {
		i.Target = next
	}
	if i.Loc.Base.Equal(old) {
		i.Loc.Base = next
	}
}
func (i *Memory) Output(w io.Writer) {
	fmt.Fprintf(w, "%s %s, %s", i.Mnemonic, i.Target, i.Loc)
}

// ArrayAccess is an indexed load/store: lw/sw Target, Loc(OffsetReg).
type ArrayAccess struct {
	Mnemonic  string
	Target    *vreg.VirtReg
	OffsetReg *vreg.VirtReg
	Loc       *vreg.MemoryLocation
	IsLoad    bool
}

func NewArrayAccess(mnemonic string, target, offsetReg *vreg.VirtReg, loc *vreg.MemoryLocation, isLoad bool) *ArrayAccess {
	return &ArrayAccess{Mnemonic: mnemonic, Target: target, OffsetReg: offsetReg, Loc: loc, IsLoad: isLoad}
}

func (i *ArrayAccess) Registers(visit func(*vreg.VirtReg)) {
	skipAllocated(visit, i.Target, i.OffsetReg, i.Loc.Base)
}
func (i *ArrayAccess) Def() *vreg.VirtReg {
	if i.IsLoad {
		return i.Target
	}
	return nil
}
func (i *ArrayAccess) Uses(r *vreg.VirtReg) bool {
	if r.Equal(i.OffsetReg) || r.Equal(i.Loc.Base) {
		return true
	}
	if !i.IsLoad {
		return r.Equal(i.Target)
	}
	return false
}
func (i *ArrayAccess) Replace(old, next *vreg.VirtReg) {
	if i.Target.Equal(old) {
		i.Target = next
	}
	if i.OffsetReg.Equal(old) {
		i.OffsetReg = next
	}
	if i.Loc.Base.Equal(old) {
		i.Loc.Base = next
	}
}
func (i *ArrayAccess) Output(w io.Writer) {
	fmt.Fprintf(w, "%s %s, %s(%s)", i.Mnemonic, i.Target, i.Loc, i.OffsetReg)
}

// Phi marks two operands whose lifetimes must be joined at a
// control-flow merge. Never emitted; consumed purely by the collect
// pass to feed union-find (see pkg/regalloc).
type Phi struct {
	Op0, Op1 *vreg.VirtReg
}

func NewPhi(op0, op1 *vreg.VirtReg) *Phi { return &Phi{Op0: op0, Op1: op1} }

func (i *Phi) Registers(visit func(*vreg.VirtReg)) { skipAllocated(visit, i.Op0, i.Op1) }
func (i *Phi) Def() *vreg.VirtReg                  { return nil }
func (i *Phi) Uses(r *vreg.VirtReg) bool           { return r.Equal(i.Op0) || r.Equal(i.Op1) }
func (i *Phi) Replace(old, next *vreg.VirtReg) {
	if i.Op0.Equal(old) {
		i.Op0 = next
	}
	if i.Op1.Equal(old) {
		i.Op1 = next
	}
}
func (i *Phi) Output(w io.Writer) { fmt.Fprintf(w, "# phi node") }

// Text is a literal pass-through line, used for pseudo-instructions
// like the epilogue jump ("j .L<name>_epilogue") that carry no register
// operands.
type Text struct {
	Line string
}

func NewText(line string) *Text { return &Text{Line: line} }

func (i *Text) Registers(func(*vreg.VirtReg)) {}
func (i *Text) Def() *vreg.VirtReg            { return nil }
func (i *Text) Uses(*vreg.VirtReg) bool       { return false }
func (i *Text) Replace(*vreg.VirtReg, *vreg.VirtReg) {}
func (i *Text) Output(w io.Writer)            { io.WriteString(w, i.Line) }
