package vcfg

import (
	"fmt"
	"io"

	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// Unconditional is an unconditional jump to Target (b, j).
type Unconditional struct {
	Mnemonic string
	Target   *BasicBlock
}

func NewUnconditional(mnemonic string, target *BasicBlock) *Unconditional {
	return &Unconditional{Mnemonic: mnemonic, Target: target}
}

func (i *Unconditional) Registers(func(*vreg.VirtReg)) {}
func (i *Unconditional) Def() *vreg.VirtReg            { return nil }
func (i *Unconditional) Uses(*vreg.VirtReg) bool       { return false }
func (i *Unconditional) Replace(*vreg.VirtReg, *vreg.VirtReg) {}
func (i *Unconditional) Output(w io.Writer) {
	fmt.Fprintf(w, "%s %s", i.Mnemonic, i.Target.Label)
}

// ZeroBranch is a single-operand conditional branch (beqz, blez).
type ZeroBranch struct {
	Mnemonic string
	Operand  *vreg.VirtReg
	Target   *BasicBlock
}

func NewZeroBranch(mnemonic string, operand *vreg.VirtReg, target *BasicBlock) *ZeroBranch {
	return &ZeroBranch{Mnemonic: mnemonic, Operand: operand, Target: target}
}

func (i *ZeroBranch) Registers(visit func(*vreg.VirtReg)) { skipAllocated(visit, i.Operand) }
func (i *ZeroBranch) Def() *vreg.VirtReg                  { return nil }
func (i *ZeroBranch) Uses(r *vreg.VirtReg) bool           { return r.Equal(i.Operand) }
func (i *ZeroBranch) Replace(old, next *vreg.VirtReg) {
	if i.Operand.Equal(old) {
		i.Operand = next
	}
}
func (i *ZeroBranch) Output(w io.Writer) {
	fmt.Fprintf(w, "%s %s, %s", i.Mnemonic, i.Operand, i.Target.Label)
}

// CmpBranch is a two-operand conditional branch (beq, ble, bge).
type CmpBranch struct {
	Mnemonic string
	Lhs, Rhs *vreg.VirtReg
	Target   *BasicBlock
}

func NewCmpBranch(mnemonic string, lhs, rhs *vreg.VirtReg, target *BasicBlock) *CmpBranch {
	return &CmpBranch{Mnemonic: mnemonic, Lhs: lhs, Rhs: rhs, Target: target}
}

func (i *CmpBranch) Registers(visit func(*vreg.VirtReg)) { skipAllocated(visit, i.Lhs, i.Rhs) }
func (i *CmpBranch) Def() *vreg.VirtReg                  { return nil }
func (i *CmpBranch) Uses(r *vreg.VirtReg) bool           { return r.Equal(i.Lhs) || r.Equal(i.Rhs) }
func (i *CmpBranch) Replace(old, next *vreg.VirtReg) {
	if i.Lhs.Equal(old) {
		i.Lhs = next
	}
	if i.Rhs.Equal(old) {
		i.Rhs = next
	}
}
func (i *CmpBranch) Output(w io.Writer) {
	fmt.Fprintf(w, "%s %s, %s, %s", i.Mnemonic, i.Lhs, i.Rhs, i.Target.Label)
}
