// Package demo builds small, hand-written IR programs directly
// against pkg/vcfg's builder façade, the way a frontend would once it
// existed. These are the fixed example programs the CLI's demo
// subcommand builds, grounded on spec.md §8's concrete end-to-end
// scenarios; the regalloc and stacking tests build their own IR.
package demo

import (
	"github.com/schrodinger-cc/vcfg/pkg/vcfg"
	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// LinearChain builds a function computing six chained ternary adds:
// r0 = 1 + 1; r1 = r0 + r0; ...; r5 = r4 + r4; return r5. No branches.
func LinearChain() *vcfg.Module {
	m := vcfg.NewModule("linear")
	f := m.DefineFunction("chain", 0)

	regs := make([]*vreg.VirtReg, 6)
	for i := range regs {
		regs[i] = vreg.Create()
	}
	one := vreg.Create()
	f.Entry().Append(vcfg.NewUnaryImm("li", one, 1))
	f.Entry().Append(vcfg.NewTernary("add", regs[0], one, one))
	for i := 1; i < len(regs); i++ {
		f.Entry().Append(vcfg.NewTernary("add", regs[i], regs[i-1], regs[i-1]))
	}
	vcfg.AssignSpecial(regs[len(regs)-1], vreg.V0)
	f.AddRet()
	return m
}

// BranchMerge builds a function with a beqz branching into two arms
// that each define a value, merging at a join block with a phi.
func BranchMerge() *vcfg.Module {
	m := vcfg.NewModule("branch")
	f := m.DefineFunction("select", 1)

	cond := f.Argument(0)
	condReg := vreg.Create()
	f.Entry().Append(vcfg.NewMemory("lw", condReg, cond, true))

	thenBlock := f.NewBlock()
	elseBlock := f.NewBlock()
	join := f.NewBlock()

	f.Entry().Append(vcfg.NewZeroBranch("beqz", condReg, elseBlock))
	f.Entry().SetOut(thenBlock)
	f.Entry().SetOut(elseBlock)

	rA := vreg.Create()
	f.SwitchTo(thenBlock)
	one := vreg.Create()
	thenBlock.Append(vcfg.NewUnaryImm("li", one, 1))
	thenBlock.Append(vcfg.NewBinary("move", rA, one))
	f.Join(join)

	rB := vreg.Create()
	f.SwitchTo(elseBlock)
	two := vreg.Create()
	elseBlock.Append(vcfg.NewUnaryImm("li", two, 2))
	elseBlock.Append(vcfg.NewBinary("move", rB, two))
	f.Join(join)

	f.SwitchTo(join)
	f.AddPhi(rA, rB)
	vcfg.AssignSpecial(rA, vreg.V0)
	f.AddRet()
	return m
}

// Fibonacci builds a self-recursive function: fib(n) calls fib(n-1)
// and fib(n-2) and returns their sum, forcing the call-overlap
// scanner to save the first call's result across the second call.
func Fibonacci() *vcfg.Module {
	m := vcfg.NewModule("fib")
	f := m.DefineFunction("fib", 1)

	n := f.Argument(0)
	nReg := vreg.Create()
	f.Entry().Append(vcfg.NewMemory("lw", nReg, n, true))

	nMinus1 := vreg.Create()
	f.Entry().Append(vcfg.NewBinaryImm("addi", nMinus1, nReg, -1))
	r1 := vreg.Create()
	f.Call("fib", []*vreg.VirtReg{nMinus1}, r1)

	nMinus2 := vreg.Create()
	f.Entry().Append(vcfg.NewBinaryImm("addi", nMinus2, nReg, -2))
	r2 := vreg.Create()
	f.Call("fib", []*vreg.VirtReg{nMinus2}, r2)

	sum := vreg.Create()
	f.Entry().Append(vcfg.NewTernary("add", sum, r1, r2))
	vcfg.AssignSpecial(sum, vreg.V0)
	f.AddRet()
	return m
}

// SpillForcing builds a function with k+1 mutually live values (where
// k = vreg.RegNum), forcing the allocator to spill at least one.
func SpillForcing() *vcfg.Module {
	m := vcfg.NewModule("spill")
	f := m.DefineFunction("pressure", 0)

	n := vreg.RegNum + 1
	regs := make([]*vreg.VirtReg, n)
	one := vreg.Create()
	f.Entry().Append(vcfg.NewUnaryImm("li", one, 1))
	for i := range regs {
		regs[i] = vreg.Create()
		f.Entry().Append(vcfg.NewBinaryImm("addi", regs[i], one, int64(i)))
	}
	sum := vreg.Create()
	f.Entry().Append(vcfg.NewBinary("move", sum, regs[0]))
	for i := 1; i < n; i++ {
		f.Entry().Append(vcfg.NewTernary("add", sum, sum, regs[i]))
	}
	vcfg.AssignSpecial(sum, vreg.V0)
	f.AddRet()
	return m
}
