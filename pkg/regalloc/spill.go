package regalloc

import (
	"github.com/schrodinger-cc/vcfg/pkg/vcfg"
	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// spillRewrite demotes victim to a stack slot, walking the CFG in
// DFS order and rewriting every mention of victim into a fresh
// temporary, loading before a read and storing after a write, reusing
// one temporary across consecutive mentions within a block. This
// mirrors original_source/src/virtual_mips.cpp's spill logic embedded
// in Function::color's failure branch.
func spillRewrite(f *vcfg.Function, victim *vreg.VirtReg, slot *vreg.MemoryLocation) {
	var walk func(b *vcfg.BasicBlock)
	walk = func(b *vcfg.BasicBlock) {
		if b.Visited {
			return
		}
		b.Visited = true
		rewriteBlock(b, victim, slot)
		for _, succ := range b.Successors() {
			walk(succ)
		}
	}
	walk(f.Entry())
	clearVisited(f)
}

func rewriteBlock(b *vcfg.BasicBlock, victim *vreg.VirtReg, slot *vreg.MemoryLocation) {
	out := make([]vcfg.Instruction, 0, len(b.Instructions))
	var last *vreg.VirtReg

	for _, instr := range b.Instructions {
		if phi, ok := instr.(*vcfg.Phi); ok {
			out = append(out, rewritePhi(phi, victim)...)
			last = nil
			continue
		}

		defines := instr.Def() != nil && instr.Def().Equal(victim)
		mentions := instr.Uses(victim) || defines
		if !mentions {
			out = append(out, instr)
			last = nil
			continue
		}

		t := last
		if t == nil {
			t = vreg.Create()
			t.Spilled = true
		}
		if !defines && last == nil {
			out = append(out, vcfg.NewMemory("lw", t, slot, true))
		}
		instr.Replace(victim, t)
		out = append(out, instr)
		if defines {
			out = append(out, vcfg.NewMemory("sw", t, slot, false))
		}
		last = t
	}

	b.Instructions = out
}

// rewritePhi applies the Open-Question resolution for phi nodes under
// spill: a phi with exactly one operand equal to the victim is
// retained with that operand rewritten to a fresh (unspilled, so it
// re-enters the allocator rather than the stack) temporary, preserving
// its coalescing role against the other operand; a degenerate
// phi(victim, victim) is dropped, since rewriting both sides would
// produce two unrelated temporaries with nothing left to coalesce.
func rewritePhi(phi *vcfg.Phi, victim *vreg.VirtReg) []vcfg.Instruction {
	op0IsVictim := phi.Op0.Equal(victim)
	op1IsVictim := phi.Op1.Equal(victim)
	if op0IsVictim && op1IsVictim {
		return nil
	}
	if op0IsVictim {
		phi.Op0 = vreg.Create()
	}
	if op1IsVictim {
		phi.Op1 = vreg.Create()
	}
	return []vcfg.Instruction{phi}
}
