// Package regalloc implements liveness analysis, interference-web
// construction, the graph-coloring allocator driver with its
// spill-and-retry loop, and the call-overlap scanner. This mirrors
// original_source/src/virtual_mips.cpp's Function::collect,
// Function::setup_living, Function::generate_web, and
// Function::color, replacing this repo's original IRC-coalescing
// allocator (see pkg/regalloc/irc.go in the retrieval pack) with the
// simpler Chaitin-style simplify/select driver the design calls for.
package regalloc

import (
	"github.com/schrodinger-cc/vcfg/pkg/vcfg"
	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// reset clears every block's scratch liveness state and DFS-visited
// flag ahead of a fresh analysis pass.
func reset(f *vcfg.Function) {
	for _, b := range f.Blocks {
		b.Visited = false
		b.Lives = nil
	}
}

func clearVisited(f *vcfg.Function) {
	for _, b := range f.Blocks {
		b.Visited = false
	}
}

// collect walks every block exactly once, unites phi operands, and
// returns the union-find roots of every non-physical register
// mentioned anywhere in the function (reads and defs), each taken at
// the moment the mention is visited. Non-root phi operands are not in
// the set, and a root that a later phi joins to another class stays
// in it; callers filter with IsRepresentative.
func collect(f *vcfg.Function) map[*vreg.VirtReg]struct{} {
	all := make(map[*vreg.VirtReg]struct{})
	var walk func(b *vcfg.BasicBlock)
	walk = func(b *vcfg.BasicBlock) {
		if b.Visited {
			return
		}
		b.Visited = true
		for _, instr := range b.Instructions {
			if phi, ok := instr.(*vcfg.Phi); ok {
				vreg.Unite(phi.Op0, phi.Op1)
			}
			instr.Registers(func(r *vreg.VirtReg) {
				all[vreg.FindRoot(r)] = struct{}{}
			})
		}
		for _, succ := range b.Successors() {
			walk(succ)
		}
	}
	walk(f.Entry())
	clearVisited(f)
	return all
}

// setupLiving is a post-order pass that fills every block's Lives map
// with the last-use index of each register mentioned in the
// function, using instructions.size() as the sentinel meaning "live
// through to a successor".
func setupLiving(f *vcfg.Function, allRegs []*vreg.VirtReg) {
	var walk func(b *vcfg.BasicBlock)
	walk = func(b *vcfg.BasicBlock) {
		if b.Visited {
			return
		}
		b.Visited = true
		for _, succ := range b.Successors() {
			walk(succ)
		}

		n := len(b.Instructions)
		lives := make(map[*vreg.VirtReg]int)
		for _, r := range allRegs {
			for _, succ := range b.Successors() {
				if _, ok := succ.Lives[r]; ok {
					lives[r] = n
					break
				}
			}
		}
		for j, instr := range b.Instructions {
			instr.Registers(func(r *vreg.VirtReg) {
				if !instr.Uses(r) {
					return
				}
				root := vreg.FindRoot(r)
				if cur, ok := lives[root]; !ok || cur < j {
					lives[root] = j
				}
			})
		}
		b.Lives = lives
	}
	walk(f.Entry())
	clearVisited(f)
}

// generateWeb derives the interference edges from the liveness state
// computed by setupLiving, calling addEdge for every pair of
// registers whose live ranges overlap at some program point.
func generateWeb(f *vcfg.Function, addEdge func(a, b *vreg.VirtReg)) {
	live := make(map[*vreg.VirtReg]struct{})

	var walk func(b *vcfg.BasicBlock)
	walk = func(b *vcfg.BasicBlock) {
		if b.Visited {
			if len(b.Successors()) == 0 {
				allPairs(live, addEdge)
			}
			return
		}
		b.Visited = true

		// Values live on entry to a leaf block all overlap at its first
		// instruction.
		if len(b.Successors()) == 0 {
			allPairs(live, addEdge)
		}

		birth := make(map[*vreg.VirtReg]int)
		for j, instr := range b.Instructions {
			if d := instr.Def(); d != nil {
				root := vreg.FindRoot(d)
				if _, ok := birth[root]; !ok {
					birth[root] = j
				}
				live[root] = struct{}{}
			}
		}

		ids := make([]*vreg.VirtReg, 0, len(live))
		for r := range live {
			ids = append(ids, r)
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, c := ids[i], ids[j]
				disjoint := false
				if la, ok := b.Lives[a]; ok {
					if cb, ok2 := birth[c]; ok2 && la < cb {
						disjoint = true
					}
				}
				if lc, ok := b.Lives[c]; ok {
					if ca, ok2 := birth[a]; ok2 && lc < ca {
						disjoint = true
					}
				}
				if !disjoint {
					addEdge(a, c)
				}
			}
		}

		n := len(b.Instructions)
		removed := make(map[*vreg.VirtReg]struct{})
		for r := range live {
			if val, ok := b.Lives[r]; !ok || val < n {
				delete(live, r)
				removed[r] = struct{}{}
			}
		}

		for _, succ := range b.Successors() {
			walk(succ)
		}

		for r := range removed {
			live[r] = struct{}{}
		}
		for r := range birth {
			delete(live, r)
		}
	}
	walk(f.Entry())
	clearVisited(f)
}

func allPairs(live map[*vreg.VirtReg]struct{}, addEdge func(a, b *vreg.VirtReg)) {
	ids := make([]*vreg.VirtReg, 0, len(live))
	for r := range live {
		ids = append(ids, r)
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			addEdge(ids[i], ids[j])
		}
	}
}
