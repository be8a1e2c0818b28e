package regalloc

import (
	"strings"

	"github.com/schrodinger-cc/vcfg/pkg/vcfg"
	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// ScanOverlap records, for every call site, which currently-live
// caller-saved values must be saved across the call because they do
// not flow through it as an operand or return value. Pass structure
// mirrors generateWeb: DFS, a per-block birth map, and a live set
// threaded top-down and restored on unwind. This mirrors
// original_source/src/virtual_mips.cpp's Function::scan_overlap.
func ScanOverlap(f *vcfg.Function) {
	live := make(map[*vreg.VirtReg]struct{})

	var walk func(b *vcfg.BasicBlock)
	walk = func(b *vcfg.BasicBlock) {
		if b.Visited {
			return
		}
		b.Visited = true

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

		for j, instr := range b.Instructions {
			call, ok := instr.(*vcfg.Call)
			if !ok {
				continue
			}
			for r := range live {
				if !isCallerSaved(r) || flowsThroughCall(call, r) {
					continue
				}
				livesAt, hasLives := b.Lives[r]
				if !hasLives {
					if bv, ok := birth[r]; ok {
						livesAt = bv
					}
				}
				birthAt := -1
				if bv, ok := birth[r]; ok {
					birthAt = bv
				}
				crossesCall := !(livesAt <= j || birthAt >= j)
				if crossesCall {
					call.AddOverlap(r, f.NewMemory)
				}
			}
			call.RaLocation = f.RaLocation
			call.Scanned = true
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

// isCallerSaved reports whether r has been assigned a t* color.
func isCallerSaved(r *vreg.VirtReg) bool {
	return r.Allocated && strings.HasPrefix(r.Name, "t")
}

func flowsThroughCall(call *vcfg.Call, r *vreg.VirtReg) bool {
	if call.Ret != nil && call.Ret.Equal(r) {
		return true
	}
	for _, a := range call.Args {
		if a.Equal(r) {
			return true
		}
	}
	return false
}
