package regalloc

import (
	"fmt"
	"sort"

	"github.com/schrodinger-cc/vcfg/pkg/gcolor"
	"github.com/schrodinger-cc/vcfg/pkg/vcfg"
	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// Allocate runs the build -> color -> (on failure) spill -> retry
// loop described by the allocator driver: collect, setup_living and
// generate_web rebuild the interference web each iteration; on a
// coloring failure the highest-degree unspilled victim is spilled and
// rewritten, and the whole analysis restarts. This mirrors
// original_source/src/virtual_mips.cpp's Function::color.
func Allocate(f *vcfg.Function) error {
	if f.Allocated {
		return nil
	}

	for {
		reset(f)
		allRegsSet := collect(f)
		allRegs := sortedRegs(allRegsSet)
		setupLiving(f, allRegs)
		generateWeb(f, addInterferenceEdge)

		reps := representatives(allRegs)
		index := make(map[*vreg.VirtReg]int, len(reps))
		for i, r := range reps {
			index[r] = i
		}
		var edges [][2]int
		seen := make(map[[2]int]struct{})
		for i, r := range reps {
			for n := range r.Neighbors {
				j, ok := index[n]
				if !ok || j == i {
					continue
				}
				key := [2]int{i, j}
				if i > j {
					key = [2]int{j, i}
				}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				edges = append(edges, [2]int{i, j})
			}
		}

		g := gcolor.New(len(reps), edges)
		colors, failures := g.Color(vreg.RegNum)

		if colors != nil {
			saveRegs := make(map[int]struct{})
			for i, r := range reps {
				c := colors[i]
				if c >= vreg.SaveStart {
					saveRegs[c] = struct{}{}
				}
				if r.Allocated {
					// Pinned by AssignSpecial before allocation.
					continue
				}
				r.Allocated = true
				r.Name = vreg.ColorToName(c)
			}
			// Non-root members of a phi class take their root's name.
			for _, b := range f.Blocks {
				for _, instr := range b.Instructions {
					instr.Registers(func(r *vreg.VirtReg) {
						if root := vreg.FindRoot(r); root.Allocated {
							r.Allocated = true
							r.Name = root.Name
						}
					})
				}
			}
			f.SaveRegs = len(saveRegs)
			return nil
		}

		victim, err := pickVictim(failures, reps)
		if err != nil {
			return err
		}
		slot := f.NewMemory(4)
		spillRewrite(f, victim, slot)
		clearGraph(allRegsSet)
	}
}

func sortedRegs(set map[*vreg.VirtReg]struct{}) []*vreg.VirtReg {
	out := make([]*vreg.VirtReg, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func representatives(allRegs []*vreg.VirtReg) []*vreg.VirtReg {
	var reps []*vreg.VirtReg
	for _, r := range allRegs {
		if r.IsRepresentative() {
			reps = append(reps, r)
		}
	}
	return reps
}

// pickVictim returns the first register in failures (already
// descending-degree ordered by the coloring kernel) that has not yet
// been spilled.
func pickVictim(failures []int, reps []*vreg.VirtReg) (*vreg.VirtReg, error) {
	for _, idx := range failures {
		r := reps[idx]
		if !r.Spilled {
			r.Spilled = true
			return r, nil
		}
	}
	return nil, fmt.Errorf("regalloc: coloring failed with no unspilled victim remaining")
}
