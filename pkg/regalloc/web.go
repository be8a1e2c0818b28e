package regalloc

import "github.com/schrodinger-cc/vcfg/pkg/vreg"

// addInterferenceEdge records that a and b (by union-find root) are
// live simultaneously at some program point, inserting the edge into
// both roots' neighbor sets.
func addInterferenceEdge(a, b *vreg.VirtReg) {
	ra, rb := vreg.FindRoot(a), vreg.FindRoot(b)
	if ra == rb {
		return
	}
	ra.Neighbors[rb] = struct{}{}
	rb.Neighbors[ra] = struct{}{}
}

// clearGraph drops every register's neighbor set and resets its
// union-find state, used between allocator retries after a spill so
// the next collect pass starts from a clean slate.
func clearGraph(regs map[*vreg.VirtReg]struct{}) {
	for r := range regs {
		r.Neighbors = make(map[*vreg.VirtReg]struct{})
		r.Parent = nil
		r.UnionSize = 1
	}
}
