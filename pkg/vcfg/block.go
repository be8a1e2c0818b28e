package vcfg

import (
	"fmt"
	"io"

	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// BasicBlock is a labeled sequence of instructions plus up to two
// outgoing successor edges, held as back-references so the CFG never
// needs an owning tree. Visited is a scratch DFS flag reused by every
// pass over the graph; each pass must restore it to false on unwind.
// Lives is populated by the liveness pass (pkg/regalloc) and is only
// meaningful during and immediately after that pass runs.
type BasicBlock struct {
	Label        string
	Instructions []Instruction
	OutEdges     [2]*BasicBlock
	NumOut       int

	Visited bool

	// Lives maps a register's union-find root to the index (into
	// Instructions) of its last use in this block, or to
	// len(Instructions) if it is live through to a successor.
	Lives map[*vreg.VirtReg]int
}

// NewBasicBlock creates an empty block with the given label.
func NewBasicBlock(label string) *BasicBlock {
	return &BasicBlock{Label: label}
}

// Append adds an instruction to the end of the block.
func (b *BasicBlock) Append(instr Instruction) {
	b.Instructions = append(b.Instructions, instr)
}

// AddPhi appends a Phi node recording that op0 and op1 must be
// coalesced by the liveness pass's collect step.
func (b *BasicBlock) AddPhi(op0, op1 *vreg.VirtReg) {
	b.Append(NewPhi(op0, op1))
}

// SetOut records target as one of this block's successor edges.
// Blocks have at most two outgoing edges: a conditional branch's
// fallthrough plus its taken target, or a single unconditional edge.
func (b *BasicBlock) SetOut(target *BasicBlock) {
	if b.NumOut >= 2 {
		panic("vcfg: basic block already has two outgoing edges")
	}
	b.OutEdges[b.NumOut] = target
	b.NumOut++
}

// Successors returns this block's outgoing edges.
func (b *BasicBlock) Successors() []*BasicBlock {
	return b.OutEdges[:b.NumOut]
}

// Output writes the block's label followed by every instruction, one
// per line, indented with a tab.
func (b *BasicBlock) Output(w io.Writer) {
	fmt.Fprintf(w, "%s:\n", b.Label)
	for _, instr := range b.Instructions {
		if _, isPhi := instr.(*Phi); isPhi {
			continue
		}
		io.WriteString(w, "\t")
		instr.Output(w)
		io.WriteString(w, "\n")
	}
}
