package vcfg

import (
	"fmt"
	"io"

	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// Call is a function call pseudo-instruction: Ret = Callee(Args...).
// Ret may be nil (void call). Scanned and OverlapTemp are populated by
// the call-overlap scanner (pkg/regalloc) and consumed only by Output
// once Scanned is true - before that, Output pretty-prints the call as
// a virtual expression for pre-allocation dumps.
type Call struct {
	Callee string
	Args   []*vreg.VirtReg
	Ret    *vreg.VirtReg

	Scanned          bool
	OverlapTemp      map[*vreg.VirtReg]struct{}
	RaLocation       *vreg.MemoryLocation
	overlapTempOrder []*vreg.VirtReg
}

func NewCall(callee string, args []*vreg.VirtReg, ret *vreg.VirtReg) *Call {
	return &Call{Callee: callee, Args: args, Ret: ret, OverlapTemp: make(map[*vreg.VirtReg]struct{})}
}

func (i *Call) Registers(visit func(*vreg.VirtReg)) {
	skipAllocated(visit, i.Ret)
	skipAllocated(visit, i.Args...)
}
func (i *Call) Def() *vreg.VirtReg { return i.Ret }
func (i *Call) Uses(r *vreg.VirtReg) bool {
	for _, a := range i.Args {
		if r.Equal(a) {
			return true
		}
	}
	return false
}
func (i *Call) Replace(old, next *vreg.VirtReg) {
	if i.Ret != nil && i.Ret.Equal(old) {
		i.Ret = next
	}
	for idx, a := range i.Args {
		if a.Equal(old) {
			i.Args[idx] = next
		}
	}
}

// AddOverlap records reg as a value that must be saved across this
// call site, assigning it a fresh overlap slot via newMemory if it
// does not already have one.
func (i *Call) AddOverlap(reg *vreg.VirtReg, newMemory func(size int) *vreg.MemoryLocation) {
	root := vreg.FindRoot(reg)
	if _, ok := i.OverlapTemp[root]; ok {
		return
	}
	i.OverlapTemp[root] = struct{}{}
	i.overlapTempOrder = append(i.overlapTempOrder, root)
	if root.OverlapLocation == nil {
		root.OverlapLocation = newMemory(4)
	}
}

// OverlapOrder returns the overlap-saved registers in the order they
// were first recorded, for deterministic emission.
func (i *Call) OverlapOrder() []*vreg.VirtReg {
	return i.overlapTempOrder
}

func (i *Call) Output(w io.Writer) {
	if !i.Scanned {
		if i.Ret != nil {
			fmt.Fprintf(w, "%s = call %s(", i.Ret, i.Callee)
		} else {
			fmt.Fprintf(w, "call %s(", i.Callee)
		}
		for idx, a := range i.Args {
			if idx > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, a)
		}
		fmt.Fprint(w, ")")
		return
	}

	fmt.Fprintf(w, "# start calling %s\n", i.Callee)
	for _, reg := range i.overlapTempOrder {
		if reg.OverlapLocation == nil {
			fmt.Fprintf(w, "\tundef # error: missing overlap slot for %s\n", reg)
			continue
		}
		fmt.Fprintf(w, "\tsw %s, %s\n", reg, reg.OverlapLocation)
	}
	if i.RaLocation != nil {
		fmt.Fprintf(w, "\tsw %s, %s\n", vreg.GetSpecial(vreg.Ra), i.RaLocation)
	}
	for idx, a := range i.Args {
		fmt.Fprintf(w, "\tsw %s, %d($sp)\n", a, idx*4)
	}
	argRegs := []vreg.SpecialReg{vreg.A0, vreg.A1, vreg.A2, vreg.A3}
	for idx := 0; idx < len(i.Args) && idx < 4; idx++ {
		fmt.Fprintf(w, "\tlw %s, %d($sp)\n", vreg.GetSpecial(argRegs[idx]), idx*4)
	}
	fmt.Fprintf(w, "\tjal %s\n", i.Callee)
	if i.RaLocation != nil {
		fmt.Fprintf(w, "\tlw %s, %s\n", vreg.GetSpecial(vreg.Ra), i.RaLocation)
	}
	for _, reg := range i.overlapTempOrder {
		if reg.OverlapLocation != nil {
			fmt.Fprintf(w, "\tlw %s, %s\n", reg, reg.OverlapLocation)
		}
	}
	if i.Ret != nil {
		fmt.Fprintf(w, "\tmove %s, %s\n", i.Ret, vreg.GetSpecial(vreg.V0))
	}
	fmt.Fprintf(w, "\t# end calling %s", i.Callee)
}
