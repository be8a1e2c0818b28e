// Package stacking computes stack-frame layout: it fixes the byte
// offsets of the outgoing-argument area, the PIC restore slot, the
// return-address slot, the frame-pointer save slot, the callee-saved
// save area, and every spill and call-overlap slot, then assembles
// the allocator, call-overlap scanner, and this pass into the
// vcfg.Pipeline a Module runs at Finalize. This mirrors
// original_source/src/virtual_mips.cpp's Function::layout_frame,
// replacing this repo's original ARM64 FrameLayout pass (see
// pkg/stacking/layout.go in the retrieval pack) with the design's
// MIPS-oriented running-offset placement.
package stacking

import (
	"github.com/schrodinger-cc/vcfg/pkg/vcfg"
	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// LayoutFrame computes f.StackSize and assigns a final offset to
// every Undetermined memory slot, in the order: outgoing-argument
// area, EXTRA_STACK headroom, callee-saved save area, ra slot (if
// f.HasSub), the PIC-restore word, the fp save slot, then every
// remaining Undetermined slot in insertion order. Static slots are
// left untouched; Argument slots get f.StackSize added to their
// index*4 offset, so they address the inbound arguments above this
// frame. A no-op if f.Allocated is already set.
func LayoutFrame(f *vcfg.Function) {
	if f.Allocated {
		return
	}

	size := 0
	size = vcfg.AlignP(size + 4*f.SubArgc)
	size = vcfg.AlignP(size + vcfg.ExtraStack)
	f.CalleeSaveOffset = size
	size = vcfg.AlignP(size + 4*f.SaveRegs)

	if f.HasSub {
		f.RaLocation.Offset = size
		f.RaLocation.Status = vreg.Assigned
		size = vcfg.AlignP(size + f.RaLocation.Size)
	}

	f.PicLocation.Offset = size
	f.PicLocation.Status = vreg.Assigned
	size = vcfg.AlignP(size + f.PicLocation.Size)

	f.FpLocation.Offset = size
	f.FpLocation.Status = vreg.Assigned
	size = vcfg.AlignP(size + f.FpLocation.Size)

	for _, slot := range f.MemorySlots {
		if slot == f.RaLocation || slot == f.PicLocation || slot == f.FpLocation {
			continue
		}
		if slot.Status != vreg.Undetermined {
			continue
		}
		slot.Offset = size
		slot.Status = vreg.Assigned
		size = vcfg.AlignP(size + slot.Size)
	}

	f.StackSize = size

	for _, slot := range f.MemorySlots {
		if slot.Status == vreg.Argument {
			slot.Offset += size
		}
	}

	f.Allocated = true
}
