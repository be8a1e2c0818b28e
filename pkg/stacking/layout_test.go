package stacking

import (
	"testing"

	"github.com/schrodinger-cc/vcfg/pkg/vcfg"
	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

func finalize(t *testing.T, f *vcfg.Function) {
	t.Helper()
	p := Pipeline{}
	if err := p.Allocate(f); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	p.ScanOverlap(f)
	p.LayoutFrame(f)
}

func TestLayoutFrameStackSizeAligned(t *testing.T) {
	f := vcfg.NewFunction("leaf", 0)
	r := vreg.Create()
	f.Entry().Append(vcfg.NewUnaryImm("li", r, 1))
	f.AddRet()

	finalize(t, f)

	if f.StackSize%vcfg.P != 0 {
		t.Fatalf("stack size %d not %d-byte aligned", f.StackSize, vcfg.P)
	}
	if !f.Allocated {
		t.Fatalf("expected f.Allocated after layout")
	}
}

func TestLayoutFrameAssignedSlotsInRange(t *testing.T) {
	f := vcfg.NewFunction("withcall", 1)
	n := f.Argument(0)
	nReg := vreg.Create()
	f.Entry().Append(vcfg.NewMemory("lw", nReg, n, true))
	ret := vreg.Create()
	f.Call("helper", []*vreg.VirtReg{nReg}, ret)
	f.AddRet()

	finalize(t, f)

	type key struct {
		offset, size int
	}
	seen := make(map[key]bool)
	for _, slot := range f.MemorySlots {
		if slot.Status != vreg.Assigned {
			continue
		}
		if slot.Offset < 0 || slot.Offset >= f.StackSize {
			t.Fatalf("assigned slot offset %d out of [0, %d)", slot.Offset, f.StackSize)
		}
		k := key{slot.Offset, slot.Size}
		if seen[k] {
			t.Fatalf("two assigned slots share offset %d and size %d", slot.Offset, slot.Size)
		}
		seen[k] = true
	}
	if !f.HasSub {
		t.Fatalf("expected HasSub after a call was built")
	}
}

func TestLayoutFrameIdempotentOnSecondRun(t *testing.T) {
	f := vcfg.NewFunction("leaf2", 0)
	r := vreg.Create()
	f.Entry().Append(vcfg.NewUnaryImm("li", r, 1))
	f.AddRet()

	finalize(t, f)
	size := f.StackSize

	LayoutFrame(f)
	if f.StackSize != size {
		t.Fatalf("second LayoutFrame run changed stack size: %d -> %d", size, f.StackSize)
	}
}
