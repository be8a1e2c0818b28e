package regalloc

import (
	"testing"

	"github.com/schrodinger-cc/vcfg/pkg/vcfg"
	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

func TestAllocateLinearChainUsesFewColors(t *testing.T) {
	f := vcfg.NewFunction("chain", 0)
	one := vreg.Create()
	f.Entry().Append(vcfg.NewUnaryImm("li", one, 1))

	regs := make([]*vreg.VirtReg, 6)
	regs[0] = vreg.Create()
	f.Entry().Append(vcfg.NewTernary("add", regs[0], one, one))
	for i := 1; i < len(regs); i++ {
		regs[i] = vreg.Create()
		f.Entry().Append(vcfg.NewTernary("add", regs[i], regs[i-1], regs[i-1]))
	}
	f.AddRet()

	if err := Allocate(f); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	colors := make(map[string]struct{})
	for _, r := range append(regs, one) {
		if !r.Allocated {
			t.Fatalf("register %v was not allocated", r)
		}
		colors[r.Name] = struct{}{}
	}
	if len(colors) > 4 {
		t.Fatalf("expected at most 4 distinct colors, got %d: %v", len(colors), colors)
	}
}

func TestAllocateNeverColorsInterferingPairIdentically(t *testing.T) {
	f := vcfg.NewFunction("pressure", 0)
	n := vreg.RegNum + 1
	one := vreg.Create()
	f.Entry().Append(vcfg.NewUnaryImm("li", one, 1))

	regs := make([]*vreg.VirtReg, n)
	for i := range regs {
		regs[i] = vreg.Create()
		f.Entry().Append(vcfg.NewBinaryImm("addi", regs[i], one, int64(i)))
	}
	sum := vreg.Create()
	f.Entry().Append(vcfg.NewBinary("move", sum, regs[0]))
	for i := 1; i < n; i++ {
		f.Entry().Append(vcfg.NewTernary("add", sum, sum, regs[i]))
	}
	f.AddRet()

	if err := Allocate(f); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	spilled := 0
	for _, r := range regs {
		if r.Spilled {
			spilled++
		}
	}
	if spilled == 0 {
		t.Fatalf("expected at least one register to be spilled under register pressure")
	}

	for i := range regs {
		for j := i + 1; j < len(regs); j++ {
			a, b := regs[i], regs[j]
			if !a.Allocated || !b.Allocated {
				continue
			}
			if _, adjacent := vreg.FindRoot(a).Neighbors[vreg.FindRoot(b)]; adjacent {
				if a.Name == b.Name {
					t.Fatalf("interfering registers %v and %v share color %s", a, b, a.Name)
				}
			}
		}
	}
}

func TestAllocateCoalescesPhiOperands(t *testing.T) {
	f := vcfg.NewFunction("select", 0)
	cond := vreg.Create()
	f.Entry().Append(vcfg.NewUnaryImm("li", cond, 1))

	thenBlock := f.NewBlock()
	elseBlock := f.NewBlock()
	join := f.NewBlock()
	f.Entry().Append(vcfg.NewZeroBranch("beqz", cond, elseBlock))
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
	f.AddRet()

	if err := Allocate(f); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !vreg.FindRoot(rA).Equal(vreg.FindRoot(rB)) {
		t.Fatalf("phi operands were not coalesced into a shared root")
	}
	if rA.Name != rB.Name {
		t.Fatalf("coalesced phi operands received different physical names: %s vs %s", rA.Name, rB.Name)
	}
}

func TestAllocateSecondRunIsNoop(t *testing.T) {
	f := vcfg.NewFunction("noop", 0)
	r := vreg.Create()
	f.Entry().Append(vcfg.NewUnaryImm("li", r, 1))
	f.AddRet()

	if err := Allocate(f); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	name := r.Name
	if err := Allocate(f); err != nil {
		t.Fatalf("second Allocate: %v", err)
	}
	if r.Name != name {
		t.Fatalf("second Allocate run mutated an already-allocated register")
	}
}
