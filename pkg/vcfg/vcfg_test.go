package vcfg

import (
	"strings"
	"testing"

	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

func output(t *testing.T, instr Instruction) string {
	t.Helper()
	var sb strings.Builder
	instr.Output(&sb)
	return sb.String()
}

func TestTernaryOutput(t *testing.T) {
	lhs, a, b := vreg.Create(), vreg.Create(), vreg.Create()
	instr := NewTernary("add", lhs, a, b)
	got := output(t, instr)
	want := "add " + lhs.String() + ", " + a.String() + ", " + b.String()
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTernaryRegistersSkipsAllocated(t *testing.T) {
	lhs, b := vreg.Create(), vreg.Create()
	instr := NewTernary("add", lhs, vreg.GetSpecial(vreg.Zero), b)
	var seen []*vreg.VirtReg
	instr.Registers(func(r *vreg.VirtReg) { seen = append(seen, r) })
	if len(seen) != 2 {
		t.Fatalf("expected 2 non-physical registers visited, got %d", len(seen))
	}
}

func TestMemoryDefUseByDirection(t *testing.T) {
	target := vreg.Create()
	loc := &vreg.MemoryLocation{Base: vreg.GetSpecial(vreg.Fp), Size: 4, Status: vreg.Assigned, Offset: 8}

	load := NewMemory("lw", target, loc, true)
	if load.Def() != target {
		t.Fatalf("load should define its target")
	}
	if load.Uses(target) {
		t.Fatalf("load should not use its target")
	}

	store := NewMemory("sw", target, loc, false)
	if store.Def() != nil {
		t.Fatalf("store should not define anything")
	}
	if !store.Uses(target) {
		t.Fatalf("store should use its target")
	}
}

func TestReplaceRewritesInPlace(t *testing.T) {
	lhs, a, b := vreg.Create(), vreg.Create(), vreg.Create()
	instr := NewTernary("add", lhs, a, b)
	fresh := vreg.Create()
	instr.Replace(a, fresh)
	if instr.Op0 != fresh {
		t.Fatalf("Replace did not rewrite Op0")
	}
	if instr.Op1 != b {
		t.Fatalf("Replace should not touch unrelated operands")
	}
}

func TestBasicBlockOutputSkipsPhi(t *testing.T) {
	b := NewBasicBlock(".Lfoo_0")
	r := vreg.Create()
	b.Append(NewUnaryImm("li", r, 1))
	b.AddPhi(r, r)
	var sb strings.Builder
	b.Output(&sb)
	got := sb.String()
	if strings.Contains(got, "phi") {
		t.Fatalf("block output should never emit a phi node, got %q", got)
	}
	if !strings.Contains(got, ".Lfoo_0:") {
		t.Fatalf("block output missing label, got %q", got)
	}
}

func TestFunctionBuildsSingleEntryBlock(t *testing.T) {
	f := NewFunction("f", 0)
	if len(f.Blocks) != 1 {
		t.Fatalf("expected exactly one block after NewFunction, got %d", len(f.Blocks))
	}
	if f.Entry() != f.Blocks[0] {
		t.Fatalf("Entry() should return the first block")
	}
}

func TestFunctionJoinLinksAndAdvancesCursor(t *testing.T) {
	f := NewFunction("f", 0)
	target := f.NewBlock()
	f.Join(target)
	if f.Current() != target {
		t.Fatalf("Join should move the cursor to target")
	}
	succs := f.Entry().Successors()
	if len(succs) != 1 || succs[0] != target {
		t.Fatalf("Join should record target as the entry block's successor")
	}
}

func TestCallOutputPreScanIsExpressionLike(t *testing.T) {
	ret := vreg.Create()
	arg := vreg.Create()
	c := NewCall("helper", []*vreg.VirtReg{arg}, ret)
	got := output(t, c)
	want := ret.String() + " = call helper(" + arg.String() + ")"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCallOutputPostScanExpandsToSaveJalReload(t *testing.T) {
	ret := vreg.Create()
	arg := vreg.Create()
	AssignSpecial(arg, vreg.A0)
	AssignSpecial(ret, vreg.V0)
	c := NewCall("helper", []*vreg.VirtReg{arg}, ret)
	c.Scanned = true
	got := output(t, c)
	for _, want := range []string{"sw $a0, 0($sp)", "lw $a0, 0($sp)", "jal helper", "move $v0", "# start calling helper", "# end calling helper"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestDataAsciizEscapesAndAligns(t *testing.T) {
	d := NewAsciiz("a\nb", true)
	var sb strings.Builder
	d.Output(&sb)
	got := sb.String()
	if !strings.Contains(got, ".rdata") {
		t.Fatalf("read-only data should emit .rdata, got %q", got)
	}
	if !strings.Contains(got, `.asciiz "a\nb"`) {
		t.Fatalf("expected escaped newline in ascii output, got %q", got)
	}
	if !strings.Contains(got, ".align 0") {
		t.Fatalf("asciiz data should be emitted with .align 0, got %q", got)
	}
}

func TestModuleFinalizeSkipsAlreadyAllocatedFunctions(t *testing.T) {
	m := NewModule("m")
	f := m.DefineFunction("f", 0)
	f.Allocated = true
	f.StackSize = 42
	if err := m.Finalize(fakePipeline{}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if f.StackSize != 42 {
		t.Fatalf("Finalize should not touch an already-allocated function")
	}
}

type fakePipeline struct{}

func (fakePipeline) Allocate(f *Function) error {
	panic("should not be called on an already-allocated function")
}
func (fakePipeline) ScanOverlap(f *Function) {
	panic("should not be called on an already-allocated function")
}
func (fakePipeline) LayoutFrame(f *Function) {
	panic("should not be called on an already-allocated function")
}
