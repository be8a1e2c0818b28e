package vcfg

import (
	"fmt"
	"io"

	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// P is the stack alignment granularity in bytes; PMask is its
// low-bit mask, used to round a running size up to the next multiple
// of P. EXTRA_STACK reserves headroom below the frame for whatever a
// callee's own prologue needs beyond its declared outgoing-argument
// area.
const (
	P         = 8
	PMask     = P - 1
	ExtraStack = 16
)

// AlignP rounds n up to the next multiple of P.
func AlignP(n int) int {
	return (n + PMask) &^ PMask
}

// Function owns a function's whole CFG: the block list (the storage
// root every BasicBlock back-reference ultimately points into), a
// cursor for the block currently being built, counters for
// block-label and memory-slot id generation, the accumulated memory
// slots (including the pre-created ra/fp/PIC slots), and the
// aggregate state the allocator, call-overlap scanner, and frame
// layout pass fill in. This mirrors
// original_source/include/vcfg/virtual_mips.h's Function and
// original_source/src/virtual_mips.cpp's Function methods.
type Function struct {
	Name   string
	Argc   int
	Blocks []*BasicBlock
	cursor *BasicBlock

	blockCounter int
	slotCounter  uint64

	MemorySlots []*vreg.MemoryLocation
	RaLocation  *vreg.MemoryLocation
	FpLocation  *vreg.MemoryLocation
	PicLocation *vreg.MemoryLocation

	// Aggregate state, filled by the passes in pkg/regalloc and
	// pkg/stacking.
	HasSub           bool
	SubArgc          int
	SaveRegs         int
	CalleeSaveOffset int
	StackSize        int
	Allocated        bool
}

// NewFunction creates a function with argc formal parameters and a
// single entry block, plus its reserved ra/fp/PIC memory slots.
func NewFunction(name string, argc int) *Function {
	f := &Function{Name: name, Argc: argc}
	entry := f.NewBlock()
	f.cursor = entry

	f.RaLocation = f.newSlot(4, vreg.Undetermined)
	f.FpLocation = f.newSlot(4, vreg.Undetermined)
	f.PicLocation = f.newSlot(4, vreg.Undetermined)
	return f
}

// Entry returns the function's entry block.
func (f *Function) Entry() *BasicBlock {
	return f.Blocks[0]
}

// Current returns the block instructions are currently being
// appended to.
func (f *Function) Current() *BasicBlock {
	return f.cursor
}

// NewBlock allocates a fresh, unlinked block with an
// automatically generated label and registers it with the function.
func (f *Function) NewBlock() *BasicBlock {
	label := fmt.Sprintf(".L%s_%d", f.Name, f.blockCounter)
	f.blockCounter++
	b := NewBasicBlock(label)
	f.Blocks = append(f.Blocks, b)
	return b
}

// SwitchTo moves the build cursor to target, so subsequent factory
// calls append to it.
func (f *Function) SwitchTo(target *BasicBlock) {
	f.cursor = target
}

// Join links the current block to target with an unconditional jump
// and moves the cursor onto target.
func (f *Function) Join(target *BasicBlock) {
	f.cursor.Append(NewUnconditional("j", target))
	f.cursor.SetOut(target)
	f.cursor = target
}

// AddPhi records a coalescing hint between op0 and op1 at the current
// block, typically issued at a merge point right after SwitchTo.
func (f *Function) AddPhi(op0, op1 *vreg.VirtReg) {
	f.cursor.AddPhi(op0, op1)
}

func (f *Function) newSlot(size int, status vreg.MemoryStatus) *vreg.MemoryLocation {
	id := f.slotCounter
	f.slotCounter++
	loc := &vreg.MemoryLocation{ID: id, Base: vreg.GetSpecial(vreg.Fp), Size: size, Status: status}
	f.MemorySlots = append(f.MemorySlots, loc)
	return loc
}

// NewMemory allocates a fresh Undetermined stack slot of the given
// size, to be placed by the frame-layout pass. Used for spill slots
// and call-overlap slots.
func (f *Function) NewMemory(size int) *vreg.MemoryLocation {
	return f.newSlot(size, vreg.Undetermined)
}

// NewStaticMem creates a Static memory location at a caller-supplied
// offset from base, left untouched by frame layout.
func (f *Function) NewStaticMem(size int, base *vreg.VirtReg, offset int) *vreg.MemoryLocation {
	id := f.slotCounter
	f.slotCounter++
	loc := &vreg.MemoryLocation{ID: id, Base: base, Size: size, Offset: offset, Status: vreg.Static}
	f.MemorySlots = append(f.MemorySlots, loc)
	return loc
}

// Argument returns the inbound-argument memory location for the
// index-th formal parameter (0-based). Its effective offset,
// index*4 + stack_size relative to fp, is only meaningful after frame
// layout has run.
func (f *Function) Argument(index int) *vreg.MemoryLocation {
	id := f.slotCounter
	f.slotCounter++
	loc := &vreg.MemoryLocation{ID: id, Base: vreg.GetSpecial(vreg.Fp), Size: 4, Offset: index * 4, Status: vreg.Argument}
	f.MemorySlots = append(f.MemorySlots, loc)
	return loc
}

// Call appends a call instruction with a return value to the current
// block and records the callee's argument count for the sub_argc
// aggregate.
func (f *Function) Call(callee string, args []*vreg.VirtReg, ret *vreg.VirtReg) *Call {
	c := NewCall(callee, args, ret)
	f.cursor.Append(c)
	f.HasSub = true
	if len(args) > f.SubArgc {
		f.SubArgc = len(args)
	}
	return c
}

// CallVoid appends a call instruction with no return value.
func (f *Function) CallVoid(callee string, args []*vreg.VirtReg) *Call {
	return f.Call(callee, args, nil)
}

// AddRet closes the current block with a return, implemented as the
// pseudo-instruction "j .L<name>_epilogue" per the emission
// convention.
func (f *Function) AddRet() {
	f.cursor.Append(NewText(fmt.Sprintf("j .L%s_epilogue", f.Name)))
}

// AssignSpecial forces reg to a fixed physical register, used for
// wiring formal parameters into a0..a3 or a return value into v0
// ahead of the general allocator running.
func AssignSpecial(reg *vreg.VirtReg, special vreg.SpecialReg) {
	phys := vreg.GetSpecial(special)
	reg.Allocated = true
	reg.Name = phys.Name
}

// EpilogueLabel returns this function's epilogue label.
func (f *Function) EpilogueLabel() string {
	return fmt.Sprintf(".L%s_epilogue", f.Name)
}

// Output writes the function's prologue, every block's body, and its
// epilogue. StackSize and the reserved slots must already be placed
// by frame layout.
func (f *Function) Output(w io.Writer) {
	fmt.Fprintf(w, "\t.text\n\t.globl %s\n\t.ent %s\n%s:\n", f.Name, f.Name, f.Name)
	fmt.Fprintf(w, "\t.set noreorder\n\t.cpload $t9\n")
	fmt.Fprintf(w, "\taddiu $sp, $sp, -%d\n", f.StackSize)
	fmt.Fprintf(w, "\t.cprestore %d\n", f.PicLocation.Offset)
	if f.HasSub {
		fmt.Fprintf(w, "\tsw $ra, %s\n", f.RaLocation)
	}
	fmt.Fprintf(w, "\tsw $fp, %s\n", f.FpLocation)
	fmt.Fprintf(w, "\tmove $fp, $sp\n")
	for i := 0; i < f.SaveRegs; i++ {
		fmt.Fprintf(w, "\tsw $s%d, %d($fp)\n", i, f.CalleeSaveOffset+i*4)
	}

	for _, b := range f.Blocks {
		b.Output(w)
	}

	fmt.Fprintf(w, "%s:\n", f.EpilogueLabel())
	for i := 0; i < f.SaveRegs; i++ {
		fmt.Fprintf(w, "\tlw $s%d, %d($fp)\n", i, f.CalleeSaveOffset+i*4)
	}
	fmt.Fprintf(w, "\tmove $sp, $fp\n")
	fmt.Fprintf(w, "\tlw $fp, %s\n", f.FpLocation)
	if f.HasSub {
		fmt.Fprintf(w, "\tlw $ra, %s\n", f.RaLocation)
	}
	fmt.Fprintf(w, "\taddiu $sp, $sp, %d\n", f.StackSize)
	fmt.Fprintf(w, "\tjr $ra\n")
	fmt.Fprintf(w, "\t.end %s\n", f.Name)
}
