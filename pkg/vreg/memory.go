package vreg

import "strconv"

// MemoryStatus classifies a MemoryLocation's placement. Undetermined
// entries are placed by the frame-layout pass (pkg/stacking); Assigned
// entries carry final offsets; Static entries carry a caller-supplied
// offset (arrays addressed from a non-frame base); Argument entries
// encode a callee-side inbound argument.
type MemoryStatus int

const (
	Undetermined MemoryStatus = iota
	Assigned
	Static
	Argument
)

// MemoryLocation is a stack-resident slot: spill slots, overlap slots,
// the reserved ra/fp/PIC slots, and inbound arguments all share this
// representation. This mirrors
// original_source/include/vcfg/virtual_mips.h's MemoryLocation.
type MemoryLocation struct {
	ID     uint64
	Base   *VirtReg
	Size   int
	Offset int
	Status MemoryStatus
}

// String renders the location for diagnostics: "offset(base)" once
// placed, or "unallocated<id>" while still Undetermined.
func (m *MemoryLocation) String() string {
	switch m.Status {
	case Assigned, Static, Argument:
		return strconv.Itoa(m.Offset) + "(" + m.Base.String() + ")"
	default:
		return "unallocated" + strconv.FormatUint(m.ID, 10)
	}
}
