package vcfg

import (
	"fmt"
	"io"
)

// Extern declares a callee defined outside this module: its name and
// its declared argument count, which Output emits as a byte size
// (argc*4) in the .extern directive. Call sites are not checked
// against it.
type Extern struct {
	Name string
	Argc int
}

// Module is the top-level compilation unit: a set of defined
// functions, a set of extern declarations, a set of global data
// sections, and a name used only for diagnostics. This mirrors
// original_source/include/vcfg/virtual_mips.h's Module.
type Module struct {
	Name      string
	Functions []*Function
	Externs   []Extern
	Data      []*Data
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// DeclareExtern records an external function's name and arity.
func (m *Module) DeclareExtern(name string, argc int) {
	m.Externs = append(m.Externs, Extern{Name: name, Argc: argc})
}

// DefineFunction creates and registers a new function in this module.
func (m *Module) DefineFunction(name string, argc int) *Function {
	f := NewFunction(name, argc)
	m.Functions = append(m.Functions, f)
	return f
}

// AddData registers a global data section, returning it for
// convenience so callers can chain a La instruction against it.
func (m *Module) AddData(d *Data) *Data {
	m.Data = append(m.Data, d)
	return d
}

// Pipeline is the set of per-function passes Finalize drives, in
// order: register allocation, call-overlap scanning, and frame
// layout. Wiring it as an interface (rather than importing
// pkg/regalloc and pkg/stacking directly) avoids an import cycle,
// since those packages operate on *Function values defined here.
type Pipeline interface {
	Allocate(f *Function) error
	ScanOverlap(f *Function)
	LayoutFrame(f *Function)
}

// Finalize runs pipeline's allocator, call-overlap scanner, and frame
// layout over every function in the module, in declaration order.
// Each stage is a no-op on a function whose Allocated flag is already
// set.
func (m *Module) Finalize(pipeline Pipeline) error {
	for _, f := range m.Functions {
		if f.Allocated {
			continue
		}
		if err := pipeline.Allocate(f); err != nil {
			return fmt.Errorf("vcfg: allocating %s: %w", f.Name, err)
		}
		pipeline.ScanOverlap(f)
		pipeline.LayoutFrame(f)
	}
	return nil
}

// Output serializes the whole module: extern declarations, global
// data sections, then every function's assembly body.
func (m *Module) Output(w io.Writer) {
	for _, e := range m.Externs {
		fmt.Fprintf(w, "\t.extern %s, %d\n", e.Name, e.Argc*4)
	}
	for _, d := range m.Data {
		d.Output(w)
	}
	for _, f := range m.Functions {
		f.Output(w)
	}
}
