package stacking

import (
	"github.com/schrodinger-cc/vcfg/pkg/regalloc"
	"github.com/schrodinger-cc/vcfg/pkg/vcfg"
)

// Pipeline wires the register allocator, call-overlap scanner, and
// frame layout into the vcfg.Pipeline interface Module.Finalize
// drives. It carries no state; a zero value is ready to use.
type Pipeline struct{}

func (Pipeline) Allocate(f *vcfg.Function) error {
	return regalloc.Allocate(f)
}

func (Pipeline) ScanOverlap(f *vcfg.Function) {
	regalloc.ScanOverlap(f)
}

func (Pipeline) LayoutFrame(f *vcfg.Function) {
	LayoutFrame(f)
}
