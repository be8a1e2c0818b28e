package vcfg

import (
	"fmt"
	"io"
	"strconv"

	"github.com/schrodinger-cc/vcfg/pkg/vreg"
)

// DataKind distinguishes the directive a Data section serializes
// under. This mirrors original_source/include/vcfg/virtual_mips.h's
// DECLARE_DATA-generated byte/ascii/asciiz/word/hword/space kinds.
type DataKind int

const (
	KindByte DataKind = iota
	KindAscii
	KindAsciiz
	KindWord
	KindHword
	KindSpace
)

// Data is a global data section entry: a string literal, a raw word,
// or reserved space. Name is auto-generated ("data_section_$N")
// unless the caller supplies one; ReadOnly routes it to .rdata instead
// of .data at emission time.
type Data struct {
	Name     string
	Kind     DataKind
	ReadOnly bool

	// Exactly one of these is populated, selected by Kind.
	Bytes     []byte
	Str       string
	Word      int32
	HwordVal  int64
	SpaceSize int
}

var dataSectionCounter int

func nextDataName() string {
	dataSectionCounter++
	return "data_section_$" + strconv.Itoa(dataSectionCounter)
}

// NewAsciiz creates a NUL-terminated string data section.
func NewAsciiz(s string, readOnly bool) *Data {
	return &Data{Name: nextDataName(), Kind: KindAsciiz, Str: s, ReadOnly: readOnly}
}

// NewAscii creates a raw (non-NUL-terminated) string data section.
func NewAscii(s string, readOnly bool) *Data {
	return &Data{Name: nextDataName(), Kind: KindAscii, Str: s, ReadOnly: readOnly}
}

// NewWord creates a single 32-bit word data section.
func NewWord(v int32, readOnly bool) *Data {
	return &Data{Name: nextDataName(), Kind: KindWord, Word: v, ReadOnly: readOnly}
}

// NewHword creates a single 16-bit-tagged (but 64-bit-valued, matching
// the original source's hword(int64_t)) data section.
func NewHword(v int64, readOnly bool) *Data {
	return &Data{Name: nextDataName(), Kind: KindHword, HwordVal: v, ReadOnly: readOnly}
}

// NewSpace reserves n bytes of uninitialized storage.
func NewSpace(n int, readOnly bool) *Data {
	return &Data{Name: nextDataName(), Kind: KindSpace, SpaceSize: n, ReadOnly: readOnly}
}

// escapedString renders s using the C-style escapes for
// ' " ? \ a b f n r t v, per spec.md's assembly output format.
func escapedString(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\'':
			out = append(out, '\\', '\'')
		case '"':
			out = append(out, '\\', '"')
		case '?':
			out = append(out, '\\', '?')
		case '\\':
			out = append(out, '\\', '\\')
		case '\a':
			out = append(out, '\\', 'a')
		case '\b':
			out = append(out, '\\', 'b')
		case '\f':
			out = append(out, '\\', 'f')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		case '\v':
			out = append(out, '\\', 'v')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// Output writes this data section's directive and body. align is 2
// for word, 1 for hword, 0 otherwise, per spec.md §6.
func (d *Data) Output(w io.Writer) {
	section := ".data"
	if d.ReadOnly {
		section = ".rdata"
	}
	align := 0
	switch d.Kind {
	case KindWord:
		align = 2
	case KindHword:
		align = 1
	}
	fmt.Fprintf(w, "\t%s\n\t.align %d\n%s:\n", section, align, d.Name)
	switch d.Kind {
	case KindByte:
		for _, b := range d.Bytes {
			fmt.Fprintf(w, "\t.byte %d\n", b)
		}
	case KindAscii:
		fmt.Fprintf(w, "\t.ascii \"%s\"\n", escapedString(d.Str))
	case KindAsciiz:
		fmt.Fprintf(w, "\t.asciiz \"%s\"\n", escapedString(d.Str))
	case KindWord:
		fmt.Fprintf(w, "\t.word %d\n", d.Word)
	case KindHword:
		fmt.Fprintf(w, "\t.hword %d\n", d.HwordVal)
	case KindSpace:
		fmt.Fprintf(w, "\t.space %d\n", d.SpaceSize)
	}
}

// La loads the address of a Data section into Target (pseudo-op: "la
// target, name").
type La struct {
	Target *vreg.VirtReg
	Data   *Data
}

func NewLa(target *vreg.VirtReg, data *Data) *La { return &La{Target: target, Data: data} }

func (i *La) Registers(visit func(*vreg.VirtReg)) { skipAllocated(visit, i.Target) }
func (i *La) Def() *vreg.VirtReg                  { return i.Target }
func (i *La) Uses(*vreg.VirtReg) bool             { return false }
func (i *La) Replace(old, next *vreg.VirtReg) {
	if i.Target.Equal(old) {
		i.Target = next
	}
}
func (i *La) Output(w io.Writer) { fmt.Fprintf(w, "la %s, %s", i.Target, i.Data.Name) }

// Address loads the address of a MemoryLocation into Target (pseudo-op
// used for stack-relative array bases).
type Address struct {
	Target *vreg.VirtReg
	Loc    *vreg.MemoryLocation
}

func NewAddress(target *vreg.VirtReg, loc *vreg.MemoryLocation) *Address {
	return &Address{Target: target, Loc: loc}
}

func (i *Address) Registers(visit func(*vreg.VirtReg)) { skipAllocated(visit, i.Target) }
func (i *Address) Def() *vreg.VirtReg                  { return i.Target }
func (i *Address) Uses(*vreg.VirtReg) bool             { return false }
func (i *Address) Replace(old, next *vreg.VirtReg) {
	if i.Target.Equal(old) {
		i.Target = next
	}
}
func (i *Address) Output(w io.Writer) { fmt.Fprintf(w, "la %s, %s", i.Target, i.Loc) }
