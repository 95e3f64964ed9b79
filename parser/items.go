package parser

import (
	"strings"

	"github.com/rv32tools/rv32asm/riscv"
)

// Item is the sum type of §3: every classified line of source becomes
// exactly one Item, plus a LabelItem when the line starts with a label
// followed by more tokens. Size reports the item's width in bytes when it would
// sit at byte offset position -- only Align needs position itself, but the
// signature is uniform so the label-resolution walk (§4.5) can dispatch
// through the interface without a type switch.
type Item interface {
	Size(position int64) int64
	SourceLine() Line
}

// RegRef is a register operand that may already be a resolved x-register
// index (from a canonical register name or bare numeral) or may still be a
// bare identifier pending constant-alias substitution in §4.6.
type RegRef struct {
	Value   int32
	Alias   string // non-empty iff not yet resolved
}

// ParseRegRef resolves tok as a register name/numeral immediately, or
// defers resolution to the register-alias pass if tok isn't one.
func ParseRegRef(tok string) RegRef {
	if reg, ok := riscv.LookupRegister(strings.ToLower(tok)); ok {
		return RegRef{Value: reg}
	}
	return RegRef{Alias: tok}
}

// Resolved reports whether the reference has a concrete register index.
func (r RegRef) Resolved() bool { return r.Alias == "" }

// ResolveAlias looks r.Alias up in env and, if found, freezes the
// reference to that value. It is a no-op if r is already resolved or the
// alias is not (yet) a known constant.
func (r RegRef) ResolveAlias(env Environment) RegRef {
	if r.Resolved() {
		return r
	}
	if v, ok := env.Lookup(r.Alias); ok {
		return RegRef{Value: int32(v)}
	}
	return r
}

// --- simple directive items ---

// ConstItem is `NAME = expr`.
type ConstItem struct {
	Name string
	Expr Expr
	Line Line
}

func (c *ConstItem) Size(int64) int64    { return 0 }
func (c *ConstItem) SourceLine() Line    { return c.Line }

// LabelItem is `name:`.
type LabelItem struct {
	Name string
	Line Line
}

func (l *LabelItem) Size(int64) int64 { return 0 }
func (l *LabelItem) SourceLine() Line { return l.Line }

// StringItem is already escape-decoded UTF-8 bytes from `string ...`.
type StringItem struct {
	Bytes []byte
	Line  Line
}

func (s *StringItem) Size(int64) int64 { return int64(len(s.Bytes)) }
func (s *StringItem) SourceLine() Line { return s.Line }

// SeqKind is the element width of a Sequence directive.
type SeqKind int

const (
	SeqBytes SeqKind = iota
	SeqShorts
	SeqInts
	SeqLongs
	SeqLongLongs
)

// Width returns the per-element byte width of kind.
func (k SeqKind) Width() int64 {
	switch k {
	case SeqBytes:
		return 1
	case SeqShorts:
		return 2
	case SeqInts:
		return 4
	case SeqLongs, SeqLongLongs:
		return 8
	default:
		return 0
	}
}

// SequenceItem is `bytes|shorts|ints|longs|longlongs v1 v2 ...`; each value
// is already an integer literal, parsed at parse time (no env dependency).
type SequenceItem struct {
	Kind   SeqKind
	Values []int64
	Line   Line
}

func (s *SequenceItem) Size(int64) int64 { return s.Kind.Width() * int64(len(s.Values)) }
func (s *SequenceItem) SourceLine() Line { return s.Line }

// PackItem is `pack <fmt> <imm>`: a struct-style packed integer.
type PackItem struct {
	Format string
	Expr   Expr
	Line   Line
}

func (p *PackItem) Size(int64) int64 { return PackedSize(p.Format) }
func (p *PackItem) SourceLine() Line { return p.Line }

// ShorthandPackItem is `db|dh|dw|dd <imm>`, lowered to a PackItem in §4.10.
type ShorthandPackItem struct {
	Name string // db, dh, dw, dd
	Expr Expr
	Line Line
}

func (s *ShorthandPackItem) Size(int64) int64 {
	switch s.Name {
	case "db":
		return 1
	case "dh":
		return 2
	case "dw":
		return 4
	case "dd":
		return 8
	default:
		return 0
	}
}
func (s *ShorthandPackItem) SourceLine() Line { return s.Line }

// ShorthandFormat returns the pack format string equivalent to s.Name, used
// when lowering ShorthandPack -> Pack in §4.10.
func (s *ShorthandPackItem) ShorthandFormat() string {
	switch s.Name {
	case "db":
		return "<B"
	case "dh":
		return "<H"
	case "dw":
		return "<I"
	case "dd":
		return "<Q"
	default:
		return "<B"
	}
}

// AlignItem is `align N`.
type AlignItem struct {
	Align int64
	Line  Line
}

func (a *AlignItem) Size(position int64) int64 {
	if a.Align <= 0 {
		return 0
	}
	mod := position % a.Align
	if mod == 0 {
		return 0
	}
	return a.Align - mod
}
func (a *AlignItem) SourceLine() Line { return a.Line }

// BlobItem is a run of already-lowered output bytes.
type BlobItem struct {
	Bytes []byte
	Line  Line
}

func (b *BlobItem) Size(int64) int64 { return int64(len(b.Bytes)) }
func (b *BlobItem) SourceLine() Line { return b.Line }

// --- instructions ---

// Instruction is every concrete (non-pseudo) instruction form: base 32-bit
// and 16-bit compressed alike. It carries the superset of operand fields
// any RV32IMAC instruction needs; the encoder package's per-mnemonic table
// says which fields a given Mnemonic actually reads, per the declarative
// dispatch §9 recommends over twenty-five bespoke struct types.
type Instruction struct {
	Mnemonic     string
	Rd, Rs1, Rs2 RegRef
	Imm          Expr  // nil if the mnemonic takes no immediate
	Imm2         Expr  // fence only: succ, alongside Imm's pred
	ImmValue     int64 // filled in by §4.9; valid only after that pass
	ImmValue2    int64 // fence only, paired with Imm2
	Aq, Rl       int32 // atomics only
	Compressed   bool
	IsAuipcJump  bool // §4.9: add 4 to the resolved immediate
	Line         Line
}

func (i *Instruction) Size(int64) int64 {
	if i.Compressed {
		return 2
	}
	return 4
}
func (i *Instruction) SourceLine() Line { return i.Line }

// PseudoInstruction is an unexpanded convenience mnemonic (§4.8). Its size
// is pessimistic until expansion: 4 bytes, except li/call/tail which
// reserve 8 and may shrink.
type PseudoInstruction struct {
	Name string
	Args []string
	Line Line
}

func (p *PseudoInstruction) Size(int64) int64 {
	switch p.Name {
	case "li", "call", "tail":
		return 8
	default:
		return 4
	}
}
func (p *PseudoInstruction) SourceLine() Line { return p.Line }
