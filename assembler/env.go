// Package assembler orchestrates the parser's Item stream through §4.4-4.10
// of the pipeline: constant and label resolution, register alias
// substitution, the compression transform, pseudo-instruction expansion,
// immediate resolution, and final lowering to a flat byte buffer.
package assembler

import "github.com/rv32tools/rv32asm/parser"

// Env is the chained constants ∪ labels lookup every pass evaluates
// expressions against. Register names never need a map entry here -- the
// arithmetic sub-grammar in parser/expr.go recognizes them inline -- so Env
// only ever holds user-defined names. A nil map is treated as empty, letting
// §4.4's "labels not yet known" rule fall out naturally from passing a
// labels-less Env.
type Env struct {
	Constants map[string]int64
	Labels    map[string]int64

	// Symbols, if set, is notified of every successful lookup so the final
	// SymbolTable snapshot can report unused-name warnings.
	Symbols *parser.SymbolTable
}

func (e *Env) Lookup(name string) (int64, bool) {
	if e.Constants != nil {
		if v, ok := e.Constants[name]; ok {
			e.reference(name)
			return v, true
		}
	}
	if e.Labels != nil {
		if v, ok := e.Labels[name]; ok {
			e.reference(name)
			return v, true
		}
	}
	return 0, false
}

func (e *Env) reference(name string) {
	if e.Symbols != nil {
		e.Symbols.Reference(name)
	}
}

var _ parser.Environment = (*Env)(nil)
