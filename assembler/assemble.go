package assembler

import "github.com/rv32tools/rv32asm/parser"

// Result is everything a caller needs after a successful assembly: the flat
// output bytes and a symbol table snapshot for the listing/browse surfaces
// and unused-name diagnostics.
type Result struct {
	Bytes   []byte
	Symbols *parser.SymbolTable
}

// Assemble runs the full §4.2-§4.10 pipeline over source, returning the
// assembled bytes and accumulated symbol table. compress selects whether
// the compression transform runs (both before and after pseudo-instruction
// expansion, per the pipeline's two-pass schedule for label stability); a
// caller that never wants RVC output can pass false, which skips only the
// two compression passes.
func Assemble(filename, source string, compress bool) (*Result, *parser.ErrorList) {
	errs := &parser.ErrorList{}

	lines := parser.ReadLines(filename, source)
	p := parser.NewParser()
	items := p.Parse(lines)
	errs.Errors = append(errs.Errors, p.Errors().Errors...)
	if errs.HasErrors() {
		return nil, errs
	}

	symtab := parser.NewSymbolTable()

	items, constants, cerrs := resolveConstants(items, symtab)
	errs.Errors = append(errs.Errors, cerrs.Errors...)

	items, labels, lerrs := resolveLabels(items, symtab)
	errs.Errors = append(errs.Errors, lerrs.Errors...)

	if errs.HasErrors() {
		return nil, errs
	}

	items, raerrs := resolveRegisterAliases(items, constants, symtab)
	errs.Errors = append(errs.Errors, raerrs.Errors...)
	if errs.HasErrors() {
		return nil, errs
	}

	if compress {
		if tcerrs := transformCompressible(items, constants, labels, symtab); tcerrs.HasErrors() {
			errs.Errors = append(errs.Errors, tcerrs.Errors...)
		}
	}

	items, perrs := expandPseudoInstructions(items, constants, labels, symtab)
	errs.Errors = append(errs.Errors, perrs.Errors...)

	if compress {
		if tcerrs := transformCompressible(items, constants, labels, symtab); tcerrs.HasErrors() {
			errs.Errors = append(errs.Errors, tcerrs.Errors...)
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}

	if ierrs := resolveImmediates(items, constants, labels, symtab); ierrs.HasErrors() {
		errs.Errors = append(errs.Errors, ierrs.Errors...)
		return nil, errs
	}

	bytes, ferrs := finalLower(items, constants, labels, symtab)
	errs.Errors = append(errs.Errors, ferrs.Errors...)
	if errs.HasErrors() {
		return nil, errs
	}

	// compress.go and pseudo.go shift label positions in place as items
	// shrink/grow after resolveLabels recorded the initial offsets; refresh
	// the snapshot so GetAllSymbols reports final byte offsets.
	for name, pos := range labels {
		sym, ok := symtab.Lookup(name)
		if !ok {
			continue
		}
		refs := sym.RefCount
		symtab.Define(name, parser.SymbolLabel, pos, sym.Pos)
		updated, _ := symtab.Lookup(name)
		updated.RefCount = refs
	}

	for _, sym := range symtab.GetUnusedSymbols() {
		errs.AddWarning(&parser.Warning{
			Pos:     sym.Pos,
			Message: "unused " + sym.Kind.String() + ": " + sym.Name,
		})
	}

	return &Result{Bytes: bytes, Symbols: symtab}, errs
}
