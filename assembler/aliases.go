package assembler

import (
	"fmt"

	"github.com/rv32tools/rv32asm/parser"
)

// resolveRegisterAliases implements §4.6: every Rd/Rs1/Rs2 field still
// carrying a bare identifier (not a canonical register spelling) is
// substituted with its constant value, if one is bound. A field that is
// still unresolved after substitution -- a typo, or a name that is simply
// never defined as a constant -- is an UnknownName error; left unchecked,
// its zero value would silently encode as x0.
func resolveRegisterAliases(items []parser.Item, constants map[string]int64, symtab *parser.SymbolTable) ([]parser.Item, *parser.ErrorList) {
	errs := &parser.ErrorList{}
	env := &Env{Constants: constants, Symbols: symtab}
	for _, item := range items {
		inst, ok := item.(*parser.Instruction)
		if !ok {
			continue
		}
		inst.Rd = checkResolved(inst.Rd.ResolveAlias(env), inst.Line, errs)
		inst.Rs1 = checkResolved(inst.Rs1.ResolveAlias(env), inst.Line, errs)
		inst.Rs2 = checkResolved(inst.Rs2.ResolveAlias(env), inst.Line, errs)
	}
	return items, errs
}

// checkResolved reports an UnknownName error for r if it is still carrying
// an unresolved alias, so that a register field that never resolves stops
// the pipeline instead of silently reading back as x0 in the encoder.
func checkResolved(r parser.RegRef, line parser.Line, errs *parser.ErrorList) parser.RegRef {
	if !r.Resolved() {
		errs.AddError(newError(line, parser.ErrorUnknownName,
			fmt.Sprintf("unknown name: %q", r.Alias)))
	}
	return r
}
