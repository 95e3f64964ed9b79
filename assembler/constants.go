package assembler

import (
	"fmt"

	"github.com/rv32tools/rv32asm/parser"
	"github.com/rv32tools/rv32asm/riscv"
)

// resolveConstants implements §4.4: walk items in source order, evaluating
// each Constant's expression in constants-so-far (labels are not yet known)
// and binding the result. Constant items are removed from the returned
// stream; a constant name colliding with a register name is a
// RegisterShadow error. Every successfully bound name is also recorded in
// symtab, if given, so the final snapshot can report unused constants.
func resolveConstants(items []parser.Item, symtab *parser.SymbolTable) ([]parser.Item, map[string]int64, *parser.ErrorList) {
	errs := &parser.ErrorList{}
	constants := make(map[string]int64)
	out := make([]parser.Item, 0, len(items))
	var position int64

	for _, item := range items {
		c, ok := item.(*parser.ConstItem)
		if !ok {
			out = append(out, item)
			position += item.Size(position)
			continue
		}

		if riscv.IsRegisterName(c.Name) {
			errs.AddError(newError(c.Line, parser.ErrorRegisterShadow,
				fmt.Sprintf("constant %q collides with a register name", c.Name)))
			continue
		}

		env := &Env{Constants: constants}
		v, err := c.Expr.Eval(env, position)
		if err != nil {
			errs.AddError(newError(c.Line, parser.ErrorUnknownName, err.Error()))
			continue
		}
		constants[c.Name] = v
		if symtab != nil {
			symtab.Define(c.Name, parser.SymbolConstant, v, c.Line.Pos())
		}
	}

	return out, constants, errs
}
