package assembler

import "github.com/rv32tools/rv32asm/parser"

// resolveImmediates implements §4.9: walk items tracking position,
// evaluating every instruction's immediate expression(s) in the final
// constants ∪ labels environment and freezing the result into ImmValue /
// ImmValue2. The auipc+jalr fixup (§9) adds 4 to a flagged jalr's resolved
// immediate.
func resolveImmediates(items []parser.Item, constants, labels map[string]int64, symtab *parser.SymbolTable) *parser.ErrorList {
	errs := &parser.ErrorList{}
	env := &Env{Constants: constants, Labels: labels, Symbols: symtab}
	var position int64

	for _, item := range items {
		if inst, ok := item.(*parser.Instruction); ok {
			if inst.Imm != nil {
				v, err := inst.Imm.Eval(env, position)
				if err != nil {
					errs.AddError(newError(inst.Line, parser.ErrorUnknownName, err.Error()))
				} else {
					if inst.IsAuipcJump {
						v += 4
					}
					inst.ImmValue = v
				}
			}
			if inst.Imm2 != nil {
				v, err := inst.Imm2.Eval(env, position)
				if err != nil {
					errs.AddError(newError(inst.Line, parser.ErrorUnknownName, err.Error()))
				} else {
					inst.ImmValue2 = v
				}
			}
		}
		position += item.Size(position)
	}

	return errs
}
