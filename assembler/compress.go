package assembler

import "github.com/rv32tools/rv32asm/parser"

func fitsSigned(v int64, bits uint) bool {
	lo := -(int64(1) << (bits - 1))
	hi := int64(1)<<(bits-1) - 1
	return v >= lo && v <= hi
}

// transformCompressible implements §4.7: walk items tracking position,
// rewriting any uncompressed `jal` whose immediate currently fits the
// compressed jump range into `c.j` (rd==0) or `c.jal` (rd==1). Run once
// before pseudo expansion and once after, per the pipeline's two-pass
// schedule for label stability. When an item shrinks from 4 to 2 bytes,
// every label past the replaced item's position is decremented by 2 in
// place.
func transformCompressible(items []parser.Item, constants, labels map[string]int64, symtab *parser.SymbolTable) *parser.ErrorList {
	errs := &parser.ErrorList{}
	env := &Env{Constants: constants, Labels: labels, Symbols: symtab}
	var position int64

	for _, item := range items {
		inst, ok := item.(*parser.Instruction)
		if ok && inst.Mnemonic == "jal" && !inst.Compressed && inst.Imm != nil {
			v, err := inst.Imm.Eval(env, position)
			if err == nil && v%2 == 0 && fitsSigned(v, 12) {
				switch inst.Rd.Value {
				case 0:
					inst.Mnemonic = "c.j"
					inst.Compressed = true
				case 1:
					inst.Mnemonic = "c.jal"
					inst.Compressed = true
				}
				if inst.Compressed {
					shiftLabelsAfter(labels, position, -2)
				}
			}
		}
		position += item.Size(position)
	}

	return errs
}

// shiftLabelsAfter decrements every label strictly past cutPosition by
// delta, in place.
func shiftLabelsAfter(labels map[string]int64, cutPosition, delta int64) {
	for name, v := range labels {
		if v > cutPosition {
			labels[name] = v + delta
		}
	}
}
