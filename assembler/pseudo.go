package assembler

import (
	"fmt"

	"github.com/rv32tools/rv32asm/parser"
)

func reg(v int32) parser.RegRef { return parser.RegRef{Value: v} }

func resolveRegArg(tok string, constants map[string]int64) parser.RegRef {
	return parser.ParseRegRef(tok).ResolveAlias(&Env{Constants: constants})
}

// expandPseudoInstructions implements §4.8: walk items tracking position,
// replacing every PseudoInstruction with its table expansion. li's
// single-vs-double-instruction choice depends on the *evaluated* immediate,
// so this pass needs the full constants ∪ labels environment; when li
// shrinks to one instruction, every label past the current position is
// decremented by 4 (the unused half of the pessimistic 8-byte budget).
func expandPseudoInstructions(items []parser.Item, constants, labels map[string]int64, symtab *parser.SymbolTable) ([]parser.Item, *parser.ErrorList) {
	errs := &parser.ErrorList{}
	env := &Env{Constants: constants, Labels: labels, Symbols: symtab}
	out := make([]parser.Item, 0, len(items))
	var position int64

	for _, item := range items {
		p, ok := item.(*parser.PseudoInstruction)
		if !ok {
			out = append(out, item)
			position += item.Size(position)
			continue
		}

		expanded, err := expandOne(p, env, position, constants)
		if err != nil {
			errs.AddError(newError(p.Line, parser.ErrorSyntax, err.Error()))
			position += p.Size(position)
			continue
		}

		var actual int64
		for _, inst := range expanded {
			out = append(out, inst)
			actual += inst.Size(position + actual)
		}
		if delta := actual - p.Size(position); delta != 0 {
			shiftLabelsAfter(labels, position, delta)
		}
		position += actual
	}

	return out, errs
}

// expandOne expands a single pseudo-instruction, checking afterward that
// every register operand regArg touched actually resolved -- a bare alias
// that is never bound to a constant must fail the same way it would at a
// real Rd/Rs1/Rs2 field, not silently encode as x0.
func expandOne(p *parser.PseudoInstruction, env *Env, position int64, constants map[string]int64) (insts []*parser.Instruction, err error) {
	line := p.Line
	var regErr error
	defer func() {
		if err == nil && regErr != nil {
			insts, err = nil, regErr
		}
	}()
	regArg := func(i int) parser.RegRef {
		r := resolveRegArg(p.Args[i], constants)
		if !r.Resolved() && regErr == nil {
			regErr = fmt.Errorf("unknown name: %q", r.Alias)
		}
		return r
	}
	labelArg := func(i int) (string, error) {
		if i >= len(p.Args) {
			return "", fmt.Errorf("%s: missing label operand", p.Name)
		}
		return p.Args[i], nil
	}

	switch p.Name {
	case "nop":
		return []*parser.Instruction{{Mnemonic: "addi", Rd: reg(0), Rs1: reg(0), Imm: litExpr(0), Line: line}}, nil

	case "mv":
		return []*parser.Instruction{{Mnemonic: "addi", Rd: regArg(0), Rs1: regArg(1), Imm: litExpr(0), Line: line}}, nil
	case "not":
		return []*parser.Instruction{{Mnemonic: "xori", Rd: regArg(0), Rs1: regArg(1), Imm: litExpr(-1), Line: line}}, nil
	case "neg":
		return []*parser.Instruction{{Mnemonic: "sub", Rd: regArg(0), Rs1: reg(0), Rs2: regArg(1), Line: line}}, nil
	case "seqz":
		return []*parser.Instruction{{Mnemonic: "sltiu", Rd: regArg(0), Rs1: regArg(1), Imm: litExpr(1), Line: line}}, nil
	case "snez":
		return []*parser.Instruction{{Mnemonic: "sltu", Rd: regArg(0), Rs1: reg(0), Rs2: regArg(1), Line: line}}, nil
	case "sltz":
		return []*parser.Instruction{{Mnemonic: "slt", Rd: regArg(0), Rs1: regArg(1), Rs2: reg(0), Line: line}}, nil
	case "sgtz":
		return []*parser.Instruction{{Mnemonic: "slt", Rd: regArg(0), Rs1: reg(0), Rs2: regArg(1), Line: line}}, nil

	case "beqz", "bnez", "blez", "bgez", "bltz", "bgtz":
		target, err := labelArg(1)
		if err != nil {
			return nil, err
		}
		rs := regArg(0)
		offset := &parser.Offset{Ref: target}
		switch p.Name {
		case "beqz":
			return []*parser.Instruction{{Mnemonic: "beq", Rs1: rs, Rs2: reg(0), Imm: offset, Line: line}}, nil
		case "bnez":
			return []*parser.Instruction{{Mnemonic: "bne", Rs1: rs, Rs2: reg(0), Imm: offset, Line: line}}, nil
		case "blez":
			return []*parser.Instruction{{Mnemonic: "bge", Rs1: reg(0), Rs2: rs, Imm: offset, Line: line}}, nil
		case "bgez":
			return []*parser.Instruction{{Mnemonic: "bge", Rs1: rs, Rs2: reg(0), Imm: offset, Line: line}}, nil
		case "bltz":
			return []*parser.Instruction{{Mnemonic: "blt", Rs1: rs, Rs2: reg(0), Imm: offset, Line: line}}, nil
		case "bgtz":
			return []*parser.Instruction{{Mnemonic: "blt", Rs1: reg(0), Rs2: rs, Imm: offset, Line: line}}, nil
		}

	case "bgt", "ble", "bgtu", "bleu":
		target, err := labelArg(2)
		if err != nil {
			return nil, err
		}
		rs, rt := regArg(0), regArg(1)
		offset := &parser.Offset{Ref: target}
		switch p.Name {
		case "bgt":
			return []*parser.Instruction{{Mnemonic: "blt", Rs1: rt, Rs2: rs, Imm: offset, Line: line}}, nil
		case "ble":
			return []*parser.Instruction{{Mnemonic: "bge", Rs1: rt, Rs2: rs, Imm: offset, Line: line}}, nil
		case "bgtu":
			return []*parser.Instruction{{Mnemonic: "bltu", Rs1: rt, Rs2: rs, Imm: offset, Line: line}}, nil
		case "bleu":
			return []*parser.Instruction{{Mnemonic: "bgeu", Rs1: rt, Rs2: rs, Imm: offset, Line: line}}, nil
		}

	case "j", "jal":
		target, err := labelArg(0)
		if err != nil {
			return nil, err
		}
		rd := int32(0)
		if p.Name == "jal" {
			rd = 1
		}
		return []*parser.Instruction{{Mnemonic: "jal", Rd: reg(rd), Imm: &parser.Offset{Ref: target}, Line: line}}, nil

	case "jr":
		return []*parser.Instruction{{Mnemonic: "jalr", Rd: reg(0), Rs1: regArg(0), Imm: litExpr(0), Line: line}}, nil
	case "jalr":
		return []*parser.Instruction{{Mnemonic: "jalr", Rd: reg(1), Rs1: regArg(0), Imm: litExpr(0), Line: line}}, nil
	case "ret":
		return []*parser.Instruction{{Mnemonic: "jalr", Rd: reg(0), Rs1: reg(1), Imm: litExpr(0), Line: line}}, nil

	case "fence":
		return []*parser.Instruction{{Mnemonic: "fence", Imm: litExpr(0b1111), Imm2: litExpr(0b1111), Line: line}}, nil

	case "li":
		if len(p.Args) < 2 {
			return nil, fmt.Errorf("li requires rd and an immediate")
		}
		rd := regArg(0)
		expr, err := parser.ParseArithmetic(p.Args[1:])
		if err != nil {
			return nil, err
		}
		v, err := expr.Eval(env, position)
		if err != nil {
			return nil, err
		}
		if fitsSigned(v, 12) {
			return []*parser.Instruction{{Mnemonic: "addi", Rd: rd, Rs1: reg(0), Imm: &parser.Lo{Inner: expr}, Line: line}}, nil
		}
		return []*parser.Instruction{
			{Mnemonic: "lui", Rd: rd, Imm: &parser.Hi{Inner: expr}, Line: line},
			{Mnemonic: "addi", Rd: rd, Rs1: rd, Imm: &parser.Lo{Inner: expr}, Line: line},
		}, nil

	case "call", "tail":
		target, err := labelArg(0)
		if err != nil {
			return nil, err
		}
		offset := &parser.Offset{Ref: target}
		scratch := int32(1)
		jalrRd := int32(1)
		if p.Name == "tail" {
			scratch = 6
			jalrRd = 0
		}
		return []*parser.Instruction{
			{Mnemonic: "auipc", Rd: reg(scratch), Imm: &parser.Hi{Inner: offset}, Line: line},
			{Mnemonic: "jalr", Rd: reg(jalrRd), Rs1: reg(scratch), Imm: &parser.Lo{Inner: offset}, IsAuipcJump: true, Line: line},
		}, nil
	}

	return nil, fmt.Errorf("unrecognized pseudo-instruction: %q", p.Name)
}

// literal is a constant-valued Expr, used for pseudo expansions whose
// immediate never depends on the environment (e.g. nop's trailing 0).
type literal int64

func (l literal) Eval(parser.Environment, int64) (int64, error) { return int64(l), nil }

func litExpr(v int64) parser.Expr { return literal(v) }
