package encoder

import (
	"fmt"

	"github.com/rv32tools/rv32asm/parser"
	"github.com/rv32tools/rv32asm/riscv"
)

type rTypeFields struct {
	funct3, funct7 uint32
}

var rTypeTable = map[string]rTypeFields{
	"add": {riscv.Funct3Addi, riscv.Funct7Zero},
	"sub": {riscv.Funct3Addi, riscv.Funct7Alt},
	"sll": {riscv.Funct3Slli, riscv.Funct7Zero},
	"slt": {riscv.Funct3Slti, riscv.Funct7Zero},
	"sltu": {riscv.Funct3Sltiu, riscv.Funct7Zero},
	"xor": {riscv.Funct3Xori, riscv.Funct7Zero},
	"srl": {riscv.Funct3Srli, riscv.Funct7Zero},
	"sra": {riscv.Funct3Srli, riscv.Funct7Alt},
	"or":  {riscv.Funct3Ori, riscv.Funct7Zero},
	"and": {riscv.Funct3Andi, riscv.Funct7Zero},

	"mul":    {riscv.Funct3Mul, riscv.Funct7MulDiv},
	"mulh":   {riscv.Funct3Mulh, riscv.Funct7MulDiv},
	"mulhsu": {riscv.Funct3Mulhsu, riscv.Funct7MulDiv},
	"mulhu":  {riscv.Funct3Mulhu, riscv.Funct7MulDiv},
	"div":    {riscv.Funct3Div, riscv.Funct7MulDiv},
	"divu":   {riscv.Funct3Divu, riscv.Funct7MulDiv},
	"rem":    {riscv.Funct3Rem, riscv.Funct7MulDiv},
	"remu":   {riscv.Funct3Remu, riscv.Funct7MulDiv},
}

// encodeR packs the register-register ALU and M-extension family:
// funct7 | rs2 | rs1 | funct3 | rd | opcode.
func encodeR(inst *parser.Instruction) (uint32, error) {
	f, ok := rTypeTable[inst.Mnemonic]
	if !ok {
		return 0, fmt.Errorf("unknown R-type mnemonic: %s", inst.Mnemonic)
	}
	rd := uint32(inst.Rd.Value)
	rs1 := uint32(inst.Rs1.Value)
	rs2 := uint32(inst.Rs2.Value)
	return (f.funct7 << 25) | (regBits(rs2) << 20) | (regBits(rs1) << 15) |
		(f.funct3 << 12) | (regBits(rd) << 7) | riscv.OpOp, nil
}

var opImmFunct3 = map[string]uint32{
	"addi":  riscv.Funct3Addi,
	"slti":  riscv.Funct3Slti,
	"sltiu": riscv.Funct3Sltiu,
	"xori":  riscv.Funct3Xori,
	"ori":   riscv.Funct3Ori,
	"andi":  riscv.Funct3Andi,
	"slli":  riscv.Funct3Slli,
	"srli":  riscv.Funct3Srli,
	"srai":  riscv.Funct3Srli,
}

// encodeOpImm packs the I-type ALU family. The three shift mnemonics borrow
// the immediate field for funct7|shamt instead of a 12-bit signed immediate.
func encodeOpImm(inst *parser.Instruction) (uint32, error) {
	f3, ok := opImmFunct3[inst.Mnemonic]
	if !ok {
		return 0, fmt.Errorf("unknown OP-IMM mnemonic: %s", inst.Mnemonic)
	}
	rd := uint32(inst.Rd.Value)
	rs1 := uint32(inst.Rs1.Value)

	var imm12 uint32
	switch inst.Mnemonic {
	case "slli", "srli", "srai":
		if !fitsUnsigned(inst.ImmValue, 5) {
			return 0, NewEncodingError(inst, fmt.Sprintf("shift amount %d out of range [0,31]", inst.ImmValue))
		}
		funct7 := riscv.Funct7Zero
		if inst.Mnemonic == "srai" {
			funct7 = riscv.Funct7Alt
		}
		imm12 = (funct7 << 5) | uint32(inst.ImmValue)
	default:
		if !fitsSigned(inst.ImmValue, 12) {
			return 0, NewEncodingError(inst, fmt.Sprintf("immediate %d out of range for %s", inst.ImmValue, inst.Mnemonic))
		}
		imm12 = uint32(inst.ImmValue) & 0xfff
	}

	return (imm12 << 20) | (regBits(rs1) << 15) | (f3 << 12) | (regBits(rd) << 7) | riscv.OpOpImm, nil
}

// --- compressed ALU family: CI (c.addi/c.slli), CI-immediate-only
// (c.li/c.lui), CI-addi16sp, CB (c.srli/c.srai/c.andi), CA
// (c.sub/c.xor/c.or/c.and), CR (c.mv/c.add) ---

// encodeCIArith packs c.addi and c.slli: funct3 | imm[5] | rd/rs1 | imm[4:0] | op.
func encodeCIArith(inst *parser.Instruction) (uint16, error) {
	rd := uint32(inst.Rd.Value)
	if rd == 0 {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s requires rd/rs1 != x0", inst.Mnemonic))
	}
	var funct3 uint32
	var quadrant uint32
	switch inst.Mnemonic {
	case "c.addi":
		funct3 = riscv.CFunct3Addi
		quadrant = riscv.CQuadrant1
		if !fitsSigned(inst.ImmValue, 6) {
			return 0, NewEncodingError(inst, fmt.Sprintf("c.addi immediate %d out of range", inst.ImmValue))
		}
		if inst.ImmValue == 0 {
			return 0, NewEncodingError(inst, "c.addi immediate must be nonzero")
		}
	case "c.slli":
		funct3 = riscv.CFunct3Slli
		quadrant = riscv.CQuadrant2
		if !fitsUnsigned(inst.ImmValue, 6) {
			return 0, NewEncodingError(inst, "c.slli shift amount out of range")
		}
		if inst.ImmValue == 0 {
			return 0, NewEncodingError(inst, "c.slli immediate must be nonzero")
		}
	}
	imm := uint32(inst.ImmValue) & 0x3f
	word := (funct3 << 13) | (bit(int64(imm), 5) << 12) | (regBits(rd) << 7) |
		((imm & 0x1f) << 2) | quadrant
	return uint16(word), nil
}

// encodeCIImmOnly packs c.li and c.lui: funct3 | imm[5] | rd | imm[4:0] | op.
func encodeCIImmOnly(inst *parser.Instruction) (uint16, error) {
	rd := uint32(inst.Rd.Value)
	switch inst.Mnemonic {
	case "c.li":
		if rd == 0 {
			return 0, NewEncodingError(inst, "c.li requires rd != x0")
		}
		if !fitsSigned(inst.ImmValue, 6) {
			return 0, NewEncodingError(inst, fmt.Sprintf("c.li immediate %d out of range", inst.ImmValue))
		}
		imm := uint32(inst.ImmValue) & 0x3f
		word := (riscv.CFunct3Li << 13) | (bit(int64(imm), 5) << 12) | (regBits(rd) << 7) |
			((imm & 0x1f) << 2) | riscv.CQuadrant1
		return uint16(word), nil

	case "c.lui":
		if rd == 0 || rd == 2 {
			return 0, NewEncodingError(inst, "c.lui requires rd not in {x0, x2}")
		}
		if inst.ImmValue == 0 {
			return 0, NewEncodingError(inst, "c.lui immediate must be nonzero")
		}
		if !fitsSigned(inst.ImmValue, 6) {
			return 0, NewEncodingError(inst, fmt.Sprintf("c.lui immediate %d out of range", inst.ImmValue))
		}
		imm := uint32(inst.ImmValue) & 0x3f
		word := (riscv.CFunct3Addi16Lui << 13) | (bit(int64(imm), 5) << 12) | (regBits(rd) << 7) |
			((imm & 0x1f) << 2) | riscv.CQuadrant1
		return uint16(word), nil
	}
	return 0, fmt.Errorf("unknown mnemonic: %s", inst.Mnemonic)
}

// encodeCAddi16sp packs c.addi16sp's scrambled 6-bit immediate into the
// CI-like layout with an implicit rd=rs1=x2 (sp).
func encodeCAddi16sp(inst *parser.Instruction) (uint16, error) {
	v := inst.ImmValue
	if v == 0 {
		return 0, NewEncodingError(inst, "c.addi16sp immediate must be nonzero")
	}
	if v%16 != 0 || !fitsSigned(v, 10) {
		return 0, NewEncodingError(inst, fmt.Sprintf("c.addi16sp immediate %d must be a multiple of 16 in [-512,496]", v))
	}
	imm := uint32(v) & 0x3ff
	nzimm := bit(int64(imm), 9)<<12 |
		bits(int64(imm), 4, 4)<<6 |
		bits(int64(imm), 6, 6)<<5 |
		bits(int64(imm), 8, 7)<<3 |
		bits(int64(imm), 5, 5)<<2
	word := (riscv.CFunct3Addi16Lui << 13) | nzimm | (regBits(2) << 7) | riscv.CQuadrant1
	return uint16(word), nil
}

var cbFunct2 = map[string]uint32{
	"c.srli": riscv.CFunct2Srli,
	"c.srai": riscv.CFunct2Srai,
	"c.andi": riscv.CFunct2Andi,
}

// encodeCB packs c.srli/c.srai/c.andi, each operating in place on a
// compressed rd/rs1.
func encodeCB(inst *parser.Instruction) (uint16, error) {
	if !riscv.IsCompressedRegister(inst.Rd.Value) {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s requires rd/rs1 in x8-x15", inst.Mnemonic))
	}
	f2 := cbFunct2[inst.Mnemonic]

	var imm uint32
	switch inst.Mnemonic {
	case "c.srli", "c.srai":
		if !fitsUnsigned(inst.ImmValue, 6) {
			return 0, NewEncodingError(inst, "shift amount out of range")
		}
		if inst.ImmValue == 0 {
			return 0, NewEncodingError(inst, fmt.Sprintf("%s immediate must be nonzero", inst.Mnemonic))
		}
		imm = uint32(inst.ImmValue) & 0x3f
	case "c.andi":
		if !fitsSigned(inst.ImmValue, 6) {
			return 0, NewEncodingError(inst, "c.andi immediate out of range")
		}
		imm = uint32(inst.ImmValue) & 0x3f
	}

	word := (riscv.CFunct3Alu << 13) | (bit(int64(imm), 5) << 12) | (f2 << 10) |
		(riscv.CompressedField(inst.Rd.Value) << 7) | ((imm & 0x1f) << 2) | riscv.CQuadrant1
	return uint16(word), nil
}

var caFunct2 = map[string]uint32{
	"c.sub": riscv.CAFunct2Sub,
	"c.xor": riscv.CAFunct2Xor,
	"c.or":  riscv.CAFunct2Or,
	"c.and": riscv.CAFunct2And,
}

// encodeCA packs the register-register compressed ALU ops: c.sub/c.xor/c.or/c.and.
func encodeCA(inst *parser.Instruction) (uint16, error) {
	if !riscv.IsCompressedRegister(inst.Rd.Value) {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s requires rd/rs1 in x8-x15", inst.Mnemonic))
	}
	if !riscv.IsCompressedRegister(inst.Rs2.Value) {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s requires rs2 in x8-x15", inst.Mnemonic))
	}
	inner := caFunct2[inst.Mnemonic]
	word := (riscv.CFunct3Alu << 13) | (riscv.CFunct2Ca << 10) |
		(riscv.CompressedField(inst.Rd.Value) << 7) | (inner << 5) |
		(riscv.CompressedField(inst.Rs2.Value) << 2) | riscv.CQuadrant1
	return uint16(word), nil
}

// encodeCR2 packs c.mv and c.add: funct4 | rd/rs1 | rs2 | op.
func encodeCR2(inst *parser.Instruction) (uint16, error) {
	rd := uint32(inst.Rd.Value)
	rs2 := uint32(inst.Rs2.Value)
	if rd == 0 {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s requires rd != x0", inst.Mnemonic))
	}
	if rs2 == 0 {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s requires rs2 != x0", inst.Mnemonic))
	}
	funct4 := uint32(0x8) // c.mv
	if inst.Mnemonic == "c.add" {
		funct4 = 0x9
	}
	word := (funct4 << 12) | (regBits(rd) << 7) | (regBits(rs2) << 2) | riscv.CQuadrant2
	return uint16(word), nil
}
