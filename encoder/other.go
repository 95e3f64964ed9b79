package encoder

import (
	"fmt"

	"github.com/rv32tools/rv32asm/parser"
	"github.com/rv32tools/rv32asm/riscv"
)

// encodeU packs LUI and AUIPC: imm[31:12] | rd | opcode. ImmValue is already
// the raw 20-bit upper-immediate value (the output of a %hi computation or a
// literal), not a value still needing a shift.
func encodeU(inst *parser.Instruction) (uint32, error) {
	if !fitsSigned(inst.ImmValue, 20) {
		return 0, NewEncodingError(inst, fmt.Sprintf("upper immediate %d out of range for %s", inst.ImmValue, inst.Mnemonic))
	}
	opcode := riscv.OpLui
	if inst.Mnemonic == "auipc" {
		opcode = riscv.OpAuipc
	}
	imm := uint32(inst.ImmValue) & 0xfffff
	rd := uint32(inst.Rd.Value)
	return (imm << 12) | (regBits(rd) << 7) | opcode, nil
}

// encodeFence packs FENCE's two 4-bit nibbles: fm=0 | pred | succ | rs1=0 |
// funct3=0 | rd=0 | opcode.
func encodeFence(inst *parser.Instruction) (uint32, error) {
	if !fitsUnsigned(inst.ImmValue, 4) {
		return 0, NewEncodingError(inst, fmt.Sprintf("fence pred %d out of range [0,15]", inst.ImmValue))
	}
	if !fitsUnsigned(inst.ImmValue2, 4) {
		return 0, NewEncodingError(inst, fmt.Sprintf("fence succ %d out of range [0,15]", inst.ImmValue2))
	}
	pred := uint32(inst.ImmValue) & 0xf
	succ := uint32(inst.ImmValue2) & 0xf
	return (pred << 24) | (succ << 20) | riscv.OpMisc, nil
}

// encodeSystem packs ECALL and EBREAK, both all-zero apart from the
// instruction-selecting 12-bit immediate.
func encodeSystem(inst *parser.Instruction) (uint32, error) {
	imm := riscv.SystemEcall
	if inst.Mnemonic == "ebreak" {
		imm = riscv.SystemEbreak
	}
	return (imm << 20) | riscv.OpSystem, nil
}

var cr1Funct4 = map[string]uint32{
	"c.jr":   0x8,
	"c.jalr": 0x9,
}

// encodeCR1 packs c.jr and c.jalr: funct4 | rs1 | rs2=0 | op.
func encodeCR1(inst *parser.Instruction) (uint16, error) {
	f4, ok := cr1Funct4[inst.Mnemonic]
	if !ok {
		return 0, fmt.Errorf("unknown compressed jump-register mnemonic: %s", inst.Mnemonic)
	}
	rs1 := uint32(inst.Rs1.Value)
	if rs1 == 0 {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s requires rs1 != x0", inst.Mnemonic))
	}
	word := (f4 << 12) | (regBits(rs1) << 7) | riscv.CQuadrant2
	return uint16(word), nil
}
