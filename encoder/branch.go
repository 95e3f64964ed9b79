package encoder

import (
	"fmt"

	"github.com/rv32tools/rv32asm/parser"
	"github.com/rv32tools/rv32asm/riscv"
)

var branchFunct3 = map[string]uint32{
	"beq":  riscv.Funct3Beq,
	"bne":  riscv.Funct3Bne,
	"blt":  riscv.Funct3Blt,
	"bge":  riscv.Funct3Bge,
	"bltu": riscv.Funct3Bltu,
	"bgeu": riscv.Funct3Bgeu,
}

// encodeBranch packs the B-type family. The 13-bit signed byte offset (LSB
// implicit zero) is scrambled across imm[12|10:5] and imm[4:1|11].
func encodeBranch(inst *parser.Instruction) (uint32, error) {
	f3, ok := branchFunct3[inst.Mnemonic]
	if !ok {
		return 0, fmt.Errorf("unknown branch mnemonic: %s", inst.Mnemonic)
	}
	v := inst.ImmValue
	if v%2 != 0 {
		return 0, NewEncodingError(inst, fmt.Sprintf("branch offset %d must be even", v))
	}
	if !fitsSigned(v, 13) {
		return 0, NewEncodingError(inst, fmt.Sprintf("branch offset %d out of range", v))
	}
	rs1 := uint32(inst.Rs1.Value)
	rs2 := uint32(inst.Rs2.Value)
	word := bit(v, 12)<<31 | bits(v, 10, 5)<<25 | (regBits(rs2) << 20) | (regBits(rs1) << 15) |
		(f3 << 12) | bits(v, 4, 1)<<8 | bit(v, 11)<<7 | riscv.OpBranch
	return word, nil
}

// encodeJal packs the J-type format. The 21-bit signed byte offset is
// scrambled across imm[20|10:1|11|19:12].
func encodeJal(inst *parser.Instruction) (uint32, error) {
	v := inst.ImmValue
	if v%2 != 0 {
		return 0, NewEncodingError(inst, fmt.Sprintf("jal offset %d must be even", v))
	}
	if !fitsSigned(v, 21) {
		return 0, NewEncodingError(inst, fmt.Sprintf("jal offset %d out of range", v))
	}
	rd := uint32(inst.Rd.Value)
	word := bit(v, 20)<<31 | bits(v, 10, 1)<<21 | bit(v, 11)<<20 | bits(v, 19, 12)<<12 |
		(regBits(rd) << 7) | riscv.OpJal
	return word, nil
}

// encodeJalr packs the I-type JALR. By this point any auipc+jalr pairing's
// +4 correction has already been folded into ImmValue upstream.
func encodeJalr(inst *parser.Instruction) (uint32, error) {
	v := inst.ImmValue
	if !fitsSigned(v, 12) {
		return 0, NewEncodingError(inst, fmt.Sprintf("jalr offset %d out of range", v))
	}
	rd := uint32(inst.Rd.Value)
	rs1 := uint32(inst.Rs1.Value)
	imm := uint32(v) & 0xfff
	return (imm << 20) | (regBits(rs1) << 15) | (regBits(rd) << 7) | riscv.OpJalr, nil
}

var cJumpFunct3 = map[string]uint32{
	"c.jal": riscv.CFunct3Jal,
	"c.j":   riscv.CFunct3J,
}

// encodeCJ packs c.jal and c.j: a 12-bit signed byte offset scrambled
// across imm[11|4|9:8|10|6|7|3:1|5].
func encodeCJ(inst *parser.Instruction) (uint16, error) {
	f3, ok := cJumpFunct3[inst.Mnemonic]
	if !ok {
		return 0, fmt.Errorf("unknown compressed jump mnemonic: %s", inst.Mnemonic)
	}
	v := inst.ImmValue
	if v%2 != 0 {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s offset %d must be even", inst.Mnemonic, v))
	}
	if !fitsSigned(v, 12) {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s offset %d out of range", inst.Mnemonic, v))
	}
	imm := bit(v, 11)<<10 | bit(v, 4)<<9 | bits(v, 9, 8)<<7 | bit(v, 10)<<6 |
		bit(v, 6)<<5 | bit(v, 7)<<4 | bits(v, 3, 1)<<1 | bit(v, 5)
	word := (f3 << 13) | (imm << 2) | riscv.CQuadrant1
	return uint16(word), nil
}

var cBranchFunct3 = map[string]uint32{
	"c.beqz": riscv.CFunct3Beqz,
	"c.bnez": riscv.CFunct3Bnez,
}

// encodeCBranch packs c.beqz/c.bnez: an 9-bit signed byte offset scrambled
// across imm[8|4:3] and imm[7:6|2:1|5], with a compressed rs1'.
func encodeCBranch(inst *parser.Instruction) (uint16, error) {
	f3, ok := cBranchFunct3[inst.Mnemonic]
	if !ok {
		return 0, fmt.Errorf("unknown compressed branch mnemonic: %s", inst.Mnemonic)
	}
	if !riscv.IsCompressedRegister(inst.Rs1.Value) {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s requires rs1 in x8-x15", inst.Mnemonic))
	}
	v := inst.ImmValue
	if v%2 != 0 {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s offset %d must be even", inst.Mnemonic, v))
	}
	if !fitsSigned(v, 9) {
		return 0, NewEncodingError(inst, fmt.Sprintf("%s offset %d out of range", inst.Mnemonic, v))
	}
	word := (f3 << 13) | bit(v, 8)<<12 | bits(v, 4, 3)<<10 |
		(riscv.CompressedField(inst.Rs1.Value) << 7) | bits(v, 7, 6)<<5 | bits(v, 2, 1)<<3 |
		bit(v, 5)<<2 | riscv.CQuadrant1
	return uint16(word), nil
}
