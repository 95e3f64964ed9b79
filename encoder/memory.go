package encoder

import (
	"fmt"

	"github.com/rv32tools/rv32asm/parser"
	"github.com/rv32tools/rv32asm/riscv"
)

var loadFunct3 = map[string]uint32{
	"lb":  riscv.Funct3Lb,
	"lh":  riscv.Funct3Lh,
	"lw":  riscv.Funct3Lw,
	"lbu": riscv.Funct3Lbu,
	"lhu": riscv.Funct3Lhu,
}

// encodeLoad packs the I-type LOAD family: imm[11:0] | rs1 | funct3 | rd | opcode.
func encodeLoad(inst *parser.Instruction) (uint32, error) {
	f3, ok := loadFunct3[inst.Mnemonic]
	if !ok {
		return 0, fmt.Errorf("unknown load mnemonic: %s", inst.Mnemonic)
	}
	if !fitsSigned(inst.ImmValue, 12) {
		return 0, NewEncodingError(inst, fmt.Sprintf("offset %d out of range for %s", inst.ImmValue, inst.Mnemonic))
	}
	imm := uint32(inst.ImmValue) & 0xfff
	rd := uint32(inst.Rd.Value)
	rs1 := uint32(inst.Rs1.Value)
	return (imm << 20) | (regBits(rs1) << 15) | (f3 << 12) | (regBits(rd) << 7) | riscv.OpLoad, nil
}

var storeFunct3 = map[string]uint32{
	"sb": riscv.Funct3Sb,
	"sh": riscv.Funct3Sh,
	"sw": riscv.Funct3Sw,
}

// encodeStore packs the S-type STORE family, splitting the immediate across
// the two field groups imm[11:5] and imm[4:0].
func encodeStore(inst *parser.Instruction) (uint32, error) {
	f3, ok := storeFunct3[inst.Mnemonic]
	if !ok {
		return 0, fmt.Errorf("unknown store mnemonic: %s", inst.Mnemonic)
	}
	if !fitsSigned(inst.ImmValue, 12) {
		return 0, NewEncodingError(inst, fmt.Sprintf("offset %d out of range for %s", inst.ImmValue, inst.Mnemonic))
	}
	imm := inst.ImmValue
	rs1 := uint32(inst.Rs1.Value)
	rs2 := uint32(inst.Rs2.Value)
	return (bits(imm, 11, 5) << 25) | (regBits(rs2) << 20) | (regBits(rs1) << 15) |
		(f3 << 12) | (bits(imm, 4, 0) << 7) | riscv.OpStore, nil
}

// encodeAtomicLR packs LR.W: funct5=Lr, rs2 field forced to zero, aq/rl
// occupy the low two bits of funct7.
func encodeAtomicLR(inst *parser.Instruction) (uint32, error) {
	funct7 := (riscv.Funct5Lr << 2) | (uint32(inst.Aq) << 1) | uint32(inst.Rl)
	rd := uint32(inst.Rd.Value)
	rs1 := uint32(inst.Rs1.Value)
	return (funct7 << 25) | (regBits(rs1) << 15) | (riscv.AmoFunct3 << 12) |
		(regBits(rd) << 7) | riscv.OpAmo, nil
}

var amoFunct5 = map[string]uint32{
	"sc.w":       riscv.Funct5Sc,
	"amoswap.w":  riscv.Funct5AmoSwap,
	"amoadd.w":   riscv.Funct5AmoAdd,
	"amoxor.w":   riscv.Funct5AmoXor,
	"amoand.w":   riscv.Funct5AmoAnd,
	"amoor.w":    riscv.Funct5AmoOr,
	"amomin.w":   riscv.Funct5AmoMin,
	"amomax.w":   riscv.Funct5AmoMax,
	"amominu.w":  riscv.Funct5AmoMinu,
	"amomaxu.w":  riscv.Funct5AmoMaxu,
}

// encodeAtomicRMW packs the remaining AMO family, all sharing rd/rs1/rs2.
func encodeAtomicRMW(inst *parser.Instruction) (uint32, error) {
	f5, ok := amoFunct5[inst.Mnemonic]
	if !ok {
		return 0, fmt.Errorf("unknown atomic mnemonic: %s", inst.Mnemonic)
	}
	funct7 := (f5 << 2) | (uint32(inst.Aq) << 1) | uint32(inst.Rl)
	rd := uint32(inst.Rd.Value)
	rs1 := uint32(inst.Rs1.Value)
	rs2 := uint32(inst.Rs2.Value)
	return (funct7 << 25) | (regBits(rs2) << 20) | (regBits(rs1) << 15) |
		(riscv.AmoFunct3 << 12) | (regBits(rd) << 7) | riscv.OpAmo, nil
}

// --- compressed memory family: CIW (c.addi4spn), CL (c.lw), CS (c.sw),
// CI-like stack loads/stores (c.lwsp, c.swsp) ---

// encodeCIW packs c.addi4spn: an implicit base of sp (x2) and a compressed
// destination register, scrambled nzuimm[5:4|9:6|2|3].
func encodeCIW(inst *parser.Instruction) (uint16, error) {
	if !riscv.IsCompressedRegister(inst.Rd.Value) {
		return 0, NewEncodingError(inst, "c.addi4spn requires rd in x8-x15")
	}
	v := inst.ImmValue
	if v == 0 {
		return 0, NewEncodingError(inst, "c.addi4spn immediate must be nonzero")
	}
	if v%4 != 0 || !fitsUnsigned(v, 10) {
		return 0, NewEncodingError(inst, fmt.Sprintf("c.addi4spn immediate %d must be a multiple of 4 in [4,1020]", v))
	}
	nzuimm := bits(v, 5, 4)<<11 | bits(v, 9, 6)<<7 | bit(v, 2)<<6 | bit(v, 3)<<5
	word := (riscv.CFunct3Addi4spn << 13) | nzuimm | (riscv.CompressedField(inst.Rd.Value) << 2) | riscv.CQuadrant0
	return uint16(word), nil
}

// encodeCL packs c.lw: scrambled offset uimm[5:3|2|6], compressed rs1'/rd'.
func encodeCL(inst *parser.Instruction) (uint16, error) {
	if !riscv.IsCompressedRegister(inst.Rs1.Value) || !riscv.IsCompressedRegister(inst.Rd.Value) {
		return 0, NewEncodingError(inst, "c.lw requires registers in x8-x15")
	}
	v := inst.ImmValue
	if v%4 != 0 || !fitsUnsigned(v, 7) {
		return 0, NewEncodingError(inst, fmt.Sprintf("c.lw offset %d must be a multiple of 4 in [0,124]", v))
	}
	word := (riscv.CFunct3Lw << 13) | bits(v, 5, 3)<<10 | (riscv.CompressedField(inst.Rs1.Value) << 7) |
		bit(v, 2)<<6 | bit(v, 6)<<5 | (riscv.CompressedField(inst.Rd.Value) << 2) | riscv.CQuadrant0
	return uint16(word), nil
}

// encodeCS packs c.sw: same layout as c.lw with the value register in the
// CL destination field.
func encodeCS(inst *parser.Instruction) (uint16, error) {
	if !riscv.IsCompressedRegister(inst.Rs1.Value) || !riscv.IsCompressedRegister(inst.Rs2.Value) {
		return 0, NewEncodingError(inst, "c.sw requires registers in x8-x15")
	}
	v := inst.ImmValue
	if v%4 != 0 || !fitsUnsigned(v, 7) {
		return 0, NewEncodingError(inst, fmt.Sprintf("c.sw offset %d must be a multiple of 4 in [0,124]", v))
	}
	word := (riscv.CFunct3Sw << 13) | bits(v, 5, 3)<<10 | (riscv.CompressedField(inst.Rs1.Value) << 7) |
		bit(v, 2)<<6 | bit(v, 6)<<5 | (riscv.CompressedField(inst.Rs2.Value) << 2) | riscv.CQuadrant0
	return uint16(word), nil
}

// encodeCLwsp packs c.lwsp: full 5-bit rd, implicit sp base, scrambled
// offset uimm[5|4:2|7:6].
func encodeCLwsp(inst *parser.Instruction) (uint16, error) {
	rd := uint32(inst.Rd.Value)
	if rd == 0 {
		return 0, NewEncodingError(inst, "c.lwsp requires rd != x0")
	}
	v := inst.ImmValue
	if v%4 != 0 || !fitsUnsigned(v, 8) {
		return 0, NewEncodingError(inst, fmt.Sprintf("c.lwsp offset %d must be a multiple of 4 in [0,252]", v))
	}
	word := (riscv.CFunct3Lwsp << 13) | bit(v, 5)<<12 | (regBits(rd) << 7) |
		bits(v, 4, 2)<<4 | bits(v, 7, 6)<<2 | riscv.CQuadrant2
	return uint16(word), nil
}

// encodeCSwsp packs c.swsp: full 5-bit rs2, implicit sp base, scrambled
// offset uimm[5:2|7:6].
func encodeCSwsp(inst *parser.Instruction) (uint16, error) {
	v := inst.ImmValue
	if v%4 != 0 || !fitsUnsigned(v, 8) {
		return 0, NewEncodingError(inst, fmt.Sprintf("c.swsp offset %d must be a multiple of 4 in [0,252]", v))
	}
	rs2 := uint32(inst.Rs2.Value)
	word := (riscv.CFunct3Swsp << 13) | bits(v, 5, 2)<<9 | bits(v, 7, 6)<<7 |
		(regBits(rs2) << 2) | riscv.CQuadrant2
	return uint16(word), nil
}
