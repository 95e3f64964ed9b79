// Package encoder packs resolved Instruction items into RV32IMAC machine
// code. By the time EncodeInstruction runs, every register alias and
// immediate has already been resolved by the assembler package's §4.6/§4.9
// passes -- Rd/Rs1/Rs2 carry concrete register indices and ImmValue/
// ImmValue2 carry concrete integers. Encoding is therefore pure bit packing
// and range checking, no symbol lookups.
package encoder

import (
	"encoding/binary"
	"fmt"

	"github.com/rv32tools/rv32asm/parser"
)

// EncodeInstruction packs inst into its little-endian byte form: 4 bytes for
// a base instruction, 2 for a compressed one.
func EncodeInstruction(inst *parser.Instruction) ([]byte, error) {
	if inst.Compressed {
		word, err := encodeCompressed(inst)
		if err != nil {
			return nil, WrapEncodingError(inst, err)
		}
		buf := make([]byte, CompressedWordSize)
		binary.LittleEndian.PutUint16(buf, word)
		return buf, nil
	}

	word, err := encodeBase(inst)
	if err != nil {
		return nil, WrapEncodingError(inst, err)
	}
	buf := make([]byte, WordSize)
	binary.LittleEndian.PutUint32(buf, word)
	return buf, nil
}

// encodeBase dispatches every non-compressed mnemonic to its per-format
// encoder, following the same switch-by-mnemonic EncodeInstruction shape
// used throughout this package.
func encodeBase(inst *parser.Instruction) (uint32, error) {
	switch inst.Mnemonic {
	case "add", "sub", "sll", "slt", "sltu", "xor", "srl", "sra", "or", "and",
		"mul", "mulh", "mulhsu", "mulhu", "div", "divu", "rem", "remu":
		return encodeR(inst)

	case "addi", "slti", "sltiu", "xori", "ori", "andi", "slli", "srli", "srai":
		return encodeOpImm(inst)

	case "lb", "lh", "lw", "lbu", "lhu":
		return encodeLoad(inst)

	case "sb", "sh", "sw":
		return encodeStore(inst)

	case "beq", "bne", "blt", "bge", "bltu", "bgeu":
		return encodeBranch(inst)

	case "lui", "auipc":
		return encodeU(inst)

	case "jal":
		return encodeJal(inst)

	case "jalr":
		return encodeJalr(inst)

	case "fence":
		return encodeFence(inst)

	case "ecall", "ebreak":
		return encodeSystem(inst)

	case "lr.w":
		return encodeAtomicLR(inst)

	case "sc.w", "amoswap.w", "amoadd.w", "amoxor.w", "amoand.w", "amoor.w",
		"amomin.w", "amomax.w", "amominu.w", "amomaxu.w":
		return encodeAtomicRMW(inst)

	default:
		return 0, fmt.Errorf("unknown instruction: %s", inst.Mnemonic)
	}
}

// encodeCompressed dispatches every compressed mnemonic.
func encodeCompressed(inst *parser.Instruction) (uint16, error) {
	switch inst.Mnemonic {
	case "c.addi4spn":
		return encodeCIW(inst)
	case "c.lw":
		return encodeCL(inst)
	case "c.sw":
		return encodeCS(inst)
	case "c.addi", "c.slli":
		return encodeCIArith(inst)
	case "c.jal", "c.j":
		return encodeCJ(inst)
	case "c.li", "c.lui":
		return encodeCIImmOnly(inst)
	case "c.addi16sp":
		return encodeCAddi16sp(inst)
	case "c.srli", "c.srai", "c.andi":
		return encodeCB(inst)
	case "c.sub", "c.xor", "c.or", "c.and":
		return encodeCA(inst)
	case "c.beqz", "c.bnez":
		return encodeCBranch(inst)
	case "c.lwsp":
		return encodeCLwsp(inst)
	case "c.swsp":
		return encodeCSwsp(inst)
	case "c.jr", "c.jalr":
		return encodeCR1(inst)
	case "c.mv", "c.add":
		return encodeCR2(inst)

	default:
		return 0, fmt.Errorf("unknown compressed instruction: %s", inst.Mnemonic)
	}
}

// --- shared bit helpers ---

func bit(v int64, n uint) uint32 {
	return uint32((v >> n) & 1)
}

func bits(v int64, hi, lo uint) uint32 {
	mask := int64(1)<<(hi-lo+1) - 1
	return uint32((v >> lo) & mask)
}

func regBits(r uint32) uint32 { return r & 0x1f }
