package encoder_test

import (
	"errors"
	"testing"

	"github.com/rv32tools/rv32asm/encoder"
	"github.com/rv32tools/rv32asm/parser"
	"github.com/rv32tools/rv32asm/riscv"
)

func reg(n int32) parser.RegRef { return parser.RegRef{Value: n} }

func mustEncode(t *testing.T, inst *parser.Instruction) []byte {
	t.Helper()
	buf, err := encoder.EncodeInstruction(inst)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	return buf
}

func wantRangeViolation(t *testing.T, inst *parser.Instruction) {
	t.Helper()
	_, err := encoder.EncodeInstruction(inst)
	if err == nil {
		t.Fatalf("expected a range/constraint error, got none")
	}
	var ee *encoder.EncodingError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *encoder.EncodingError, got %T: %v", err, err)
	}
}

func TestEncodeAddiBoundary(t *testing.T) {
	cases := []struct {
		name string
		imm  int64
		ok   bool
	}{
		{"zero", 0, true},
		{"max", 2047, true},
		{"min", -2048, true},
		{"just-past-max", 2048, false},
		{"just-past-min", -2049, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inst := &parser.Instruction{Mnemonic: "addi", Rd: reg(31), Rs1: reg(31), ImmValue: tc.imm}
			if tc.ok {
				mustEncode(t, inst)
			} else {
				wantRangeViolation(t, inst)
			}
		})
	}
}

func TestEncodeAddiAllZeroAndMaxRegisters(t *testing.T) {
	zero := mustEncode(t, &parser.Instruction{Mnemonic: "addi", Rd: reg(0), Rs1: reg(0), ImmValue: 0})
	if len(zero) != 4 || zero[0] != 0x13 || zero[1] != 0 || zero[2] != 0 || zero[3] != 0 {
		t.Errorf("expected canonical all-zero nop encoding, got % x", zero)
	}

	maxRegs := mustEncode(t, &parser.Instruction{Mnemonic: "addi", Rd: reg(31), Rs1: reg(31), ImmValue: 0})
	// rd=x31 occupies bits [11:7]=0b11111<<7=0xf80, rs1=x31 bits[19:15]=0b11111<<15=0xf8000
	want := uint32(0xf8000) | uint32(0xf80) | riscv.OpOpImm
	got := uint32(maxRegs[0]) | uint32(maxRegs[1])<<8 | uint32(maxRegs[2])<<16 | uint32(maxRegs[3])<<24
	if got != want {
		t.Errorf("got %#x, want %#x", got, want)
	}
}

func TestEncodeJalBoundary(t *testing.T) {
	cases := []struct {
		name string
		imm  int64
		ok   bool
	}{
		{"zero", 0, true},
		{"max", 1048574, true},  // 2^20 - 2, largest even value fitting 21-bit signed
		{"min", -1048576, true}, // -2^20
		{"odd", 1, false},
		{"just-past-max", 1048576, false},
		{"just-past-min", -1048578, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inst := &parser.Instruction{Mnemonic: "jal", Rd: reg(1), ImmValue: tc.imm}
			if tc.ok {
				mustEncode(t, inst)
			} else {
				wantRangeViolation(t, inst)
			}
		})
	}
}

func TestEncodeBeqBoundary(t *testing.T) {
	cases := []struct {
		name string
		imm  int64
		ok   bool
	}{
		{"zero", 0, true},
		{"max", 4094, true},
		{"min", -4096, true},
		{"odd", 3, false},
		{"just-past-max", 4096, false},
		{"just-past-min", -4098, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inst := &parser.Instruction{Mnemonic: "beq", Rs1: reg(5), Rs2: reg(6), ImmValue: tc.imm}
			if tc.ok {
				mustEncode(t, inst)
			} else {
				wantRangeViolation(t, inst)
			}
		})
	}
}

func TestEncodeJalrBoundaryAndForm(t *testing.T) {
	inst := &parser.Instruction{Mnemonic: "jalr", Rd: reg(1), Rs1: reg(5), ImmValue: -2048}
	mustEncode(t, inst)

	wantRangeViolation(t, &parser.Instruction{Mnemonic: "jalr", Rd: reg(1), Rs1: reg(5), ImmValue: 2048})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "jalr", Rd: reg(1), Rs1: reg(5), ImmValue: -2049})
}

func TestEncodeLuiBoundary(t *testing.T) {
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "lui", Rd: reg(5), ImmValue: 1 << 20})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "lui", Rd: reg(5), ImmValue: -(1 << 20) - 1})
	mustEncode(t, &parser.Instruction{Mnemonic: "lui", Rd: reg(5), ImmValue: (1 << 19) - 1})
	mustEncode(t, &parser.Instruction{Mnemonic: "lui", Rd: reg(5), ImmValue: -(1 << 19)})
}

func TestEncodeLoadStoreBoundary(t *testing.T) {
	mustEncode(t, &parser.Instruction{Mnemonic: "lw", Rd: reg(5), Rs1: reg(6), ImmValue: 2047})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "lw", Rd: reg(5), Rs1: reg(6), ImmValue: 2048})
	mustEncode(t, &parser.Instruction{Mnemonic: "sw", Rs1: reg(6), Rs2: reg(5), ImmValue: -2048})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "sw", Rs1: reg(6), Rs2: reg(5), ImmValue: -2049})
}

func TestEncodeFenceBoundary(t *testing.T) {
	mustEncode(t, &parser.Instruction{Mnemonic: "fence", ImmValue: 15, ImmValue2: 15})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "fence", ImmValue: 16, ImmValue2: 0})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "fence", ImmValue: 0, ImmValue2: -1})
}

func TestEncodeSystemInstructions(t *testing.T) {
	ecall := mustEncode(t, &parser.Instruction{Mnemonic: "ecall"})
	ebreak := mustEncode(t, &parser.Instruction{Mnemonic: "ebreak"})
	// both share the SYSTEM opcode (0x73) in the little-endian low byte;
	// they differ only in the imm[11:0] field occupying bits [31:20].
	if ecall[0] != 0x73 || ebreak[0] != 0x73 {
		t.Errorf("expected SYSTEM opcode 0x73 in the low byte, got ecall=% x ebreak=% x", ecall, ebreak)
	}
	if ecall[1] != 0 || ecall[2] != 0 || ecall[3] != 0 {
		t.Errorf("expected ecall's imm field all-zero, got % x", ecall)
	}
	if ebreak[2] != 0x10 || ebreak[3] != 0 {
		t.Errorf("expected ebreak's imm=1 to land at bit 20 (byte2=0x10), got % x", ebreak)
	}
}

func TestEncodeCompressedAddiNonzeroConstraint(t *testing.T) {
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.addi", Rd: reg(5), Rs1: reg(5), ImmValue: 0, Compressed: true})
	mustEncode(t, &parser.Instruction{Mnemonic: "c.addi", Rd: reg(5), Rs1: reg(5), ImmValue: 1, Compressed: true})
}

func TestEncodeCompressedLuiConstraints(t *testing.T) {
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.lui", Rd: reg(0), ImmValue: 1, Compressed: true})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.lui", Rd: reg(2), ImmValue: 1, Compressed: true})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.lui", Rd: reg(5), ImmValue: 0, Compressed: true})
	mustEncode(t, &parser.Instruction{Mnemonic: "c.lui", Rd: reg(5), ImmValue: 1, Compressed: true})
}

func TestEncodeCompressedJrJalrRequireNonzeroRs1(t *testing.T) {
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.jr", Rs1: reg(0), Compressed: true})
	mustEncode(t, &parser.Instruction{Mnemonic: "c.jr", Rs1: reg(1), Compressed: true})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.jalr", Rs1: reg(0), Compressed: true})
	mustEncode(t, &parser.Instruction{Mnemonic: "c.jalr", Rs1: reg(1), Compressed: true})
}

func TestEncodeCompressedMvAddRequireNonzeroRs2(t *testing.T) {
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.mv", Rd: reg(5), Rs2: reg(0), Compressed: true})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.add", Rd: reg(5), Rs1: reg(5), Rs2: reg(0), Compressed: true})
	mustEncode(t, &parser.Instruction{Mnemonic: "c.mv", Rd: reg(5), Rs2: reg(6), Compressed: true})
}

func TestEncodeCompressedLwRequiresCompressedRegisterWindow(t *testing.T) {
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.lw", Rd: reg(5), Rs1: reg(8), ImmValue: 0, Compressed: true})
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.lw", Rd: reg(1), Rs1: reg(9), ImmValue: 0, Compressed: true})
	mustEncode(t, &parser.Instruction{Mnemonic: "c.lw", Rd: reg(8), Rs1: reg(9), ImmValue: 4, Compressed: true})
}

func TestEncodeCompressedLwMisalignedOffset(t *testing.T) {
	wantRangeViolation(t, &parser.Instruction{Mnemonic: "c.lw", Rd: reg(8), Rs1: reg(9), ImmValue: 2, Compressed: true})
}

func TestEncodeUnknownMnemonic(t *testing.T) {
	_, err := encoder.EncodeInstruction(&parser.Instruction{Mnemonic: "frobnicate"})
	if err == nil {
		t.Fatal("expected an error for an unrecognized mnemonic")
	}
}

func TestEncodeCompressedWordWidth(t *testing.T) {
	buf := mustEncode(t, &parser.Instruction{Mnemonic: "c.addi", Rd: reg(5), Rs1: reg(5), ImmValue: 1, Compressed: true})
	if len(buf) != 2 {
		t.Errorf("expected a 2-byte compressed word, got %d bytes", len(buf))
	}
}

func TestEncodeBaseWordWidth(t *testing.T) {
	buf := mustEncode(t, &parser.Instruction{Mnemonic: "addi", Rd: reg(5), Rs1: reg(5), ImmValue: 1})
	if len(buf) != 4 {
		t.Errorf("expected a 4-byte base word, got %d bytes", len(buf))
	}
}
