package riscv_test

import (
	"testing"

	"github.com/rv32tools/rv32asm/riscv"
)

func TestSignExtendTwosComplement(t *testing.T) {
	cases := []struct {
		name string
		v    int64
		n    uint
		want int64
	}{
		{"12-bit positive", 0x7ff, 12, 0x7ff},
		{"12-bit negative top bit", 0x800, 12, -2048},
		{"12-bit all-ones", 0xfff, 12, -1},
		{"20-bit positive", 0x7ffff, 20, 0x7ffff},
		{"20-bit negative top bit", 0x80000, 20, -524288},
		{"1-bit zero", 0, 1, 0},
		{"1-bit one", 1, 1, -1},
		{"32-bit max positive", 0x7fffffff, 32, 0x7fffffff},
		{"32-bit min negative", 0x80000000, 32, -2147483648},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := riscv.SignExtend(tc.v, tc.n); got != tc.want {
				t.Errorf("SignExtend(%#x, %d) = %d, want %d", tc.v, tc.n, got, tc.want)
			}
		})
	}
}

func TestRelocateHiLoRoundTrip(t *testing.T) {
	values := []int64{
		0, 1, -1, 0x1000, -0x1000, 0x7ff, -0x800, 0x800, -0x801,
		0x20000000, 0x2000000C, -0x20000000, 0x7fffffff, -0x80000000,
		0xdeadbeef, 0x12345678,
	}
	for _, v := range values {
		hi := riscv.RelocateHi(v)
		lo := riscv.RelocateLo(v)
		got := riscv.SignExtend((hi<<12)+lo, 32)
		want := riscv.SignExtend(v, 32)
		if got != want {
			t.Errorf("value %#x: (hi<<12)+lo reconstructed to %#x, want %#x (hi=%d lo=%d)", v, got, want, hi, lo)
		}
	}
}

func TestRelocateLoRange(t *testing.T) {
	values := []int64{0, 1, -1, 0x7fffffff, -0x80000000, 0xdeadbeef, 0x12345678, -0x20000000}
	for _, v := range values {
		lo := riscv.RelocateLo(v)
		if lo < -2048 || lo > 2047 {
			t.Errorf("RelocateLo(%#x) = %d, out of [-2048, 2047]", v, lo)
		}
	}
}

func TestRelocateHiRange(t *testing.T) {
	values := []int64{0, 1, -1, 0x7fffffff, -0x80000000, 0xdeadbeef, 0x12345678, -0x20000000}
	for _, v := range values {
		hi := riscv.RelocateHi(v)
		if hi < -0x80000 || hi > 0x7ffff {
			t.Errorf("RelocateHi(%#x) = %d, out of [-0x80000, 0x7ffff]", v, hi)
		}
	}
}

func TestLookupRegisterNumeralFallback(t *testing.T) {
	cases := []struct {
		tok  string
		want int32
	}{
		{"0", 0}, {"10", 10}, {"31", 31}, {"0xa", 10}, {"0b1010", 10}, {"0o12", 10},
	}
	for _, tc := range cases {
		got, ok := riscv.LookupRegister(tc.tok)
		if !ok || got != tc.want {
			t.Errorf("LookupRegister(%q) = (%d, %v), want (%d, true)", tc.tok, got, ok, tc.want)
		}
	}
}

func TestLookupRegisterNumeralOutOfRange(t *testing.T) {
	for _, tok := range []string{"32", "-1", "99"} {
		if _, ok := riscv.LookupRegister(tok); ok {
			t.Errorf("LookupRegister(%q) unexpectedly resolved, want out of range", tok)
		}
	}
}

func TestIsCompressedRegisterWindow(t *testing.T) {
	for r := int32(0); r < 32; r++ {
		want := r >= 8 && r <= 15
		if got := riscv.IsCompressedRegister(r); got != want {
			t.Errorf("IsCompressedRegister(%d) = %v, want %v", r, got, want)
		}
	}
}

func TestCompressedFieldEncodesOffsetFromX8(t *testing.T) {
	cases := map[int32]uint32{8: 0, 9: 1, 14: 6, 15: 7}
	for reg, want := range cases {
		if got := riscv.CompressedField(reg); got != want {
			t.Errorf("CompressedField(%d) = %d, want %d", reg, got, want)
		}
	}
}
