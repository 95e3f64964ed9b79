// Package riscv holds the RV32IMAC register tables and the bit-layout
// constants shared between the parser and the encoder packages.
package riscv

import "strconv"

// NumRegisters is the size of the integer register file.
const NumRegisters = 32

// abiNames maps the ABI mnemonic to its x-register index.
var abiNames = map[string]int32{
	"zero": 0,
	"ra":   1,
	"sp":   2,
	"gp":   3,
	"tp":   4,
	"t0":   5,
	"t1":   6,
	"t2":   7,
	"s0":   8,
	"fp":   8,
	"s1":   9,
	"a0":   10,
	"a1":   11,
	"a2":   12,
	"a3":   13,
	"a4":   14,
	"a5":   15,
	"a6":   16,
	"a7":   17,
	"s2":   18,
	"s3":   19,
	"s4":   20,
	"s5":   21,
	"s6":   22,
	"s7":   23,
	"s8":   24,
	"s9":   25,
	"s10":  26,
	"s11":  27,
	"t3":   28,
	"t4":   29,
	"t5":   30,
	"t6":   31,
}

// LookupRegister resolves a register name, a bare "x<n>" form, or a bare
// numeral (decimal, 0x hex, 0b binary, or 0-prefixed octal, via base-0
// integer literal parsing) to an x-register index in [0, NumRegisters). The
// second return value is false if name does not denote a register at all.
func LookupRegister(name string) (int32, bool) {
	if idx, ok := abiNames[name]; ok {
		return idx, true
	}
	if len(name) >= 2 && (name[0] == 'x' || name[0] == 'X') {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 0 && n < NumRegisters {
			return int32(n), true
		}
	}
	if n, err := strconv.ParseInt(name, 0, 64); err == nil && n >= 0 && n < NumRegisters {
		return int32(n), true
	}
	return 0, false
}

// IsRegisterName reports whether name is any spelling of a register,
// independent of whether it is also syntactically a valid integer.
func IsRegisterName(name string) bool {
	_, ok := LookupRegister(name)
	return ok
}

// IsCompressedRegister reports whether reg falls in the x8..x15 window that
// the C extension's 3-bit compressed register fields can address.
func IsCompressedRegister(reg int32) bool {
	return reg >= 8 && reg <= 15
}

// CompressedField packs reg into the 3-bit compressed register field.
// Callers must have already validated IsCompressedRegister(reg).
func CompressedField(reg int32) uint32 {
	return uint32(reg-8) & 0x7
}

// SignExtend interprets the low n bits of v as a two's-complement integer.
func SignExtend(v int64, n uint) int64 {
	mask := int64(1) << n
	v &= mask - 1
	if v&(mask>>1) != 0 {
		v -= mask
	}
	return v
}

// RelocateHi computes the 20-bit upper immediate (%hi) such that
// (RelocateHi(v) << 12) + RelocateLo(v), truncated to 32 bits, equals
// SignExtend(v, 32).
func RelocateHi(v int64) int64 {
	v = SignExtend(v, 32)
	lo := RelocateLo(v)
	return SignExtend((v-lo)>>12, 20)
}

// RelocateLo computes the sign-extending 12-bit lower immediate (%lo).
func RelocateLo(v int64) int64 {
	v = SignExtend(v, 32)
	return SignExtend(v&0xfff, 12)
}
