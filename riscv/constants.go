package riscv

// Base (32-bit) opcode field values, bits [6:0]. Reproduced from the
// RV32IMAC instruction set manual.
const (
	OpLoad   uint32 = 0b0000011
	OpMisc   uint32 = 0b0001111 // MISC-MEM: FENCE
	OpOpImm  uint32 = 0b0010011
	OpAuipc  uint32 = 0b0010111
	OpStore  uint32 = 0b0100011
	OpAmo    uint32 = 0b0101111
	OpOp     uint32 = 0b0110011
	OpLui    uint32 = 0b0110111
	OpBranch uint32 = 0b1100011
	OpJalr   uint32 = 0b1100111
	OpJal    uint32 = 0b1101111
	OpSystem uint32 = 0b1110011
)

// OP-IMM / OP funct3 values.
const (
	Funct3Addi  uint32 = 0x0 // also ADD/SUB
	Funct3Slli  uint32 = 0x1 // also SLL
	Funct3Slti  uint32 = 0x2 // also SLT
	Funct3Sltiu uint32 = 0x3 // also SLTU
	Funct3Xori  uint32 = 0x4 // also XOR
	Funct3Srli  uint32 = 0x5 // also SRL/SRA
	Funct3Ori   uint32 = 0x6 // also OR
	Funct3Andi  uint32 = 0x7 // also AND
)

// funct7 discriminators for the ADD/SUB and SRL/SRA pairs, and the M
// extension's funct7=0x01 block.
const (
	Funct7Zero  uint32 = 0x00
	Funct7Alt   uint32 = 0x20 // SUB, SRA
	Funct7MulDiv uint32 = 0x01
)

// M extension funct3 values (funct7 always Funct7MulDiv).
const (
	Funct3Mul    uint32 = 0x0
	Funct3Mulh   uint32 = 0x1
	Funct3Mulhsu uint32 = 0x2
	Funct3Mulhu  uint32 = 0x3
	Funct3Div    uint32 = 0x4
	Funct3Divu   uint32 = 0x5
	Funct3Rem    uint32 = 0x6
	Funct3Remu   uint32 = 0x7
)

// LOAD funct3 values.
const (
	Funct3Lb  uint32 = 0x0
	Funct3Lh  uint32 = 0x1
	Funct3Lw  uint32 = 0x2
	Funct3Lbu uint32 = 0x4
	Funct3Lhu uint32 = 0x5
)

// STORE funct3 values.
const (
	Funct3Sb uint32 = 0x0
	Funct3Sh uint32 = 0x1
	Funct3Sw uint32 = 0x2
)

// BRANCH funct3 values.
const (
	Funct3Beq  uint32 = 0x0
	Funct3Bne  uint32 = 0x1
	Funct3Blt  uint32 = 0x4
	Funct3Bge  uint32 = 0x5
	Funct3Bltu uint32 = 0x6
	Funct3Bgeu uint32 = 0x7
)

// AMO (A extension) funct5 values, packed at bits[31:27] of funct7.
const (
	Funct5AmoAdd  uint32 = 0x00
	Funct5AmoSwap uint32 = 0x01
	Funct5Lr      uint32 = 0x02
	Funct5Sc      uint32 = 0x03
	Funct5AmoXor  uint32 = 0x04
	Funct5AmoOr   uint32 = 0x08
	Funct5AmoAnd  uint32 = 0x0C
	Funct5AmoMin  uint32 = 0x10
	Funct5AmoMax  uint32 = 0x14
	Funct5AmoMinu uint32 = 0x18
	Funct5AmoMaxu uint32 = 0x1C
)

// AmoFunct3 is the funct3 shared by every word-width AMO/LR/SC instruction.
const AmoFunct3 uint32 = 0x2

// SYSTEM immediates for ECALL/EBREAK (both rd=rs1=0, funct3=0).
const (
	SystemEcall  uint32 = 0x000
	SystemEbreak uint32 = 0x001
)

// --- Compressed (C extension) field values ---
//
// Every 16-bit instruction's low 2 bits select a quadrant (op); funct3
// occupies bits [15:13]. Within quadrants 1 and 2 several mnemonics share a
// funct3 and are disambiguated by register/immediate fields (funct2, funct6,
// or rd/rs2 being zero) -- that disambiguation lives in the encoder, these
// are just the raw field constants.
const (
	CQuadrant0 uint32 = 0b00
	CQuadrant1 uint32 = 0b01
	CQuadrant2 uint32 = 0b10
)

const (
	CFunct3Addi4spn uint32 = 0b000 // quadrant 0, CIW
	CFunct3Lw       uint32 = 0b010 // quadrant 0, CL
	CFunct3Sw       uint32 = 0b110 // quadrant 0, CS

	CFunct3Addi      uint32 = 0b000 // quadrant 1, CI
	CFunct3Jal       uint32 = 0b001 // quadrant 1, CJ (RV32 only)
	CFunct3Li        uint32 = 0b010 // quadrant 1, CI
	CFunct3Addi16Lui uint32 = 0b011 // quadrant 1, CI-like (rd==2 => addi16sp, else lui)
	CFunct3Alu       uint32 = 0b100 // quadrant 1, CB/CA family
	CFunct3J         uint32 = 0b101 // quadrant 1, CJ
	CFunct3Beqz      uint32 = 0b110 // quadrant 1, CB
	CFunct3Bnez      uint32 = 0b111 // quadrant 1, CB

	CFunct3Slli  uint32 = 0b000 // quadrant 2, CI
	CFunct3Lwsp  uint32 = 0b010 // quadrant 2, CI-like
	CFunct3JrMv  uint32 = 0b100 // quadrant 2, CR family (jr/mv/jalr/add/ebreak)
	CFunct3Swsp  uint32 = 0b110 // quadrant 2, CSS
)

// funct2 values within the quadrant-1 funct3=100 ALU family.
const (
	CFunct2Srli uint32 = 0b00 // CB, shamt in imm field
	CFunct2Srai uint32 = 0b01 // CB
	CFunct2Andi uint32 = 0b10 // CB, immediate
	CFunct2Ca   uint32 = 0b11 // CA: register-register op, disambiguated by inner funct2
)

// inner funct2 values within the CA (register-register) encoding.
const (
	CAFunct2Sub uint32 = 0b00
	CAFunct2Xor uint32 = 0b01
	CAFunct2Or  uint32 = 0b10
	CAFunct2And uint32 = 0b11
)
