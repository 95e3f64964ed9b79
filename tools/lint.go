// Package tools provides pre-assembly static analysis: a linter that
// surfaces common mistakes (unreachable code, discarded results, unknown
// mnemonics) without requiring a full, successful assemble.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rv32tools/rv32asm/parser"
)

// LintLevel is the severity of a lint finding.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
)

func (l LintLevel) String() string {
	if l == LintError {
		return "error"
	}
	return "warning"
}

// LintIssue is a single finding, anchored at the source line it came from.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// knownMnemonics is every base and pseudo mnemonic parseInstruction
// recognizes (the c.* compressed forms are not listed), used only to
// suggest a correction for an unrecognized one.
var knownMnemonics = []string{
	"add", "sub", "sll", "slt", "sltu", "xor", "srl", "sra", "or", "and",
	"mul", "mulh", "mulhsu", "mulhu", "div", "divu", "rem", "remu",
	"addi", "slti", "sltiu", "xori", "ori", "andi", "slli", "srli", "srai",
	"lb", "lh", "lw", "lbu", "lhu", "sb", "sh", "sw",
	"beq", "bne", "blt", "bge", "bltu", "bgeu",
	"lui", "auipc", "jal", "jalr", "fence", "ecall", "ebreak",
	"lr.w", "sc.w", "amoswap.w", "amoadd.w", "amoxor.w", "amoand.w", "amoor.w",
	"amomin.w", "amomax.w", "amominu.w", "amomaxu.w",
	"nop", "mv", "not", "neg", "seqz", "snez", "sltz", "sgtz",
	"beqz", "bnez", "blez", "bgez", "bltz", "bgtz", "bgt", "ble", "bgtu", "bleu",
	"j", "jr", "ret", "li", "call", "tail",
}

// Lint parses source and reports static issues: unknown mnemonics (with a
// spelling suggestion), writes to x0 outside the canonical nop and
// plain-jump (jal/jalr with rd = x0) idioms, and
// code immediately following an unconditional jump with no label to reach
// it. It does not duplicate the constant/label/range checks the assembler
// pipeline already performs with full positional accuracy; it is meant to
// give fast feedback on a source file that may not even parse yet.
func Lint(filename, source string) []*LintIssue {
	var issues []*LintIssue

	lines := parser.ReadLines(filename, source)
	p := parser.NewParser()
	items := p.Parse(lines)

	for _, e := range p.Errors().Errors {
		msg := e.Message
		if suggestion := suggestMnemonic(msg); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		issues = append(issues, &LintIssue{Level: LintError, Line: e.Pos.Line, Message: msg, Code: "PARSE_ERROR"})
	}

	issues = append(issues, checkZeroRegisterWrites(items)...)
	issues = append(issues, checkUnreachableCode(items)...)

	sort.Slice(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

// suggestMnemonic extracts the quoted mnemonic out of an "unrecognized
// mnemonic: %q" parser error and finds the closest known one, if any.
func suggestMnemonic(parseErr string) string {
	const marker = "unrecognized mnemonic: "
	idx := strings.Index(parseErr, marker)
	if idx < 0 {
		return ""
	}
	bad := strings.Trim(parseErr[idx+len(marker):], `"`)

	best, bestDist := "", 3
	for _, known := range knownMnemonics {
		if d := levenshteinDistance(bad, known); d < bestDist {
			best, bestDist = known, d
		}
	}
	return best
}

// canonicalNop is addi zero, zero, 0 -- the only intentional zero-register
// write this repo's pseudo-expansion emits for "nop".
func isCanonicalNop(inst *parser.Instruction) bool {
	if inst.Mnemonic != "addi" || inst.Rs1.Value != 0 || inst.Imm == nil {
		return false
	}
	arith, ok := inst.Imm.(*parser.Arithmetic)
	return ok && arith.String() == "0"
}

func checkZeroRegisterWrites(items []parser.Item) []*LintIssue {
	var issues []*LintIssue
	for _, item := range items {
		inst, ok := item.(*parser.Instruction)
		if !ok || inst.Rd.Value != 0 || inst.Rd.Alias != "" {
			continue
		}
		if !writesRd(inst.Mnemonic) || isCanonicalNop(inst) {
			continue
		}
		// jal/jalr with rd = x0 is the plain-jump idiom (j, jr, ret).
		if inst.Mnemonic == "jal" || inst.Mnemonic == "jalr" {
			continue
		}
		issues = append(issues, &LintIssue{
			Level:   LintWarning,
			Line:    inst.Line.Number,
			Message: fmt.Sprintf("%s writes to x0, discarding its result", inst.Mnemonic),
			Code:    "ZERO_REG_WRITE",
		})
	}
	return issues
}

func writesRd(mnemonic string) bool {
	switch mnemonic {
	case "beq", "bne", "blt", "bge", "bltu", "bgeu", "sb", "sh", "sw",
		"fence", "ecall", "ebreak", "c.sw", "c.swsp", "c.beqz", "c.bnez", "c.j",
		"c.jal", "c.jr", "c.jalr", "c.addi16sp":
		return false
	}
	return true
}

// checkUnreachableCode warns about any item immediately following an
// unconditional jal/c.j with no label to reach it, mirroring the "dead code
// after a jump" check every assembler-adjacent linter in this domain makes.
func checkUnreachableCode(items []parser.Item) []*LintIssue {
	var issues []*LintIssue
	for idx, item := range items {
		inst, ok := item.(*parser.Instruction)
		isUnconditionalJump := ok && (inst.Mnemonic == "c.j" || (inst.Mnemonic == "jal" && inst.Rd.Value == 0))
		pseudo, pok := item.(*parser.PseudoInstruction)
		isUnconditionalJump = isUnconditionalJump || (pok && (pseudo.Name == "j" || pseudo.Name == "ret"))
		if !isUnconditionalJump {
			continue
		}
		for next := idx + 1; next < len(items); next++ {
			if _, isLabel := items[next].(*parser.LabelItem); isLabel {
				break
			}
			nextInst, isInst := items[next].(*parser.Instruction)
			nextPseudo, isPseudo := items[next].(*parser.PseudoInstruction)
			if !isInst && !isPseudo {
				break
			}
			line := 0
			if isInst {
				line = nextInst.Line.Number
			} else if isPseudo {
				line = nextPseudo.Line.Number
			}
			issues = append(issues, &LintIssue{
				Level:   LintWarning,
				Line:    line,
				Message: "unreachable code after an unconditional jump",
				Code:    "UNREACHABLE_CODE",
			})
			break
		}
	}
	return issues
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}
	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}
	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			del := matrix[i-1][j] + 1
			ins := matrix[i][j-1] + 1
			sub := matrix[i-1][j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			matrix[i][j] = best
		}
	}
	return matrix[len(s1)][len(s2)]
}
