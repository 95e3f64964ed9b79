// Package parser lexes and parses RV32IMAC assembly source into the Item
// stream the assembler package resolves and lowers to machine code.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rv32tools/rv32asm/riscv"
)

// Parser turns lexed lines into the Item stream of §3, dispatching on the
// lowercase first token.
type Parser struct {
	errors *ErrorList
}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{errors: &ErrorList{}}
}

// Errors returns every error accumulated across Parse calls.
func (p *Parser) Errors() *ErrorList { return p.errors }

// Parse classifies every non-blank line into an Item. A line that lexes to
// zero tokens (blank or comment-only) is silently skipped. A leading
// "name:" token followed by more tokens becomes a LabelItem, and the rest
// of the line is classified as its own Item.
func (p *Parser) Parse(lines []Line) []Item {
	var items []Item
	for _, line := range lines {
		lt := Lex(line)
		if len(lt.Tokens) == 0 {
			continue
		}
		if len(lt.Tokens) > 1 && strings.HasSuffix(lt.Tokens[0], ":") {
			items = append(items, &LabelItem{Name: strings.TrimSuffix(lt.Tokens[0], ":"), Line: line})
			lt.Tokens = lt.Tokens[1:]
		}
		item, err := p.parseLine(lt)
		if err != nil {
			p.errors.AddError(toAssemblyError(line, err))
			continue
		}
		items = append(items, item)
	}
	return items
}

func toAssemblyError(line Line, err error) *Error {
	if ae, ok := err.(*Error); ok {
		return ae
	}
	return NewErrorWithContext(line.Pos(), ErrorSyntax, err.Error(), line.Text)
}

func (p *Parser) parseLine(lt LineTokens) (Item, error) {
	tokens := lt.Tokens
	line := lt.Line
	head := strings.ToLower(tokens[0])

	switch {
	case len(tokens) == 1 && strings.HasSuffix(tokens[0], ":"):
		return &LabelItem{Name: strings.TrimSuffix(tokens[0], ":"), Line: line}, nil

	case len(tokens) >= 2 && tokens[1] == "=":
		expr, err := ParseArithmetic(tokens[2:])
		if err != nil {
			return nil, err
		}
		return &ConstItem{Name: tokens[0], Expr: expr, Line: line}, nil

	case head == "string":
		if len(tokens) < 2 {
			return nil, fmt.Errorf("string directive requires a value")
		}
		return &StringItem{Bytes: []byte(tokens[1]), Line: line}, nil

	case head == "bytes" || head == "shorts" || head == "ints" || head == "longs" || head == "longlongs":
		return parseSequence(head, tokens[1:], line)

	case head == "pack":
		if len(tokens) < 3 {
			return nil, fmt.Errorf("pack directive requires a format and a value")
		}
		expr, err := ParseArithmetic(tokens[2:])
		if err != nil {
			return nil, err
		}
		return &PackItem{Format: tokens[1], Expr: expr, Line: line}, nil

	case head == "db" || head == "dh" || head == "dw" || head == "dd":
		if len(tokens) < 2 {
			return nil, fmt.Errorf("%s directive requires a value", head)
		}
		expr, err := ParseArithmetic(tokens[1:])
		if err != nil {
			return nil, err
		}
		return &ShorthandPackItem{Name: head, Expr: expr, Line: line}, nil

	case head == "align":
		if len(tokens) != 2 {
			return nil, fmt.Errorf("align directive requires exactly one value")
		}
		n, err := parseIntLiteral(tokens[1])
		if err != nil {
			return nil, fmt.Errorf("align value must be an integer literal: %w", err)
		}
		return &AlignItem{Align: n, Line: line}, nil

	default:
		return p.parseInstruction(head, tokens[1:], line)
	}
}

func parseSequence(head string, operands []string, line Line) (Item, error) {
	var kind SeqKind
	switch head {
	case "bytes":
		kind = SeqBytes
	case "shorts":
		kind = SeqShorts
	case "ints":
		kind = SeqInts
	case "longs":
		kind = SeqLongs
	case "longlongs":
		kind = SeqLongLongs
	}
	if len(operands) == 0 {
		return nil, fmt.Errorf("%s directive requires at least one value", head)
	}
	values := make([]int64, 0, len(operands))
	for _, tok := range operands {
		v, err := parseIntLiteral(tok)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", head, err)
		}
		values = append(values, v)
	}
	return &SequenceItem{Kind: kind, Values: values, Line: line}, nil
}

// --- instruction dispatch ---

var regRegReg = mnemonicSet(
	"add", "sub", "sll", "slt", "sltu", "xor", "srl", "sra", "or", "and",
	"mul", "mulh", "mulhsu", "mulhu", "div", "divu", "rem", "remu",
)

var regRegImm = mnemonicSet(
	"addi", "slti", "sltiu", "xori", "ori", "andi", "slli", "srli", "srai",
)

var loadFamily = mnemonicSet("lb", "lh", "lw", "lbu", "lhu")
var storeFamily = mnemonicSet("sb", "sh", "sw")
var branchFamily = mnemonicSet("beq", "bne", "blt", "bge", "bltu", "bgeu")
var uTypeFamily = mnemonicSet("lui", "auipc")
var systemFamily = mnemonicSet("ecall", "ebreak")
var atomicRMW = mnemonicSet(
	"sc.w", "amoswap.w", "amoadd.w", "amoxor.w", "amoand.w", "amoor.w",
	"amomin.w", "amomax.w", "amominu.w", "amomaxu.w",
)

var pseudoAlways = mnemonicSet(
	"nop", "mv", "not", "neg", "seqz", "snez", "sltz", "sgtz",
	"beqz", "bnez", "blez", "bgez", "bltz", "bgtz", "bgt", "ble", "bgtu", "bleu",
	"j", "jr", "ret", "li", "call", "tail",
)

var cIW = mnemonicSet("c.addi4spn")
var cL = mnemonicSet("c.lw")
var cS = mnemonicSet("c.sw")
var cAddiLike = mnemonicSet("c.addi")
var cJImm = mnemonicSet("c.jal", "c.j")
var cLi = mnemonicSet("c.li")
var cAddi16sp = mnemonicSet("c.addi16sp")
var cLui = mnemonicSet("c.lui")
var cBImm = mnemonicSet("c.srli", "c.srai", "c.andi")
var cA = mnemonicSet("c.sub", "c.xor", "c.or", "c.and")
var cBranch = mnemonicSet("c.beqz", "c.bnez")
var cSlli = mnemonicSet("c.slli")
var cLwsp = mnemonicSet("c.lwsp")
var cReg1 = mnemonicSet("c.jr", "c.jalr")
var cMv = mnemonicSet("c.mv")
var cAdd = mnemonicSet("c.add")
var cSwsp = mnemonicSet("c.swsp")

func mnemonicSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func (p *Parser) parseInstruction(mnemonic string, operands []string, line Line) (Item, error) {
	operands = stripOuterCallParens(operands)
	switch {
	case mnemonic == "jal":
		if len(operands) == 1 {
			return &PseudoInstruction{Name: "jal", Args: operands, Line: line}, nil
		}
		return parseUType("jal", operands, line)

	case mnemonic == "jalr":
		if len(operands) == 1 {
			return &PseudoInstruction{Name: "jalr", Args: operands, Line: line}, nil
		}
		return parseLoadLike("jalr", operands, line, true)

	case mnemonic == "fence":
		if len(operands) == 0 {
			return &PseudoInstruction{Name: "fence", Line: line}, nil
		}
		return parseFence(operands, line)

	case pseudoAlways[mnemonic]:
		return &PseudoInstruction{Name: mnemonic, Args: operands, Line: line}, nil

	case regRegReg[mnemonic]:
		return parseRRR(mnemonic, operands, line)

	case regRegImm[mnemonic]:
		return parseRRI(mnemonic, operands, line)

	case loadFamily[mnemonic]:
		return parseLoadLike(mnemonic, operands, line, true)

	case storeFamily[mnemonic]:
		return parseLoadLike(mnemonic, operands, line, false)

	case branchFamily[mnemonic]:
		return parseBranch(mnemonic, operands, line)

	case uTypeFamily[mnemonic]:
		return parseUType(mnemonic, operands, line)

	case systemFamily[mnemonic]:
		if len(operands) != 0 {
			return nil, fmt.Errorf("%s takes no operands", mnemonic)
		}
		return &Instruction{Mnemonic: mnemonic, Line: line}, nil

	case mnemonic == "lr.w":
		return parseAtomicLR(operands, line)

	case atomicRMW[mnemonic]:
		return parseAtomicRMW(mnemonic, operands, line)

	case cIW[mnemonic]:
		return parseCIWLike(mnemonic, operands, line)
	case cL[mnemonic]:
		return parseCLLike(mnemonic, operands, line, true)
	case cS[mnemonic]:
		return parseCLLike(mnemonic, operands, line, false)
	case cAddiLike[mnemonic]:
		return parseCRdImm(mnemonic, operands, line)
	case cJImm[mnemonic]:
		return parseCJumpLike(mnemonic, operands, line)
	case cLi[mnemonic]:
		return parseCRdImmOnly(mnemonic, operands, line, false)
	case cAddi16sp[mnemonic]:
		return parseCImmOnly(mnemonic, operands, line)
	case cLui[mnemonic]:
		return parseCRdImmOnly(mnemonic, operands, line, false)
	case cBImm[mnemonic]:
		return parseCRdImm(mnemonic, operands, line)
	case cA[mnemonic]:
		return parseCA(mnemonic, operands, line)
	case cBranch[mnemonic]:
		return parseCBranch(mnemonic, operands, line)
	case cSlli[mnemonic]:
		return parseCRdImm(mnemonic, operands, line)
	case cLwsp[mnemonic]:
		return parseCRdImmOnly(mnemonic, operands, line, false)
	case cReg1[mnemonic]:
		return parseCReg1(mnemonic, operands, line)
	case cMv[mnemonic]:
		return parseCMvLike(mnemonic, operands, line)
	case cAdd[mnemonic]:
		return parseCMvLike(mnemonic, operands, line)
	case cSwsp[mnemonic]:
		return parseCRdImmOnly(mnemonic, operands, line, true)

	default:
		return nil, fmt.Errorf("unrecognized mnemonic: %q", mnemonic)
	}
}

func parseRRR(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) != 3 {
		return nil, fmt.Errorf("%s requires 3 register operands", mnemonic)
	}
	return &Instruction{
		Mnemonic: mnemonic,
		Rd:       ParseRegRef(operands[0]),
		Rs1:      ParseRegRef(operands[1]),
		Rs2:      ParseRegRef(operands[2]),
		Line:     line,
	}, nil
}

func parseRRI(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) < 3 {
		return nil, fmt.Errorf("%s requires rd, rs1, and an immediate", mnemonic)
	}
	expr, err := parseImmediate(operands[2:])
	if err != nil {
		return nil, err
	}
	return &Instruction{
		Mnemonic: mnemonic,
		Rd:       ParseRegRef(operands[0]),
		Rs1:      ParseRegRef(operands[1]),
		Imm:      expr,
		Line:     line,
	}, nil
}

// parseLoadLike handles both `op rd, rs1, imm` and `op rd, offset(rs1)`
// syntaxes for loads and jalr (firstIsRd=true, first operand is Rd) and
// stores (firstIsRd=false, first operand is the value register Rs2).
func parseLoadLike(mnemonic string, operands []string, line Line, firstIsRd bool) (Item, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("%s requires at least 2 operands", mnemonic)
	}
	first := operands[0]
	rest := operands[1:]

	var rs1 RegRef
	var immTokens []string

	if openIdx := indexOf(rest, "("); openIdx >= 0 {
		closeIdx := indexOf(rest[openIdx:], ")")
		if closeIdx < 0 {
			return nil, fmt.Errorf("%s: unmatched '(' in operand", mnemonic)
		}
		closeIdx += openIdx
		immTokens = rest[:openIdx]
		if len(immTokens) == 0 {
			immTokens = []string{"0"}
		}
		regTokens := rest[openIdx+1 : closeIdx]
		if len(regTokens) != 1 {
			return nil, fmt.Errorf("%s: expected a single base register inside '(' ')'", mnemonic)
		}
		rs1 = ParseRegRef(regTokens[0])
	} else {
		rs1 = ParseRegRef(rest[0])
		immTokens = rest[1:]
		if len(immTokens) == 0 {
			immTokens = []string{"0"}
		}
	}

	expr, err := parseImmediate(immTokens)
	if err != nil {
		return nil, err
	}

	inst := &Instruction{Mnemonic: mnemonic, Rs1: rs1, Imm: expr, Line: line}
	if firstIsRd {
		inst.Rd = ParseRegRef(first)
	} else {
		inst.Rs2 = ParseRegRef(first)
	}
	return inst, nil
}

func parseBranch(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) < 3 {
		return nil, fmt.Errorf("%s requires rs1, rs2, and a target", mnemonic)
	}
	expr, err := parseBranchImmediate(operands[2:])
	if err != nil {
		return nil, err
	}
	return &Instruction{
		Mnemonic: mnemonic,
		Rs1:      ParseRegRef(operands[0]),
		Rs2:      ParseRegRef(operands[1]),
		Imm:      expr,
		Line:     line,
	}, nil
}

func parseUType(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("%s requires rd and an immediate", mnemonic)
	}
	var expr Expr
	var err error
	if mnemonic == "jal" {
		expr, err = parseBranchImmediate(operands[1:])
	} else {
		expr, err = parseImmediate(operands[1:])
	}
	if err != nil {
		return nil, err
	}
	return &Instruction{Mnemonic: mnemonic, Rd: ParseRegRef(operands[0]), Imm: expr, Line: line}, nil
}

func parseFence(operands []string, line Line) (Item, error) {
	if len(operands) != 2 {
		return nil, fmt.Errorf("fence requires pred and succ operands")
	}
	pred, err := parseImmediate(operands[:1])
	if err != nil {
		return nil, err
	}
	succ, err := parseImmediate(operands[1:])
	if err != nil {
		return nil, err
	}
	return &Instruction{Mnemonic: "fence", Imm: pred, Imm2: succ, Line: line}, nil
}

func parseAtomicLR(operands []string, line Line) (Item, error) {
	if len(operands) < 3 {
		return nil, fmt.Errorf("lr.w requires rd, (rs1)")
	}
	rd := operands[0]
	aq, rl, rest, err := splitAqRl(operands[1:])
	if err != nil {
		return nil, err
	}
	if len(rest) != 3 || rest[0] != "(" || rest[2] != ")" {
		return nil, fmt.Errorf("lr.w requires rd, (rs1)")
	}
	return &Instruction{
		Mnemonic: "lr.w",
		Rd:       ParseRegRef(rd),
		Rs1:      ParseRegRef(rest[1]),
		Aq:       aq,
		Rl:       rl,
		Line:     line,
	}, nil
}

func parseAtomicRMW(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) < 4 {
		return nil, fmt.Errorf("%s requires rd, rs2, (rs1)", mnemonic)
	}
	rd := operands[0]
	aq, rl, rest, err := splitAqRl(operands[1:])
	if err != nil {
		return nil, err
	}
	if len(rest) != 4 || rest[1] != "(" || rest[3] != ")" {
		return nil, fmt.Errorf("%s requires rd, rs2, (rs1)", mnemonic)
	}
	return &Instruction{
		Mnemonic: mnemonic,
		Rd:       ParseRegRef(rd),
		Rs2:      ParseRegRef(rest[0]),
		Rs1:      ParseRegRef(rest[2]),
		Aq:       aq,
		Rl:       rl,
		Line:     line,
	}, nil
}

// splitAqRl strips an optional trailing "aq rl" 0/1 pair from operands,
// returning their values (0 if absent) and the remaining tokens.
func splitAqRl(operands []string) (aq, rl int32, rest []string, err error) {
	if len(operands) >= 2 {
		a, aerr := strconv.Atoi(operands[len(operands)-2])
		r, rerr := strconv.Atoi(operands[len(operands)-1])
		if aerr == nil && rerr == nil && (a == 0 || a == 1) && (r == 0 || r == 1) {
			return int32(a), int32(r), operands[:len(operands)-2], nil
		}
	}
	return 0, 0, operands, nil
}

// stripOuterCallParens strips a single matched pair of parens wrapping an
// entire operand list, supporting the call-style "mnemonic(a, b, c)" as an
// alternative to "mnemonic a, b, c". A leading "(" that doesn't close at the
// very last token (e.g. load/store's trailing "offset(rs1)") is left alone.
func stripOuterCallParens(operands []string) []string {
	if len(operands) < 2 || operands[0] != "(" || operands[len(operands)-1] != ")" {
		return operands
	}
	depth := 0
	for i, t := range operands {
		switch t {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 && i != len(operands)-1 {
				return operands
			}
		}
	}
	if depth == 0 {
		return operands[1 : len(operands)-1]
	}
	return operands
}

func indexOf(tokens []string, target string) int {
	for i, t := range tokens {
		if t == target {
			return i
		}
	}
	return -1
}

// --- compressed-instruction operand parsing ---

func parseCIWLike(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("%s requires rd and an immediate", mnemonic)
	}
	expr, err := parseImmediate(operands[1:])
	if err != nil {
		return nil, err
	}
	return &Instruction{Mnemonic: mnemonic, Rd: ParseRegRef(operands[0]), Imm: expr, Compressed: true, Line: line}, nil
}

func parseCLLike(mnemonic string, operands []string, line Line, firstIsRd bool) (Item, error) {
	item, err := parseLoadLike(mnemonic, operands, line, firstIsRd)
	if err != nil {
		return nil, err
	}
	item.(*Instruction).Compressed = true
	return item, nil
}

// parseCRdImm handles `mnemonic rd, imm` where rd doubles as rs1 (c.addi,
// c.srli, c.srai, c.andi, c.slli).
func parseCRdImm(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("%s requires a register and an immediate", mnemonic)
	}
	expr, err := parseImmediate(operands[1:])
	if err != nil {
		return nil, err
	}
	reg := ParseRegRef(operands[0])
	return &Instruction{Mnemonic: mnemonic, Rd: reg, Rs1: reg, Imm: expr, Compressed: true, Line: line}, nil
}

// parseCRdImmOnly handles `mnemonic reg, imm` with an implicit base (c.li,
// c.lui, c.lwsp store into Rd; c.swsp stores the value register into Rs2).
func parseCRdImmOnly(mnemonic string, operands []string, line Line, rs2 bool) (Item, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("%s requires a register and an immediate", mnemonic)
	}
	expr, err := parseImmediate(operands[1:])
	if err != nil {
		return nil, err
	}
	reg := ParseRegRef(operands[0])
	inst := &Instruction{Mnemonic: mnemonic, Imm: expr, Compressed: true, Line: line}
	if rs2 {
		inst.Rs2 = reg
	} else {
		inst.Rd = reg
	}
	return inst, nil
}

// parseCImmOnly handles `mnemonic imm` with no register operand written
// (c.addi16sp's implicit sp).
func parseCImmOnly(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) < 1 {
		return nil, fmt.Errorf("%s requires an immediate", mnemonic)
	}
	expr, err := parseImmediate(operands)
	if err != nil {
		return nil, err
	}
	return &Instruction{Mnemonic: mnemonic, Imm: expr, Compressed: true, Line: line}, nil
}

func parseCA(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) != 2 {
		return nil, fmt.Errorf("%s requires two registers", mnemonic)
	}
	reg := ParseRegRef(operands[0])
	return &Instruction{Mnemonic: mnemonic, Rd: reg, Rs1: reg, Rs2: ParseRegRef(operands[1]), Compressed: true, Line: line}, nil
}

func parseCBranch(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("%s requires a register and a target", mnemonic)
	}
	expr, err := parseBranchImmediate(operands[1:])
	if err != nil {
		return nil, err
	}
	return &Instruction{Mnemonic: mnemonic, Rs1: ParseRegRef(operands[0]), Imm: expr, Compressed: true, Line: line}, nil
}

func parseCJumpLike(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) < 1 {
		return nil, fmt.Errorf("%s requires a target", mnemonic)
	}
	expr, err := parseBranchImmediate(operands)
	if err != nil {
		return nil, err
	}
	return &Instruction{Mnemonic: mnemonic, Imm: expr, Compressed: true, Line: line}, nil
}

func parseCReg1(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) != 1 {
		return nil, fmt.Errorf("%s requires exactly one register", mnemonic)
	}
	return &Instruction{Mnemonic: mnemonic, Rs1: ParseRegRef(operands[0]), Compressed: true, Line: line}, nil
}

func parseCMvLike(mnemonic string, operands []string, line Line) (Item, error) {
	if len(operands) != 2 {
		return nil, fmt.Errorf("%s requires two registers", mnemonic)
	}
	inst := &Instruction{Mnemonic: mnemonic, Rd: ParseRegRef(operands[0]), Rs2: ParseRegRef(operands[1]), Compressed: true, Line: line}
	if mnemonic == "c.add" {
		inst.Rs1 = inst.Rd
	}
	return inst, nil
}

// --- immediate / expression parsing: §4.2 ---

// parseImmediate recognizes the %position/%offset/%hi/%lo prefixes,
// optionally parenthesized, nesting freely; anything else is re-joined
// into an Arithmetic expression.
func parseImmediate(tokens []string) (Expr, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("expected an immediate expression")
	}
	switch strings.ToLower(tokens[0]) {
	case "%position":
		rest := stripParens(tokens[1:])
		if len(rest) < 2 {
			return nil, fmt.Errorf("%%position requires a label and an inner expression")
		}
		inner, err := parseImmediate(rest[1:])
		if err != nil {
			return nil, err
		}
		return &PositionExpr{Ref: rest[0], Inner: inner}, nil

	case "%offset":
		rest := stripParens(tokens[1:])
		if len(rest) != 1 {
			return nil, fmt.Errorf("%%offset requires exactly one label")
		}
		return &Offset{Ref: rest[0]}, nil

	case "%hi":
		rest := stripParens(tokens[1:])
		inner, err := parseImmediate(rest)
		if err != nil {
			return nil, err
		}
		return &Hi{Inner: inner}, nil

	case "%lo":
		rest := stripParens(tokens[1:])
		inner, err := parseImmediate(rest)
		if err != nil {
			return nil, err
		}
		return &Lo{Inner: inner}, nil

	default:
		return ParseArithmetic(tokens)
	}
}

// parseBranchImmediate additionally auto-wraps a single bare label
// identifier in Offset(label), per §4.2's operand-forms rule for branches
// and jumps.
func parseBranchImmediate(tokens []string) (Expr, error) {
	if len(tokens) == 1 {
		tok := tokens[0]
		if _, err := parseIntLiteral(tok); err != nil {
			if _, isReg := riscv.LookupRegister(strings.ToLower(tok)); !isReg {
				return &Offset{Ref: tok}, nil
			}
		}
	}
	return parseImmediate(tokens)
}

// stripParens removes a balanced leading '(' / trailing ')' pair if tokens
// is wrapped in one, leaving a bare single-argument form untouched.
func stripParens(tokens []string) []string {
	if len(tokens) >= 2 && tokens[0] == "(" && tokens[len(tokens)-1] == ")" {
		return tokens[1 : len(tokens)-1]
	}
	return tokens
}
