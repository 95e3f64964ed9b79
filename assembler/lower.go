package assembler

import (
	"encoding/binary"
	"fmt"

	"github.com/rv32tools/rv32asm/encoder"
	"github.com/rv32tools/rv32asm/parser"
)

// finalLower implements §4.10: walk the fully-resolved item stream tracking
// position, converting every item to its output bytes and concatenating the
// result. Pack/ShorthandPack items evaluate their expression here, against
// the same final constants ∪ labels environment the instruction pass used.
func finalLower(items []parser.Item, constants, labels map[string]int64, symtab *parser.SymbolTable) ([]byte, *parser.ErrorList) {
	errs := &parser.ErrorList{}
	env := &Env{Constants: constants, Labels: labels, Symbols: symtab}
	var out []byte
	var position int64

	for _, item := range items {
		switch v := item.(type) {
		case *parser.Instruction:
			bytes, err := encoder.EncodeInstruction(v)
			if err != nil {
				errs.AddError(newError(v.Line, parser.ErrorRangeViolation, err.Error()))
			} else {
				out = append(out, bytes...)
			}

		case *parser.StringItem:
			out = append(out, v.Bytes...)

		case *parser.SequenceItem:
			width := v.Kind.Width()
			for _, value := range v.Values {
				out = append(out, packSequenceValue(value, width)...)
			}

		case *parser.ShorthandPackItem:
			val, err := v.Expr.Eval(env, position)
			if err != nil {
				errs.AddError(newError(v.Line, parser.ErrorUnknownName, err.Error()))
				break
			}
			packed, err := parser.PackValue(v.ShorthandFormat(), val)
			if err != nil {
				errs.AddError(newError(v.Line, parser.ErrorSyntax, err.Error()))
				break
			}
			out = append(out, packed...)

		case *parser.PackItem:
			val, err := v.Expr.Eval(env, position)
			if err != nil {
				errs.AddError(newError(v.Line, parser.ErrorUnknownName, err.Error()))
				break
			}
			packed, err := parser.PackValue(v.Format, val)
			if err != nil {
				errs.AddError(newError(v.Line, parser.ErrorSyntax, err.Error()))
				break
			}
			out = append(out, packed...)

		case *parser.AlignItem:
			out = append(out, make([]byte, v.Size(position))...)

		case *parser.BlobItem:
			out = append(out, v.Bytes...)

		default:
			errs.AddError(newError(item.SourceLine(), parser.ErrorSyntax, fmt.Sprintf("unhandled item type %T in final lowering", item)))
		}

		position += item.Size(position)
	}

	return out, errs
}

func packSequenceValue(v int64, width int64) []byte {
	buf := make([]byte, width)
	switch width {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(buf, uint64(v))
	}
	return buf
}
