package assembler

import "github.com/rv32tools/rv32asm/parser"

// newError builds a *parser.Error anchored at line's position, the shape
// every pass in this package reports failures with.
func newError(line parser.Line, kind parser.ErrorKind, message string) *parser.Error {
	return parser.NewErrorWithContext(line.Pos(), kind, message, line.Text)
}
