// Package listing renders a finished assembly's symbol table and output
// bytes for human consumption: a plain-text .lst dump, an Intel HEX encoding
// of the binary, and an interactive terminal symbol browser.
package listing

import (
	"fmt"
	"strings"

	"github.com/rv32tools/rv32asm/parser"
)

// WriteSymbolTable renders every symbol in st, sorted by name, one line
// each as "name  0xVALUE  kind  refs=N" -- the format a -listing .lst file
// uses.
func WriteSymbolTable(st *parser.SymbolTable) string {
	var sb strings.Builder
	for _, sym := range st.GetAllSymbols() {
		fmt.Fprintf(&sb, "%-32s 0x%08X  %-8s refs=%d\n", sym.Name, uint32(sym.Value), sym.Kind, sym.RefCount)
	}
	return sb.String()
}
