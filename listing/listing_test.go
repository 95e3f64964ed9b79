package listing_test

import (
	"strings"
	"testing"

	"github.com/rv32tools/rv32asm/listing"
	"github.com/rv32tools/rv32asm/parser"
)

func TestWriteSymbolTableSortOrder(t *testing.T) {
	st := parser.NewSymbolTable()
	st.Define("zeta", parser.SymbolLabel, 16, parser.Position{Filename: "t.s", Line: 3})
	st.Define("alpha", parser.SymbolConstant, 42, parser.Position{Filename: "t.s", Line: 1})
	st.Reference("alpha")

	out := listing.WriteSymbolTable(st)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "alpha") {
		t.Errorf("expected alpha first (sorted by name), got %q", lines[0])
	}
	if !strings.Contains(lines[0], "refs=1") {
		t.Errorf("expected alpha to show refs=1, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "refs=0") {
		t.Errorf("expected zeta to show refs=0, got %q", lines[1])
	}
}

func TestWriteIntelHex(t *testing.T) {
	data := []byte{0x13, 0x00, 0x00, 0x00} // nop encoded as addi x0,x0,0

	out := listing.WriteIntelHex(data)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 2 {
		t.Fatalf("expected 1 data record + EOF, got %d lines: %q", len(lines), out)
	}
	if lines[0] != ":0400000013000000E9" {
		t.Errorf("unexpected data record: %s", lines[0])
	}
	if lines[1] != ":00000001FF" {
		t.Errorf("unexpected EOF record: %s", lines[1])
	}
}

func TestWriteIntelHexSplitsAt16Bytes(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}

	out := listing.WriteIntelHex(data)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected 2 data records + EOF, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], ":100000") {
		t.Errorf("expected first record to carry 16 (0x10) bytes, got %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], ":040010") {
		t.Errorf("expected second record at offset 0x10 with 4 bytes, got %s", lines[1])
	}
}
