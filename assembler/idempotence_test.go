package assembler

import (
	"bytes"
	"testing"

	"github.com/rv32tools/rv32asm/parser"
)

// TestResolveLabelsIdempotentEnvironment checks that binding the same label
// stream twice (e.g. the §4.5/§4.7 label-position refresh Assemble performs
// after compression shrinks an item) produces identical label maps, given
// identical input positions.
func TestResolveLabelsIdempotentEnvironment(t *testing.T) {
	line := parser.Line{File: "t.s", Number: 1}
	items := []parser.Item{
		&parser.LabelItem{Name: "start", Line: line},
		&parser.Instruction{Mnemonic: "addi", Line: line},
		&parser.LabelItem{Name: "end", Line: line},
	}

	_, labelsFirst, errsFirst := resolveLabels(items, nil)
	if errsFirst.HasErrors() {
		t.Fatalf("unexpected errors on first pass: %s", errsFirst.Error())
	}

	freshItems := []parser.Item{
		&parser.LabelItem{Name: "start", Line: line},
		&parser.Instruction{Mnemonic: "addi", Line: line},
		&parser.LabelItem{Name: "end", Line: line},
	}
	_, labelsSecond, errsSecond := resolveLabels(freshItems, nil)
	if errsSecond.HasErrors() {
		t.Fatalf("unexpected errors on second pass: %s", errsSecond.Error())
	}

	if len(labelsFirst) != len(labelsSecond) {
		t.Fatalf("label count diverged: %d vs %d", len(labelsFirst), len(labelsSecond))
	}
	for name, v := range labelsFirst {
		if labelsSecond[name] != v {
			t.Errorf("label %q: first pass got %d, second pass got %d", name, v, labelsSecond[name])
		}
	}
}

// TestFinalLowerBlobStreamIsNoOp checks that once a stream has been reduced
// to BlobItems (the shape every item settles into after §4.10's own pass, and
// the shape raw "bytes"/"pack" output already takes), lowering it again just
// copies the bytes through unchanged -- no item in this state carries any
// further symbol or position dependency.
func TestFinalLowerBlobStreamIsNoOp(t *testing.T) {
	line := parser.Line{File: "t.s", Number: 1}
	original := []byte{0x13, 0x00, 0x00, 0x00, 0xde, 0xad, 0xbe, 0xef}

	items := []parser.Item{
		&parser.BlobItem{Bytes: original, Line: line},
	}

	first, errs := finalLower(items, nil, nil, nil)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors on first lowering: %s", errs.Error())
	}
	if !bytes.Equal(first, original) {
		t.Fatalf("first lowering changed the bytes: got % x, want % x", first, original)
	}

	reLowered := []parser.Item{
		&parser.BlobItem{Bytes: first, Line: line},
	}
	second, errs := finalLower(reLowered, nil, nil, nil)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors on second lowering: %s", errs.Error())
	}
	if !bytes.Equal(second, first) {
		t.Errorf("re-lowering an already-lowered blob stream is not a no-op: got % x, want % x", second, first)
	}
}
