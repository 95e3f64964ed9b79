package parser_test

import (
	"strings"
	"testing"

	"github.com/rv32tools/rv32asm/parser"
)

func TestErrorString(t *testing.T) {
	pos := parser.Position{Filename: "prog.s", Line: 3, Column: 1}
	err := parser.NewErrorWithContext(pos, parser.ErrorRangeViolation, "offset out of range", "  jal zero far")

	got := err.Error()
	if !strings.Contains(got, "prog.s:3:1") {
		t.Errorf("expected position in error string, got %q", got)
	}
	if !strings.Contains(got, "offset out of range") {
		t.Errorf("expected message in error string, got %q", got)
	}
	if !strings.Contains(got, "jal zero far") {
		t.Errorf("expected source context in error string, got %q", got)
	}
}

func TestErrorStringWithoutContext(t *testing.T) {
	err := parser.NewError(parser.Position{Filename: "prog.s", Line: 1, Column: 1}, parser.ErrorSyntax, "bad token")
	got := err.Error()
	if strings.Count(got, "\n") != 1 {
		t.Errorf("expected exactly one line for a context-free error, got %q", got)
	}
}

func TestErrorKindString(t *testing.T) {
	cases := map[parser.ErrorKind]string{
		parser.ErrorSyntax:               "syntax",
		parser.ErrorUnknownName:          "unknown name",
		parser.ErrorNonInteger:           "non-integer",
		parser.ErrorRegisterShadow:       "register shadow",
		parser.ErrorRangeViolation:       "range violation",
		parser.ErrorCompressedConstraint: "compressed constraint",
		parser.ErrorDuplicateLabel:       "duplicate label",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestErrorListHasErrors(t *testing.T) {
	el := &parser.ErrorList{}
	if el.HasErrors() {
		t.Fatal("fresh ErrorList should have no errors")
	}
	el.AddError(parser.NewError(parser.Position{}, parser.ErrorSyntax, "boom"))
	if !el.HasErrors() {
		t.Fatal("expected HasErrors to be true after AddError")
	}
	if el.Error() == "" {
		t.Fatal("expected a non-empty rendered error string")
	}
}

func TestErrorListAddWarningAndPrint(t *testing.T) {
	el := &parser.ErrorList{}
	if el.PrintWarnings() != "" {
		t.Fatal("fresh ErrorList should print no warnings")
	}
	el.AddWarning(&parser.Warning{Pos: parser.Position{Filename: "p.s", Line: 2, Column: 1}, Message: "unused label: foo"})
	out := el.PrintWarnings()
	if !strings.Contains(out, "unused label: foo") {
		t.Errorf("expected warning message in output, got %q", out)
	}
	if !strings.Contains(out, "warning:") {
		t.Errorf("expected 'warning:' tag in output, got %q", out)
	}
	if el.HasErrors() {
		t.Fatal("warnings alone should not count as errors")
	}
}

func TestPositionString(t *testing.T) {
	pos := parser.Position{Filename: "a.s", Line: 5, Column: 2}
	if got, want := pos.String(), "a.s:5:2"; got != want {
		t.Errorf("Position.String() = %q, want %q", got, want)
	}
}
