package parser

import "strings"

// Line is a single numbered, file-tagged line of source text.
type Line struct {
	File   string
	Number int
	Text   string
}

func (l Line) Pos() Position {
	return Position{Filename: l.File, Line: l.Number, Column: 1}
}

// LineTokens is the result of lexing one Line: the line itself plus the
// whitespace/comma/quote-separated tokens found on it. A blank or
// comment-only line produces a LineTokens with no tokens.
type LineTokens struct {
	Line   Line
	Tokens []string
}

// Lex tokenizes a single source line following the rules:
//  1. a line whose trimmed text begins with "string " takes its remainder
//     verbatim to end of line, escape-decodes it, and emits exactly the two
//     tokens ["string", decoded].
//  2. otherwise strip a trailing "#..." comment.
//  3. pad '(' and ')' with spaces so they tokenize standalone.
//  4. split on whitespace, commas, and quote characters.
//  5. drop empty tokens.
func Lex(line Line) LineTokens {
	trimmed := strings.TrimSpace(line.Text)

	if rest, ok := cutPrefixWord(trimmed, "string"); ok {
		return LineTokens{Line: line, Tokens: []string{"string", ProcessEscapeSequences(rest)}}
	}

	text := stripComment(line.Text)
	text = padParens(text)
	tokens := splitTokens(text)
	return LineTokens{Line: line, Tokens: tokens}
}

// cutPrefixWord reports whether s begins with keyword followed by whitespace,
// returning the remainder with exactly one separating space consumed.
func cutPrefixWord(s, keyword string) (string, bool) {
	if !strings.HasPrefix(s, keyword) {
		return "", false
	}
	rest := s[len(keyword):]
	if rest == "" || !isSeparatorSpace(rune(rest[0])) {
		return "", false
	}
	return strings.TrimLeft(rest, " \t"), true
}

func isSeparatorSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// stripComment removes a '#' to end-of-line comment. The expression
// language has no comment form of its own, so this is a whole-line,
// lex-time-only operation.
func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

// padParens surrounds '(' and ')' with spaces so the splitter below always
// treats them as standalone tokens, even when written "offset(rs1)".
func padParens(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '(', ')':
			sb.WriteByte(' ')
			sb.WriteRune(r)
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isTokenSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', '\'', '"':
		return true
	}
	return false
}

func splitTokens(s string) []string {
	fields := strings.FieldsFunc(s, isTokenSeparator)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ReadLines splits source text into numbered Lines tagged with file.
func ReadLines(file, source string) []Line {
	rawLines := strings.Split(source, "\n")
	lines := make([]Line, 0, len(rawLines))
	for i, text := range rawLines {
		text = strings.TrimRight(text, "\r")
		lines = append(lines, Line{File: file, Number: i + 1, Text: text})
	}
	return lines
}
