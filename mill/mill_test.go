package mill

import (
	"testing"

	"github.com/inkmill/textmill/token"
)

// A minimal synthetic configuration exercising the dispatch core directly,
// independent of any concrete format: COMMA and EOL are single-byte
// literals, INT/WS/TEXT are the three category fallbacks, and a single
// backslash escape operator supports \n and \uXXXX.
func newTestMill() *Mill {
	comma := token.NewType("test.mill.comma", "COMMA", 0)
	eol := token.NewType("test.mill.eol", "EOL", 0)
	intTy := token.NewType("test.mill.int", "INT", 0)
	wsTy := token.NewType("test.mill.ws", "WS", 0)
	textTy := token.NewType("test.mill.text", "TEXT", 0)
	escapeTy := token.NewType("test.mill.escape", "ESCAPE", 0)
	escapedTy := token.NewType("test.mill.escaped", "ESCAPED", 0)

	m := New()
	m.Register(',', NewLiteral(",", comma, func(got []byte, line, col int) []token.Token {
		return splitBytes(got, textTy, line, col)
	}))
	m.Register('\n', NewLiteral("\n", eol, func(got []byte, line, col int) []token.Token {
		return splitBytes(got, textTy, line, col)
	}))
	op := NewLiteral("\\", escapeTy, func(got []byte, line, col int) []token.Token {
		return splitBytes(got, textTy, line, col)
	})
	m.RegisterEscape('\\', op, EscapeEncoding{
		Operator:       "\\",
		PrefixSelector: "u",
		Infixes:        []string{"n", "t"},
		MinDigits:      4,
		MaxDigits:      4,
		Radix:          16,
	}, escapedTy)
	m.SetFallbacks(
		NewRunLength(func(b byte) bool { return b >= '0' && b <= '9' }, intTy),
		NewRunLength(func(b byte) bool { return b == ' ' || b == '\t' }, wsTy),
		NewRunLength(func(b byte) bool { return b != ',' && b != '\n' && b != '\\' }, textTy),
	)
	return m
}

func splitBytes(got []byte, ty token.Type, line, col int) []token.Token {
	out := make([]token.Token, 0, len(got))
	for i, b := range got {
		out = append(out, token.New(string(b), ty, line, col+i))
	}
	return out
}

func drain(m *Mill) []token.Token {
	m.End()
	var out []token.Token
	for {
		t := m.Tokens().Next()
		if t.IsEOF() {
			break
		}
		out = append(out, t)
	}
	return out
}

func TestMillSplitsDelimitersAndText(t *testing.T) {
	m := newTestMill()
	m.Process([]byte("ab,12\n"))
	toks := drain(m)
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %+v", len(toks), toks)
	}
	if toks[0].Value != "ab" || toks[1].Value != "," || toks[2].Value != "12" || toks[3].Value != "\n" {
		t.Fatalf("unexpected token values: %+v", toks)
	}
}

func TestMillFlushesTrailingRunAtEOF(t *testing.T) {
	m := newTestMill()
	m.Process([]byte("123"))
	toks := drain(m)
	if len(toks) != 1 || toks[0].Value != "123" {
		t.Fatalf("expected single trailing int token, got %+v", toks)
	}
}

func TestMillEscapeLiteralInfix(t *testing.T) {
	m := newTestMill()
	m.Process([]byte(`a\nb`))
	toks := drain(m)
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %+v", len(toks), toks)
	}
	if toks[0].Value != "a" || toks[1].Value != `\` || toks[2].Value != "n" || toks[3].Value != "b" {
		t.Fatalf("unexpected token values: %+v", toks)
	}
}

func TestMillEscapeRadix(t *testing.T) {
	m := newTestMill()
	m.Process([]byte("\\u0041x"))
	toks := drain(m)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %+v", len(toks), toks)
	}
	if toks[0].Value != `\` || toks[1].Value != "u0041" || toks[2].Value != "x" {
		t.Fatalf("unexpected token values: %+v", toks)
	}
}

// ERR_BAD_ESCAPE: a radix escape invalidated before MinDigits commits
// only the prefix byte as the ESCAPED token and hands the
// partially-consumed digit back to ordinary dispatch, rewinding the
// column so it is re-tokenized at its original position (spec.md §4.2).
func TestMillEscapeRadixBadEscapeRewindsPartialDigits(t *testing.T) {
	m := newTestMill()
	m.Process([]byte(`\uA!b`))
	toks := drain(m)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %+v", len(toks), toks)
	}
	if toks[0].Value != `\` {
		t.Fatalf("expected ESCAPE token first, got %+v", toks[0])
	}
	if toks[1].Value != "u" {
		t.Fatalf("expected bad-escape marker \"u\" (prefix only), got %+v", toks[1])
	}
	enc := EscapeEncoding{PrefixSelector: "u", MinDigits: 4, MaxDigits: 4, Radix: 16}
	if !enc.BadEscapeValue(toks[1].Value) {
		t.Fatalf("expected BadEscapeValue to recognize %q", toks[1].Value)
	}
	if toks[2].Value != "A!b" {
		t.Fatalf("expected the rewound digit to rejoin ordinary text as \"A!b\", got %+v", toks[2])
	}
	if toks[2].StartPos != 3 {
		t.Fatalf("expected rewound text to start at column 3 (where 'A' first appeared), got %d", toks[2].StartPos)
	}
}

// newCRLFMill builds an "x=1\r\ny=2\r\n"-shaped
// grammar whose EOL is the two-byte sequence "\r\n", to exercise a
// multi-character Literal channel committing correctly when its bytes
// straddle a Process() chunk boundary.
func newCRLFMill() *Mill {
	eqTy := token.NewType("test.mill.crlf.eq", "EQ", 0)
	eolTy := token.NewType("test.mill.crlf.eol", "EOL", 0)
	textTy := token.NewType("test.mill.crlf.text", "TEXT", 0)

	m := New()
	m.Register('=', NewLiteral("=", eqTy, func(got []byte, line, col int) []token.Token {
		return splitBytes(got, textTy, line, col)
	}))
	m.Register('\r', NewLiteral("\r\n", eolTy, func(got []byte, line, col int) []token.Token {
		return splitBytes(got, textTy, line, col)
	}))
	m.SetFallbacks(
		nil,
		nil,
		NewRunLength(func(b byte) bool { return b != '=' && b != '\r' }, textTy),
	)
	return m
}

func TestMillCRLFAcrossChunkBoundary(t *testing.T) {
	m := newCRLFMill()
	m.Process([]byte("x=1\r"))
	m.Process([]byte("\ny=2\r\n"))
	toks := drain(m)

	var eols []token.Token
	for _, tok := range toks {
		if tok.Value == "\r\n" {
			eols = append(eols, tok)
		}
	}
	if len(eols) != 2 {
		t.Fatalf("expected exactly two EOL tokens, got %d: %+v", len(eols), toks)
	}
	if eols[0].LineStart != 1 || eols[0].StartPos != 4 {
		t.Fatalf("first EOL expected at (1,4), got (%d,%d)", eols[0].LineStart, eols[0].StartPos)
	}
	if eols[1].LineStart != 2 || eols[1].StartPos != 4 {
		t.Fatalf("second EOL expected at (2,4), got (%d,%d)", eols[1].LineStart, eols[1].StartPos)
	}
}

func TestMillAcrossChunkBoundary(t *testing.T) {
	m := newTestMill()
	m.Process([]byte("12"))
	m.Process([]byte("3,x"))
	toks := drain(m)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %+v", len(toks), toks)
	}
	if toks[0].Value != "123" || toks[1].Value != "," || toks[2].Value != "x" {
		t.Fatalf("unexpected token values: %+v", toks)
	}
}
