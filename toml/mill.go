package toml

import (
	"github.com/inkmill/textmill/mill"
	"github.com/inkmill/textmill/token"
)

// BuildMill wires a fresh mill.Mill for syn: the fixed TOML channel set
// from spec §4.4 — comment, backslash escape, punctuation singles,
// bracket/brace pairs (including the doubled forms for array-of-tables),
// quote-run recognition for both quote families, the 0x/0o/0b radix
// prefix, the parameterized EOL, and WHITESPACE/TEXT/INT fallbacks.
func BuildMill(syn *Syntax) *mill.Mill {
	m := mill.New()

	m.Register('#', mill.NewRunLength(func(b byte) bool { return b != '\n' && b != '\r' }, Comment))
	m.Register('=', mill.NewLiteral("=", Equals, splitAsText))
	m.Register('+', mill.NewLiteral("+", Plus, splitAsText))
	m.Register('-', mill.NewLiteral("-", Minus, splitAsText))
	m.Register('_', mill.NewLiteral("_", Underscore, splitAsText))
	m.Register('.', mill.NewLiteral(".", Dot, splitAsText))
	m.Register(',', mill.NewLiteral(",", Comma, splitAsText))
	m.Register('{', mill.NewLiteral("{", LBrace, splitAsText))
	m.Register('}', mill.NewLiteral("}", RBrace, splitAsText))
	m.Register('[', newBracketChannel('[', LBracket, DoubleLBracket))
	m.Register(']', newBracketChannel(']', RBracket, DoubleRBracket))
	m.Register('"', newQuoteRunChannel('"', DQuote, TriDQuote))
	m.Register('\'', newQuoteRunChannel('\'', SQuote, TriSQuote))
	m.Register('0', newRadixPrefixChannel(m, RadixPrefix, Int))

	eol := syn.EOL
	if eol == "" {
		eol = "\n"
	}
	m.Register(eol[0], mill.NewLiteral(eol, EOL, splitAsText))

	for _, enc := range syn.Escapes {
		op := mill.NewLiteral(enc.Operator, Escape, splitAsText)
		m.RegisterEscape(enc.Operator[0], op, enc, Escaped)
	}

	m.SetFallbacks(
		newIntChannel(m, Int),
		mill.NewRunLength(isTOMLSpace, Whitespace),
		mill.NewRunLength(notSpecial, Text),
	)
	return m
}

func splitAsText(got []byte, line, col int) []token.Token {
	out := make([]token.Token, len(got))
	for i, b := range got {
		out[i] = token.New(string(b), Text, line, col+i)
	}
	return out
}

func isTOMLSpace(ch byte) bool { return ch == ' ' || ch == '\t' }

// notSpecial is the TEXT fallback's acceptance predicate: any byte that
// isn't whitespace and isn't the first byte of one of the fixed
// single-byte channels above. Letters, digits encountered mid-run (once
// this channel is already active), colons, and any other punctuation
// TOML doesn't special-case all fall through to TEXT, which is exactly
// what lets the value layer's span-reconstruction (spec §9's note that a
// "text chain" style reassembly is needed) rebuild keys, bare words, and
// date/time literals from the pieces the mill hands back.
func notSpecial(ch byte) bool {
	switch ch {
	case '#', '\\', '=', '+', '-', '_', '.', ',', '{', '}', '[', ']', '"', '\'', '\n', '\r', ' ', '\t':
		return false
	default:
		return true
	}
}

// bracketChannel recognizes "[" vs "[[" (and, registered a second time,
// "]" vs "]]"): a lone bracket commits the single type; an immediate
// repeat of the same byte commits the doubled type.
type bracketChannel struct {
	b           byte
	single, dbl token.Type
	count       int
	line, col   int
}

func newBracketChannel(b byte, single, dbl token.Type) *bracketChannel {
	return &bracketChannel{b: b, single: single, dbl: dbl}
}

func (c *bracketChannel) Reset(line, col int) { c.count = 0; c.line, c.col = line, col }

func (c *bracketChannel) Ad(ch byte) mill.Decision {
	if ch == c.b && c.count < 2 {
		c.count++
		return mill.Extend
	}
	return mill.Commit
}

func (c *bracketChannel) End() mill.Decision { return mill.Commit }

func (c *bracketChannel) Commit() token.Token {
	typ, width := c.single, 1
	if c.count == 2 {
		typ, width = c.dbl, 2
	}
	t := token.New(repeatQuote(c.b, width), typ, c.line, c.col)
	c.count = 0
	return t
}

func (c *bracketChannel) Cancel() []token.Token { return nil }

func (c *bracketChannel) Partial() []byte { return []byte(repeatQuote(c.b, c.count)) }
