package dsv

import (
	"github.com/inkmill/textmill/mill"
	"github.com/inkmill/textmill/token"
)

// BuildMill wires a fresh mill.Mill for syn: SEPARATOR and EOL literal
// channels, L_QUOTE/R_QUOTE when syn configures quoting, one escape
// channel per declared encoding, and WHITESPACE/TEXT fallbacks.
func BuildMill(syn *Syntax) *mill.Mill {
	m := mill.New()
	special := map[byte]bool{}

	mark := func(seq string) {
		if len(seq) > 0 {
			special[seq[0]] = true
		}
	}
	mark(syn.Delimiter)
	mark(syn.EOL)
	if syn.quoted() {
		mark(syn.QuoteOpen)
		mark(syn.QuoteClose)
	}
	for _, enc := range syn.Escapes {
		mark(enc.Operator)
	}

	m.Register(syn.Delimiter[0], mill.NewLiteral(syn.Delimiter, Separator, splitAsText))
	m.Register(syn.EOL[0], mill.NewLiteral(syn.EOL, EOL, splitAsText))

	if syn.quoted() {
		m.Register(syn.QuoteOpen[0], mill.NewLiteral(syn.QuoteOpen, LQuote, splitAsText))
		if syn.QuoteClose != syn.QuoteOpen {
			m.Register(syn.QuoteClose[0], mill.NewLiteral(syn.QuoteClose, RQuote, splitAsText))
		}
	}

	for _, enc := range syn.Escapes {
		op := mill.NewLiteral(enc.Operator, Escape, splitAsText)
		m.RegisterEscape(enc.Operator[0], op, enc, Escaped)
	}

	m.SetFallbacks(
		nil,
		mill.NewRunLength(isDSVSpace, Whitespace),
		mill.NewRunLength(notSpecial(special), Text),
	)
	return m
}

// splitAsText is the fallback every DSV Literal channel uses when its
// sequence doesn't fully match: whatever prefix it did absorb is re-read
// as plain TEXT, one token per byte, so the mill's top-level re-dispatch
// of the mismatching byte sees a clean slate.
func splitAsText(got []byte, line, col int) []token.Token {
	out := make([]token.Token, len(got))
	for i, b := range got {
		out[i] = token.New(string(b), Text, line, col+i)
	}
	return out
}

func isDSVSpace(ch byte) bool { return ch == ' ' || ch == '\t' }

// notSpecial builds the TEXT fallback's acceptance predicate: any byte
// that isn't the first byte of a delimiter, EOL, quote, or escape
// operator, and isn't whitespace (whitespace gets its own channel).
func notSpecial(special map[byte]bool) func(byte) bool {
	return func(ch byte) bool {
		return !special[ch] && !isDSVSpace(ch)
	}
}
