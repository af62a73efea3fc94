package toml

import (
	"github.com/inkmill/textmill/mill"
	"github.com/inkmill/textmill/token"
)

// quoteRunChannel recognizes a run of 1, 2, 3, 4, 5, or 6 consecutive
// occurrences of the same quote byte and resolves it to the token(s) the
// TOML grammar assigns that run length (spec §4.4): 1 opens/closes a
// basic string, 2 is an empty basic string (open immediately followed by
// close), 3 opens/closes a triple-quoted string, and 6 is an empty
// triple-quoted string. 4 and 5 are the two ambiguous lengths a greedy
// byte-run scan can still produce (run%3 leftover plus a run of 3) and
// are resolved the same way: as many TRI tokens as fit, then the
// remainder as single tokens.
type quoteRunChannel struct {
	quoteByte      byte
	single, triple token.Type
	count          int
	line, col      int
}

func newQuoteRunChannel(quoteByte byte, single, triple token.Type) *quoteRunChannel {
	return &quoteRunChannel{quoteByte: quoteByte, single: single, triple: triple}
}

func (q *quoteRunChannel) Reset(line, col int) { q.count = 0; q.line, q.col = line, col }

func (q *quoteRunChannel) Ad(ch byte) mill.Decision {
	if ch == q.quoteByte && q.count < 6 {
		q.count++
		return mill.Extend
	}
	return q.End()
}

func (q *quoteRunChannel) End() mill.Decision {
	if q.count == 1 || q.count == 3 {
		return mill.Commit
	}
	return mill.Cancel
}

// Commit is only ever reached for a run this channel can express as one
// token (1 or 3 — see resolve); every other count is handled by Cancel,
// which emits every token resolve produces.
func (q *quoteRunChannel) Commit() token.Token {
	toks := q.resolve()
	t := toks[0]
	q.count = 0
	return t
}

func (q *quoteRunChannel) Cancel() []token.Token {
	toks := q.resolve()
	q.count = 0
	return toks
}

func (q *quoteRunChannel) resolve() []token.Token {
	n := q.count
	var out []token.Token
	emit := func(typ token.Type, width int) {
		out = append(out, token.New(repeatQuote(q.quoteByte, width), typ, q.line, q.col))
	}
	switch n {
	case 1:
		emit(q.single, 1)
	case 2:
		emit(q.single, 1)
		emit(q.single, 1)
	case 3:
		emit(q.triple, 3)
	case 4:
		emit(q.triple, 3)
		emit(q.single, 1)
	case 5:
		emit(q.triple, 3)
		emit(q.single, 1)
		emit(q.single, 1)
	case 6:
		emit(q.triple, 3)
		emit(q.triple, 3)
	default:
		emit(q.single, 1)
	}
	return out
}

func (q *quoteRunChannel) Partial() []byte { return []byte(repeatQuote(q.quoteByte, q.count)) }

func repeatQuote(b byte, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b
	}
	return string(buf)
}

// radixPrefixChannel recognizes "0x", "0o", "0b" and, on commit, switches
// the mill's digit radix for the int run that follows (spec §4.4: "radix
// state then affects the int channel until the next whitespace/EOL"). A
// bare "0" not followed by one of those letters cancels to a plain INT
// token of "0".
type radixPrefixChannel struct {
	m         *mill.Mill
	typ, intT token.Type
	buf       []byte
	line, col int
	radix     int
}

func newRadixPrefixChannel(m *mill.Mill, typ, intT token.Type) *radixPrefixChannel {
	return &radixPrefixChannel{m: m, typ: typ, intT: intT}
}

func (r *radixPrefixChannel) Reset(line, col int) { r.buf = r.buf[:0]; r.line, r.col = line, col }

func (r *radixPrefixChannel) Ad(ch byte) mill.Decision {
	if len(r.buf) == 0 {
		r.buf = append(r.buf, ch)
		return mill.Extend
	}
	if len(r.buf) == 1 {
		switch ch {
		case 'x':
			r.radix = 16
		case 'o':
			r.radix = 8
		case 'b':
			r.radix = 2
		default:
			return mill.Cancel
		}
		r.buf = append(r.buf, ch)
		return mill.Extend
	}
	return mill.Commit
}

func (r *radixPrefixChannel) End() mill.Decision {
	if len(r.buf) == 2 {
		return mill.Commit
	}
	return mill.Cancel
}

func (r *radixPrefixChannel) Commit() token.Token {
	r.m.SetRadix(r.radix)
	t := token.New(string(r.buf), r.typ, r.line, r.col)
	r.buf = r.buf[:0]
	return t
}

func (r *radixPrefixChannel) Cancel() []token.Token {
	t := token.New(string(r.buf), r.intT, r.line, r.col)
	r.buf = r.buf[:0]
	return []token.Token{t}
}

func (r *radixPrefixChannel) Partial() []byte { return r.buf }

// intChannel is the TOML int fallback: it accepts digits in the mill's
// current radix plus underscore digit-group separators, and resets the
// radix back to 10 the moment the run closes — "until the next
// whitespace/EOL" per spec §4.4, approximated here as "until the run of
// digit-like bytes this channel owns ends", which in practice is the
// same point for any well-formed document.
type intChannel struct {
	m         *mill.Mill
	typ       token.Type
	buf       []byte
	line, col int
}

func newIntChannel(m *mill.Mill, typ token.Type) *intChannel {
	return &intChannel{m: m, typ: typ}
}

func (c *intChannel) Reset(line, col int) { c.buf = c.buf[:0]; c.line, c.col = line, col }

func (c *intChannel) Ad(ch byte) mill.Decision {
	if ch == '_' || radixDigit(ch, c.m.Radix()) {
		c.buf = append(c.buf, ch)
		return mill.Extend
	}
	return mill.Commit
}

func (c *intChannel) End() mill.Decision { return mill.Commit }

func (c *intChannel) Commit() token.Token {
	t := token.New(string(c.buf), c.typ, c.line, c.col)
	c.buf = c.buf[:0]
	c.m.SetRadix(10)
	return t
}

func (c *intChannel) Cancel() []token.Token { return nil }

func (c *intChannel) Partial() []byte { return c.buf }

func radixDigit(ch byte, radix int) bool {
	var v int
	switch {
	case ch >= '0' && ch <= '9':
		v = int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		v = int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		v = int(ch-'A') + 10
	default:
		return false
	}
	return v < radix
}
