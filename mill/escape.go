package mill

import (
	"strings"

	"github.com/inkmill/textmill/token"
)

// EscapeEncoding describes one escape grammar the mill recognizes once its
// operator channel commits: an operator that opens escape
// mode, an optional set of prefix characters selecting a radix-coded
// escape (e.g. "u" for \uXXXX), a set of short literal infixes (e.g. "n",
// "t", the literal quote character), a closing suffix for delimited radix
// forms (e.g. ";" in an HTML-style "&#120;" reference), and the
// digit-count/radix bounds for the radix form.
type EscapeEncoding struct {
	Operator       string
	PrefixSelector string
	Infixes        []string
	Suffix         string
	MinDigits      int
	MaxDigits      int
	Radix          int
}

// BadEscapeValue reports whether body is the prefix-only marker the mill
// emits on ERR_BAD_ESCAPE (spec.md §4.2): a radix escape whose digit run
// was invalidated before MinDigits was reached commits only its
// PrefixSelector byte as the ESCAPED token's value, rewinding the
// partially-consumed digits back onto the source instead of folding them
// into the token. A caller decoding an ESCAPED token checks this first to
// tell a genuine lexical error apart from a short-but-valid infix.
func (e EscapeEncoding) BadEscapeValue(body string) bool {
	if e.MinDigits <= 0 || len(body) != 1 {
		return false
	}
	return strings.IndexByte(e.PrefixSelector, body[0]) >= 0
}

func (e EscapeEncoding) longestInfix() int {
	n := 0
	for _, inf := range e.Infixes {
		if len(inf) > n {
			n = len(inf)
		}
	}
	return n
}

func digitValue(ch byte, radix int) (int, bool) {
	var v int
	switch {
	case ch >= '0' && ch <= '9':
		v = int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		v = int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		v = int(ch-'A') + 10
	default:
		return 0, false
	}
	if v >= radix {
		return 0, false
	}
	return v, true
}

// escapeState drives the two-phase escape handling:
// once the operator channel commits its ESCAPE token, every following
// byte bypasses normal channel dispatch until the escape closes, at which
// point a single ESCAPED token (or, on malformed input, whatever was
// buffered, flushed verbatim) is emitted and normal dispatch resumes.
type escapeState struct {
	enc       EscapeEncoding
	escapedTy token.Type
	buf       []byte
	line, col int
	radixMode bool
	sawPrefix bool
}

func newEscapeState(enc EscapeEncoding, escapedTy token.Type) *escapeState {
	return &escapeState{enc: enc, escapedTy: escapedTy}
}

// open begins buffering a new escape body at the given position, called
// the moment the operator's ESCAPE token is committed.
func (s *escapeState) open(line, col int) {
	s.buf = s.buf[:0]
	s.line, s.col = line, col
	s.radixMode = false
	s.sawPrefix = false
}

// feed processes one raw byte while escape mode is active. done reports
// whether the escape closed on this byte; consumed reports whether ch was
// absorbed into the escape body (true) or must be re-dispatched through
// normal channel dispatch (false — e.g. a radix escape with no closing
// suffix handing the first ordinary character back to the mill).
// rewind carries bytes already absorbed into the escape body that a
// ERR_BAD_ESCAPE commit is handing back to the mill for ordinary
// re-dispatch (spec.md §4.2); the caller must rewind its column counter
// by len(rewind) before re-feeding them, since each was already advanced
// past once when first consumed here.
func (s *escapeState) feed(ch byte) (done bool, toks []token.Token, consumed bool, rewind []byte) {
	if len(s.buf) == 0 {
		s.buf = append(s.buf, ch)
		for i := 0; i < len(s.enc.PrefixSelector); i++ {
			if s.enc.PrefixSelector[i] == ch {
				s.radixMode = true
				s.sawPrefix = true
				return false, nil, true, nil
			}
		}
		d, t, c := s.matchInfix()
		return d, t, c, nil
	}
	if s.radixMode {
		return s.feedRadix(ch)
	}
	s.buf = append(s.buf, ch)
	d, t, c := s.matchInfix()
	return d, t, c, nil
}

// matchInfix checks the buffer against the configured literal infixes,
// committing on an exact match, and giving up — flushing the buffer
// verbatim — once it reaches the length of the longest configured infix
// without matching any of them.
func (s *escapeState) matchInfix() (done bool, toks []token.Token, consumed bool) {
	body := string(s.buf)
	for _, inf := range s.enc.Infixes {
		if body == inf {
			return true, []token.Token{token.New(body, s.escapedTy, s.line, s.col)}, true
		}
	}
	if len(body) >= s.enc.longestInfix() {
		return true, []token.Token{token.New(body, s.escapedTy, s.line, s.col)}, true
	}
	return false, nil, true
}

// feedRadix accumulates digits in the configured radix up to MaxDigits, or
// until the closing Suffix is seen once MinDigits have been met. A byte
// that is neither a valid digit nor the closing suffix, seen before
// MinDigits digits have been accumulated, is ERR_BAD_ESCAPE (spec.md
// §4.2): feedRadix commits only the PrefixSelector byte as the ESCAPED
// token (see EscapeEncoding.BadEscapeValue) and hands the
// partially-consumed digits back via rewind for ordinary re-dispatch,
// alongside ch itself (consumed=false).
func (s *escapeState) feedRadix(ch byte) (done bool, toks []token.Token, consumed bool, rewind []byte) {
	digits := s.buf
	if s.sawPrefix && len(digits) > 0 {
		digits = digits[1:]
	}
	if len(s.enc.Suffix) > 0 && ch == s.enc.Suffix[0] && len(digits) >= s.enc.MinDigits {
		s.buf = append(s.buf, ch)
		return true, []token.Token{token.New(string(s.buf), s.escapedTy, s.line, s.col)}, true, nil
	}
	if _, ok := digitValue(ch, s.enc.Radix); ok && len(digits) < s.enc.MaxDigits {
		s.buf = append(s.buf, ch)
		if len(digits)+1 == s.enc.MaxDigits && len(s.enc.Suffix) == 0 {
			return true, []token.Token{token.New(string(s.buf), s.escapedTy, s.line, s.col)}, true, nil
		}
		return false, nil, true, nil
	}
	if len(digits) >= s.enc.MinDigits {
		return true, []token.Token{token.New(string(s.buf), s.escapedTy, s.line, s.col)}, false, nil
	}
	prefixLen := len(s.buf) - len(digits)
	prefix := append([]byte(nil), s.buf[:prefixLen]...)
	invalid := append([]byte(nil), digits...)
	return true, []token.Token{token.New(string(prefix), s.escapedTy, s.line, s.col)}, false, invalid
}

// flushAtEOF finalizes whatever has been buffered when input ends while
// escape mode is still active.
func (s *escapeState) flushAtEOF() []token.Token {
	if len(s.buf) == 0 {
		return nil
	}
	return []token.Token{token.New(string(s.buf), s.escapedTy, s.line, s.col)}
}
