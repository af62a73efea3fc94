// Package mill implements the streaming tokenizer framework shared by
// every text format this module supports: a dispatch table of Channels
// keyed by first byte, three category fallbacks (digit run, whitespace
// run, free text), and a reusable two-phase escape sub-component. A
// format registers its Channels once at init time and feeds raw bytes in
// through Process; the mill never re-reads bytes it has already accounted
// for.
package mill

import "github.com/inkmill/textmill/token"

type escRegistration struct {
	state *escapeState
}

// Mill is the streaming tokenizer. It owns no format-specific knowledge:
// a format configures it by registering Channels for the bytes it cares
// about and fallback Channels for digits, whitespace, and free text.
type Mill struct {
	channels map[byte]Channel
	escByKey map[byte]*escRegistration

	intCh, wsCh, textCh Channel

	ls     Channel
	lsByte byte
	lsSet  bool

	escActive bool
	esc       *escapeState

	radix int

	line, col int
	afterCR   bool
	queue     *token.Queue
}

// New returns an empty Mill positioned at line 1, column 1, decimal radix.
func New() *Mill {
	return &Mill{
		channels: map[byte]Channel{},
		escByKey: map[byte]*escRegistration{},
		line:     1,
		col:      1,
		radix:    10,
		queue:    token.NewQueue(),
	}
}

// Register binds a Channel to the first byte of whatever lexeme it
// recognizes (a delimiter, an EOL sequence, a quote, an escape operator).
// Two channels can never share a first byte within one mill.
func (m *Mill) Register(first byte, ch Channel) {
	m.channels[first] = ch
}

// RegisterEscape binds an operator Channel (typically a Literal) that,
// once committed, hands control to the two-phase escape reader configured
// by enc. opFirst is the operator's first byte.
func (m *Mill) RegisterEscape(opFirst byte, opChannel Channel, enc EscapeEncoding, escapedType token.Type) {
	m.channels[opFirst] = opChannel
	m.escByKey[opFirst] = &escRegistration{state: newEscapeState(enc, escapedType)}
}

// SetFallbacks registers the three category channels consulted when no
// byte-specific Channel claims the current byte: intCh for digits in the
// current radix, wsCh for ASCII whitespace, textCh for everything else.
func (m *Mill) SetFallbacks(intCh, wsCh, textCh Channel) {
	m.intCh, m.wsCh, m.textCh = intCh, wsCh, textCh
}

// SetRadix changes the digit set the int fallback channel claims. TOML's
// radix-prefix channel (0x/0o/0b) calls this when it commits, and TOML's
// int channel sets it back to 10 when its digit run commits.
func (m *Mill) SetRadix(r int) { m.radix = r }

// Radix returns the digit radix currently in effect.
func (m *Mill) Radix() int { return m.radix }

// Line returns the mill's current 1-based line position.
func (m *Mill) Line() int { return m.line }

// Col returns the mill's current 1-based column position.
func (m *Mill) Col() int { return m.col }

// Tokens returns the queue the mill emits into, for the parser to drain.
func (m *Mill) Tokens() *token.Queue { return m.queue }

// Process feeds a chunk of source bytes through the mill. It may be
// called repeatedly with successive chunks of a streamed input; state
// spanning a chunk boundary (an active channel, an open escape) carries
// over correctly.
func (m *Mill) Process(chunk []byte) {
	for _, ch := range chunk {
		m.dispatch(ch)
		m.advance(ch)
	}
}

// End signals that no further bytes will arrive, flushing whatever
// channel or escape is still active and stamping the EOF position the
// queue will report once drained.
func (m *Mill) End() {
	if m.escActive {
		for _, t := range m.esc.flushAtEOF() {
			m.push(t)
		}
		m.escActive = false
	}
	if m.lsSet {
		switch m.ls.End() {
		case Commit:
			m.push(m.ls.Commit())
		case Cancel:
			for _, t := range m.ls.Cancel() {
				m.push(t)
			}
		}
		m.clearActive()
	}
	m.queue.SetEOFPosition(m.line, m.col)
}

// Processed returns every token produced so far that the caller has not
// yet drained from Tokens().
func (m *Mill) Processed() []token.Token { return m.queue.All() }

// Unprocessed returns the bytes absorbed by the currently active channel
// (or escape buffer) but not yet turned into a token.
func (m *Mill) Unprocessed() []byte {
	if m.escActive {
		return append([]byte(nil), m.esc.buf...)
	}
	if m.lsSet {
		return append([]byte(nil), m.ls.Partial()...)
	}
	return nil
}

func (m *Mill) push(t token.Token) { m.queue.Push(t) }

// advance tracks line/column over every byte the mill sees, independent
// of which channel (if any) claims it — a line terminator embedded in a
// quoted field still counts against the line counter even though it
// never becomes its own EOL token. Both "\r" and "\n" count as a line
// break on their own so that a "\r"-only document still advances; a
// "\r\n" pair counts as one break by skipping the "\n" half once the
// preceding "\r" has already been counted.
func (m *Mill) advance(ch byte) {
	switch ch {
	case '\r':
		m.line++
		m.col = 1
		m.afterCR = true
		return
	case '\n':
		if m.afterCR {
			m.afterCR = false
			return
		}
		m.line++
		m.col = 1
		return
	}
	m.afterCR = false
	m.col++
}

// rewindAndRedispatch re-feeds bytes an escape reader gave back on
// ERR_BAD_ESCAPE (spec.md §4.2): each byte already advanced the column
// counter once when the escape reader first consumed it, so the column is
// rewound by len(pending) before replaying them through ordinary
// dispatch — radix-escape digits are always plain ASCII with no line
// terminators, so rewinding the column alone is sufficient.
func (m *Mill) rewindAndRedispatch(pending []byte) {
	if len(pending) == 0 {
		return
	}
	m.col -= len(pending)
	if m.col < 1 {
		m.col = 1
	}
	for _, b := range pending {
		m.dispatch(b)
		m.advance(b)
	}
}

func (m *Mill) setActive(ch byte) {
	if c, ok := m.channels[ch]; ok {
		m.ls, m.lsByte = c, ch
	} else if m.intCh != nil && isDigitInRadix(ch, m.radix) {
		m.ls, m.lsByte = m.intCh, 0
	} else if m.wsCh != nil && isWhitespace(ch) {
		m.ls, m.lsByte = m.wsCh, 0
	} else {
		m.ls, m.lsByte = m.textCh, 0
	}
	m.lsSet = true
	m.ls.Reset(m.line, m.col)
}

func (m *Mill) clearActive() {
	m.ls = nil
	m.lsByte = 0
	m.lsSet = false
}

// dispatch runs the full top-level five-step rule for one physical byte,
// including any re-dispatch a Commit or Cancel demands, all attributed to
// the same source position.
func (m *Mill) dispatch(ch byte) {
	if m.escActive {
		done, toks, consumed, rewind := m.esc.feed(ch)
		if done {
			m.escActive = false
			for _, t := range toks {
				m.push(t)
			}
			m.rewindAndRedispatch(rewind)
		}
		if consumed {
			return
		}
	}
	for {
		if !m.lsSet {
			m.setActive(ch)
		}
		switch m.ls.Ad(ch) {
		case Extend:
			return
		case Commit:
			reg, isOperator := m.escByKey[m.lsByte]
			tok := m.ls.Commit()
			m.clearActive()
			m.push(tok)
			if isOperator {
				reg.state.open(m.line, m.col)
				m.esc = reg.state
				m.escActive = true
				done, toks, consumed, rewind := m.esc.feed(ch)
				if done {
					m.escActive = false
					for _, t := range toks {
						m.push(t)
					}
					m.rewindAndRedispatch(rewind)
				}
				if consumed {
					return
				}
				// ch opened the operator but the escape reader itself
				// did not want it (shouldn't normally happen — every
				// configured escape body consumes at least one byte —
				// but fall through to ordinary dispatch rather than
				// drop it).
				continue
			}
			// ch was lookahead, not part of tok: retry it fresh.
			continue
		case Cancel:
			for _, t := range m.ls.Cancel() {
				m.push(t)
			}
			m.clearActive()
			continue
		}
	}
}

func isDigitInRadix(ch byte, radix int) bool {
	_, ok := digitValue(ch, radix)
	return ok
}

func isWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\v', '\f':
		return true
	default:
		return false
	}
}
