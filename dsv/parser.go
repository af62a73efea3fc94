package dsv

import (
	"strings"

	"github.com/inkmill/textmill/millerr"
	"github.com/inkmill/textmill/parser"
	"github.com/inkmill/textmill/token"
)

// buildParserSyntax wires the Pratt command table that turns a DSV
// mill's token stream into Row nodes: every cell-opening token (TEXT,
// ESCAPED, L_QUOTE, WHITESPACE) is a Prefix that starts a new Row with
// one Cell; SEPARATOR is the sole Infix, folding another Cell onto the
// same Row. Separator's nonzero precedence is what makes parser.Parse's
// climb naturally chain "cell SEP cell SEP cell..." into one Row (spec
// §4.3).
func buildParserSyntax(syn *Syntax) *parser.Syntax {
	s := parser.NewSyntax()
	openRow := func(p *parser.Parser, _ parser.Node) (parser.Node, error) {
		cell, err := parseCell(p, syn, p.Previous())
		if err != nil {
			return nil, err
		}
		return NewRow(cell), nil
	}
	for _, tt := range []token.Type{Text, Escaped, LQuote, Whitespace} {
		s.Register(parser.Prefix, tt, openRow)
	}
	s.Register(parser.Infix, Separator, func(p *parser.Parser, left parser.Node) (parser.Node, error) {
		row := left.(*Row)
		// The engine already popped the SEPARATOR token itself (that's
		// how Parse's climb got here); a bare peek, not p.Previous(),
		// tells us whether the next cell is empty (another separator,
		// EOL, or EOF immediately follows) or has real content to parse.
		peek := p.ReadAndPeek(0)
		if peek.Type.Equal(Separator) || peek.Type.Equal(EOL) || peek.Type.Equal(token.EOF) {
			row.Append(attachParse(NewTextCell(""), syn))
			return row, nil
		}
		firstTok := p.ReadAndPop()
		cell, err := parseCell(p, syn, firstTok)
		if err != nil {
			return nil, err
		}
		row.Append(cell)
		return row, nil
	})
	return s
}

// parseCell consumes first (the token that opened this cell — p.Previous()
// for the row-opening Prefix command, or explicitly popped by the
// SEPARATOR Infix command for every subsequent cell) plus every following
// TEXT/ESCAPED/quote/whitespace token, stopping before SEPARATOR, EOL, or
// EOF, assembling one Cell's TextChain.
//
// When a Syntax's QuoteOpen equals QuoteClose (the common RFC 4180 case),
// the mill only ever registers one Literal channel for the quote byte, so
// every quote character the mill emits is typed L_QUOTE regardless of
// whether it opens, closes, or (doubled) escapes a literal quote inside
// the field — isQuoteType treats L_QUOTE and R_QUOTE as interchangeable
// and disambiguates by lookahead instead of by token type.
func parseCell(p *parser.Parser, syn *Syntax, first token.Token) (*Cell, error) {
	chain := NewTextChain()
	quoted := false
	if isQuoteType(first.Type) {
		chain.Append(FragStartField, first.Value, "")
		quoted = true
	} else if err := appendPlain(chain, first, quoted, syn); err != nil {
		return nil, err
	}

	for {
		next := p.ReadAndPeek(0)
		if next.Type.Equal(token.EOF) {
			break
		}
		// A delimiter or line terminator inside an open quote is literal
		// content, not a cell/row boundary — line terminators inside quoted
		// fields count against line counters but do not terminate a row;
		// only an unquoted SEPARATOR/EOL ends the cell.
		if !quoted && (next.Type.Equal(Separator) || next.Type.Equal(EOL)) {
			break
		}
		if isQuoteType(next.Type) {
			closer := p.ReadAndPop()
			if !quoted {
				chain.Append(FragPlain, closer.Value, closer.Value)
				continue
			}
			if peek := p.ReadAndPeek(0); isQuoteType(peek.Type) {
				dbl := p.ReadAndPop()
				chain.Append(FragEscaped, closer.Value+dbl.Value, dbl.Value)
				continue
			}
			chain.Append(FragEndField, closer.Value, "")
			quoted = false
			continue
		}
		tok := p.ReadAndPop()
		if err := appendPlain(chain, tok, quoted, syn); err != nil {
			return nil, err
		}
	}
	return attachParse(NewCell(chain), syn), nil
}

// attachParse wires syn.Parse onto c, when set, as a cell-scoped parse
// hook so that every Cell the table produces — whether assembled by
// parseCell or synthesized directly for an empty separator-adjacent
// field — honors the same caller-supplied interpretation via Cell.Parse
// (spec.md §6.1).
func attachParse(c *Cell, syn *Syntax) *Cell {
	if syn != nil && syn.Parse != nil {
		c.WithParsers(syn.Parse)
	}
	return c
}

func isQuoteType(t token.Type) bool { return t.Equal(LQuote) || t.Equal(RQuote) }

// appendPlain folds one non-quote token into chain. An ESCAPED token
// whose value is a configured EscapeEncoding's ERR_BAD_ESCAPE marker
// (mill.EscapeEncoding.BadEscapeValue, spec.md §4.2 — the radix digits
// ran out before MinDigits was reached) is surfaced as
// millerr.ErrBadEscape instead of being folded in as if it were valid
// escaped text. Otherwise, when syn.RawEscape is set, it overrides the
// fragment's resolved value, letting a caller supply its own escape
// decoding in place of the literal passthrough below (spec.md §6.1).
func appendPlain(chain *TextChain, tok token.Token, quoted bool, syn *Syntax) error {
	if tok.Type.Equal(Escape) {
		chain.Append(FragEscapeOp, tok.Value, "")
		return nil
	}
	if tok.Type.Equal(Escaped) {
		if syn != nil {
			for _, enc := range syn.Escapes {
				if enc.BadEscapeValue(tok.Value) {
					return millerr.NewTokenError(millerr.ErrBadEscape,
						"escape digits ended before the minimum digit count was reached",
						millerr.Location{Line: tok.LineStart, Column: tok.StartPos, Length: tok.Length})
				}
			}
		}
		resolved := tok.Value
		if syn != nil && syn.RawEscape != nil {
			dec, err := syn.RawEscape(tok.Value)
			if err != nil {
				return err
			}
			resolved = dec
		}
		chain.Append(FragEscaped, tok.Value, resolved)
		return nil
	}
	tag := FragPlain
	if quoted {
		tag = FragRaw
	}
	chain.Append(tag, tok.Value, tok.Value)
	return nil
}

// ParseTable drives the DSV mill and Pratt parser over source end to end,
// producing a Table. If syn.Header is empty the first
// parsed row becomes the header; otherwise every parsed row is a data
// row and syn.Header supplies the header directly.
func ParseTable(syn *Syntax, source []byte) (*Table, error) {
	if syn == nil {
		syn = Default()
	}
	active := *syn
	if active.BOM {
		source = stripBOM(source)
	}
	delim, body := detectSeparator(source, &active)
	active.Delimiter = delim

	m := BuildMill(&active)
	m.Process(body)
	m.End()

	psyn := buildParserSyntax(&active)
	p := parser.New(psyn, m.Tokens())

	var header *Row
	var data []*Row
	for {
		peek := p.ReadAndPeek(0)
		if peek.Type.Equal(token.EOF) {
			break
		}
		var row *Row
		if peek.Type.Equal(EOL) {
			p.ReadAndPop()
			row = NewRow(attachParse(NewTextCell(""), &active))
		} else {
			node, err := p.Parse(0)
			if err != nil {
				return nil, err
			}
			row, _ = node.(*Row)
			if p.Match(EOL) {
				p.ReadAndPop()
			}
		}
		if header == nil && len(active.Header) == 0 {
			header = row
			continue
		}
		data = append(data, row)
	}
	if header == nil {
		header = NewRow()
		for _, h := range active.Header {
			header.Append(NewTextCell(h))
		}
	}
	t := NewTable(header, data...)
	t.syn = &active
	if err := t.validateSymmetry(); err != nil {
		return nil, err
	}
	return t, nil
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

// detectSeparator implements Excel's self-describing separator line: if
// the first line matches "Sep=<c>" case-insensitively, <c> overrides
// syn.Delimiter for the rest of the document and that line is consumed
// entirely; otherwise syn.Delimiter is used unchanged.
func detectSeparator(source []byte, syn *Syntax) (string, []byte) {
	s := string(source)
	nl := strings.IndexAny(s, "\r\n")
	line := s
	if nl >= 0 {
		line = s[:nl]
	}
	if len(line) > 4 && strings.EqualFold(line[:4], "sep=") {
		c := line[4:]
		if nl < 0 {
			return c, nil
		}
		return c, consumeEOL(source[len(line):])
	}
	return syn.Delimiter, source
}

func consumeEOL(b []byte) []byte {
	if len(b) >= 2 && b[0] == '\r' && b[1] == '\n' {
		return b[2:]
	}
	if len(b) >= 1 {
		return b[1:]
	}
	return b
}
