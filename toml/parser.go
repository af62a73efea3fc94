package toml

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/inkmill/textmill/format"
	"github.com/inkmill/textmill/millerr"
	"github.com/inkmill/textmill/parser"
	"github.com/inkmill/textmill/token"
)

// Parse drives the TOML mill and a hand-written recursive-descent reader
// over its token queue, producing the root Table (spec §4.4, §6.1). Since
// every TOML token type carries precedence 0 (toml/types.go), this
// package uses parser.Parser only for its lookahead/consume plumbing —
// ReadAndPeek/ReadAndPop/Match — never its precedence-climbing Parse
// method, matching §4.3's note that Postfix (and, here, the whole
// Pratt-climb mechanism) is "reserved but not used" when a format's
// grammar is driven by a document-level loop instead.
func Parse(syn *Syntax, source []byte) (*Table, error) {
	if syn == nil {
		syn = Default()
	}
	if syn.BOM {
		source = stripBOM(source)
	}
	m := BuildMill(syn)
	m.Process(source)
	m.End()
	p := parser.New(parser.NewSyntax(), m.Tokens())

	root := NewTable(false)
	if syn.Global {
		root.Inline = false
	}
	cur := root
	var pending []string

	for {
		peek := p.ReadAndPeek(0)
		switch {
		case peek.Type.Equal(token.EOF):
			return root, nil
		case peek.Type.Equal(EOL):
			p.ReadAndPop()
			pending = nil
		case peek.Type.Equal(Whitespace):
			p.ReadAndPop()
		case peek.Type.Equal(Comment):
			tok := p.ReadAndPop()
			pending = append(pending, commentText(tok.Value))
			skipTrailingEOL(p)
		case peek.Type.Equal(DoubleLBracket):
			t, err := parseArrayHeader(p, root)
			if err != nil {
				return nil, err
			}
			t.Snip.BlockComments = pending
			pending = nil
			cur = t
			consumeHeaderTrailer(p, t)
			skipTrailingEOL(p)
		case peek.Type.Equal(LBracket):
			t, err := parseTableHeader(p, root)
			if err != nil {
				return nil, err
			}
			t.Snip.BlockComments = pending
			pending = nil
			cur = t
			consumeHeaderTrailer(p, t)
			skipTrailingEOL(p)
		default:
			if err := parseAssignment(p, syn, cur, pending); err != nil {
				return nil, err
			}
			pending = nil
			skipTrailingEOL(p)
		}
	}
}

// consumeHeaderTrailer absorbs an optional "# comment" between a table
// or array-of-tables header and its terminating EOL.
func consumeHeaderTrailer(p *parser.Parser, t *Table) {
	skipWS(p)
	if p.Match(Comment) {
		tok := p.ReadAndPop()
		t.Snip.InlineComment = commentText(tok.Value)
	}
}

func skipTrailingEOL(p *parser.Parser) {
	for {
		peek := p.ReadAndPeek(0)
		if peek.Type.Equal(Whitespace) {
			p.ReadAndPop()
			continue
		}
		if peek.Type.Equal(EOL) {
			p.ReadAndPop()
		}
		return
	}
}

func commentText(raw string) string {
	s := strings.TrimPrefix(raw, "#")
	return strings.TrimPrefix(s, " ")
}

// parseTableHeader consumes "[" path "]" and returns the (possibly newly
// created) Table at that absolute path from root.
func parseTableHeader(p *parser.Parser, root *Table) (*Table, error) {
	p.ReadAndPop() // '['
	segs, err := parseKeyPath(p)
	if err != nil {
		return nil, err
	}
	if _, err := p.Consume(RBracket); err != nil {
		return nil, err
	}
	return getOrCreateTable(root, segs)
}

// parseArrayHeader consumes "[[" path "]]", appends a fresh Table to the
// array-of-tables bound at path, and returns that new Table.
func parseArrayHeader(p *parser.Parser, root *Table) (*Table, error) {
	p.ReadAndPop() // '[['
	segs, err := parseKeyPath(p)
	if err != nil {
		return nil, err
	}
	if _, err := p.Consume(DoubleRBracket); err != nil {
		return nil, err
	}
	parent, err := getOrCreateTable(root, segs[:len(segs)-1])
	if err != nil {
		return nil, err
	}
	last := segs[len(segs)-1]
	existing, ok := parent.Get(last)
	var seq *Seq
	if ok {
		seq, ok = existing.(*Seq)
		if !ok {
			return nil, millerr.NewExpressionError(millerr.ErrInvalidProjection,
				"key already defined as a non-array value", millerr.Location{})
		}
	} else {
		seq = NewSeq(false)
		parent.Set(NewText(last, Bare), seq)
	}
	t := NewTable(false)
	seq.Append(t)
	return t, nil
}

// getOrCreateTable walks segs from root, creating intermediate block
// tables as needed, descending into the last table of an array-of-tables
// when a segment names one (per TOML's "dotted path threads through the
// most recently defined array entry" rule).
func getOrCreateTable(root *Table, segs []string) (*Table, error) {
	cur := root
	for _, seg := range segs {
		existing, ok := cur.Get(seg)
		if !ok {
			next := NewTable(false)
			cur.Set(NewText(seg, Bare), next)
			cur = next
			continue
		}
		switch v := existing.(type) {
		case *Table:
			cur = v
		case *Seq:
			if len(v.Items) == 0 {
				return nil, millerr.NewExpressionError(millerr.ErrInvalidProjection,
					"cannot descend into an empty array of tables", millerr.Location{})
			}
			last, ok := v.Items[len(v.Items)-1].(*Table)
			if !ok {
				return nil, millerr.NewExpressionError(millerr.ErrInvalidProjection,
					"array element is not a table", millerr.Location{})
			}
			cur = last
		default:
			return nil, millerr.NewExpressionError(millerr.ErrInvalidProjection,
				"key already defined as a non-table value", millerr.Location{})
		}
	}
	return cur, nil
}

// parseKeyPath reads a dotted sequence of bare or quoted keys, stopping
// before the closing bracket(s).
func parseKeyPath(p *parser.Parser) ([]string, error) {
	skipWS(p)
	var segs []string
	for {
		seg, err := parseKeySegment(p)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
		skipWS(p)
		if p.Match(Dot) {
			p.ReadAndPop()
			skipWS(p)
			continue
		}
		return segs, nil
	}
}

func skipWS(p *parser.Parser) {
	for p.Match(Whitespace) {
		p.ReadAndPop()
	}
}

var bareKeyTypes = []token.Type{Text, Int, Underscore, Minus}

func parseKeySegment(p *parser.Parser) (string, error) {
	peek := p.ReadAndPeek(0)
	if isQuoteOpener(peek.Type) {
		txt, err := parseQuotedString(p)
		if err != nil {
			return "", err
		}
		return txt.Val, nil
	}
	raw, ok := collectAdjacent(p, bareKeyTypes)
	if !ok {
		tok := p.ReadAndPop()
		return "", unexpectedErr(tok)
	}
	return raw, nil
}

func isQuoteOpener(t token.Type) bool {
	return t.Equal(DQuote) || t.Equal(TriDQuote) || t.Equal(SQuote) || t.Equal(TriSQuote)
}

// parseAssignment reads "key [ '.' key ]* = value" and binds value into
// cur (or a dotted sub-table of cur), attaching pending as the value's
// block comments when the value is a scalar.
func parseAssignment(p *parser.Parser, syn *Syntax, cur *Table, pending []string) error {
	segs, err := parseKeyPath(p)
	if err != nil {
		return err
	}
	if _, err := p.Consume(Equals); err != nil {
		return err
	}
	skipWS(p)
	val, err := parseValue(p, syn)
	if err != nil {
		return err
	}
	skipWS(p)
	if p.Match(Comment) {
		tok := p.ReadAndPop()
		setInlineComment(val, commentText(tok.Value))
	}
	target := cur
	if len(segs) > 1 {
		var err error
		target, err = getOrCreateTable(cur, segs[:len(segs)-1])
		if err != nil {
			return err
		}
	}
	key := NewText(segs[len(segs)-1], Bare)
	if len(pending) > 0 {
		setBlockComments(val, pending)
	}
	target.Set(key, val)
	return nil
}

func setBlockComments(e any, comments []string) {
	switch v := e.(type) {
	case *Int:
		v.Snip.BlockComments = comments
	case *B64:
		v.Snip.BlockComments = comments
	case *Bool:
		v.Snip.BlockComments = comments
	case *R39:
		v.Snip.BlockComments = comments
	case *Text:
		v.Snip.BlockComments = comments
	case *Table:
		v.Snip.BlockComments = comments
	case *Seq:
		v.Snip.BlockComments = comments
	}
}

func setInlineComment(e any, comment string) {
	switch v := e.(type) {
	case *Int:
		v.Snip.InlineComment = comment
	case *B64:
		v.Snip.InlineComment = comment
	case *Bool:
		v.Snip.InlineComment = comment
	case *R39:
		v.Snip.InlineComment = comment
	case *Text:
		v.Snip.InlineComment = comment
	case *Table:
		v.Snip.InlineComment = comment
	case *Seq:
		v.Snip.InlineComment = comment
	}
}

func parseValue(p *parser.Parser, syn *Syntax) (format.Expression, error) {
	peek := p.ReadAndPeek(0)
	switch {
	case isQuoteOpener(peek.Type):
		return parseQuotedString(p)
	case peek.Type.Equal(LBrace):
		return parseInlineTable(p, syn)
	case peek.Type.Equal(LBracket):
		return parseInlineArray(p, syn)
	default:
		return parseBareValue(p, syn)
	}
}

func parseInlineTable(p *parser.Parser, syn *Syntax) (*Table, error) {
	p.ReadAndPop() // '{'
	t := NewTable(true)
	skipWS(p)
	if p.Match(RBrace) {
		p.ReadAndPop()
		return t, nil
	}
	for {
		segs, err := parseKeyPath(p)
		if err != nil {
			return nil, err
		}
		if _, err := p.Consume(Equals); err != nil {
			return nil, err
		}
		skipWS(p)
		val, err := parseValue(p, syn)
		if err != nil {
			return nil, err
		}
		target := t
		if len(segs) > 1 {
			target, err = getOrCreateTable(t, segs[:len(segs)-1])
			if err != nil {
				return nil, err
			}
		}
		target.Set(NewText(segs[len(segs)-1], Bare), val)
		skipWS(p)
		if p.Match(Comma) {
			p.ReadAndPop()
			skipWS(p)
			continue
		}
		if _, err := p.Consume(RBrace); err != nil {
			return nil, err
		}
		return t, nil
	}
}

func parseInlineArray(p *parser.Parser, syn *Syntax) (*Seq, error) {
	p.ReadAndPop() // '['
	seq := NewSeq(true)
	skipArrayFiller(p)
	if p.Match(RBracket) {
		p.ReadAndPop()
		return seq, nil
	}
	for {
		val, err := parseValue(p, syn)
		if err != nil {
			return nil, err
		}
		seq.Append(val)
		skipArrayFiller(p)
		if p.Match(Comma) {
			p.ReadAndPop()
			skipArrayFiller(p)
			if p.Match(RBracket) { // trailing comma
				p.ReadAndPop()
				return seq, nil
			}
			continue
		}
		if _, err := p.Consume(RBracket); err != nil {
			return nil, err
		}
		return seq, nil
	}
}

// skipArrayFiller discards whitespace, line breaks, and comments — a
// multi-line inline array is legal TOML even though a multi-line
// top-level document line is not.
func skipArrayFiller(p *parser.Parser) {
	for {
		peek := p.ReadAndPeek(0)
		switch {
		case peek.Type.Equal(Whitespace), peek.Type.Equal(EOL):
			p.ReadAndPop()
		case peek.Type.Equal(Comment):
			p.ReadAndPop()
		default:
			return
		}
	}
}

// parseQuotedString reads a basic/literal/triple-quoted string starting
// at the current D_QUOTE/TRI_D_QUOTE/S_QUOTE/TRI_S_QUOTE token, resolving
// escapes for the double-quote families and leaving literal-string
// content untouched (spec §3.5, scenario S3).
func parseQuotedString(p *parser.Parser) (*Text, error) {
	open := p.ReadAndPop()
	quote := quoteStyleFor(open.Type)
	literal := quote == SQuoteStyle || quote == TriSQuoteStyle
	var raw, src strings.Builder
	src.WriteString(open.Value)
	for {
		next := p.ReadAndPeek(0)
		if next.Type.Equal(open.Type) {
			p.ReadAndPop()
			src.WriteString(next.Value)
			break
		}
		if next.Type.Equal(token.EOF) {
			return nil, millerr.NewTokenError(millerr.ErrUnterminatedQuote,
				"unterminated TOML string", millerr.Location{Line: open.LineStart, Column: open.StartPos})
		}
		tok := p.ReadAndPop()
		src.WriteString(tok.Value)
		if tok.Type.Equal(Escaped) && !literal {
			dec, err := decodeEscaped(tok.Value, tok)
			if err != nil {
				return nil, err
			}
			raw.WriteString(dec)
			continue
		}
		if tok.Type.Equal(Escape) {
			if literal {
				raw.WriteString(tok.Value)
			}
			continue
		}
		raw.WriteString(tok.Value)
	}
	t := NewText(raw.String(), quote)
	t.Snip.Source = src.String()
	return t, nil
}

func quoteStyleFor(t token.Type) QuoteStyle {
	switch {
	case t.Equal(DQuote):
		return DQuoteStyle
	case t.Equal(TriDQuote):
		return TriDQuoteStyle
	case t.Equal(SQuote):
		return SQuoteStyle
	case t.Equal(TriSQuote):
		return TriSQuoteStyle
	default:
		return Bare
	}
}

var infixDecode = map[string]string{
	"n": "\n", "t": "\t", "r": "\r", "b": "\b", "f": "\f", "\"": "\"", "\\": "\\", "'": "'",
}

// decodeEscaped turns an ESCAPED token's raw body (the operator itself
// was already emitted as its own ESCAPE token) into its resolved text: a
// short literal infix via infixDecode, or a \uXXXX/\UXXXXXXXX body
// (PrefixSelector "u" followed by hex digits) decoded as a Unicode code
// point. A body of just "u"/"U" with no digits at all is the mill's
// ERR_BAD_ESCAPE marker (mill.EscapeEncoding.BadEscapeValue, spec.md
// §4.2: the radix digits ran out before MinDigits was reached) and is
// surfaced as millerr.ErrBadEscape rather than silently passed through.
func decodeEscaped(body string, tok token.Token) (string, error) {
	if dec, ok := infixDecode[body]; ok {
		return dec, nil
	}
	if len(body) >= 1 && (body[0] == 'u' || body[0] == 'U') {
		loc := millerr.Location{Line: tok.LineStart, Column: tok.StartPos, Length: tok.Length}
		if len(body) == 1 {
			return "", millerr.NewTokenError(millerr.ErrBadEscape,
				"unicode escape ended before any hex digits were seen", loc)
		}
		n, err := strconv.ParseInt(body[1:], 16, 32)
		if err != nil {
			return "", millerr.NewTokenError(millerr.ErrBadEscape,
				"invalid hex digits in unicode escape", loc)
		}
		return string(rune(n)), nil
	}
	return body, nil
}

// bareValueTypes are the token kinds that can compose an unquoted TOML
// scalar literal once reassembled by adjacency (spec §9: the mill's
// fragmented output is reassembled at the value layer rather than the
// mill itself modeling every literal shape).
var bareValueTypes = []token.Type{Text, Int, Minus, Plus, Dot, Underscore, RadixPrefix}

func parseBareValue(p *parser.Parser, syn *Syntax) (format.Expression, error) {
	raw, ok := collectAdjacent(p, bareValueTypes)
	if !ok {
		tok := p.ReadAndPop()
		return nil, unexpectedErr(tok)
	}
	return classifyBareValue(raw, syn), nil
}

func unexpectedErr(tok token.Token) error {
	loc := millerr.Location{Line: tok.LineStart, Column: tok.StartPos, Length: tok.Length}
	return millerr.NewParseError(millerr.ErrUnexpected, "unexpected "+tok.Type.String(), loc)
}

// collectAdjacent pops tokens for as long as they are (a) one of allowed
// and (b) immediately adjacent on the same line to the previous token
// (no intervening byte), concatenating their values verbatim. Because
// the mill never drops or duplicates a byte, this concatenation always
// reproduces the exact source substring regardless of exactly where the
// mill's channels happened to split it.
func collectAdjacent(p *parser.Parser, allowed []token.Type) (string, bool) {
	first := p.ReadAndPeek(0)
	if !typeIn(first.Type, allowed) {
		return "", false
	}
	tok := p.ReadAndPop()
	var b strings.Builder
	b.WriteString(tok.Value)
	endLine, endCol := tok.LineEnd, tok.StartPos+tok.Length
	for {
		next := p.ReadAndPeek(0)
		if !typeIn(next.Type, allowed) {
			break
		}
		if next.LineStart != endLine || next.StartPos != endCol {
			break
		}
		tok = p.ReadAndPop()
		b.WriteString(tok.Value)
		endLine, endCol = tok.LineEnd, tok.StartPos+tok.Length
	}
	return b.String(), true
}

func typeIn(t token.Type, set []token.Type) bool {
	for _, s := range set {
		if t.Equal(s) {
			return true
		}
	}
	return false
}

var (
	dateTimeRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:[Tt ](\d{2}):(\d{2}):(\d{2})(?:\.(\d+))?(Z|z|[+-]\d{2}:\d{2})?)?$`)
	timeOnlyRe = regexp.MustCompile(`^(\d{2}):(\d{2})(?::(\d{2})(?:\.(\d+))?)?$`)
	intRe      = regexp.MustCompile(`^[+-]?(0[xX][0-9A-Fa-f_]+|0[oO][0-7_]+|0[bB][01_]+|\d[\d_]*)$`)
	floatRe    = regexp.MustCompile(`^[+-]?\d[\d_]*(\.\d[\d_]*)?([eE][+-]?\d+)?$`)
)

// classifyBareValue turns a reassembled literal into the concrete
// Expression it denotes: a boolean, a date-time, an integer, a float, or
// (fallback) a bare Text — the last case covers a bare key accidentally
// reached through value parsing and an unrecognized literal, which
// round-trips unchanged via Debug/Format rather than failing the parse,
// matching the mill's "lexing is total" guarantee one layer up (spec
// §4.2).
func classifyBareValue(raw string, syn *Syntax) format.Expression {
	switch raw {
	case "true":
		return NewBool(true)
	case "false":
		return NewBool(false)
	case "inf", "+inf":
		b := NewB64(math.Inf(1))
		b.Snip.Source = raw
		return b
	case "-inf":
		b := NewB64(math.Inf(-1))
		b.Snip.Source = raw
		return b
	case "nan", "+nan":
		if syn != nil && syn.Qnan {
			b := NewB64(math.NaN())
			b.Snip.Source = raw
			return b
		}
	case "snan", "+snan", "-snan":
		if syn != nil && syn.Snan {
			b := NewB64(math.NaN())
			b.Snip.Source = raw
			return b
		}
	}
	if m := dateTimeRe.FindStringSubmatch(raw); m != nil {
		return buildR39(m, raw)
	}
	if m := timeOnlyRe.FindStringSubmatch(raw); m != nil {
		r := &R39{Kind: LocalTime}
		r.Hour = atoi(m[1])
		if m[2] != "" {
			r.HasMin = true
			r.Min = atoi(m[2])
		}
		if m[3] != "" {
			r.HasSec = true
			r.Sec = atoi(m[3])
		}
		if m[4] != "" {
			r.Nsec = parseNsec(m[4])
		}
		r.Snip.Source = raw
		return r
	}
	if intRe.MatchString(raw) {
		return parseIntLiteral(raw)
	}
	if floatRe.MatchString(raw) && (strings.Contains(raw, ".") || strings.ContainsAny(raw, "eE")) {
		clean := strings.ReplaceAll(raw, "_", "")
		v, err := strconv.ParseFloat(clean, 64)
		if err == nil {
			b := NewB64(v)
			b.Snip.Source = raw
			return b
		}
	}
	t := NewText(raw, Bare)
	return t
}

func buildR39(m []string, raw string) *R39 {
	r := &R39{Kind: LocalDate, HasMonth: true, HasDay: true}
	r.Year = atoi(m[1])
	r.Month = atoi(m[2])
	r.Day = atoi(m[3])
	if m[4] != "" {
		r.Kind = LocalDateTime
		r.Hour = atoi(m[4])
		r.HasMin = true
		r.Min = atoi(m[5])
		r.HasSec = true
		r.Sec = atoi(m[6])
		if m[7] != "" {
			r.Nsec = parseNsec(m[7])
		}
		if m[8] != "" {
			r.Kind = OffsetDateTime
			switch {
			case m[8] == "Z" || m[8] == "z":
				r.Offset = OffsetZ
			case m[8][0] == '+':
				r.Offset = OffsetPlus
				r.OffHour, r.OffMin = parseOffsetParts(m[8][1:])
			case m[8][0] == '-':
				r.Offset = OffsetMinus
				r.OffHour, r.OffMin = parseOffsetParts(m[8][1:])
			}
		}
	}
	r.Snip.Source = raw
	return r
}

func parseOffsetParts(s string) (int, int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	return atoi(parts[0]), atoi(parts[1])
}

func parseNsec(frac string) int {
	for len(frac) < 9 {
		frac += "0"
	}
	n, _ := strconv.Atoi(frac[:9])
	return n
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseIntLiteral(raw string) *Int {
	neg := false
	body := raw
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		neg = body[0] == '-'
		body = body[1:]
	}
	body = strings.ReplaceAll(body, "_", "")
	radix := 10
	switch {
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		radix, body = 16, body[2:]
	case strings.HasPrefix(body, "0o") || strings.HasPrefix(body, "0O"):
		radix, body = 8, body[2:]
	case strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B"):
		radix, body = 2, body[2:]
	}
	v, _ := strconv.ParseUint(body, radix, 64)
	val := int64(v)
	if neg {
		val = -val
	}
	i := NewInt(val, radix)
	i.Snip.Source = raw
	return i
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
