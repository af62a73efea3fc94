package parser

import (
	"fmt"

	"github.com/inkmill/textmill/millerr"
	"github.com/inkmill/textmill/token"
)

// Parser drains a token.Queue through a Syntax table to build an
// expression tree, one Pratt-style Parse call at a time. It pulls from
// the queue lazily through a small lookahead buffer rather than holding
// the entire token slice up front — it never assumes the mill has
// finished tokenizing.
type Parser struct {
	syntax *Syntax
	queue  *token.Queue
	buf    []token.Token
	source string
	last   token.Token
}

// New returns a Parser over q using syntax's command table.
func New(syntax *Syntax, q *token.Queue) *Parser {
	return &Parser{syntax: syntax, queue: q}
}

// NewWithSource is like New but retains the original source text so
// parse errors can carry a source-context snippet.
func NewWithSource(syntax *Syntax, q *token.Queue, source string) *Parser {
	return &Parser{syntax: syntax, queue: q, source: source}
}

// ReadAndPeek ensures the lookahead buffer holds at least k+1 tokens and
// returns the k-th (0 is the next token ReadAndPop would remove) without
// consuming it.
func (p *Parser) ReadAndPeek(k int) token.Token {
	for len(p.buf) <= k {
		p.buf = append(p.buf, p.queue.Next())
	}
	return p.buf[k]
}

// ReadAndPop ensures the lookahead buffer is non-empty, then removes and
// returns its head.
func (p *Parser) ReadAndPop() token.Token {
	t := p.ReadAndPeek(0)
	p.buf = p.buf[1:]
	p.last = t
	return t
}

// Previous returns the token most recently removed by ReadAndPop — the
// token that triggered the Prefix or Infix command currently running, so
// a command can recover its lexeme without the engine threading it
// through every Command call.
func (p *Parser) Previous() token.Token { return p.last }

// Match is a non-consuming equality check against the next token's type.
func (p *Parser) Match(expected token.Type) bool {
	return p.ReadAndPeek(0).Type.Equal(expected)
}

// Consume pops the next token, failing ErrExpectMismatch if its type
// differs from expected.
func (p *Parser) Consume(expected token.Type) (token.Token, error) {
	tok := p.ReadAndPop()
	if !tok.Type.Equal(expected) {
		return tok, p.errorf(millerr.ErrExpectMismatch, tok,
			fmt.Sprintf("expected %s, got %s", expected, tok.Type))
	}
	return tok, nil
}

// Parse implements the core Pratt climb: pop one token, run its Prefix
// command to obtain a left-hand expression, then keep popping and running
// Infix commands for as long as the next token's own precedence exceeds
// minPrec. Precedence of 0 (and the synthesized EOF, whose type always
// carries precedence 0) terminates the climb.
func (p *Parser) Parse(minPrec int) (Node, error) {
	tok := p.ReadAndPop()
	prefix := p.syntax.Lookup(Prefix, tok.Type)
	if prefix == nil {
		return nil, p.errorf(millerr.ErrUnexpected, tok,
			fmt.Sprintf("unexpected %s", tok.Type))
	}
	left, err := prefix(p, nil)
	if err != nil {
		return nil, err
	}

	for {
		next := p.ReadAndPeek(0)
		if next.Type.Precedence() <= minPrec {
			return left, nil
		}
		infix := p.syntax.Lookup(Infix, next.Type)
		if infix == nil {
			return left, nil
		}
		p.ReadAndPop()
		left, err = infix(p, left)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) errorf(code string, tok token.Token, message string) error {
	loc := millerr.Location{Line: tok.LineStart, Column: tok.StartPos, Length: tok.Length}
	e := millerr.NewParseError(code, message, loc)
	if p.source != "" {
		e = e.WithContext(millerr.ExtractContext(loc, p.source))
	}
	return e
}
