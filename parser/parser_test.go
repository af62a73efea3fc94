package parser

import (
	"testing"

	"github.com/inkmill/textmill/token"
)

// A tiny arithmetic grammar — NUM, PLUS, STAR — exercises the Pratt climb
// independent of any concrete format.
var (
	numType  = token.NewType("test.parser.num", "NUM", 0)
	plusType = token.NewType("test.parser.plus", "PLUS", 10)
	starType = token.NewType("test.parser.star", "STAR", 20)
)

type numNode struct{ v string }
type binNode struct {
	op          string
	left, right Node
}

func arithSyntax() *Syntax {
	s := NewSyntax()
	s.Register(Prefix, numType, func(p *Parser, _ Node) (Node, error) {
		return numNode{v: p.Previous().Value}, nil
	})
	infix := func(op string) Command {
		return func(p *Parser, left Node) (Node, error) {
			right, err := p.Parse(precedenceOf(op))
			if err != nil {
				return nil, err
			}
			return binNode{op: op, left: left, right: right}, nil
		}
	}
	s.Register(Infix, plusType, infix("+"))
	s.Register(Infix, starType, infix("*"))
	return s
}

func precedenceOf(op string) int {
	if op == "*" {
		return starType.Precedence()
	}
	return plusType.Precedence()
}

func numTok(v string, col int) token.Token { return token.New(v, numType, 1, col) }

func TestParseClimbsByPrecedence(t *testing.T) {
	q := token.NewQueue()
	// 1 + 2 * 3  ->  1 + (2 * 3)
	q.Push(numTok("1", 1))
	q.Push(token.New("+", plusType, 1, 2))
	q.Push(numTok("2", 3))
	q.Push(token.New("*", starType, 1, 4))
	q.Push(numTok("3", 5))
	q.SetEOFPosition(1, 6)

	p := New(arithSyntax(), q)
	node, err := p.Parse(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := node.(binNode)
	if !ok || top.op != "+" {
		t.Fatalf("expected top-level '+', got %+v", node)
	}
	right, ok := top.right.(binNode)
	if !ok || right.op != "*" {
		t.Fatalf("expected right-hand '*' (higher precedence binds tighter), got %+v", top.right)
	}
	left, ok := top.left.(numNode)
	if !ok || left.v != "1" {
		t.Fatalf("expected left-hand operand to carry the token's lexeme via Previous(), got %+v", top.left)
	}
}

func TestParseUnexpectedTokenFails(t *testing.T) {
	q := token.NewQueue()
	q.Push(token.New("+", plusType, 1, 1))
	q.SetEOFPosition(1, 2)

	p := New(arithSyntax(), q)
	if _, err := p.Parse(0); err == nil {
		t.Fatal("expected ERR_UNEXPECTED for a token with no prefix command")
	}
}

func TestConsumeMismatchFails(t *testing.T) {
	q := token.NewQueue()
	q.Push(numTok("1", 1))
	q.SetEOFPosition(1, 2)

	p := New(arithSyntax(), q)
	if _, err := p.Consume(plusType); err == nil {
		t.Fatal("expected ERR_EXPECT_MISMATCH consuming NUM as PLUS")
	}
}

func TestMatchDoesNotConsume(t *testing.T) {
	q := token.NewQueue()
	q.Push(numTok("1", 1))
	q.SetEOFPosition(1, 2)

	p := New(arithSyntax(), q)
	if !p.Match(numType) {
		t.Fatal("expected Match(numType) to be true")
	}
	tok := p.ReadAndPeek(0)
	if tok.Value != "1" {
		t.Fatalf("Match must not consume; peek still expected '1', got %q", tok.Value)
	}
}
