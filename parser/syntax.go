// Package parser implements the format-agnostic Pratt engine shared by
// every text format's expression grammar: a (Direction, Type) -> Command
// table and a Parser that climbs precedence carried on each token's own
// Type, so any format can populate its own open precedence table rather
// than switching on a fixed, closed token enum.
package parser

import "github.com/inkmill/textmill/token"

// Direction distinguishes where in an expression a Command applies.
type Direction int

const (
	// Prefix commands run when a token opens an expression (a literal,
	// a unary operator, an opening bracket).
	Prefix Direction = iota
	// Infix commands run when a token appears between a parsed left-hand
	// expression and whatever follows (a binary operator, a call, an
	// indexer).
	Infix
	// Postfix is reserved by the core contract but not consulted by
	// Parse; a format may still register Postfix commands and look them
	// up itself.
	Postfix
)

// Node is the parse result a Command returns: an opaque expression tree
// value specific to the format doing the parsing.
type Node any

// Command is invoked by the parser once its (Direction, Type) key is
// selected. For a Prefix command, left is nil. For an Infix command, left
// is the expression parsed so far.
type Command func(p *Parser, left Node) (Node, error)

type key struct {
	dir Direction
	typ string
}

// Syntax maps (Direction, token.Type) to the Command that handles it. A
// format builds one Syntax at init time and shares it across every Parse
// call.
type Syntax struct {
	commands map[key]Command
}

// NewSyntax returns an empty Syntax.
func NewSyntax() *Syntax {
	return &Syntax{commands: map[key]Command{}}
}

// Register binds a Command to (dir, typ). Registering the same pair twice
// overwrites the prior binding — formats call this once per type at init
// time, so overwriting is never observed in practice, but it is not
// rejected the way token.NewType rejects precedence conflicts: a command
// table is configuration, not an identity.
func (s *Syntax) Register(dir Direction, typ token.Type, cmd Command) {
	s.commands[key{dir, typ.ID()}] = cmd
}

// Lookup returns the Command bound to (dir, typ), or nil if none was
// registered.
func (s *Syntax) Lookup(dir Direction, typ token.Type) Command {
	return s.commands[key{dir, typ.ID()}]
}
