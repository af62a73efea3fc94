package toml

import "github.com/inkmill/textmill/token"

// Token types for the TOML mill configuration (spec §4.4). Every type
// carries precedence 0 — TOML's grammar is driven by the document-level
// and value-level loops in parser.go rather than by an operator-
// precedence climb, so nothing here ever needs to out-rank anything
// else; the shared parser.Parser is used for its lookahead/consume
// plumbing, not for precedence climbing.
var (
	Comment        = token.NewType("toml.comment", "COMMENT", 0)
	Escape         = token.NewType("toml.escape", "ESCAPE", 0)
	Escaped        = token.NewType("toml.escaped", "ESCAPED", 0)
	Equals         = token.NewType("toml.equals", "EQUALS", 0)
	Plus           = token.NewType("toml.plus", "PLUS", 0)
	Minus          = token.NewType("toml.minus", "MINUS", 0)
	Underscore     = token.NewType("toml.underscore", "UNDERSCORE", 0)
	Dot            = token.NewType("toml.dot", "DOT", 0)
	Comma          = token.NewType("toml.comma", "COMMA", 0)
	LBrace         = token.NewType("toml.lbrace", "L_BRACE", 0)
	RBrace         = token.NewType("toml.rbrace", "R_BRACE", 0)
	LBracket       = token.NewType("toml.lbracket", "L_BRACKET", 0)
	DoubleLBracket = token.NewType("toml.dlbracket", "DOUBLE_L_BRACKET", 0)
	RBracket       = token.NewType("toml.rbracket", "R_BRACKET", 0)
	DoubleRBracket = token.NewType("toml.drbracket", "DOUBLE_R_BRACKET", 0)
	DQuote         = token.NewType("toml.dquote", "D_QUOTE", 0)
	TriDQuote      = token.NewType("toml.tridquote", "TRI_D_QUOTE", 0)
	SQuote         = token.NewType("toml.squote", "S_QUOTE", 0)
	TriSQuote      = token.NewType("toml.trisquote", "TRI_S_QUOTE", 0)
	RadixPrefix    = token.NewType("toml.radixprefix", "RADIX_PREFIX", 0)
	EOL            = token.NewType("toml.eol", "EOL", 0)
	Whitespace     = token.NewType("toml.whitespace", "WHITESPACE", 0)
	Text           = token.NewType("toml.text", "TEXT", 0)
	Int            = token.NewType("toml.int", "INT", 0)
)
