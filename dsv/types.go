package dsv

import "github.com/inkmill/textmill/token"

// Token types shared by every DSV mill configuration. Unlike
// TOML's fixed channel set, DSV's SEPARATOR/EOL/quote lexemes are
// configured per-Syntax, but the token Types themselves are constant —
// only the byte sequence a Literal channel matches varies.
// Separator carries nonzero precedence so the Pratt climb in parser.Parse
// keeps folding cells into the same row; every other DSV type carries
// precedence 0 so it terminates a row the moment it is peeked — a
// precedence of 0 always terminates a parse.
var (
	Separator  = token.NewType("dsv.separator", "SEPARATOR", 10)
	EOL        = token.NewType("dsv.eol", "EOL", 0)
	LQuote     = token.NewType("dsv.lquote", "L_QUOTE", 0)
	RQuote     = token.NewType("dsv.rquote", "R_QUOTE", 0)
	Whitespace = token.NewType("dsv.whitespace", "WHITESPACE", 0)
	Text       = token.NewType("dsv.text", "TEXT", 0)
	Escape     = token.NewType("dsv.escape", "ESCAPE", 0)
	Escaped    = token.NewType("dsv.escaped", "ESCAPED", 0)
)

// CellIndex addresses one cell by (row, col), both 0-based.
type CellIndex struct {
	Row int
	Col int
}
