// Package toml implements the TOML mill configuration and expression
// model atop the shared mill/parser core: comments, bare and quoted
// keys, basic/literal/triple-quoted strings, decimal/hex/octal/binary
// integers, floats, RFC 3339 date-times, inline and block tables, and
// inline and block-of-tables arrays (spec §4.4, §3.5).
package toml

import "github.com/inkmill/textmill/mill"

// Syntax is the TOML mill/parser configuration (spec §6.1).
type Syntax struct {
	EOL string // "\r", "\n", or "\r\n"
	BOM bool

	// Global is carried through configuration but does not change
	// parsing: top-level key/value pairs always land in the implicit
	// root table, and a document with no `[table]` headers parses the
	// same way whether Global is true or false.
	Global bool

	// Snan/Qnan gate acceptance of the signaling/quiet NaN bareword
	// forms "snan" and "nan" in numeric position. Go's float64 cannot
	// distinguish a signaling NaN from a quiet one, so both map to
	// math.NaN(); the flags only control which spelling is accepted.
	Snan bool
	Qnan bool

	Escapes []mill.EscapeEncoding
}

// Default returns a Unix-EOL Syntax accepting quiet NaN literals and a
// single backslash EscapeEncoding covering TOML's standard basic-string
// escapes.
func Default() *Syntax {
	return &Syntax{
		EOL:  "\n",
		Qnan: true,
		Escapes: []mill.EscapeEncoding{{
			Operator:       "\\",
			PrefixSelector: "u",
			Infixes:        []string{"n", "t", "r", "b", "f", "\"", "\\"},
			MinDigits:      4,
			MaxDigits:      4,
			Radix:          16,
		}},
	}
}
