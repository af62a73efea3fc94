// Package dsv implements the delimiter-separated-values codec atop the
// mill/parser core: comma, tab, semicolon or any user-chosen single- or
// multi-byte delimiter, configurable quoting and escape encodings, and a
// Table/Row/Cell expression model supporting the full read/write/
// transform operation set.
package dsv

import "github.com/inkmill/textmill/mill"

// RowSymmetry governs how a short row (fewer cells than the header) is
// padded on read.
type RowSymmetry int

const (
	// SymmetryEmpty pads missing cells with the empty string. This is
	// the default, chosen as the least surprising behavior for a format
	// whose Cell values are themselves string-shaped by default.
	SymmetryEmpty RowSymmetry = iota
	// SymmetryNull pads missing cells with a null Cell.
	SymmetryNull
	// SymmetryThrow rejects a short row with ERR_ROW_ASYMMETRY.
	SymmetryThrow
)

// Spaces records whether unquoted leading/trailing whitespace around a
// field is allowed. It is carried on Syntax alongside Strict, but neither
// field is read by BuildMill or ParseTable: unquoted whitespace is always
// kept as cell content and is never trimmed or rejected.
type Spaces struct {
	LeadingAllowed  bool
	TrailingAllowed bool
}

// ParseHook lets a caller interpret a raw cell string as a typed value;
// CellIndex and the active Syntax are passed for context.
type ParseHook func(ci CellIndex, syn *Syntax, raw string) (any, error)

// RawEscapeHook lets a caller interpret the raw escape body text (the
// ESCAPED token's value: everything after the operator up to the point
// the escape closed, e.g. "x41") as a decoded string. Without a hook the
// body text itself is the fragment's resolved value.
type RawEscapeHook func(raw string) (string, error)

// Syntax is the DSV mill/parser configuration.
type Syntax struct {
	Delimiter string
	EOL       string // "\r", "\n", or "\r\n"
	BOM       bool
	Header    []string // empty means: first row becomes the header

	QuoteOpen  string
	QuoteClose string
	Strict     bool
	Spaces     Spaces
	Escapes    []mill.EscapeEncoding
	RawEscape  RawEscapeHook

	Nop byte // nested-object operator, 0 = undefined
	Nap byte // nested-array operator, 0 = undefined

	Parse ParseHook

	Symmetry RowSymmetry
}

// Default returns a comma-delimited, double-quoted, Unix-EOL Syntax with
// empty-cell row symmetry — the common RFC 4180 CSV configuration, where
// a literal quote inside a quoted field is written as a doubled `""`.
// Doubling is interpreted at the expression-building layer (two adjacent
// R_QUOTE/L_QUOTE tokens inside an open quoted field collapse to one
// literal quote) rather than as a mill escape channel, since the quote
// byte and the escape operator byte would otherwise collide in the
// mill's single first-byte dispatch table. A caller wanting
// backslash-style escapes instead (`\"`, `\n`, `\uXXXX`) adds an
// EscapeEncoding whose Operator is a byte distinct from the quote pair.
func Default() *Syntax {
	return &Syntax{
		Delimiter:  ",",
		EOL:        "\n",
		QuoteOpen:  `"`,
		QuoteClose: `"`,
		Symmetry:   SymmetryEmpty,
	}
}

// quoted reports whether this Syntax configures quoting at all.
func (s *Syntax) quoted() bool { return s.QuoteOpen != "" }
