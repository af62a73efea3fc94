// Package format defines the Expression/Sink contract every concrete
// format (dsv, toml) renders through: a total, never-failing Sink that
// either builds a string or an in-memory JSON-like tree, configured as
// pretty (glyph choices from a Prettyfier) or minified (comment
// retention + line cap). The sink side is an interface rather than a
// fixed AST walker so dsv and toml can share one contract while writing
// to different backing stores.
package format

import "github.com/inkmill/textmill/millerr"

// Expression is any node in a format's expression model: DSV's Cell/Row/
// Table, TOML's Figure/Text/Table/Seq.
type Expression interface {
	// Format pushes the node onto sink, consulting syntax for rendering
	// choices (delimiter, quote pair, Prettyfier glyphs).
	Format(sink Sink, syntax any) error
	// Debug produces a best-effort round-trip string from whatever
	// source snippet the node retained, for diagnostics — not
	// guaranteed to equal a full Format() pass.
	Debug() string
	// HashCode32 is a stable structural hash, used by Table/Seq/Text
	// equality checks that want O(1) short-circuiting before a full
	// Equal.
	HashCode32() uint32
	// Equal reports deep structural equality with another Expression.
	Equal(Expression) bool
}

// Sink is the total output contract: appending any legal Expression or
// literal value never fails; failures are restricted to a sink's
// declared target value set (e.g. a JSONValue sink asked to hold a
// circular structure, or a width-limited sink that must truncate).
type Sink interface {
	// Append pushes one Expression (or, for leaf literals, its already-
	// rendered string) onto the sink, honoring syntax's glyph choices.
	Append(value any, syntax any) error
	// Reverse reverses the order of whatever units the sink tracks
	// (appended strings for a StringSink, elements of a top-level array
	// for a JSONValue sink).
	Reverse()
	// Equal compares two sinks' accumulated Data.
	Equal(Sink) bool
	// Data returns the sink's terminal value: a string for a String
	// sink, an `any` JSON-shaped tree for a JSONValue sink.
	Data() any
}

// NewUnsupportedTarget builds the one FormatError a total sink is
// allowed to raise: value doesn't fit the sink's declared target set.
func NewUnsupportedTarget(message string, loc millerr.Location) millerr.FormatError {
	return millerr.NewFormatError(millerr.ErrUnsupportedTarget, message, loc)
}
