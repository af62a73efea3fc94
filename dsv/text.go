package dsv

import "strings"

// FragmentTag classifies one link in a Cell's TextChain.
type FragmentTag int

const (
	// FragPlain is ordinary unquoted/unescaped source text.
	FragPlain FragmentTag = iota
	// FragRaw is text inside an open quote that needed no escape
	// resolution (the common case for most characters in a quoted
	// field).
	FragRaw
	// FragEscaped is text produced by resolving an escape sequence (a
	// doubled quote, or an ESCAPED token from a configured
	// EscapeEncoding).
	FragEscaped
	// FragStartField marks the opening quote delimiter; contributes
	// nothing to Value() but is retained so Debug() can reproduce it.
	FragStartField
	// FragEndField marks the closing quote delimiter.
	FragEndField
	// FragEscapeOp marks an escape operator token (the mill's ESCAPE
	// type): like the quote markers, its literal bytes round-trip
	// through Raw()/Debug() but contribute nothing to Value() — the
	// ESCAPED token that follows it carries the resolved content.
	FragEscapeOp
)

// fragment is one arena-allocated link. next is an index into the owning
// TextChain's frags slice, -1 at the tail — an integer-linked list rather
// than a pointer-linked one, avoiding per-fragment heap allocation and
// pointer cycles.
type fragment struct {
	tag      FragmentTag
	literal  string // verbatim source text
	resolved string // value contributed after escape/quote resolution
	next     int
}

// TextChain is the forward-linked series of text fragments backing one
// Cell. The zero value is not usable; construct with
// NewTextChain.
type TextChain struct {
	frags []fragment
	head  int
	tail  int
}

// NewTextChain returns an empty chain.
func NewTextChain() *TextChain {
	return &TextChain{head: -1, tail: -1}
}

// Append adds one fragment to the tail of the chain.
func (c *TextChain) Append(tag FragmentTag, literal, resolved string) {
	idx := len(c.frags)
	c.frags = append(c.frags, fragment{tag: tag, literal: literal, resolved: resolved, next: -1})
	if c.head == -1 {
		c.head = idx
	} else {
		c.frags[c.tail].next = idx
	}
	c.tail = idx
}

// Value concatenates every fragment's resolved text — escape sequences
// decoded, quote markers contributing nothing.
func (c *TextChain) Value() string {
	var b strings.Builder
	for i := c.head; i != -1; i = c.frags[i].next {
		b.WriteString(c.frags[i].resolved)
	}
	return b.String()
}

// Raw concatenates every fragment's literal source text, quote markers
// included — a verbatim reconstruction of what the mill saw.
func (c *TextChain) Raw() string {
	var b strings.Builder
	for i := c.head; i != -1; i = c.frags[i].next {
		b.WriteString(c.frags[i].literal)
	}
	return b.String()
}

// Len reports the number of fragments in the chain.
func (c *TextChain) Len() int { return len(c.frags) }

// Clone returns a deep copy, so table operations that duplicate a Cell
// (merge, split) never alias the same arena.
func (c *TextChain) Clone() *TextChain {
	out := &TextChain{frags: append([]fragment(nil), c.frags...), head: c.head, tail: c.tail}
	return out
}

// Quoted reports whether the chain opened with a quote delimiter.
func (c *TextChain) Quoted() bool {
	return c.head != -1 && c.frags[c.head].tag == FragStartField
}
