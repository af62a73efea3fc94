// Package token defines the lexical data model shared by every mill
// configuration: the interned Type registry, the immutable Token record,
// and the append-only Queue the mill emits into and the parser drains.
package token

import "fmt"

// Type identifies a lexical class. Types are compared by (ID, Precedence);
// they are process-wide constants created once per format at init time.
type Type struct {
	id         string
	precedence int
	name       string
}

// registry tracks every ID ever registered, per format namespace, so that
// constructing two Types with the same ID but different precedence is
// rejected as a programming error.
var registry = map[string]int{}

// NewType interns a Type for the given id and precedence. Calling NewType
// twice with the same id but a different precedence panics: that is a
// programming error in a format's channel configuration, not a runtime
// condition callers should recover from.
func NewType(id, name string, precedence int) Type {
	if prevPrec, ok := registry[id]; ok {
		if prevPrec != precedence {
			panic(fmt.Sprintf("token: type %q already registered with precedence %d, got %d", id, prevPrec, precedence))
		}
	} else {
		registry[id] = precedence
	}
	return Type{id: id, precedence: precedence, name: name}
}

// ID returns the type's opaque identifier, unique within a format.
func (t Type) ID() string { return t.id }

// Precedence returns the precedence the Pratt parser consults for
// infix/postfix commands keyed by this type.
func (t Type) Precedence() int { return t.precedence }

// String returns a human-readable name for diagnostics.
func (t Type) String() string {
	if t.name != "" {
		return t.name
	}
	return t.id
}

// Equal compares by (ID, Precedence).
func (t Type) Equal(o Type) bool {
	return t.id == o.id && t.precedence == o.precedence
}

// Zero reports whether t is the unset Type value.
func (t Type) Zero() bool { return t.id == "" && t.precedence == 0 && t.name == "" }

// EOF is the synthetic end-of-stream type every format shares; it always
// terminates a Pratt parse because its precedence is 0.
var EOF = NewType("eof", "EOF", 0)

// ILLEGAL marks a byte that no channel, including the text fallback,
// could accept.
var ILLEGAL = NewType("illegal", "ILLEGAL", 0)
