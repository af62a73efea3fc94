package dsv

import (
	"hash/fnv"

	"github.com/inkmill/textmill/format"
)

// Cell owns a TextChain, a list of cell-scoped parse hooks, and its
// (row, col) index within the owning Table.
type Cell struct {
	chain   *TextChain
	parsers []ParseHook
	index   CellIndex
	null    bool // true only for a cell synthesized by SymmetryNull padding
}

// NewCell wraps chain in a Cell with an unset index (callers that add a
// Cell to a Table get their index stamped by the Table operation).
func NewCell(chain *TextChain) *Cell {
	if chain == nil {
		chain = NewTextChain()
	}
	return &Cell{chain: chain}
}

// NewTextCell builds a Cell holding a single plain-text fragment — the
// common case for a cell built programmatically rather than parsed.
func NewTextCell(value string) *Cell {
	c := NewTextChain()
	if value != "" {
		c.Append(FragPlain, value, value)
	}
	return NewCell(c)
}

// NewNullCell builds the distinguished null Cell that SymmetryNull pads a
// short row with: its string Value() is empty like an empty-string cell,
// but IsNull() lets a Cell-aware accessor (ReadAllCells, Project) tell the
// two apart, per spec.md §4.6's {EMPTY, NULL, THROW} row-symmetry policy.
func NewNullCell() *Cell {
	c := NewCell(nil)
	c.null = true
	return c
}

// Value returns the cell's resolved string value.
func (c *Cell) Value() string { return c.chain.Value() }

// IsNull reports whether this cell is the distinguished null cell a
// SymmetryNull pad synthesizes, as opposed to a cell whose value merely
// happens to be the empty string.
func (c *Cell) IsNull() bool { return c.null }

// Chain returns the cell's underlying TextChain.
func (c *Cell) Chain() *TextChain { return c.chain }

// Index returns the cell's (row, col) position, as last stamped by a
// Table operation.
func (c *Cell) Index() CellIndex { return c.index }

// WithParsers attaches cell-scoped parse hooks, returning c for chaining.
func (c *Cell) WithParsers(hooks ...ParseHook) *Cell {
	c.parsers = append(c.parsers, hooks...)
	return c
}

// Parse runs the cell's attached hooks in order against its raw value,
// returning the last hook's result, or the plain string value if none
// are attached.
func (c *Cell) Parse(syn *Syntax) (any, error) {
	var val any = c.Value()
	for _, hook := range c.parsers {
		v, err := hook(c.index, syn, c.Value())
		if err != nil {
			return nil, err
		}
		val = v
	}
	return val, nil
}

// Clone returns a deep copy with the same index.
func (c *Cell) Clone() *Cell {
	return &Cell{chain: c.chain.Clone(), parsers: append([]ParseHook(nil), c.parsers...), index: c.index, null: c.null}
}

// Format implements format.Expression: a quoted cell re-emits its quote
// markers and content fragments verbatim; an unquoted cell emits its
// resolved value, wrapped in the quote pair (with any embedded opening
// quote doubled) when it contains the delimiter, the EOL or the opening
// quote, which the Syntax would otherwise misparse on re-read.
func (c *Cell) Format(sink format.Sink, syntax any) error {
	syn, _ := syntax.(*Syntax)
	if c.chain.Quoted() {
		return sink.Append(c.chain.Raw(), syntax)
	}
	val := c.chain.Value()
	if syn != nil && needsQuoting(val, syn) {
		return sink.Append(syn.QuoteOpen+escapeForQuote(val, syn)+syn.QuoteClose, syntax)
	}
	return sink.Append(val, syntax)
}

// Debug reproduces the cell's verbatim source text.
func (c *Cell) Debug() string { return c.chain.Raw() }

// HashCode32 hashes the cell's resolved value (not its index, matching
// Equal).
func (c *Cell) HashCode32() uint32 {
	h := fnv.New32a()
	h.Write([]byte(c.Value()))
	return h.Sum32()
}

// Equal compares resolved values only (position and quoting style are
// not part of value equality).
func (c *Cell) Equal(other format.Expression) bool {
	o, ok := other.(*Cell)
	if !ok {
		return false
	}
	return c.Value() == o.Value()
}

func needsQuoting(val string, syn *Syntax) bool {
	if syn.Delimiter != "" && contains(val, syn.Delimiter) {
		return true
	}
	if syn.EOL != "" && contains(val, syn.EOL) {
		return true
	}
	if syn.quoted() && contains(val, syn.QuoteOpen) {
		return true
	}
	return false
}

func escapeForQuote(val string, syn *Syntax) string {
	if !syn.quoted() {
		return val
	}
	return replaceAll(val, syn.QuoteOpen, syn.QuoteOpen+syn.QuoteOpen)
}

func contains(s, sub string) bool {
	if sub == "" {
		return false
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func replaceAll(s, old, new string) string {
	if old == "" {
		return s
	}
	var b []byte
	for i := 0; i < len(s); {
		if i+len(old) <= len(s) && s[i:i+len(old)] == old {
			b = append(b, new...)
			i += len(old)
			continue
		}
		b = append(b, s[i])
		i++
	}
	return string(b)
}
