package dsv

import (
	"hash/fnv"

	"github.com/inkmill/textmill/format"
)

// Row is an ordered sequence of Cells.
type Row struct {
	cells []*Cell
}

// NewRow builds a Row from the given cells, in order.
func NewRow(cells ...*Cell) *Row {
	return &Row{cells: cells}
}

// Len returns the number of cells in the row.
func (r *Row) Len() int { return len(r.cells) }

// At returns the cell at col, or nil if out of range.
func (r *Row) At(col int) *Cell {
	if col < 0 || col >= len(r.cells) {
		return nil
	}
	return r.cells[col]
}

// Cells returns the row's cells, in order. The returned slice aliases
// the row's internal storage and must not be mutated by the caller.
func (r *Row) Cells() []*Cell { return r.cells }

// Append adds a cell to the end of the row.
func (r *Row) Append(c *Cell) { r.cells = append(r.cells, c) }

// Prepend adds a cell to the front of the row.
func (r *Row) Prepend(c *Cell) {
	r.cells = append([]*Cell{c}, r.cells...)
}

// Insert places c at col, shifting subsequent cells right.
func (r *Row) Insert(col int, c *Cell) {
	if col < 0 {
		col = 0
	}
	if col > len(r.cells) {
		col = len(r.cells)
	}
	r.cells = append(r.cells, nil)
	copy(r.cells[col+1:], r.cells[col:])
	r.cells[col] = c
}

// Replace swaps in c at col, returning the prior cell.
func (r *Row) Replace(col int, c *Cell) *Cell {
	prev := r.cells[col]
	r.cells[col] = c
	return prev
}

// Merge combines this row with other using merger, column by column; the
// shorter row's missing cells are treated as empty for the merger call.
func (r *Row) Merge(other *Row, merger func(a, b *Cell) *Cell) *Row {
	n := len(r.cells)
	if len(other.cells) > n {
		n = len(other.cells)
	}
	out := make([]*Cell, n)
	for i := 0; i < n; i++ {
		a, b := r.At(i), other.At(i)
		if a == nil {
			a = NewTextCell("")
		}
		if b == nil {
			b = NewTextCell("")
		}
		out[i] = merger(a, b)
	}
	return &Row{cells: out}
}

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	out := make([]*Cell, len(r.cells))
	for i, c := range r.cells {
		out[i] = c.Clone()
	}
	return &Row{cells: out}
}

// Values returns the row's resolved string values, in column order.
func (r *Row) Values() []string {
	out := make([]string, len(r.cells))
	for i, c := range r.cells {
		out[i] = c.Value()
	}
	return out
}

// Format renders the row's cells in order, separated by syn.Delimiter.
func (r *Row) Format(sink format.Sink, syntax any) error {
	syn, _ := syntax.(*Syntax)
	sep := ","
	if syn != nil {
		sep = syn.Delimiter
	}
	for i, c := range r.cells {
		if i > 0 {
			if err := sink.Append(sep, syntax); err != nil {
				return err
			}
		}
		if err := c.Format(sink, syntax); err != nil {
			return err
		}
	}
	return nil
}

// Debug reproduces the row's source text: each cell's verbatim Debug(),
// joined with "," whatever the configured delimiter.
func (r *Row) Debug() string {
	s := ""
	for i, c := range r.cells {
		if i > 0 {
			s += ","
		}
		s += c.Debug()
	}
	return s
}

// HashCode32 hashes the row's cell values in order.
func (r *Row) HashCode32() uint32 {
	h := fnv.New32a()
	for _, c := range r.cells {
		h.Write([]byte(c.Value()))
		h.Write([]byte{0})
	}
	return h.Sum32()
}

// Equal compares two rows cell-by-cell.
func (r *Row) Equal(other format.Expression) bool {
	o, ok := other.(*Row)
	if !ok || len(o.cells) != len(r.cells) {
		return false
	}
	for i, c := range r.cells {
		if !c.Equal(o.cells[i]) {
			return false
		}
	}
	return true
}
