package dsv

import (
	"hash/fnv"

	"github.com/inkmill/textmill/format"
	"github.com/inkmill/textmill/millerr"
)

// Table is a 2D collection of Cells with row 0 reserved for headers.
// CellIndex{0, col} always addresses the header row;
// CellIndex{row, col} for row >= 1 addresses Data()[row-1].
type Table struct {
	header *Row
	data   []*Row
	syn    *Syntax
}

// NewTable builds a Table from a header row and zero or more data rows.
// header may be nil, meaning the header is not yet known (the first
// parsed row becomes it).
func NewTable(header *Row, data ...*Row) *Table {
	if header == nil {
		header = NewRow()
	}
	t := &Table{header: header, data: data}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	for c, cell := range t.header.cells {
		cell.index = CellIndex{Row: 0, Col: c}
	}
	for r, row := range t.data {
		for c, cell := range row.cells {
			cell.index = CellIndex{Row: r + 1, Col: c}
		}
	}
}

// Header returns the header row.
func (t *Table) Header() *Row { return t.header }

// Data returns the data rows (excludes the header).
func (t *Table) Data() []*Row { return t.data }

// RowCount returns the total row count including the header row.
func (t *Table) RowCount() int { return 1 + len(t.data) }

// ColCount returns the header row's column count.
func (t *Table) ColCount() int { return t.header.Len() }

func (t *Table) rowAt(row int) *Row {
	if row == 0 {
		return t.header
	}
	return t.data[row-1]
}

// ReadAll returns the table as a row-major string matrix, header row
// first, padding short data rows per the configured RowSymmetry. A
// string matrix has no way to represent SymmetryNull's null cell as
// distinct from SymmetryEmpty's empty-string cell, so both policies
// degenerate to the empty string here; callers that need the distinction
// (e.g. Project's JSON-shaped emission) must use ReadAllCells instead.
func (t *Table) ReadAll() ([][]string, error) {
	cells, err := t.ReadAllCells()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(cells))
	for i, row := range cells {
		vals := make([]string, len(row))
		for c, cell := range row {
			vals[c] = cell.Value()
		}
		out[i] = vals
	}
	return out, nil
}

// ReadAllCells returns the table as a row-major Cell matrix, header row
// first, padding short data rows per the configured RowSymmetry with a
// real distinguishing Cell: SymmetryEmpty pads with an empty-string text
// cell, SymmetryNull pads with NewNullCell() (Cell.IsNull() true),
// SymmetryThrow rejects the row with ERR_ROW_ASYMMETRY.
func (t *Table) ReadAllCells() ([][]*Cell, error) {
	out := make([][]*Cell, 0, t.RowCount())
	out = append(out, append([]*Cell(nil), t.header.Cells()...))
	width := t.header.Len()
	for i, row := range t.data {
		cells := row.Cells()
		if len(cells) < width {
			padded, err := t.padCells(cells, width, i+1)
			if err != nil {
				return nil, err
			}
			cells = padded
		} else {
			cells = append([]*Cell(nil), cells...)
		}
		out = append(out, cells)
	}
	return out, nil
}

// validateSymmetry checks every data row against the header width when
// syn.Symmetry is SymmetryThrow, returning ERR_ROW_ASYMMETRY naming the
// offending row's 1-based line (one line per parsed row, counting the
// header row only when it was read from the source) the moment parsing
// finishes, rather than waiting for a later ReadAll() call.
func (t *Table) validateSymmetry() error {
	if t.syn == nil || t.syn.Symmetry != SymmetryThrow {
		return nil
	}
	width := t.header.Len()
	first := 1
	if len(t.syn.Header) == 0 {
		first = 2
	}
	for i, r := range t.data {
		if r.Len() < width {
			return millerr.NewExpressionError(millerr.ErrSymmetryViolation,
				"row has fewer cells than the header", millerr.Location{Line: i + first})
		}
	}
	return nil
}

// padCells pads cells to width per the configured RowSymmetry, returning
// a fresh distinct Cell per pad slot so a caller mutating the result
// never aliases another row's pad cells.
func (t *Table) padCells(cells []*Cell, width, line int) ([]*Cell, error) {
	sym := SymmetryEmpty
	if t.syn != nil {
		sym = t.syn.Symmetry
	}
	switch sym {
	case SymmetryThrow:
		return nil, millerr.NewExpressionError(millerr.ErrSymmetryViolation,
			"row has fewer cells than the header", millerr.Location{Line: line})
	case SymmetryNull:
		out := append([]*Cell(nil), cells...)
		for len(out) < width {
			out = append(out, NewNullCell())
		}
		return out, nil
	default: // SymmetryEmpty
		out := append([]*Cell(nil), cells...)
		for len(out) < width {
			out = append(out, NewTextCell(""))
		}
		return out, nil
	}
}

// ReadCell returns the cell at ci, or an ExpressionError if out of range.
func (t *Table) ReadCell(ci CellIndex) (*Cell, error) {
	if ci.Row < 0 || ci.Row > len(t.data) {
		return nil, t.outOfRange(ci)
	}
	row := t.rowAt(ci.Row)
	if c := row.At(ci.Col); c != nil {
		return c, nil
	}
	return nil, t.outOfRange(ci)
}

func (t *Table) outOfRange(ci CellIndex) error {
	return millerr.NewExpressionError(millerr.ErrRowColOutOfRange,
		"cell index out of range", millerr.Location{Line: ci.Row + 1, Column: ci.Col + 1})
}

// ReplaceCell swaps in c at ci, returning the prior cell.
func (t *Table) ReplaceCell(ci CellIndex, c *Cell) (*Cell, error) {
	if ci.Row < 0 || ci.Row > len(t.data) {
		return nil, t.outOfRange(ci)
	}
	prev := t.rowAt(ci.Row).Replace(ci.Col, c)
	c.index = ci
	return prev, nil
}

// Swap exchanges the cells at ci1 and ci2; both indices remain valid.
func (t *Table) Swap(ci1, ci2 CellIndex) error {
	a, err := t.ReadCell(ci1)
	if err != nil {
		return err
	}
	b, err := t.ReadCell(ci2)
	if err != nil {
		return err
	}
	t.rowAt(ci1.Row).Replace(ci1.Col, b)
	t.rowAt(ci2.Row).Replace(ci2.Col, a)
	b.index, a.index = ci1, ci2
	return nil
}

// RowDelete removes the data row at index row (1-based against CellIndex,
// i.e. row 1 is the first data row), shifting higher rows down.
func (t *Table) RowDelete(row int) error {
	i := row - 1
	if i < 0 || i >= len(t.data) {
		return t.outOfRange(CellIndex{Row: row})
	}
	t.data = append(t.data[:i], t.data[i+1:]...)
	t.reindex()
	return nil
}

// RowAppend grows the table by one data row.
func (t *Table) RowAppend(r *Row) {
	t.data = append(t.data, r)
	t.reindex()
}

// ColDelete removes column col from every row (header included), shifting
// higher columns left.
func (t *Table) ColDelete(col int) error {
	if col < 0 || col >= t.header.Len() {
		return t.outOfRange(CellIndex{Col: col})
	}
	deleteAt(t.header, col)
	for _, r := range t.data {
		if col < r.Len() {
			deleteAt(r, col)
		}
	}
	t.reindex()
	return nil
}

func deleteAt(r *Row, col int) {
	r.cells = append(r.cells[:col], r.cells[col+1:]...)
}

// ColAppend grows every row by one column, using cells[0] for the header
// and cells[i+1] for data row i (any missing entries are padded empty).
func (t *Table) ColAppend(cells []*Cell) {
	if len(cells) > 0 {
		t.header.Append(cells[0])
	} else {
		t.header.Append(NewTextCell(""))
	}
	for i, r := range t.data {
		if i+1 < len(cells) {
			r.Append(cells[i+1])
		} else {
			r.Append(NewTextCell(""))
		}
	}
	t.reindex()
}

// MergeCols combines columns c1 and c2 (header included) via merger,
// replacing c1's column with the merged result and deleting c2's column.
func (t *Table) MergeCols(c1, c2 int, merger func(a, b *Cell) *Cell) error {
	if c1 < 0 || c1 >= t.header.Len() || c2 < 0 || c2 >= t.header.Len() {
		return t.outOfRange(CellIndex{Col: c1})
	}
	t.header.Replace(c1, merger(t.header.At(c1), t.header.At(c2)))
	for _, r := range t.data {
		a, b := r.At(c1), r.At(c2)
		if a == nil {
			a = NewTextCell("")
		}
		if b == nil {
			b = NewTextCell("")
		}
		r.Replace(c1, merger(a, b))
	}
	return t.ColDelete(c2)
}

// MergeRows combines data rows r1 and r2 (1-based) via merger, replacing
// r1 with the merged row and deleting r2.
func (t *Table) MergeRows(r1, r2 int, merger func(a, b *Cell) *Cell) error {
	i1, i2 := r1-1, r2-1
	if i1 < 0 || i1 >= len(t.data) || i2 < 0 || i2 >= len(t.data) {
		return t.outOfRange(CellIndex{Row: r1})
	}
	t.data[i1] = t.data[i1].Merge(t.data[i2], merger)
	return t.RowDelete(r2)
}

// MergeTables row-concatenates other's data rows onto t; other's header
// is discarded.
func (t *Table) MergeTables(other *Table) {
	for _, r := range other.data {
		t.data = append(t.data, r.Clone())
	}
	t.reindex()
}

// SplitRow replaces data row `row` (1-based) with the two rows splitter
// produces from it.
func (t *Table) SplitRow(row int, splitter func(*Row) (*Row, *Row)) error {
	i := row - 1
	if i < 0 || i >= len(t.data) {
		return t.outOfRange(CellIndex{Row: row})
	}
	a, b := splitter(t.data[i])
	t.data = append(t.data[:i], append([]*Row{a, b}, t.data[i+1:]...)...)
	t.reindex()
	return nil
}

// SplitCol replaces column col (header included) with the two columns
// splitter produces from each row's cell in that column; the header cell
// is split by the same splitter, once. Data rows too short to have col
// are left unchanged.
func (t *Table) SplitCol(col int, splitter func(*Cell) (*Cell, *Cell)) error {
	if col < 0 || col >= t.header.Len() {
		return t.outOfRange(CellIndex{Col: col})
	}
	ha, hb := splitter(t.header.At(col))
	t.header.Replace(col, ha)
	t.header.Insert(col+1, hb)
	for _, r := range t.data {
		if col >= r.Len() {
			continue
		}
		a, b := splitter(r.At(col))
		r.Replace(col, a)
		r.Insert(col+1, b)
	}
	t.reindex()
	return nil
}

// Transpose mirrors the table across its diagonal: column i becomes row
// i. Applying Transpose twice is the identity.
func (t *Table) Transpose() *Table {
	all, _ := t.ReadAll()
	if len(all) == 0 {
		return NewTable(nil)
	}
	cols := len(all[0])
	rows := len(all)
	out := make([][]string, cols)
	for c := 0; c < cols; c++ {
		out[c] = make([]string, rows)
		for r := 0; r < rows; r++ {
			if c < len(all[r]) {
				out[c][r] = all[r][c]
			}
		}
	}
	return tableFromStrings(out)
}

func tableFromStrings(rows [][]string) *Table {
	if len(rows) == 0 {
		return NewTable(nil)
	}
	header := NewRow()
	for _, v := range rows[0] {
		header.Append(NewTextCell(v))
	}
	data := make([]*Row, 0, len(rows)-1)
	for _, line := range rows[1:] {
		r := NewRow()
		for _, v := range line {
			r.Append(NewTextCell(v))
		}
		data = append(data, r)
	}
	return NewTable(header, data...)
}

// Flip reverses the order of data rows. When reverse is false, Flip is a
// no-op.
func (t *Table) Flip(reverse bool) {
	if !reverse {
		return
	}
	for i, j := 0, len(t.data)-1; i < j; i, j = i+1, j-1 {
		t.data[i], t.data[j] = t.data[j], t.data[i]
	}
	t.reindex()
}

// Format renders the header followed by every data row, each terminated
// by syn.EOL.
func (t *Table) Format(sink format.Sink, syntax any) error {
	syn, _ := syntax.(*Syntax)
	eol := "\n"
	if syn != nil && syn.EOL != "" {
		eol = syn.EOL
	}
	if err := t.header.Format(sink, syntax); err != nil {
		return err
	}
	if err := sink.Append(eol, syntax); err != nil {
		return err
	}
	for _, r := range t.data {
		if err := r.Format(sink, syntax); err != nil {
			return err
		}
		if err := sink.Append(eol, syntax); err != nil {
			return err
		}
	}
	return nil
}

// Debug reproduces the table's source text from each row's Debug(), rows
// terminated by "\n" whatever the configured EOL.
func (t *Table) Debug() string {
	s := t.header.Debug() + "\n"
	for _, r := range t.data {
		s += r.Debug() + "\n"
	}
	return s
}

// HashCode32 hashes the header and every data row in order.
func (t *Table) HashCode32() uint32 {
	h := fnv.New32a()
	write := func(r *Row) {
		for _, c := range r.cells {
			h.Write([]byte(c.Value()))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	write(t.header)
	for _, r := range t.data {
		write(r)
	}
	return h.Sum32()
}

// Equal compares header and data rows, in order.
func (t *Table) Equal(other format.Expression) bool {
	o, ok := other.(*Table)
	if !ok || len(o.data) != len(t.data) {
		return false
	}
	if !t.header.Equal(o.header) {
		return false
	}
	for i, r := range t.data {
		if !r.Equal(o.data[i]) {
			return false
		}
	}
	return true
}

// ToCSVBytes renders the table through a pretty format.StringSink using
// syn — a convenience wrapper for callers who don't need direct Sink
// access.
func (t *Table) ToCSVBytes(syn *Syntax) ([]byte, error) {
	sink := format.NewPrettyStringSink(nil)
	if err := t.Format(sink, syn); err != nil {
		return nil, err
	}
	return []byte(sink.String()), nil
}
