package toml

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/inkmill/textmill/format"
)

// QuoteStyle tags how a Text expression's value was (or should be)
// quoted, per spec §3.5.
type QuoteStyle int

const (
	Bare QuoteStyle = iota
	DQuoteStyle
	TriDQuoteStyle
	SQuoteStyle
	TriSQuoteStyle
)

func (q QuoteStyle) glyph() string {
	switch q {
	case DQuoteStyle:
		return `"`
	case TriDQuoteStyle:
		return `"""`
	case SQuoteStyle:
		return `'`
	case TriSQuoteStyle:
		return `'''`
	default:
		return ""
	}
}

// Figure is the abstract numeric wrapper spec §3.5 describes: every
// scalar expression (Int, B64, Bool, R39) embeds it for the snippet,
// block-comment, and inline-comment payload every node may retain.
type Figure struct {
	Snip Snippet
}

// Snippet returns the figure's retained source-fidelity payload.
func (f Figure) Snippet() Snippet { return f.Snip }

func writeComments(sink format.Sink, syntax any, snip Snippet, indent string) error {
	for _, line := range snip.BlockComments {
		if err := sink.Append(indent+"# "+line+"\n", syntax); err != nil {
			return err
		}
	}
	return nil
}

// snippetOf extracts whatever Snippet a concrete Expression node
// retains, defaulting to the zero Snippet for node kinds (Table, Seq)
// whose own comments are attached to the key they're bound under rather
// than to the value itself.
func snippetOf(e format.Expression) Snippet {
	switch v := e.(type) {
	case *Int:
		return v.Snip
	case *B64:
		return v.Snip
	case *Bool:
		return v.Snip
	case *R39:
		return v.Snip
	case *Text:
		return v.Snip
	default:
		return Snippet{}
	}
}

func appendInline(sink format.Sink, syntax any, snip Snippet) error {
	if snip.InlineComment == "" {
		return nil
	}
	return sink.Append(" # "+snip.InlineComment, syntax)
}

// Int is a 64-bit integer with a declared bit length (spec §3.5).
type Int struct {
	Figure
	Val    int64
	BitLen int // declared width, <= 64
	Radix  int // 2, 8, 10, or 16 — governs re-rendering when no snippet
}

// NewInt builds an Int with the minimum bit length that fits val.
func NewInt(val int64, radix int) *Int {
	return &Int{Val: val, BitLen: bitLenFor(val), Radix: radix}
}

func bitLenFor(v int64) int {
	u := uint64(v)
	if v < 0 {
		u = uint64(-v)
	}
	n := 1
	for u > 1 {
		u >>= 1
		n++
	}
	if n > 64 {
		n = 64
	}
	return n
}

func (i *Int) Format(sink format.Sink, syntax any) error {
	if j, ok := sink.(*format.JSONValue); ok {
		return j.Append(i.Val, syntax)
	}
	if i.Snip.Source != "" {
		return sink.Append(i.Snip.Source, syntax)
	}
	return sink.Append(i.render(), syntax)
}

func (i *Int) render() string {
	switch i.Radix {
	case 16:
		return fmt.Sprintf("0x%X", i.Val)
	case 8:
		return fmt.Sprintf("0o%o", i.Val)
	case 2:
		return "0b" + strconv.FormatInt(i.Val, 2)
	default:
		return strconv.FormatInt(i.Val, 10)
	}
}

func (i *Int) Debug() string {
	if i.Snip.Source != "" {
		return i.Snip.Source
	}
	return i.render()
}

func (i *Int) HashCode32() uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "int:%d", i.Val)
	return h.Sum32()
}

func (i *Int) Equal(other format.Expression) bool {
	o, ok := other.(*Int)
	return ok && o.Val == i.Val
}

// B64 is an IEEE-754 double (spec §3.5).
type B64 struct {
	Figure
	Val float64
}

func NewB64(val float64) *B64 { return &B64{Val: val} }

func (b *B64) Format(sink format.Sink, syntax any) error {
	if j, ok := sink.(*format.JSONValue); ok {
		return j.Append(b.Val, syntax)
	}
	if b.Snip.Source != "" {
		return sink.Append(b.Snip.Source, syntax)
	}
	return sink.Append(strconv.FormatFloat(b.Val, 'g', -1, 64), syntax)
}

func (b *B64) Debug() string {
	if b.Snip.Source != "" {
		return b.Snip.Source
	}
	return strconv.FormatFloat(b.Val, 'g', -1, 64)
}

func (b *B64) HashCode32() uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "b64:%v", b.Val)
	return h.Sum32()
}

func (b *B64) Equal(other format.Expression) bool {
	o, ok := other.(*B64)
	return ok && o.Val == b.Val
}

// Bool is TOML's boolean literal. Spec §3.5's TOML type list omits it,
// but a TOML value grammar without true/false is not complete (SPEC_FULL
// §4 supplemented feature, grounded on the same Figure shape as Int/B64).
type Bool struct {
	Figure
	Val bool
}

func NewBool(val bool) *Bool { return &Bool{Val: val} }

func (b *Bool) Format(sink format.Sink, syntax any) error {
	if j, ok := sink.(*format.JSONValue); ok {
		return j.Append(b.Val, syntax)
	}
	return sink.Append(strconv.FormatBool(b.Val), syntax)
}

func (b *Bool) Debug() string { return strconv.FormatBool(b.Val) }

func (b *Bool) HashCode32() uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "bool:%v", b.Val)
	return h.Sum32()
}

func (b *Bool) Equal(other format.Expression) bool {
	o, ok := other.(*Bool)
	return ok && o.Val == b.Val
}

// OffsetKind is R39's tri-valued offset selector (spec §3.5).
type OffsetKind int

const (
	OffsetNone OffsetKind = iota
	OffsetZ
	OffsetPlus
	OffsetMinus
)

// R39Kind distinguishes which RFC 3339 variant a date-time assembles.
type R39Kind int

const (
	LocalDate R39Kind = iota
	LocalTime
	LocalDateTime
	OffsetDateTime
)

// R39 is an RFC 3339 date/time assembly (spec §3.5).
type R39 struct {
	Figure
	Kind R39Kind

	Year, Month, Day int
	HasMonth, HasDay bool

	Hour, Min, Sec, Nsec int
	HasMin, HasSec       bool

	Offset    OffsetKind
	OffHour   int
	OffMin    int
}

func (r *R39) Format(sink format.Sink, syntax any) error {
	if j, ok := sink.(*format.JSONValue); ok {
		return j.Append(r.render(), syntax)
	}
	if r.Snip.Source != "" {
		return sink.Append(r.Snip.Source, syntax)
	}
	return sink.Append(r.render(), syntax)
}

func (r *R39) render() string {
	var b strings.Builder
	switch r.Kind {
	case LocalDate:
		r.writeDate(&b)
	case LocalTime:
		r.writeTime(&b)
	case LocalDateTime:
		r.writeDate(&b)
		b.WriteByte('T')
		r.writeTime(&b)
	case OffsetDateTime:
		r.writeDate(&b)
		b.WriteByte('T')
		r.writeTime(&b)
		r.writeOffset(&b)
	}
	return b.String()
}

func (r *R39) writeDate(b *strings.Builder) {
	fmt.Fprintf(b, "%04d", r.Year)
	if r.HasMonth {
		fmt.Fprintf(b, "-%02d", r.Month)
	}
	if r.HasDay {
		fmt.Fprintf(b, "-%02d", r.Day)
	}
}

func (r *R39) writeTime(b *strings.Builder) {
	fmt.Fprintf(b, "%02d", r.Hour)
	if r.HasMin {
		fmt.Fprintf(b, ":%02d", r.Min)
	}
	if r.HasSec {
		fmt.Fprintf(b, ":%02d", r.Sec)
		if r.Nsec > 0 {
			fmt.Fprintf(b, ".%09d", r.Nsec)
		}
	}
}

func (r *R39) writeOffset(b *strings.Builder) {
	switch r.Offset {
	case OffsetZ:
		b.WriteByte('Z')
	case OffsetPlus:
		fmt.Fprintf(b, "+%02d:%02d", r.OffHour, r.OffMin)
	case OffsetMinus:
		fmt.Fprintf(b, "-%02d:%02d", r.OffHour, r.OffMin)
	}
}

func (r *R39) Debug() string {
	if r.Snip.Source != "" {
		return r.Snip.Source
	}
	return r.render()
}

func (r *R39) HashCode32() uint32 {
	h := fnv.New32a()
	h.Write([]byte(r.render()))
	return h.Sum32()
}

func (r *R39) Equal(other format.Expression) bool {
	o, ok := other.(*R39)
	return ok && o.render() == r.render()
}

// Text is a string or bare-key expression, tagged with its quote style
// (spec §3.5).
type Text struct {
	Figure
	Val   string
	Quote QuoteStyle
}

func NewText(val string, quote QuoteStyle) *Text { return &Text{Val: val, Quote: quote} }

func (t *Text) Format(sink format.Sink, syntax any) error {
	if j, ok := sink.(*format.JSONValue); ok {
		return j.Append(t.Val, syntax)
	}
	if t.Snip.Source != "" {
		return sink.Append(t.Snip.Source, syntax)
	}
	if t.Quote == Bare {
		return sink.Append(t.Val, syntax)
	}
	g := t.Quote.glyph()
	return sink.Append(g+escapeForTOML(t.Val, t.Quote)+g, syntax)
}

func escapeForTOML(s string, q QuoteStyle) string {
	if q == SQuoteStyle || q == TriSQuoteStyle {
		return s // literal strings carry no escapes
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (t *Text) Debug() string {
	if t.Snip.Source != "" {
		return t.Snip.Source
	}
	if t.Quote == Bare {
		return t.Val
	}
	g := t.Quote.glyph()
	return g + t.Val + g
}

func (t *Text) HashCode32() uint32 {
	h := fnv.New32a()
	h.Write([]byte(t.Val))
	return h.Sum32()
}

func (t *Text) Equal(other format.Expression) bool {
	o, ok := other.(*Text)
	return ok && o.Val == t.Val
}

// tableEntry pairs a Table's key-Text with its value, per spec §3.5.
type tableEntry struct {
	key   *Text
	value format.Expression
}

// Table is a key-ordered mapping from key-string to (key-Text,
// value-Expression) pair; Inline distinguishes `{ a = 1 }` from a block
// `[a]` table (spec §3.5).
type Table struct {
	Figure
	Inline bool

	keys    []string
	entries map[string]tableEntry
}

// NewTable returns an empty Table.
func NewTable(inline bool) *Table {
	return &Table{Inline: inline, entries: map[string]tableEntry{}}
}

// Set inserts or replaces the value bound to key, preserving first-
// insertion order on replace.
func (t *Table) Set(key *Text, value format.Expression) {
	if _, exists := t.entries[key.Val]; !exists {
		t.keys = append(t.keys, key.Val)
	}
	t.entries[key.Val] = tableEntry{key: key, value: value}
}

// Get returns the value bound to key, and whether it was present.
func (t *Table) Get(key string) (format.Expression, bool) {
	e, ok := t.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Keys returns the table's keys in insertion order.
func (t *Table) Keys() []string { return append([]string(nil), t.keys...) }

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.keys) }

func (t *Table) Format(sink format.Sink, syntax any) error {
	if j, ok := sink.(*format.JSONValue); ok {
		m := make(map[string]any, len(t.keys))
		for _, k := range t.keys {
			sub := format.NewJSONValue()
			if err := t.entries[k].value.Format(sub, syntax); err != nil {
				return err
			}
			m[k] = sub.Data()
		}
		return j.Append(m, syntax)
	}
	if t.Inline {
		return t.formatInline(sink, syntax)
	}
	return t.formatBlockEntries(sink, syntax)
}

func (t *Table) formatInline(sink format.Sink, syntax any) error {
	if err := sink.Append("{ ", syntax); err != nil {
		return err
	}
	for i, k := range t.keys {
		if i > 0 {
			if err := sink.Append(", ", syntax); err != nil {
				return err
			}
		}
		e := t.entries[k]
		if err := e.key.Format(sink, syntax); err != nil {
			return err
		}
		if err := sink.Append(" = ", syntax); err != nil {
			return err
		}
		if err := e.value.Format(sink, syntax); err != nil {
			return err
		}
	}
	return sink.Append(" }", syntax)
}

// formatBlockEntries renders only this table's own key = value lines
// (no header, no recursion into sub-tables as headers) — used both for
// the document root and, by the document-level writer, after each
// [path] header line.
func (t *Table) formatBlockEntries(sink format.Sink, syntax any) error {
	for _, k := range t.keys {
		e := t.entries[k]
		if err := writeComments(sink, syntax, snippetOf(e.value), ""); err != nil {
			return err
		}
		if err := e.key.Format(sink, syntax); err != nil {
			return err
		}
		if err := sink.Append(" = ", syntax); err != nil {
			return err
		}
		if err := e.value.Format(sink, syntax); err != nil {
			return err
		}
		if err := appendInline(sink, syntax, snippetOf(e.value)); err != nil {
			return err
		}
		if err := sink.Append("\n", syntax); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) Debug() string {
	var b strings.Builder
	if t.Inline {
		b.WriteString("{ ")
		for i, k := range t.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			e := t.entries[k]
			b.WriteString(e.key.Debug())
			b.WriteString(" = ")
			b.WriteString(e.value.Debug())
		}
		b.WriteString(" }")
		return b.String()
	}
	for _, k := range t.keys {
		e := t.entries[k]
		b.WriteString(e.key.Debug())
		b.WriteString(" = ")
		b.WriteString(e.value.Debug())
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Table) HashCode32() uint32 {
	h := fnv.New32a()
	keys := append([]string(nil), t.keys...)
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
	}
	return h.Sum32()
}

func (t *Table) Equal(other format.Expression) bool {
	o, ok := other.(*Table)
	if !ok || len(o.keys) != len(t.keys) {
		return false
	}
	for k, e := range t.entries {
		oe, ok := o.entries[k]
		if !ok || !e.value.Equal(oe.value) {
			return false
		}
	}
	return true
}

// Seq is an ordered sequence of Expressions; Inline distinguishes a
// `[1, 2, 3]` array literal from a `[[name]]` array of tables (spec
// §3.5).
type Seq struct {
	Figure
	Inline bool
	Items  []format.Expression
}

// NewSeq returns an empty Seq.
func NewSeq(inline bool) *Seq { return &Seq{Inline: inline} }

// Append adds an item to the end of the sequence.
func (s *Seq) Append(item format.Expression) { s.Items = append(s.Items, item) }

func (s *Seq) Format(sink format.Sink, syntax any) error {
	if j, ok := sink.(*format.JSONValue); ok {
		arr := make([]any, len(s.Items))
		for i, item := range s.Items {
			sub := format.NewJSONValue()
			if err := item.Format(sub, syntax); err != nil {
				return err
			}
			arr[i] = sub.Data()
		}
		return j.Append(arr, syntax)
	}
	if !s.Inline {
		// An array of tables renders as a flat sequence of entries; the
		// document-level writer is responsible for the [[path]] headers
		// themselves (Seq alone doesn't know its own key path).
		for _, item := range s.Items {
			if err := item.Format(sink, syntax); err != nil {
				return err
			}
		}
		return nil
	}
	if err := sink.Append("[", syntax); err != nil {
		return err
	}
	for i, item := range s.Items {
		if i > 0 {
			if err := sink.Append(", ", syntax); err != nil {
				return err
			}
		}
		if err := item.Format(sink, syntax); err != nil {
			return err
		}
	}
	return sink.Append("]", syntax)
}

func (s *Seq) Debug() string {
	var b strings.Builder
	b.WriteString("[")
	for i, item := range s.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.Debug())
	}
	b.WriteString("]")
	return b.String()
}

func (s *Seq) HashCode32() uint32 {
	h := fnv.New32a()
	for _, item := range s.Items {
		var buf [4]byte
		v := item.HashCode32()
		buf[0], buf[1], buf[2], buf[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
		h.Write(buf[:])
	}
	return h.Sum32()
}

func (s *Seq) Equal(other format.Expression) bool {
	o, ok := other.(*Seq)
	if !ok || len(o.Items) != len(s.Items) {
		return false
	}
	for i, item := range s.Items {
		if !item.Equal(o.Items[i]) {
			return false
		}
	}
	return true
}
