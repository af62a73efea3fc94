package dsv

import (
	"strconv"
	"strings"
	"testing"

	"github.com/inkmill/textmill/mill"
	"github.com/inkmill/textmill/millerr"
)

// DSV with embedded quotes and an empty field.
func TestParseTableQuotedEmbeddedDelimiterAndEmptyField(t *testing.T) {
	input := "jan,feb,mar\n\"a\",\"\",\"b,b\"\n"
	table, err := ParseTable(Default(), []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table.Header().Values(); !equalStrings(got, []string{"jan", "feb", "mar"}) {
		t.Fatalf("unexpected header: %v", got)
	}
	if len(table.Data()) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(table.Data()))
	}
	if got := table.Data()[0].Values(); !equalStrings(got, []string{"a", "", "b,b"}) {
		t.Fatalf("unexpected data row: %v", got)
	}

	out, err := table.ToCSVBytes(Default())
	if err != nil {
		t.Fatalf("unexpected format error: %v", err)
	}
	if string(out) != input {
		t.Fatalf("round-trip mismatch:\n got: %q\nwant: %q", string(out), input)
	}
}

// Nested header projection.
func TestProjectNestedHeader(t *testing.T) {
	syn := Default()
	syn.Header = []string{"a", "b.c", "b.d#0", "b.d#1"}
	syn.Nop = '.'
	syn.Nap = '#'

	table, err := ParseTable(syn, []byte("1,2,3,4\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	docs, err := table.Project(syn)
	if err != nil {
		t.Fatalf("unexpected projection error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	obj, ok := docs[0].(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", docs[0])
	}
	if obj["a"] != "1" {
		t.Fatalf("expected a=1, got %v", obj["a"])
	}
	b, ok := obj["b"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested b object, got %T", obj["b"])
	}
	if b["c"] != "2" {
		t.Fatalf("expected b.c=2, got %v", b["c"])
	}
	d, ok := b["d"].([]any)
	if !ok || len(d) != 2 {
		t.Fatalf("expected b.d array of length 2, got %#v", b["d"])
	}
	if d[0] != "3" || d[1] != "4" {
		t.Fatalf("expected b.d=[3,4], got %v", d)
	}
}

// Row asymmetry under SymmetryThrow.
func TestParseTableRowAsymmetryThrows(t *testing.T) {
	syn := Default()
	syn.Header = []string{"a", "b", "c"}
	syn.Symmetry = SymmetryThrow

	_, err := ParseTable(syn, []byte("1,2\n"))
	if err == nil {
		t.Fatal("expected ERR_ROW_ASYMMETRY, got nil")
	}
}

func TestParseTableRowAsymmetryPadsEmptyByDefault(t *testing.T) {
	syn := Default()
	syn.Header = []string{"a", "b", "c"}

	table, err := ParseTable(syn, []byte("1,2\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all, err := table.ReadAll()
	if err != nil {
		t.Fatalf("unexpected ReadAll error: %v", err)
	}
	if !equalStrings(all[1], []string{"1", "2", ""}) {
		t.Fatalf("expected short row padded with empty string, got %v", all[1])
	}
}

func TestParseTableRowAsymmetryNullPadsDistinctCell(t *testing.T) {
	syn := Default()
	syn.Header = []string{"a", "b", "c"}
	syn.Symmetry = SymmetryNull

	table, err := ParseTable(syn, []byte("1,2\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cells, err := table.ReadAllCells()
	if err != nil {
		t.Fatalf("unexpected ReadAllCells error: %v", err)
	}
	pad := cells[1][2]
	if !pad.IsNull() {
		t.Fatalf("expected SymmetryNull pad to be a null cell, got %+v", pad)
	}

	docs, err := table.Project(syn)
	if err != nil {
		t.Fatalf("unexpected projection error: %v", err)
	}
	obj := docs[0].(map[string]any)
	if v, ok := obj["c"]; !ok || v != nil {
		t.Fatalf("expected c=nil from SymmetryNull padding, got %#v (present=%v)", v, ok)
	}
}

func TestParseTableSelfDescribingSeparator(t *testing.T) {
	input := "sep=;\na;b;c\n1;2;3\n"
	table, err := ParseTable(Default(), []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table.Header().Values(); !equalStrings(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected header: %v", got)
	}
	if got := table.Data()[0].Values(); !equalStrings(got, []string{"1", "2", "3"}) {
		t.Fatalf("unexpected data row: %v", got)
	}
}

// syn.Parse lets a caller reinterpret every cell's raw text (here,
// decimal digits as an int) via Cell.Parse, rather than only ever
// reading back the original string.
func TestParseHookWiredIntoEveryCell(t *testing.T) {
	syn := Default()
	syn.Header = []string{"n"}
	syn.Parse = func(ci CellIndex, syn *Syntax, raw string) (any, error) {
		return strconv.Atoi(raw)
	}

	table, err := ParseTable(syn, []byte("7\n\n42\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cells, err := table.ReadAllCells()
	if err != nil {
		t.Fatalf("unexpected ReadAllCells error: %v", err)
	}
	got, err := cells[1][0].Parse(syn)
	if err != nil {
		t.Fatalf("unexpected Parse error: %v", err)
	}
	if got != 7 {
		t.Fatalf("expected parsed int 7, got %#v", got)
	}
	// The empty row created by the bare-EOL fast path in ParseTable is a
	// Row with a single empty TextCell — it goes through the same
	// attachParse wiring as every other cell, not through parseCell, so
	// syn.Parse still runs against it and surfaces strconv.Atoi("")'s
	// error rather than being silently skipped.
	if _, err := cells[2][0].Parse(syn); err == nil {
		t.Fatal("expected syn.Parse to run against the bare-EOL empty row and fail on \"\"")
	}
}

// syn.RawEscape replaces the literal passthrough of an ESCAPED body with a
// caller-supplied decode: here \x41 is read as a hex byte value rather
// than the literal body text "x41" the parser would otherwise keep.
func TestRawEscapeHookOverridesDecoding(t *testing.T) {
	syn := Default()
	syn.Escapes = []mill.EscapeEncoding{{
		Operator:       `\`,
		PrefixSelector: "x",
		MinDigits:      2,
		MaxDigits:      2,
		Radix:          16,
	}}
	syn.RawEscape = func(raw string) (string, error) {
		n, err := strconv.ParseInt(strings.TrimPrefix(raw, "x"), 16, 16)
		if err != nil {
			return "", err
		}
		return string(rune(n)), nil
	}

	table, err := ParseTable(syn, []byte(`a\x41b`+"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table.Header().Values()[0]; got != "aAb" {
		t.Fatalf("expected RawEscape to decode \\x41 as 'A', got %q", got)
	}
}

// ERR_BAD_ESCAPE surfaces from the DSV parser itself (not just mill/toml)
// when a configured EscapeEncoding's ESCAPED token is its own
// under-MinDigits bad-escape marker.
func TestParseTableBadEscapeSurfacesErrBadEscape(t *testing.T) {
	syn := Default()
	syn.Escapes = []mill.EscapeEncoding{{
		Operator:       `\`,
		PrefixSelector: "u",
		Infixes:        []string{"n"},
		MinDigits:      4,
		MaxDigits:      4,
		Radix:          16,
	}}

	_, err := ParseTable(syn, []byte(`a,\uA!`+"\n"))
	if err == nil {
		t.Fatal("expected ERR_BAD_ESCAPE, got nil")
	}
	te, ok := err.(millerr.TokenError)
	if !ok {
		t.Fatalf("expected millerr.TokenError, got %T: %v", err, err)
	}
	if te.ErrCode() != millerr.ErrBadEscape {
		t.Fatalf("expected code %s, got %s", millerr.ErrBadEscape, te.ErrCode())
	}
	if !strings.Contains(te.Error(), millerr.ErrBadEscape) {
		t.Fatalf("expected error text to mention %s, got %q", millerr.ErrBadEscape, te.Error())
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
