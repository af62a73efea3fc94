package toml

import (
	"testing"

	"github.com/inkmill/textmill/format"
	"github.com/inkmill/textmill/millerr"
)

func mustParse(t *testing.T, src string) *Table {
	t.Helper()
	root, err := Parse(Default(), []byte(src))
	if err != nil {
		t.Fatalf("unexpected error parsing %q: %v", src, err)
	}
	return root
}

func TestParseBasicKeyValue(t *testing.T) {
	root := mustParse(t, "name = \"textmill\"\ncount = 3\n")
	v, ok := root.Get("name")
	if !ok {
		t.Fatalf("expected key %q", "name")
	}
	txt, ok := v.(*Text)
	if !ok || txt.Val != "textmill" {
		t.Fatalf("expected Text(textmill), got %#v", v)
	}
	v, ok = root.Get("count")
	if !ok {
		t.Fatalf("expected key %q", "count")
	}
	i, ok := v.(*Int)
	if !ok || i.Val != 3 {
		t.Fatalf("expected Int(3), got %#v", v)
	}
}

// S3: a triple-quoted string containing an embedded run of two
// double-quote bytes must not close early.
func TestParseTripleQuoteEmbeddedDoubleQuotes(t *testing.T) {
	root := mustParse(t, `s = """a""b"""`+"\n")
	v, ok := root.Get("s")
	if !ok {
		t.Fatalf("expected key %q", "s")
	}
	txt, ok := v.(*Text)
	if !ok {
		t.Fatalf("expected Text, got %#v", v)
	}
	if want := `a""b`; txt.Val != want {
		t.Fatalf("expected %q, got %q", want, txt.Val)
	}
	if txt.Quote != TriDQuoteStyle {
		t.Fatalf("expected TriDQuoteStyle, got %v", txt.Quote)
	}
}

// S4: a radix-prefixed integer with underscore digit grouping
// round-trips to the correct value and bit length.
func TestParseHexWithUnderscores(t *testing.T) {
	root := mustParse(t, "n = 0xDEAD_BEEF\n")
	v, ok := root.Get("n")
	if !ok {
		t.Fatalf("expected key %q", "n")
	}
	i, ok := v.(*Int)
	if !ok {
		t.Fatalf("expected Int, got %#v", v)
	}
	if i.Val != 3735928559 {
		t.Fatalf("expected 3735928559, got %d", i.Val)
	}
	if i.BitLen != 32 {
		t.Fatalf("expected BitLen 32, got %d", i.BitLen)
	}
	if i.Radix != 16 {
		t.Fatalf("expected radix 16, got %d", i.Radix)
	}
}

func TestParseBlockTableAndDottedKey(t *testing.T) {
	root := mustParse(t, "[server]\nhost = \"localhost\"\nport.primary = 8080\n")
	server, ok := root.Get("server")
	if !ok {
		t.Fatalf("expected table %q", "server")
	}
	tbl, ok := server.(*Table)
	if !ok {
		t.Fatalf("expected Table, got %#v", server)
	}
	host, ok := tbl.Get("host")
	if !ok || host.(*Text).Val != "localhost" {
		t.Fatalf("expected host=localhost, got %#v", host)
	}
	port, ok := tbl.Get("port")
	if !ok {
		t.Fatalf("expected nested key %q", "port")
	}
	portTbl, ok := port.(*Table)
	if !ok {
		t.Fatalf("expected Table for dotted key, got %#v", port)
	}
	primary, ok := portTbl.Get("primary")
	if !ok || primary.(*Int).Val != 8080 {
		t.Fatalf("expected primary=8080, got %#v", primary)
	}
}

func TestParseArrayOfTables(t *testing.T) {
	root := mustParse(t, "[[servers]]\nname = \"a\"\n[[servers]]\nname = \"b\"\n")
	v, ok := root.Get("servers")
	if !ok {
		t.Fatalf("expected key %q", "servers")
	}
	seq, ok := v.(*Seq)
	if !ok || len(seq.Items) != 2 {
		t.Fatalf("expected Seq of 2, got %#v", v)
	}
	first, ok := seq.Items[0].(*Table)
	if !ok {
		t.Fatalf("expected Table, got %#v", seq.Items[0])
	}
	name, _ := first.Get("name")
	if name.(*Text).Val != "a" {
		t.Fatalf("expected first.name=a, got %#v", name)
	}
}

func TestParseInlineTableAndArray(t *testing.T) {
	root := mustParse(t, "point = { x = 1, y = 2 }\nlist = [1, 2, 3]\n")
	p, ok := root.Get("point")
	if !ok {
		t.Fatalf("expected key %q", "point")
	}
	tbl, ok := p.(*Table)
	if !ok || !tbl.Inline {
		t.Fatalf("expected inline Table, got %#v", p)
	}
	x, _ := tbl.Get("x")
	if x.(*Int).Val != 1 {
		t.Fatalf("expected x=1, got %#v", x)
	}
	l, ok := root.Get("list")
	if !ok {
		t.Fatalf("expected key %q", "list")
	}
	seq, ok := l.(*Seq)
	if !ok || len(seq.Items) != 3 {
		t.Fatalf("expected Seq of 3, got %#v", l)
	}
}

// ERR_BAD_ESCAPE: a \u escape invalidated before its 4 hex digits are
// complete surfaces millerr.ErrBadEscape instead of silently passing the
// malformed escape through as literal text (spec.md §4.2).
func TestParseUnicodeEscapeTooFewDigitsIsBadEscape(t *testing.T) {
	_, err := Parse(Default(), []byte(`s = "\uA!"`+"\n"))
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
}

func TestParseComments(t *testing.T) {
	root := mustParse(t, "# leading\nname = \"x\" # trailing\n")
	v, ok := root.Get("name")
	if !ok {
		t.Fatalf("expected key %q", "name")
	}
	txt := v.(*Text)
	if len(txt.Snip.BlockComments) != 1 || txt.Snip.BlockComments[0] != "leading" {
		t.Fatalf("expected block comment %q, got %v", "leading", txt.Snip.BlockComments)
	}
	if txt.Snip.InlineComment != "trailing" {
		t.Fatalf("expected inline comment %q, got %q", "trailing", txt.Snip.InlineComment)
	}
}

func TestParseBooleans(t *testing.T) {
	root := mustParse(t, "a = true\nb = false\n")
	a, _ := root.Get("a")
	if !a.(*Bool).Val {
		t.Fatalf("expected a=true")
	}
	b, _ := root.Get("b")
	if b.(*Bool).Val {
		t.Fatalf("expected b=false")
	}
}

func TestParseFloat(t *testing.T) {
	root := mustParse(t, "pi = 3.14_15\n")
	v, _ := root.Get("pi")
	f, ok := v.(*B64)
	if !ok {
		t.Fatalf("expected B64, got %#v", v)
	}
	if f.Val != 3.1415 {
		t.Fatalf("expected 3.1415, got %v", f.Val)
	}
}

func TestParseOffsetDateTime(t *testing.T) {
	root := mustParse(t, "ts = 1979-05-27T07:32:00-08:00\n")
	v, _ := root.Get("ts")
	r, ok := v.(*R39)
	if !ok {
		t.Fatalf("expected R39, got %#v", v)
	}
	if r.Kind != OffsetDateTime {
		t.Fatalf("expected OffsetDateTime, got %v", r.Kind)
	}
	if r.Year != 1979 || r.Month != 5 || r.Day != 27 {
		t.Fatalf("unexpected date: %d-%d-%d", r.Year, r.Month, r.Day)
	}
	if r.Offset != OffsetMinus || r.OffHour != 8 || r.OffMin != 0 {
		t.Fatalf("unexpected offset: %v %d:%d", r.Offset, r.OffHour, r.OffMin)
	}
}

func TestParseLocalDate(t *testing.T) {
	root := mustParse(t, "d = 1979-05-27\n")
	v, _ := root.Get("d")
	r, ok := v.(*R39)
	if !ok || r.Kind != LocalDate {
		t.Fatalf("expected LocalDate R39, got %#v", v)
	}
}

func TestParseLocalTime(t *testing.T) {
	root := mustParse(t, "tm = 07:32:00\n")
	v, _ := root.Get("tm")
	r, ok := v.(*R39)
	if !ok || r.Kind != LocalTime {
		t.Fatalf("expected LocalTime R39, got %#v", v)
	}
	if r.Hour != 7 || r.Min != 32 || r.Sec != 0 {
		t.Fatalf("unexpected time: %d:%d:%d", r.Hour, r.Min, r.Sec)
	}
}

func TestWriteDocumentRoundTripsNestedTables(t *testing.T) {
	src := "title = \"x\"\n\n[server]\nhost = \"localhost\"\n\n[[server.backup]]\nname = \"a\"\n"
	root := mustParse(t, src)
	out, err := ToBytes(Default(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reparsed, err := Parse(Default(), out)
	if err != nil {
		t.Fatalf("unexpected reparse error on:\n%s\nerr: %v", out, err)
	}
	if !root.Equal(reparsed) {
		t.Fatalf("round-trip mismatch:\n got: %s\n orig debug: %s\n reparsed debug: %s", out, root.Debug(), reparsed.Debug())
	}
}

func TestJSONValueSinkRendersTable(t *testing.T) {
	root := mustParse(t, "name = \"x\"\ncount = 2\n")
	sink := format.NewJSONValue()
	if err := root.Format(sink, Default()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, ok := sink.Data().(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %#v", sink.Data())
	}
	if data["name"] != "x" {
		t.Fatalf("expected name=x, got %#v", data["name"])
	}
}
