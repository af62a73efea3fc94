package toml

import (
	"strings"

	"github.com/inkmill/textmill/format"
)

// WriteDocument renders root as a full TOML document, recursively
// emitting "[a.b.c]" and "[[a.b.c]]" header lines for nested block
// tables and arrays of tables — the one concern Table.Format itself
// can't handle, since a node has no notion of the key path it's bound
// under in its parent (spec §3.6).
func WriteDocument(sink format.Sink, syntax any, root *Table) error {
	if err := writeComments(sink, syntax, root.Snip, ""); err != nil {
		return err
	}
	if err := root.formatBlockEntries(sink, syntax); err != nil {
		return err
	}
	return writeTableBody(sink, syntax, root, nil)
}

// writeTableBody walks t's entries, deferring any value that is itself
// a non-inline Table or a non-inline Seq (array of tables) until after
// the scalar entries are flushed, then emits each as its own header
// block under path+key.
func writeTableBody(sink format.Sink, syntax any, t *Table, path []string) error {
	for _, k := range t.keys {
		e := t.entries[k]
		sub := append(append([]string(nil), path...), k)
		switch v := e.value.(type) {
		case *Table:
			if v.Inline {
				continue
			}
			if err := writeTableHeader(sink, syntax, v, sub, false); err != nil {
				return err
			}
		case *Seq:
			if v.Inline {
				continue
			}
			for _, item := range v.Items {
				it, ok := item.(*Table)
				if !ok {
					continue
				}
				if err := writeTableHeader(sink, syntax, it, sub, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeTableHeader(sink format.Sink, syntax any, t *Table, path []string, array bool) error {
	if err := writeComments(sink, syntax, t.Snip, ""); err != nil {
		return err
	}
	name := strings.Join(path, ".")
	open, close := "[", "]"
	if array {
		open, close = "[[", "]]"
	}
	if err := sink.Append(open+name+close, syntax); err != nil {
		return err
	}
	if err := appendInline(sink, syntax, t.Snip); err != nil {
		return err
	}
	if err := sink.Append("\n", syntax); err != nil {
		return err
	}
	if err := t.formatBlockEntries(sink, syntax); err != nil {
		return err
	}
	return writeTableBody(sink, syntax, t, path)
}

// ToBytes renders root as a complete TOML document through a pretty
// format.StringSink — a convenience wrapper mirroring dsv.Table's
// ToCSVBytes (SPEC_FULL §4 supplemented feature).
func ToBytes(syn *Syntax, root *Table) ([]byte, error) {
	sink := format.NewPrettyStringSink(nil)
	if err := WriteDocument(sink, syn, root); err != nil {
		return nil, err
	}
	return []byte(sink.String()), nil
}
