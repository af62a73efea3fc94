package dsv

// FromCSVBytes parses data with syn (or Default() if nil) — the mirror
// of Table.ToCSVBytes, named for the common case where a caller just
// wants the RFC 4180 defaults without constructing a Syntax by hand.
func FromCSVBytes(syn *Syntax, data []byte) (*Table, error) {
	return ParseTable(syn, data)
}
