package token

import "hash/fnv"

// Token is an immutable lexeme instance. It carries enough position
// information to reconstruct an error location without holding a
// reference back into the mill's source buffer.
type Token struct {
	Value     string
	Type      Type
	LineStart int
	LineEnd   int
	StartPos  int // 1-based column of the first character
	Length    int
}

// New constructs a Token. LineEnd defaults to LineStart for single-line
// tokens; callers that span multiple lines (a quoted field containing a
// line terminator) set LineEnd explicitly via WithLineEnd.
func New(value string, typ Type, line, startPos int) Token {
	return Token{
		Value:     value,
		Type:      typ,
		LineStart: line,
		LineEnd:   line,
		StartPos:  startPos,
		Length:    len(value),
	}
}

// WithLineEnd returns a copy of t with LineEnd set, for tokens whose value
// spans multiple source lines (e.g. a quoted DSV field containing a
// newline, or a TOML triple-quoted string).
func (t Token) WithLineEnd(line int) Token {
	t.LineEnd = line
	return t
}

// EOFToken synthesizes the end-of-file token the queue returns once
// drained past the last real token.
func EOFToken(line, col int) Token {
	return Token{Type: EOF, LineStart: line, LineEnd: line, StartPos: col}
}

// Equal compares every field.
func (t Token) Equal(o Token) bool {
	return t.Value == o.Value &&
		t.Type.Equal(o.Type) &&
		t.LineStart == o.LineStart &&
		t.LineEnd == o.LineEnd &&
		t.StartPos == o.StartPos &&
		t.Length == o.Length
}

// Less orders tokens by (LineStart, LineEnd, StartPos, type hash, Value).
func (t Token) Less(o Token) bool {
	if t.LineStart != o.LineStart {
		return t.LineStart < o.LineStart
	}
	if t.LineEnd != o.LineEnd {
		return t.LineEnd < o.LineEnd
	}
	if t.StartPos != o.StartPos {
		return t.StartPos < o.StartPos
	}
	th, oh := t.Type.hash(), o.Type.hash()
	if th != oh {
		return th < oh
	}
	return t.Value < o.Value
}

// Hash is a 32-bit FNV-1a hash over Value, the type id, LineStart,
// LineEnd and StartPos (not Length or precedence), used by Expression
// implementations that need HashCode32.
func (t Token) Hash() uint32 {
	h := fnv.New32a()
	h.Write([]byte(t.Value))
	h.Write([]byte(t.Type.id))
	writeUvarint(h, uint64(t.LineStart))
	writeUvarint(h, uint64(t.LineEnd))
	writeUvarint(h, uint64(t.StartPos))
	return h.Sum32()
}

func (t Type) hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(t.id))
	return h.Sum64()
}

func writeUvarint(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [10]byte
	n := 0
	for v >= 0x80 {
		buf[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	buf[n] = byte(v)
	h.Write(buf[:n+1])
}

// IsEOF reports whether t is the synthesized end-of-stream token.
func (t Token) IsEOF() bool { return t.Type.Equal(EOF) }
