package token

import "testing"

func TestTokenEqual(t *testing.T) {
	ty := NewType("test.eq", "TEST", 5)
	a := New("abc", ty, 1, 1)
	b := New("abc", ty, 1, 1)
	if !a.Equal(b) {
		t.Fatalf("expected equal tokens, got %+v vs %+v", a, b)
	}
	c := New("abd", ty, 1, 1)
	if a.Equal(c) {
		t.Fatalf("expected distinct values to compare unequal")
	}
}

func TestTokenLessOrdersByLineThenPosThenType(t *testing.T) {
	ty1 := NewType("test.less.a", "A", 1)
	ty2 := NewType("test.less.b", "B", 2)

	tests := []struct {
		name string
		a, b Token
	}{
		{"line", New("x", ty1, 1, 1), New("x", ty1, 2, 1)},
		{"startpos", New("x", ty1, 1, 1), New("x", ty1, 1, 2)},
		{"value", New("a", ty1, 1, 1), New("b", ty1, 1, 1)},
		// The type tiebreak compares FNV-1a hashes of the type ids, and
		// "test.less.b" hashes below "test.less.a".
		{"type", New("x", ty2, 1, 1), New("x", ty1, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.a.Less(tt.b) {
				t.Errorf("expected %+v < %+v", tt.a, tt.b)
			}
			if tt.b.Less(tt.a) {
				t.Errorf("expected %+v not < %+v", tt.b, tt.a)
			}
		})
	}
}

func TestEOFTokenIsEOF(t *testing.T) {
	tok := EOFToken(3, 4)
	if !tok.IsEOF() {
		t.Fatalf("expected EOFToken to report IsEOF")
	}
	if tok.LineStart != 3 || tok.StartPos != 4 {
		t.Fatalf("unexpected EOF position: %+v", tok)
	}
}

func TestWithLineEndKeepsOtherFields(t *testing.T) {
	ty := NewType("test.multiline", "ML", 0)
	tok := New("a\nb", ty, 1, 1).WithLineEnd(2)
	if tok.LineStart != 1 || tok.LineEnd != 2 {
		t.Fatalf("unexpected line span: %+v", tok)
	}
}

func TestNewTypeRejectsConflictingPrecedence(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on conflicting re-registration")
		}
	}()
	NewType("test.conflict", "X", 1)
	NewType("test.conflict", "X", 2)
}

func TestNewTypeAllowsIdempotentReRegistration(t *testing.T) {
	a := NewType("test.idempotent", "X", 7)
	b := NewType("test.idempotent", "X", 7)
	if !a.Equal(b) {
		t.Fatalf("expected idempotent re-registration to produce equal types")
	}
}
