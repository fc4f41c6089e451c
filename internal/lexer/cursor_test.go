package lexer

import (
	"testing"

	"lexcanon/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lc", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	for _, want := range []byte("a\nb") {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("Peek = %q, want %q", got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() {
		t.Fatal("expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Error("Peek/Bump at EOF must return 0")
	}
}

func TestPeek2(t *testing.T) {
	cursor := NewCursor(createFile("abc"))

	if b0, b1, ok := cursor.Peek2(); !ok || b0 != 'a' || b1 != 'b' {
		t.Errorf("Peek2 at start = (%q, %q, %v)", b0, b1, ok)
	}
	cursor.Bump()
	if b0, b1, ok := cursor.Peek2(); !ok || b0 != 'b' || b1 != 'c' {
		t.Errorf("Peek2 in middle = (%q, %q, %v)", b0, b1, ok)
	}
	cursor.Bump()
	if b0, b1, ok := cursor.Peek2(); ok || b0 != 0 || b1 != 0 {
		t.Errorf("Peek2 at last byte = (%q, %q, %v), want failure", b0, b1, ok)
	}
}

func TestRunes(t *testing.T) {
	cursor := NewCursor(createFile("α若x"))

	tests := []struct {
		r    rune
		size int
	}{
		{'α', 2},
		{'若', 3},
		{'x', 1},
	}
	for _, tt := range tests {
		r, size := cursor.PeekRune()
		if r != tt.r || size != tt.size {
			t.Fatalf("PeekRune = (%q, %d), want (%q, %d)", r, size, tt.r, tt.size)
		}
		if got := cursor.BumpRune(); got != tt.r {
			t.Fatalf("BumpRune = %q, want %q", got, tt.r)
		}
	}
	if _, size := cursor.PeekRune(); size != 0 {
		t.Errorf("PeekRune at EOF size = %d, want 0", size)
	}
}

func TestPeekRuneAt(t *testing.T) {
	cursor := NewCursor(createFile("0x若"))
	if r, _ := cursor.PeekRuneAt(1); r != 'x' {
		t.Errorf("PeekRuneAt(1) = %q, want 'x'", r)
	}
	if r, sz := cursor.PeekRuneAt(2); r != '若' || sz != 3 {
		t.Errorf("PeekRuneAt(2) = (%q, %d)", r, sz)
	}
	if _, sz := cursor.PeekRuneAt(5); sz != 0 {
		t.Errorf("PeekRuneAt past end size = %d, want 0", sz)
	}
	if cursor.Off != 0 {
		t.Errorf("PeekRuneAt moved the cursor to %d", cursor.Off)
	}
}

// TestSpanFromResolve проверяет SpanFrom и Resolve с UTF-8
func TestSpanFromResolve(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.lc", []byte("α\nβ")))
	cursor := NewCursor(file)

	mark := cursor.Mark()
	cursor.BumpRune()
	span := cursor.SpanFrom(mark)
	if span.Start != 0 || span.End != 2 {
		t.Fatalf("span = %v, want 0..2", span)
	}
	start, end := fs.Resolve(span)
	if start != (source.LineCol{Line: 1, Col: 1}) || end != (source.LineCol{Line: 1, Col: 3}) {
		t.Errorf("Resolve = %+v..%+v", start, end)
	}

	cursor.Bump() // '\n'
	mark = cursor.Mark()
	cursor.BumpRune()
	start, _ = fs.Resolve(cursor.SpanFrom(mark))
	if start != (source.LineCol{Line: 2, Col: 1}) {
		t.Errorf("β starts at %+v, want 2:1", start)
	}
}

func TestEatAndReset(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	if !cursor.Eat('a') || !cursor.Eat('\n') {
		t.Fatal("Eat must consume matching bytes")
	}
	mark := cursor.Mark()
	if cursor.Eat('x') {
		t.Fatal("Eat must not consume a different byte")
	}
	if !cursor.Eat('b') || !cursor.EOF() {
		t.Fatal("expected EOF after Eat('b')")
	}
	if cursor.Eat('x') {
		t.Error("Eat at EOF must fail")
	}
	cursor.Reset(mark)
	if cursor.Peek() != 'b' {
		t.Errorf("Peek after Reset = %q, want 'b'", cursor.Peek())
	}
	cursor.Reset(Mark(0))
	if cursor.Peek() != 'a' {
		t.Errorf("Peek after Reset(0) = %q, want 'a'", cursor.Peek())
	}
}
