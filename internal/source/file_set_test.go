package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddKeepsContentAndSetsFlags(t *testing.T) {
	fs := NewFileSet()
	content := []byte("\xEF\xBB\xBFif x\r\nthen y\n")
	id := fs.AddVirtual("mem.lc", content)
	f := fs.Get(id)

	if string(f.Content) != string(content) {
		t.Fatalf("content was modified: %q", f.Content)
	}
	for _, flag := range []FileFlags{FileVirtual, FileHadBOM, FileHasCRLF} {
		if f.Flags&flag == 0 {
			t.Errorf("expected flag %d to be set, flags=%b", flag, f.Flags)
		}
	}
	if got := f.GetLine(1); got != "\xEF\xBB\xBFif x" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := f.GetLine(2); got != "then y" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("GetLine(4) = %q, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.lc", []byte("ab\ncde\n\nf"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{5, LineCol{2, 3}},
		{7, LineCol{3, 1}},
		{8, LineCol{4, 1}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestLoadAndFormatPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.lc")
	if err := os.WriteFile(path, []byte("如果 x"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f, ok := fs.GetByPath(path)
	if !ok || f.ID != id {
		t.Fatalf("GetByPath = %v,%v want file %d", f, ok, id)
	}
	if got := f.FormatPath(PathRelative, dir); got != "a.lc" {
		t.Errorf("relative path = %q", got)
	}
	if got := f.FormatPath(PathBasename, ""); got != "a.lc" {
		t.Errorf("basename = %q", got)
	}

	if _, err := fs.Load(filepath.Join(dir, "missing.lc")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLookup(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.lc", []byte("x"))
	if f, ok := fs.Lookup(id); !ok || f.Path != "a.lc" {
		t.Errorf("Lookup(%d) = %v, %v", id, f, ok)
	}
	if _, ok := fs.Lookup(id + 1); ok {
		t.Error("Lookup of a foreign id must fail")
	}
	again := fs.AddVirtual("a.lc", []byte("y"))
	if f, _ := fs.GetByPath("a.lc"); f.ID != again || fs.Len() != 2 {
		t.Errorf("re-added path must resolve to the newest file")
	}
}

func TestGetLineWithoutTrailingNewline(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("m.lc", []byte("a\nbc")))
	for n, want := range map[uint32]string{0: "", 1: "a", 2: "bc", 3: ""} {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFileText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.lc", []byte("如果 x"))
	f := fs.Get(id)

	if got := f.Text(Span{File: id, Start: 0, End: 6}); got != "如果" {
		t.Errorf("Text = %q", got)
	}
	if got := f.Text(Span{File: id, Start: 0, End: 99}); got != "" {
		t.Errorf("out of range Text = %q", got)
	}
}

func TestSpanHelpers(t *testing.T) {
	a := Span{File: 1, Start: 2, End: 5}
	b := Span{File: 1, Start: 5, End: 9}

	if !a.Adjacent(b) || b.Adjacent(a) {
		t.Error("Adjacent mismatch")
	}
	c := a.Cover(b)
	if c.Start != 2 || c.End != 9 {
		t.Errorf("Cover = %v", c)
	}
	if !c.Contains(a) || !c.Contains(b) || a.Contains(c) {
		t.Error("Contains mismatch")
	}
	if a.Cover(Span{File: 2, Start: 0, End: 100}) != a {
		t.Error("Cover across files must not merge")
	}
	if a.Len() != 3 || a.Empty() {
		t.Error("Len/Empty mismatch")
	}
	if got := a.String(); got != "1:2-5" {
		t.Errorf("String = %q", got)
	}
}
