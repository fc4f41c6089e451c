package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lexcanon/internal/diag"
	"lexcanon/internal/source"
)

func loadFile(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.lc")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func insertAt(file source.FileID, at uint32, text string) diag.Diagnostic {
	span := source.Span{File: file, Start: at, End: at}
	return diag.NewError(diag.LexUnterminatedString, span, "unterminated string literal").
		WithFix("insert closing quote", diag.FixEdit{Span: span, NewText: text})
}

func TestApplyAll(t *testing.T) {
	// 令 a 为 「x\n令 b 为 「y\n
	content := "令 a 为 「x\n令 b 为 「y\n"
	fs, id, path := loadFile(t, content)
	first := uint32(len("令 a 为 「x"))
	second := uint32(len("令 a 为 「x\n令 b 为 「y"))

	res, err := Apply(fs, []diag.Diagnostic{
		insertAt(id, second, "」"),
		insertAt(id, first, "」"),
	}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 2 || len(res.Skipped) != 0 {
		t.Fatalf("applied=%+v skipped=%+v", res.Applied, res.Skipped)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "令 a 为 「x」\n令 b 为 「y」\n"; string(got) != want {
		t.Errorf("content = %q, want %q", got, want)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 2 {
		t.Errorf("changes = %+v", res.FileChanges)
	}
}

func TestApplyOncePicksFirstInSource(t *testing.T) {
	fs, id, path := loadFile(t, "\"a\n\"b\n")
	res, err := Apply(fs, []diag.Diagnostic{
		insertAt(id, 5, `"`),
		insertAt(id, 2, `"`),
	}, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied = %+v", res.Applied)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "\"a\"\n\"b\n" {
		t.Errorf("content = %q", got)
	}
}

func TestApplyDryRun(t *testing.T) {
	fs, id, path := loadFile(t, "\"a\n")
	res, err := Apply(fs, []diag.Diagnostic{insertAt(id, 2, `"`)}, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.FileChanges[0].Content) != "\"a\"\n" {
		t.Errorf("content = %q", res.FileChanges[0].Content)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "\"a\n" {
		t.Errorf("dry run wrote the file: %q", got)
	}
}

func TestApplySkips(t *testing.T) {
	fs, id, _ := loadFile(t, "abcdef\n")
	virtual := fs.AddVirtual("mem.lc", []byte("x"))

	replace := diag.NewError(diag.CanonUnknownToken, source.Span{File: id, Start: 1, End: 4}, "unknown").
		WithFix("replace", diag.FixEdit{Span: source.Span{File: id, Start: 1, End: 4}, NewText: "Z"})
	overlap := diag.NewError(diag.CanonUnknownToken, source.Span{File: id, Start: 2, End: 3}, "unknown").
		WithFix("overlap", diag.FixEdit{Span: source.Span{File: id, Start: 2, End: 3}, NewText: "Q"})
	outOfRange := diag.NewError(diag.CanonUnknownToken, source.Span{File: id, Start: 5}, "unknown").
		WithFix("far", diag.FixEdit{Span: source.Span{File: id, Start: 50, End: 60}, NewText: "Q"})
	empty := diag.NewError(diag.CanonUnknownToken, source.Span{File: id}, "unknown").WithFix("nothing")

	res, err := Apply(fs, []diag.Diagnostic{replace, overlap, outOfRange, insertAt(virtual, 0, "x"), empty},
		ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Title != "replace" {
		t.Fatalf("applied = %+v", res.Applied)
	}
	reasons := map[string]bool{}
	for _, s := range res.Skipped {
		reasons[s.Reason] = true
	}
	for _, want := range []string{"fix has no edits", "edit span out of range", "target file is virtual"} {
		if !reasons[want] {
			t.Errorf("missing skip %q in %+v", want, res.Skipped)
		}
	}
	if len(res.Skipped) != 4 {
		t.Errorf("skipped = %+v", res.Skipped)
	}
	if string(res.FileChanges[0].Content) != "aZef\n" {
		t.Errorf("content = %q", res.FileChanges[0].Content)
	}
}

func TestApplyNoFixes(t *testing.T) {
	fs, id, _ := loadFile(t, "x\n")
	d := diag.NewError(diag.CanonUnknownToken, source.Span{File: id}, "unknown")
	if _, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if _, err := Apply(nil, nil, ApplyOptions{}); err == nil {
		t.Fatal("nil FileSet must fail")
	}
}

func TestSpansConflict(t *testing.T) {
	edit := func(s, e uint32) diag.FixEdit { return diag.FixEdit{Span: source.Span{Start: s, End: e}} }
	tests := []struct {
		a, b diag.FixEdit
		want bool
	}{
		{edit(2, 2), edit(2, 2), false},
		{edit(2, 2), edit(1, 3), true},
		{edit(3, 3), edit(1, 3), false},
		{edit(1, 3), edit(3, 5), false},
		{edit(1, 4), edit(3, 5), true},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v", tt.a.Span, tt.b.Span, got)
		}
	}
}
