package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"lexcanon/internal/diag"
	"lexcanon/internal/driver"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/locale"
	"lexcanon/internal/observ"
	"lexcanon/internal/token"
)

func table(t *testing.T, id locale.ID) *lexicon.Table {
	t.Helper()
	tbl, err := lexicon.MustDefault().Table(id)
	if err != nil {
		t.Fatalf("table %s: %v", id, err)
	}
	return tbl
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func zhOptions(t *testing.T) driver.Options {
	return driver.Options{
		Table:          table(t, locale.ZhCN),
		MaxDiagnostics: 50,
		Extensions:     []string{".lc"},
	}
}

func TestCanonicalizeFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.lc"), "令 总数 为 1\n")
	opts := zhOptions(t)
	opts.Timer = observ.NewTimer()

	res, err := driver.Canonicalize(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Kind{token.KwLet, token.Ident, token.KwBe, token.IntLit, token.EOF}
	if got := kinds(res.Tokens); !slices.Equal(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	if res.Bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %+v", res.Bag.Items())
	}

	var phases []string
	for _, p := range opts.Timer.Report().Phases {
		phases = append(phases, p.Name)
	}
	if !slices.Equal(phases, []string{driver.PhaseLoad, driver.PhaseTokenize, driver.PhaseCanonicalize}) {
		t.Errorf("phases = %v", phases)
	}
}

func TestCanonicalizeMissingFile(t *testing.T) {
	_, err := driver.Canonicalize(context.Background(), filepath.Join(t.TempDir(), "nope.lc"), zhOptions(t))
	if err == nil {
		t.Fatal("expected I/O error")
	}
}

func TestCanonicalizeMalformed(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "bad.lc"), "令 x\xff")
	res, err := driver.Canonicalize(context.Background(), path, zhOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	if res.Tokens != nil {
		t.Errorf("malformed input must not produce tokens, got %v", kinds(res.Tokens))
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexMalformedInput {
		t.Fatalf("diagnostics = %+v", items)
	}
	if items[0].Primary.Start != 5 || !slices.Equal(items[0].Args, []string{"5"}) {
		t.Errorf("diagnostic = %+v", items[0])
	}
}

func TestTokenize(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.lc"), "if x\n")
	opts := zhOptions(t)
	opts.Table = table(t, locale.EnUS)
	res, err := driver.Tokenize(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, r := range res.Raws {
		got = append(got, r.Kind.String()+":"+r.Text)
	}
	want := []string{"Word:if", "Space: ", "Word:x", "Newline:\n"}
	if !slices.Equal(got, want) {
		t.Errorf("raws = %q, want %q", got, want)
	}
}

func TestCanonicalizeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.lc"), "如果 x 则\n")
	writeFile(t, filepath.Join(dir, "a.lc"), "令 y 为 「未结束\n")
	writeFile(t, filepath.Join(dir, "sub", "c.lc"), "返回 1\n")
	writeFile(t, filepath.Join(dir, ".hidden", "d.lc"), "返回 2\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "返回 3\n")

	var (
		mu     sync.Mutex
		events []driver.PhaseEvent
	)
	opts := zhOptions(t)
	opts.Jobs = 2
	opts.Observer = func(ev driver.PhaseEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}

	fs, results, err := driver.CanonicalizeDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, r := range results {
		rel, _ := filepath.Rel(dir, r.Path)
		paths = append(paths, filepath.ToSlash(rel))
	}
	if !slices.Equal(paths, []string{"a.lc", "b.lc", "sub/c.lc"}) {
		t.Fatalf("paths = %v", paths)
	}
	if fs.Len() != 3 {
		t.Errorf("file set has %d files", fs.Len())
	}

	if got := kinds(results[1].Tokens); !slices.Equal(got, []token.Kind{token.KwIf, token.Ident, token.Colon, token.EOF}) {
		t.Errorf("b.lc kinds = %v", got)
	}
	if !results[0].Bag.HasErrors() || results[1].Bag.HasErrors() {
		t.Errorf("only a.lc has an unterminated string")
	}
	merged := driver.MergeBags(results, 10)
	if merged.Len() != 1 || merged.Items()[0].Code != diag.LexUnterminatedString {
		t.Errorf("merged = %+v", merged.Items())
	}

	var failed, finished int
	for _, ev := range events {
		if ev.Name != driver.PhaseCanonicalize {
			continue
		}
		switch ev.Status {
		case driver.PhaseFailed:
			failed++
		case driver.PhaseEnd:
			finished++
		}
	}
	if failed != 1 || finished != 2 {
		t.Errorf("failed=%d finished=%d, events=%+v", failed, finished, events)
	}
}

func TestCanonicalizeDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.lc"), "返回 1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := driver.CanonicalizeDir(ctx, dir, zhOptions(t)); err == nil {
		t.Fatal("expected context error")
	}
}

func TestStreamCacheRebasesSpans(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.lc"), "返回 总数\n")
	writeFile(t, filepath.Join(dir, "b.lc"), "返回 总数\n")

	opts := zhOptions(t)
	opts.Jobs = 1
	opts.Memo = driver.NewStreamCache(4)
	_, results, err := driver.CanonicalizeDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Cached || !results[1].Cached {
		t.Fatalf("cached = %v, %v", results[0].Cached, results[1].Cached)
	}
	if opts.Memo.Len() != 1 {
		t.Errorf("memo has %d entries", opts.Memo.Len())
	}
	for _, tok := range results[1].Tokens {
		if tok.Span.File != results[1].FileID {
			t.Fatalf("span %v not rebased onto file %d", tok.Span, results[1].FileID)
		}
	}
	if !slices.Equal(kinds(results[0].Tokens), kinds(results[1].Tokens)) {
		t.Error("cached stream differs")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.lc"), "令 y 为 「未结束\n")
	cacheDir := t.TempDir()

	run := func() *driver.CanonResult {
		t.Helper()
		disk, err := driver.OpenDiskCache("lexcanon", cacheDir)
		if err != nil {
			t.Fatal(err)
		}
		opts := zhOptions(t)
		opts.Disk = disk
		res, err := driver.Canonicalize(context.Background(), path, opts)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	first := run()
	second := run()
	if first.Cached || !second.Cached {
		t.Fatalf("cached = %v, %v", first.Cached, second.Cached)
	}
	if len(first.Tokens) != len(second.Tokens) {
		t.Fatalf("token count %d != %d", len(first.Tokens), len(second.Tokens))
	}
	for i := range first.Tokens {
		a, b := first.Tokens[i], second.Tokens[i]
		if a.Kind != b.Kind || a.Text != b.Text || a.Span != b.Span || a.Value != b.Value {
			t.Errorf("token %d: %+v != %+v", i, a, b)
		}
	}
	d1, d2 := first.Bag.Items(), second.Bag.Items()
	if len(d1) != 1 || len(d2) != 1 || d1[0].Code != d2[0].Code || d1[0].Primary != d2[0].Primary {
		t.Fatalf("diagnostics differ: %+v vs %+v", d1, d2)
	}
	if len(d2[0].Fixes) != 1 || d2[0].Fixes[0].Edits[0].NewText != "」" {
		t.Errorf("cached fix lost: %+v", d2[0].Fixes)
	}

	disk, _ := driver.OpenDiskCache("lexcanon", cacheDir)
	if err := disk.DropAll(); err != nil {
		t.Fatal(err)
	}
	if third := run(); third.Cached {
		t.Error("DropAll must invalidate every entry")
	}
}

func TestTranslate(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.lc"), "令 总数 为 1\n")
	res, err := driver.Translate(context.Background(), path, zhOptions(t), table(t, locale.EnUS))
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "let 总数 be 1" {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestTranslateReportsUnknown(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.lc"), "返回 $\n")
	res, err := driver.Translate(context.Background(), path, zhOptions(t), table(t, locale.EnUS))
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "return $" {
		t.Errorf("Text = %q", res.Text)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.LocUnrenderable || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %+v", items)
	}
	if !slices.Equal(items[0].Args, []string{"$", "en-US"}) {
		t.Errorf("args = %v", items[0].Args)
	}
}

func TestTranslateRefusesKeywordNames(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.lc"), "令 type 为 1\n")
	res, err := driver.Translate(context.Background(), path, zhOptions(t), table(t, locale.EnUS))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("translation %q must be reported, diagnostics = %+v", res.Text, res.Bag.Items())
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.LocMeaningChanged {
		t.Fatalf("diagnostics = %+v", items)
	}
	if !slices.Equal(items[0].Args, []string{"type", "Type", "en-US"}) {
		t.Errorf("args = %v", items[0].Args)
	}
	if items[0].Primary.Start != 4 || items[0].Primary.End != 8 {
		t.Errorf("primary span = %v", items[0].Primary)
	}
}

func TestTranslateDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.lc"), "返回 x\n")
	_, results, err := driver.TranslateDir(context.Background(), dir, zhOptions(t), table(t, locale.EnUS))
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Text != "return x" {
		t.Errorf("results = %+v", results)
	}
}

func TestTimingPayload(t *testing.T) {
	timer := observ.NewTimer()
	timer.Track("load")("a.lc")
	p := driver.NewTimingPayload("", "a.lc", timer)
	if p.Kind != "pipeline" || len(p.Phases) != 1 {
		t.Fatalf("payload = %+v", p)
	}
	if !strings.HasPrefix(p.Headline(), "timings (pipeline): total ") || !strings.HasSuffix(p.Headline(), ": a.lc") {
		t.Errorf("headline = %q", p.Headline())
	}
	var b strings.Builder
	if err := p.WriteJSON(&b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), `"kind":"pipeline"`) {
		t.Errorf("json = %s", b.String())
	}
}
