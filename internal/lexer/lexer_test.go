package lexer

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"lexcanon/internal/diag"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/locale"
	"lexcanon/internal/source"
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

type rawWant struct {
	kind token.RawKind
	text string
}

func scanAll(t *testing.T, id locale.ID, input string, opts Options) []token.Raw {
	t.Helper()
	st, err := Tokenize(createFile(input), table(t, id), opts)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", input, err)
	}
	return st.Collect()
}

func checkRaws(t *testing.T, input string, got []token.Raw, want []rawWant) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%q: got %d spans %v, want %d", input, len(got), got, len(want))
	}
	for i := range want {
		if got[i].Kind != want[i].kind || got[i].Text != want[i].text {
			t.Errorf("%q span %d: got %s %q, want %s %q",
				input, i, got[i].Kind, got[i].Text, want[i].kind, want[i].text)
		}
	}
}

func TestTokenizeSegmentation(t *testing.T) {
	tests := []struct {
		name   string
		locale locale.ID
		input  string
		want   []rawWant
	}{
		{
			name:   "whitespace words",
			locale: locale.EnUS,
			input:  "if x_1 then",
			want: []rawWant{
				{token.RawWord, "if"}, {token.RawSpace, " "}, {token.RawWord, "x_1"},
				{token.RawSpace, " "}, {token.RawWord, "then"},
			},
		},
		{
			name:   "unsegmented letters",
			locale: locale.ZhCN,
			input:  "如果 x1",
			want: []rawWant{
				{token.RawWord, "如"}, {token.RawWord, "果"}, {token.RawSpace, " "},
				{token.RawWord, "x"}, {token.RawNumber, "1"},
			},
		},
		{
			name:   "full-width punctuation",
			locale: locale.ZhCN,
			input:  "令（甲）。",
			want: []rawWant{
				{token.RawWord, "令"}, {token.RawPunct, "（"}, {token.RawWord, "甲"},
				{token.RawPunct, "）"}, {token.RawPunct, "。"},
			},
		},
		{
			name:   "ideographic space",
			locale: locale.ZhCN,
			input:  "甲　乙",
			want: []rawWant{
				{token.RawWord, "甲"}, {token.RawSpace, "　"}, {token.RawWord, "乙"},
			},
		},
		{
			name:   "combining marks stay with their letter",
			locale: locale.ZhCN,
			input:  "e\u0301x",
			want: []rawWant{
				{token.RawWord, "e\u0301"}, {token.RawWord, "x"},
			},
		},
		{
			name:   "operators are single codepoints",
			locale: locale.EnUS,
			input:  "a>=b",
			want: []rawWant{
				{token.RawWord, "a"}, {token.RawPunct, ">"}, {token.RawPunct, "="}, {token.RawWord, "b"},
			},
		},
		{
			name:   "comment and newline",
			locale: locale.ZhCN,
			input:  "甲 // 若 x\n乙",
			want: []rawWant{
				{token.RawWord, "甲"}, {token.RawSpace, " "}, {token.RawComment, "// 若 x"},
				{token.RawNewline, "\n"}, {token.RawWord, "乙"},
			},
		},
		{
			name:   "bom and crlf are trivia",
			locale: locale.EnUS,
			input:  "\uFEFFa\r\nb",
			want: []rawWant{
				{token.RawSpace, "\uFEFF"}, {token.RawWord, "a"}, {token.RawSpace, "\r"},
				{token.RawNewline, "\n"}, {token.RawWord, "b"},
			},
		},
		{
			name:   "single slash is punctuation",
			locale: locale.EnUS,
			input:  "a/b",
			want: []rawWant{
				{token.RawWord, "a"}, {token.RawPunct, "/"}, {token.RawWord, "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkRaws(t, tt.input, scanAll(t, tt.locale, tt.input, Options{}), tt.want)
		})
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  []rawWant
	}{
		{"0", []rawWant{{token.RawNumber, "0"}}},
		{"1_000", []rawWant{{token.RawNumber, "1_000"}}},
		{"0x1F", []rawWant{{token.RawNumber, "0x1F"}}},
		{"0b1010", []rawWant{{token.RawNumber, "0b1010"}}},
		{"0o777", []rawWant{{token.RawNumber, "0o777"}}},
		{"3.14", []rawWant{{token.RawNumber, "3.14"}}},
		{"1e-3", []rawWant{{token.RawNumber, "1e-3"}}},
		{"1.0E+10", []rawWant{{token.RawNumber, "1.0E+10"}}},
		{"1.foo", []rawWant{{token.RawNumber, "1"}, {token.RawPunct, "."}, {token.RawWord, "foo"}}},
		{"12abc", []rawWant{{token.RawNumber, "12"}, {token.RawWord, "abc"}}},
		{"0x", []rawWant{{token.RawInvalid, "0x"}}},
		{"1e", []rawWant{{token.RawInvalid, "1e"}}},
		{"2east", []rawWant{{token.RawInvalid, "2e"}, {token.RawWord, "ast"}}},
	}

	for _, tt := range tests {
		checkRaws(t, tt.input, scanAll(t, locale.EnUS, tt.input, Options{}), tt.want)
	}
}

func TestTokenizeGluedDigits(t *testing.T) {
	tests := []struct {
		input string
		want  []rawWant
	}{
		{"a0b", []rawWant{{token.RawWord, "a"}, {token.RawNumber, "0"}, {token.RawWord, "b"}}},
		{"x2e", []rawWant{{token.RawWord, "x"}, {token.RawNumber, "2"}, {token.RawWord, "e"}}},
		{"s64e", []rawWant{{token.RawWord, "s"}, {token.RawNumber, "64"}, {token.RawWord, "e"}}},
		{"总数2", []rawWant{{token.RawWord, "总"}, {token.RawWord, "数"}, {token.RawNumber, "2"}}},
		{"0x1F", []rawWant{{token.RawNumber, "0x1F"}}},
		{"1e-3", []rawWant{{token.RawNumber, "1e-3"}}},
	}

	for _, tt := range tests {
		checkRaws(t, tt.input, scanAll(t, locale.ZhCN, tt.input, Options{}), tt.want)
	}
}

func TestTokenizeStrings(t *testing.T) {
	tests := []struct {
		name   string
		locale locale.ID
		input  string
		want   []rawWant
	}{
		{
			name:   "ascii quotes",
			locale: locale.EnUS,
			input:  `"a\"b" x`,
			want: []rawWant{
				{token.RawString, `"a\"b"`}, {token.RawSpace, " "}, {token.RawWord, "x"},
			},
		},
		{
			name:   "corner brackets",
			locale: locale.ZhCN,
			input:  "长（「hello」）",
			want: []rawWant{
				{token.RawWord, "长"}, {token.RawPunct, "（"}, {token.RawString, "「hello」"},
				{token.RawPunct, "）"},
			},
		},
		{
			name:   "string protects keywords",
			locale: locale.ZhCN,
			input:  `返回 "若 这是字符串"`,
			want: []rawWant{
				{token.RawWord, "返"}, {token.RawWord, "回"}, {token.RawSpace, " "},
				{token.RawString, `"若 这是字符串"`},
			},
		},
		{
			name:   "corner brackets are not quotes in en-US",
			locale: locale.EnUS,
			input:  "「a」",
			want: []rawWant{
				{token.RawPunct, "「"}, {token.RawWord, "a"}, {token.RawPunct, "」"},
			},
		},
		{
			name:   "unterminated at newline",
			locale: locale.EnUS,
			input:  "\"abc\nx",
			want: []rawWant{
				{token.RawInvalid, `"abc`}, {token.RawNewline, "\n"}, {token.RawWord, "x"},
			},
		},
		{
			name:   "unterminated at crlf",
			locale: locale.EnUS,
			input:  "\"abc\r\n",
			want: []rawWant{
				{token.RawInvalid, `"abc`}, {token.RawSpace, "\r"}, {token.RawNewline, "\n"},
			},
		},
		{
			name:   "unterminated at eof",
			locale: locale.ZhCN,
			input:  "「abc",
			want:   []rawWant{{token.RawInvalid, "「abc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkRaws(t, tt.input, scanAll(t, tt.locale, tt.input, Options{}), tt.want)
		})
	}
}

func TestTokenizeReportsOnce(t *testing.T) {
	bag := diag.NewBag(16)
	st, err := Tokenize(createFile("\"abc\n0x 「x"), table(t, locale.ZhCN), Options{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	first := st.Collect()
	second := st.Collect()
	if !slices.Equal(first, second) {
		t.Fatalf("re-iteration differs:\n%v\n%v", first, second)
	}

	items := bag.Items()
	codes := make([]diag.Code, 0, len(items))
	for _, d := range items {
		codes = append(codes, d.Code)
	}
	want := []diag.Code{diag.LexUnterminatedString, diag.LexBadNumber, diag.LexUnterminatedString}
	if !slices.Equal(codes, want) {
		t.Fatalf("codes = %v, want %v", codes, want)
	}

	fix := items[0].Fixes
	if len(fix) != 1 || len(fix[0].Edits) != 1 || fix[0].Edits[0].NewText != `"` {
		t.Errorf("unexpected fix %+v", fix)
	}
	if e := fix[0].Edits[0].Span; e.Start != 4 || e.End != 4 {
		t.Errorf("fix span = %v, want empty span at 4", e)
	}
	if last := items[2].Fixes; len(last) != 1 || last[0].Edits[0].NewText != "」" {
		t.Errorf("corner bracket fix = %+v", last)
	}
	if got := items[1].Args; !slices.Equal(got, []string{"0x"}) {
		t.Errorf("bad number args = %v", got)
	}
}

func TestTokenizeMalformedInput(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("bad.lc", []byte{'a', 'b', 0xff, 'c'}))

	_, err := Tokenize(file, table(t, locale.EnUS), Options{})
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
	if malformed.Offset != 2 || malformed.File != "bad.lc" {
		t.Errorf("got %+v", malformed)
	}
	if !strings.Contains(err.Error(), "byte 2") {
		t.Errorf("message %q", err.Error())
	}
}

func TestSpansCoverInput(t *testing.T) {
	inputs := []string{
		"如果 (x) { y }",
		"若用户的名字大于等于 3，则\n  返回 「好」。",
		"let total be 0x_FF // done\r\n",
		"\uFEFF\"unterminated",
		"$ @ ~ 1e ¿",
	}
	for _, id := range []locale.ID{locale.EnUS, locale.ZhCN} {
		for _, in := range inputs {
			raws := scanAll(t, id, in, Options{})
			var b strings.Builder
			var prev uint32
			for _, r := range raws {
				if r.Span.Start != prev {
					t.Fatalf("%s %q: gap before %v", id, in, r)
				}
				if r.Span.Empty() {
					t.Fatalf("%s %q: empty span %v", id, in, r)
				}
				prev = r.Span.End
				b.WriteString(r.Text)
			}
			if b.String() != in {
				t.Errorf("%s: spans rebuild %q, want %q", id, b.String(), in)
			}
		}
	}
}

func TestScannerIsIndependent(t *testing.T) {
	st, err := Tokenize(createFile("甲 乙"), table(t, locale.ZhCN), Options{})
	if err != nil {
		t.Fatal(err)
	}
	a, b := st.Scanner(), st.Scanner()
	first, _ := a.Next()
	a.Next()
	again, _ := b.Next()
	if first != again {
		t.Errorf("scanners share state: %v vs %v", first, again)
	}
	if a.Offset() != 4 {
		t.Errorf("offset after two spans = %d, want 4", a.Offset())
	}

	n := 0
	for range st.All() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("All did not stop on break")
	}
}
