package lexicon

import (
	"errors"
	"testing"

	"lexcanon/internal/locale"
	"lexcanon/internal/token"
)

func TestLookupScenarioForms(t *testing.T) {
	zh := mustTable(t, locale.ZhCN)
	en := mustTable(t, locale.EnUS)
	tests := []struct {
		tbl  *Table
		text string
		ctx  Context
		want token.Kind
	}{
		{zh, "如果", Context{}, token.KwIf},
		{zh, "若", Context{}, token.KwIf},
		{zh, "（", Context{}, token.LParen},
		{zh, "(", Context{}, token.LParen},
		{zh, "否则如果", Context{}, token.KwElseIf},
		{zh, "为", Context{LineStart: true}, token.KwWhen},
		{zh, "为", Context{Prev: token.Ident, HasPrev: true}, token.KwBe},
		{zh, "则", Context{LineEnd: true}, token.Colon},
		{zh, "则", Context{}, token.KwThen},
		{zh, "结果为", Context{}, token.KwReturn},
		{en, "if", Context{}, token.KwIf},
		{en, "else  if", Context{}, token.KwElseIf},
		{en, "result is", Context{}, token.KwReturn},
	}
	for _, tt := range tests {
		got, ok := tt.tbl.Lookup(tt.text, tt.ctx)
		if !ok || got != tt.want {
			t.Errorf("%s Lookup(%q, %+v) = %v, %v; want %v", tt.tbl.ID(), tt.text, tt.ctx, got, ok, tt.want)
		}
	}
	for _, miss := range []string{"吗喽", "If", "elseif", "如"} {
		tbl := zh
		if miss == "If" || miss == "elseif" {
			tbl = en
		}
		if k, ok := tbl.Lookup(miss, Context{}); ok {
			t.Errorf("%s Lookup(%q) = %v, want miss", tbl.ID(), miss, k)
		}
	}
}

func TestLongestMatch(t *testing.T) {
	zh := mustTable(t, locale.ZhCN)
	en := mustTable(t, locale.EnUS)
	tests := []struct {
		tbl     *Table
		input   string
		want    token.Kind
		wantLen int
	}{
		{zh, "大于等于 0", token.GtEq, len("大于等于")},
		{zh, "大于 0", token.Gt, len("大于")},
		{zh, "否则如果 x", token.KwElseIf, len("否则如果")},
		{zh, "否则 x", token.KwElse, len("否则")},
		{en, "else if x", token.KwElseIf, len("else if")},
		{en, "else x", token.KwElse, len("else")},
		{en, "for each x", token.KwForEach, len("for each")},
		{en, "<= 1", token.LtEq, 2},
		{en, "->x", token.Arrow, 2},
	}
	for _, tt := range tests {
		got, n, ok := tt.tbl.LongestMatch(tt.input, Context{})
		if !ok || got != tt.want || n != tt.wantLen {
			t.Errorf("%s LongestMatch(%q) = %v,%d,%v; want %v,%d", tt.tbl.ID(), tt.input, got, n, ok, tt.want, tt.wantLen)
		}
	}
	if _, _, ok := en.LongestMatch("xyz", Context{}); ok {
		t.Error("LongestMatch(xyz) should miss")
	}
}

func TestLongestMatchPrefersLongerOverlappingForm(t *testing.T) {
	tbl, err := Build(Data{
		ID: "en-US",
		Keywords: map[string][]string{
			"If":     {"if"},
			"ElseIf": {"ifelse"},
		},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	k, n, ok := tbl.LongestMatch("ifelse", Context{})
	if !ok || k != token.KwElseIf || n != len("ifelse") {
		t.Fatalf("LongestMatch(ifelse) = %v,%d,%v", k, n, ok)
	}
	k, n, ok = tbl.LongestMatch("ifels", Context{})
	if !ok || k != token.KwIf || n != 2 {
		t.Fatalf("LongestMatch(ifels) = %v,%d,%v", k, n, ok)
	}
}

func TestLongestMatchFallsThroughFailingPredicate(t *testing.T) {
	tbl, err := Build(Data{
		ID:       "en-US",
		Keywords: map[string][]string{"Else": {"else"}},
		Entries: []EntryData{
			{Form: "else if", Kind: "ElseIf", Primary: true, After: []string{"RBrace"}},
		},
	}, nil)
	var ide *InvalidDataError
	if !errors.As(err, &ide) || ide.Kind != InvalidPrimary {
		t.Fatalf("conditional primary must be rejected, got %v", err)
	}

	tbl, err = Build(Data{
		ID:       "en-US",
		Keywords: map[string][]string{"Else": {"else"}, "ElseIf": {"elif"}},
		Entries: []EntryData{
			{Form: "else if", Kind: "ElseIf", After: []string{"RBrace"}},
		},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if k, _, _ := tbl.LongestMatch("else if", Context{Prev: token.RBrace, HasPrev: true}); k != token.KwElseIf {
		t.Fatalf("after RBrace got %v", k)
	}
	if k, n, _ := tbl.LongestMatch("else if", Context{}); k != token.KwElse || n != 4 {
		t.Fatalf("without RBrace got %v,%d", k, n)
	}
}

func TestPrimaries(t *testing.T) {
	zh := mustTable(t, locale.ZhCN)
	en := mustTable(t, locale.EnUS)
	tests := []struct {
		tbl  *Table
		kind token.Kind
		want string
	}{
		{en, token.KwIf, "if"},
		{en, token.KwElseIf, "else if"},
		{en, token.KwReturn, "return"},
		{en, token.LParen, "("},
		{zh, token.KwIf, "如果"},
		{zh, token.KwLet, "令"},
		{zh, token.KwBe, "设为"},
		{zh, token.KwWhen, "当"},
		{zh, token.KwThen, "那么"},
		{zh, token.Dot, "."},
		{zh, token.EqEq, "=="},
	}
	for _, tt := range tests {
		got, ok := tt.tbl.Primary(tt.kind)
		if !ok || got != tt.want {
			t.Errorf("%s Primary(%v) = %q,%v want %q", tt.tbl.ID(), tt.kind, got, ok, tt.want)
		}
	}
	for _, tbl := range []*Table{zh, en} {
		for _, k := range tbl.Kinds() {
			primaries := 0
			for _, e := range tbl.Forms(k) {
				if e.Primary {
					primaries++
					if !e.When.IsZero() || e.Infix() {
						t.Errorf("%s primary %q carries conditions", tbl.ID(), e.Form)
					}
				}
			}
			if primaries != 1 {
				t.Errorf("%s %v has %d primaries", tbl.ID(), k, primaries)
			}
		}
	}
	if _, ok := en.Primary(token.Ident); ok {
		t.Error("identifiers have no primary spelling")
	}
}

func TestBuildDuplicateEntry(t *testing.T) {
	_, err := Build(Data{
		ID:       "en-US",
		Keywords: map[string][]string{"If": {"if"}, "When": {"when"}},
		Entries: []EntryData{
			{Form: "when", Kind: "If", LineStart: "require"},
		},
	}, nil)
	var de *DuplicateEntryError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DuplicateEntryError", err)
	}
	if de.Form != "when" || de.First != token.KwWhen || de.Second != token.KwIf {
		t.Fatalf("unexpected duplicate: %+v", de)
	}

	_, err = Build(Data{
		ID:       "en-US",
		Keywords: map[string][]string{"If": {"if"}, "When": {"when"}},
		Entries: []EntryData{
			{Form: "as", Kind: "When", LineStart: "require"},
			{Form: "as", Kind: "If", LineStart: "forbid"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("exclusive predicates must build: %v", err)
	}
}

func TestBuildRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name string
		data Data
		kind InvalidDataErrorKind
	}{
		{"bad id", Data{ID: "!!"}, InvalidLocaleID},
		{"unknown kind", Data{ID: "en-US", Keywords: map[string][]string{"Iff": {"if"}}}, InvalidKind},
		{"identifier kind", Data{ID: "en-US", Keywords: map[string][]string{"Identifier": {"x"}}}, InvalidKind},
		{"empty form", Data{ID: "en-US", Keywords: map[string][]string{"If": {"  "}}}, InvalidForm},
		{"bad condition", Data{ID: "en-US", Keywords: map[string][]string{"If": {"if"}}, Entries: []EntryData{{Form: "si", Kind: "If", LineEnd: "sometimes"}}}, InvalidCondition},
		{"bad segmentation", Data{ID: "en-US", Segmentation: "syllable"}, InvalidSegmentation},
		{"bad quote", Data{ID: "en-US", Quotes: []QuoteData{{Open: "<<", Close: ">>"}}}, InvalidQuote},
		{"parent missing", Data{ID: "en-US", Inherits: "base"}, InvalidInherits},
		{"two primaries", Data{ID: "en-US", Keywords: map[string][]string{"If": {"if"}}, Entries: []EntryData{{Form: "si", Kind: "If", Primary: true}}}, InvalidPrimary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.data, nil)
			var ide *InvalidDataError
			if !errors.As(err, &ide) {
				t.Fatalf("err = %v, want InvalidDataError", err)
			}
			if ide.Kind != tt.kind {
				t.Fatalf("kind = %d, want %d (%v)", ide.Kind, tt.kind, err)
			}
		})
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	reg := MustDefault()
	zh := mustTable(t, locale.ZhCN)
	base := reg.tables[locale.Base]

	raw, err := DecodeData("zh-CN.toml", mustReadEmbedded(t, "zh-CN.toml"))
	if err != nil {
		t.Fatal(err)
	}
	again, err := Build(raw, base)
	if err != nil {
		t.Fatal(err)
	}
	if again.Fingerprint() != zh.Fingerprint() {
		t.Fatalf("fingerprints differ: %s vs %s", again.FingerprintHex(), zh.FingerprintHex())
	}
	contexts := []Context{{}, {LineStart: true}, {LineEnd: true}, {Prev: token.Ident, HasPrev: true}}
	for _, e := range zh.Entries() {
		for _, ctx := range contexts {
			k1, ok1 := zh.Lookup(e.Form, ctx)
			k2, ok2 := again.Lookup(e.Form, ctx)
			if k1 != k2 || ok1 != ok2 {
				t.Fatalf("Lookup(%q, %+v) differs: %v,%v vs %v,%v", e.Form, ctx, k1, ok1, k2, ok2)
			}
		}
	}
}

func TestChildOverridesInheritedForm(t *testing.T) {
	parent, err := Build(Data{ID: "base", Abstract: true, Keywords: map[string][]string{"At": {"@"}, "Question": {"?"}}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	child, err := Build(Data{
		ID:       "en-US",
		Inherits: "base",
		Keywords: map[string][]string{"Question": {"@"}},
	}, parent)
	if err != nil {
		t.Fatal(err)
	}
	if k, _ := child.Lookup("@", Context{}); k != token.Question {
		t.Fatalf("child @ = %v, want Question", k)
	}
	if k, _ := parent.Lookup("@", Context{}); k != token.At {
		t.Fatalf("parent must be untouched, got %v", k)
	}
	if p, _ := child.Primary(token.Question); p != "@" {
		t.Fatalf("child primary for Question = %q", p)
	}
	if p, _ := parent.Primary(token.Question); p != "?" {
		t.Fatalf("parent primary for Question = %q", p)
	}
}

func TestTableMetadata(t *testing.T) {
	zh := mustTable(t, locale.ZhCN)
	if zh.Name() == "" || zh.Direction() != locale.LTR || zh.Segmentation() != SegmentNone {
		t.Fatalf("unexpected zh metadata: %q %v %v", zh.Name(), zh.Direction(), zh.Segmentation())
	}
	if c, ok := zh.CloseQuote('「'); !ok || c != '」' {
		t.Fatalf("CloseQuote(「) = %q, %v", c, ok)
	}
	if !zh.NotIdentStart('吗') || zh.NotIdentStart('用') {
		t.Fatal("NotIdentStart mismatch")
	}
	p := zh.Punctuation()
	if p.StatementEnd != "。" || p.ListSeparator != "，" || p.BlockStart != "：" {
		t.Fatalf("punctuation = %+v", p)
	}
	if m, ok := zh.Message("CAN2001"); !ok || m == "" {
		t.Fatal("zh message missing")
	}

	en := mustTable(t, locale.EnUS)
	if m, ok := en.Message("LEX1001"); !ok || m != "unterminated string literal" {
		t.Fatalf("en falls back to base messages, got %q", m)
	}
	if en.Segmentation() != SegmentWhitespace {
		t.Fatal("en must be whitespace segmented")
	}
}
