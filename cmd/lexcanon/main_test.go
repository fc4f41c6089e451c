package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"lexcanon/internal/diag"
	"lexcanon/internal/fix"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/locale"
	"lexcanon/internal/project"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
)

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input   string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"maybe", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.input)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, %v", tc.input, got, err)
		}
	}
	var m uiMode
	if err := m.Set("Off"); err != nil || m.String() != "off" {
		t.Fatalf("Set(Off) = %q, %v", m, err)
	}
	if err := m.Set("sometimes"); err == nil || m != uiModeOff {
		t.Fatal("a bad value must be rejected and leave the mode unchanged")
	}
	if !shouldUseTUI(uiModeOn, true, true) || shouldUseTUI(uiModeOff, false, false) {
		t.Fatal("explicit modes must win")
	}
	if shouldUseTUI(uiModeAuto, true, false) {
		t.Fatal("--quiet disables the auto UI")
	}
}

func TestEnvLocale(t *testing.T) {
	cases := map[string]string{
		"zh_CN.UTF-8":        "zh_CN",
		"en_US.UTF-8@euro":   "en_US",
		"de_DE@euro":         "de_DE",
		"C":                  "",
		"POSIX":              "",
		"":                   "",
		"fr_FR.ISO-8859-1xx": "fr_FR",
	}
	for in, want := range cases {
		if got := envLocale(in); got != want {
			t.Errorf("envLocale(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSelectTable(t *testing.T) {
	reg := lexicon.MustDefault()
	zhManifest := &project.Manifest{Config: project.Config{Project: project.ProjectConfig{Locale: "zh-CN"}}}

	cases := []struct {
		name     string
		flag     string
		manifest *project.Manifest
		lcAll    string
		lang     string
		want     locale.ID
		wantErr  bool
	}{
		{name: "flag wins", flag: "en", manifest: zhManifest, want: locale.EnUS},
		{name: "loose flag", flag: "zh_cn", want: locale.ZhCN},
		{name: "manifest", manifest: zhManifest, lang: "en_US.UTF-8", want: locale.ZhCN},
		{name: "LC_ALL before LANG", lcAll: "zh_CN.UTF-8", lang: "en_US.UTF-8", want: locale.ZhCN},
		{name: "LANG", lang: "zh_CN.UTF-8", want: locale.ZhCN},
		{name: "unsupported env falls back", lang: "fr_FR.UTF-8", want: locale.EnUS},
		{name: "C locale", lang: "C", want: locale.EnUS},
		{name: "unsupported flag", flag: "fr-FR", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("LC_ALL", tc.lcAll)
			t.Setenv("LANG", tc.lang)
			tbl, err := selectTable(reg, tc.flag, tc.manifest)
			if tc.wantErr {
				var nse *lexicon.LocaleNotSupportedError
				if !errors.As(err, &nse) {
					t.Fatalf("expected *LocaleNotSupportedError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tbl.ID() != tc.want {
				t.Fatalf("table = %s, want %s", tbl.ID(), tc.want)
			}
		})
	}
}

func TestWriteTranslated(t *testing.T) {
	out := t.TempDir()
	tbl, err := lexicon.MustDefault().Table(locale.EnUS)
	if err != nil {
		t.Fatal(err)
	}
	if err := writeTranslated(out, filepath.Join("sub", "main.lc"), "return x\n", tbl); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(out, "sub", "main.en-US.lc"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "return x\n" {
		t.Fatalf("content = %q", got)
	}
	entries, _ := os.ReadDir(filepath.Join(out, "sub"))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestWithNewline(t *testing.T) {
	for in, want := range map[string]string{"": "", "a": "a\n", "a\n": "a\n"} {
		if got := withNewline(in); got != want {
			t.Errorf("withNewline(%q) = %q", in, got)
		}
	}
}

func TestWriteColumnsAlignsWideText(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var b bytes.Buffer
	writeColumns(&b, [][]string{
		{"KIND", "en-US", "zh-CN"},
		{"If", "if", "如果"},
		{"Return", "return", "返回"},
	})
	want := "KIND    en-US   zh-CN\n" +
		"If      if      如果\n" +
		"Return  return  返回\n"
	if b.String() != want {
		t.Fatalf("columns:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestWriteKindTable(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	reg := lexicon.MustDefault()
	var b bytes.Buffer
	if err := writeKindTable(&b, reg.Tables()); err != nil {
		t.Fatal(err)
	}
	var ifRow string
	for _, line := range strings.Split(b.String(), "\n") {
		if strings.HasPrefix(line, "If ") {
			ifRow = line
		}
	}
	if !strings.Contains(ifRow, "if") || !strings.Contains(ifRow, "如果") {
		t.Fatalf("If row = %q\n%s", ifRow, b.String())
	}
}

func TestLexiconDiagnostic(t *testing.T) {
	cases := []struct {
		err  error
		want diag.Code
	}{
		{&lexicon.LocaleNotSupportedError{Locale: "fr"}, diag.LocNotSupported},
		{&lexicon.ParityError{Locale: "fr-FR", Reference: locale.EnUS, Missing: []token.Kind{token.KwIf}}, diag.LocParityViolation},
		{&lexicon.InvalidDataError{Source: "fr.toml", Detail: "bogus"}, diag.LocInvalidLexicon},
		{&project.ManifestError{Path: "lexcanon.toml", Detail: "missing [project]"}, diag.ProjInvalidManifest},
		{errors.New("other"), diag.LocInvalidLexicon},
	}
	for _, tc := range cases {
		d := lexiconDiagnostic(tc.err, source.Span{})
		if d.Code != tc.want || d.Severity != diag.SevError {
			t.Errorf("%T: code %s, want %s", tc.err, d.Code.ID(), tc.want.ID())
		}
	}
}

func TestLexiconCheckLocatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fr.toml")
	if err := os.WriteFile(path, []byte("id = \"fr-FR\"\nbogus = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	fs.AddVirtual("other.toml", []byte("id = \"en-US\"\n"))
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	_, decodeErr := lexicon.DecodeData("fr.toml", fs.Get(id).Content)
	if decodeErr == nil {
		t.Fatal("expected unknown key error")
	}
	span := spanForError(fs, decodeErr, nil)
	if span.File != id {
		t.Fatalf("span file = %d, want %d", span.File, id)
	}
}

func TestWriteSummaryLine(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.CanonUnknownToken, source.Span{}, "unknown token $"))
	toks := []token.Token{{Kind: token.KwReturn}, {Kind: token.EOF}}

	var b bytes.Buffer
	writeSummaryLine(&b, "a.lc", toks, bag, true)
	if got := b.String(); got != "a.lc: 1 tokens, 0 errors, 1 warnings (cached)\n" {
		t.Fatalf("summary = %q", got)
	}
}

func TestExitStatus(t *testing.T) {
	clean := diag.NewBag(10)
	broken := diag.NewBag(10)
	broken.Add(diag.NewError(diag.LexUnterminatedString, source.Span{}, "unterminated"))
	if exitStatus(clean, nil) != nil {
		t.Fatal("clean bag must succeed")
	}
	if !errors.Is(exitStatus(clean, broken), errHasErrors) {
		t.Fatal("errors must map to errHasErrors")
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var b bytes.Buffer
	info := versionInfo{Version: "0.3.0-dev", Locales: []string{"en-US", "zh-CN"}}
	if err := renderVersionJSON(&b, info, versionOptions{format: "json", showHash: true}); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(b.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "lexcanon" || payload.GitCommit != "unknown" || len(payload.Locales) != 2 {
		t.Fatalf("payload = %+v", payload)
	}
	if strings.Contains(payload.Version, "\x1b[") {
		t.Fatalf("version must be plain, got %q", payload.Version)
	}
}

func TestWriteFixReport(t *testing.T) {
	res := &fix.ApplyResult{
		Applied:     []fix.AppliedFix{{Title: "insert closing quote", Code: diag.LexUnterminatedString, PrimaryPath: "a.lc", EditCount: 1}},
		Skipped:     []fix.SkippedFix{{Title: "replace", Code: diag.CanonUnknownToken, Reason: "edit span out of range"}},
		FileChanges: []fix.FileChange{{Path: "a.lc", EditCount: 1}},
	}
	var b bytes.Buffer
	if err := writeFixReport(&b, res, true); err != nil {
		t.Fatal(err)
	}
	want := "would fix a.lc: insert closing quote [" + diag.LexUnterminatedString.ID() + "]\n" +
		"  a.lc (1 edits)\n" +
		"skipped replace [" + diag.CanonUnknownToken.ID() + "]: edit span out of range\n"
	if b.String() != want {
		t.Fatalf("report:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestDetectTable(t *testing.T) {
	dir := t.TempDir()
	for name, src := range map[string]string{
		"a.lc":     "令 总数 为 1\n如果 总数 > 0：返回 总数\n",
		"b.lc":     "返回 「好」。\n",
		"skip.txt": "let x be 1\nreturn x\nreturn y\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	reg := lexicon.MustDefault()
	tbl, err := detectTable(reg, dir, []string{".lc"})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.ID() != locale.ZhCN {
		t.Fatalf("detected %s", tbl.ID())
	}
	if _, err := detectTable(reg, filepath.Join(dir, "skip.txt"), nil); err != nil {
		t.Fatalf("single file: %v", err)
	}
	empty := filepath.Join(dir, "empty.lc")
	if err := os.WriteFile(empty, []byte("x + 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := detectTable(reg, empty, nil); err == nil {
		t.Fatal("a file without keywords must not be detected")
	}
}
