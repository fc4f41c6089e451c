package source

import (
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	base := filepath.Join(t.TempDir(), "proj")
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"inside", filepath.Join(base, "src", "主程序.lc"), "src/主程序.lc"},
		{"base itself", base, "."},
		{"sibling falls back to absolute", filepath.Join(filepath.Dir(base), "other", "a.lc"),
			normalizePath(filepath.Join(filepath.Dir(base), "other", "a.lc"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RelativePath(tt.target, base)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("RelativePath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLineIndexAndBOM(t *testing.T) {
	content := []byte("\xEF\xBB\xBF令 x\r\n\n返回")
	if !hasBOM(content) || !hasCRLF(content) {
		t.Fatal("BOM and CRLF not detected")
	}
	if hasCRLF([]byte("a\nb\r")) {
		t.Error("a lone \\r is not CRLF")
	}
	idx := buildLineIndex(content)
	if len(idx) != 2 {
		t.Fatalf("line index = %v", idx)
	}
	// колонки в байтах: 令 занимает три
	if got := toLineCol(idx, idx[0]+2); got != (LineCol{Line: 3, Col: 1}) {
		t.Errorf("toLineCol after blank line = %+v", got)
	}
	if got := toLineCol(idx, 7); got != (LineCol{Line: 1, Col: 8}) {
		t.Errorf("toLineCol(7) = %+v", got)
	}
}
