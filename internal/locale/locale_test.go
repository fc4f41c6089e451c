package locale

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{"zh-CN", ZhCN},
		{"zh_cn", ZhCN},
		{"ZH-cn", ZhCN},
		{"en-us", EnUS},
		{" en_US ", EnUS},
		{"BASE", Base},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not a locale!"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestTag(t *testing.T) {
	if ZhCN.Tag() != language.MustParse("zh-CN") {
		t.Errorf("ZhCN.Tag() = %v", ZhCN.Tag())
	}
	if Base.Tag() != language.Und {
		t.Errorf("Base.Tag() = %v, want und", Base.Tag())
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection(""); err != nil || d != LTR {
		t.Errorf("empty direction = %v, %v", d, err)
	}
	if d, err := ParseDirection("RTL"); err != nil || d != RTL {
		t.Errorf("RTL direction = %v, %v", d, err)
	}
	if _, err := ParseDirection("ttb"); err == nil {
		t.Error("expected error for ttb")
	}
	if RTL.String() != "rtl" || LTR.String() != "ltr" {
		t.Error("Direction.String mismatch")
	}
}
