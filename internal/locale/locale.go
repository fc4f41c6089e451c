// Package locale names the human languages a lexicon can be written in.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ID is a BCP 47 locale identifier such as "zh-CN" or "en-US".
// The zero value is not a valid locale.
type ID string

const (
	// Base is the abstract parent of every shipped locale. It is never selectable.
	Base ID = "base"

	ZhCN ID = "zh-CN"
	EnUS ID = "en-US"
)

// Parse canonicalises a loose spelling ("zh_cn", "ZH-cn") into an ID.
// The literal "base" is accepted as-is.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("locale: empty identifier")
	}
	if strings.EqualFold(s, string(Base)) {
		return Base, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("locale: %q: %w", s, err)
	}
	return ID(tag.String()), nil
}

// MustParse is Parse for compile-time constants; it panics on error.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string { return string(id) }

// Tag returns the language tag for id. Base maps to language.Und.
func (id ID) Tag() language.Tag {
	if id == Base || id == "" {
		return language.Und
	}
	tag, err := language.Parse(string(id))
	if err != nil {
		return language.Und
	}
	return tag
}

// Direction is the writing direction of a locale's script.
type Direction uint8

const (
	LTR Direction = iota
	RTL
)

// ParseDirection accepts "ltr", "rtl" and the empty string (ltr).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr":
		return LTR, nil
	case "rtl":
		return RTL, nil
	default:
		return LTR, fmt.Errorf("locale: unknown text direction %q", s)
	}
}

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}
