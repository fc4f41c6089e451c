package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnterminatedString Code = 1001
	LexMalformedInput     Code = 1002
	LexBadNumber          Code = 1003

	// Канонизация
	CanonInfo              Code = 2000
	CanonUnknownToken      Code = 2001
	CanonInvalidIdentifier Code = 2002
	CanonIntOverflow       Code = 2003

	// Лексиконы и локали
	LocInfo            Code = 3000
	LocNotSupported    Code = 3001
	LocInvalidLexicon  Code = 3002
	LocUnrenderable    Code = 3003
	LocParityViolation Code = 3004
	LocMeaningChanged  Code = 3005

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Ошибки проекта
	ProjInvalidManifest Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		LexInfo:                "Lexical information",
		LexUnterminatedString:  "Unterminated string",
		LexMalformedInput:      "Malformed input encoding",
		LexBadNumber:           "Bad number",
		CanonInfo:              "Canonicalization information",
		CanonUnknownToken:      "Unknown token",
		CanonInvalidIdentifier: "Invalid identifier shape",
		CanonIntOverflow:       "Integer literal overflow",
		LocInfo:                "Locale information",
		LocNotSupported:        "Locale not supported",
		LocInvalidLexicon:      "Invalid lexicon",
		LocUnrenderable:        "Token has no fixed spelling",
		LocParityViolation:     "Keyword parity violation",
		LocMeaningChanged:      "Rendered text reads back differently",
		IOLoadFileError:        "I/O load file error",
		ProjInvalidManifest:    "Invalid project manifest",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CAN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LOC%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
