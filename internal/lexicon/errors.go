package lexicon

import (
	"fmt"
	"strings"

	"lexcanon/internal/locale"
	"lexcanon/internal/token"
)

// LocaleNotSupportedError is returned when no table is registered for a locale.
type LocaleNotSupportedError struct {
	Locale    string
	Supported []locale.ID
}

func (e *LocaleNotSupportedError) Error() string {
	ids := make([]string, len(e.Supported))
	for i, id := range e.Supported {
		ids[i] = id.String()
	}
	return fmt.Sprintf("locale %q is not supported (available: %s)", e.Locale, strings.Join(ids, ", "))
}

// DuplicateEntryError reports two entries sharing a form whose predicates overlap.
type DuplicateEntryError struct {
	Locale locale.ID
	Form   string
	First  token.Kind
	Second token.Kind
	// Predicates of the conflicting entries, for the message.
	FirstWhen  Predicate
	SecondWhen Predicate
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("%s: form %q maps to %s (%s) and %s (%s) under overlapping conditions",
		e.Locale, e.Form, e.First, e.FirstWhen, e.Second, e.SecondWhen)
}

// InvalidDataErrorKind classifies malformed locale data.
type InvalidDataErrorKind uint8

const (
	InvalidDecode InvalidDataErrorKind = iota
	InvalidUnknownKey
	InvalidLocaleID
	InvalidKind
	InvalidForm
	InvalidCondition
	InvalidSegmentation
	InvalidQuote
	InvalidPrimary
	InvalidInherits
	InvalidDuplicateLocale
)

// InvalidDataError reports locale data that cannot be turned into a table.
type InvalidDataError struct {
	Kind   InvalidDataErrorKind
	Source string // file or locale id
	Detail string
	Err    error
}

func (e *InvalidDataError) Error() string {
	var what string
	switch e.Kind {
	case InvalidDecode:
		what = "cannot decode locale data"
	case InvalidUnknownKey:
		what = "unknown key"
	case InvalidLocaleID:
		what = "invalid locale id"
	case InvalidKind:
		what = "unknown token kind"
	case InvalidForm:
		what = "invalid surface form"
	case InvalidCondition:
		what = "invalid condition"
	case InvalidSegmentation:
		what = "invalid segmentation"
	case InvalidQuote:
		what = "invalid quote pair"
	case InvalidPrimary:
		what = "invalid primary spelling"
	case InvalidInherits:
		what = "invalid parent locale"
	case InvalidDuplicateLocale:
		what = "locale defined twice"
	default:
		what = "invalid locale data"
	}
	msg := fmt.Sprintf("%s: %s", e.Source, what)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidDataError) Unwrap() error { return e.Err }

// ParityError reports kinds reachable in one locale but missing from another.
type ParityError struct {
	Locale    locale.ID
	Reference locale.ID
	Missing   []token.Kind
}

func (e *ParityError) Error() string {
	return fmt.Sprintf("locale %s cannot spell %s, which %s can", e.Locale, kindList(e.Missing), e.Reference)
}
