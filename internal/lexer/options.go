package lexer

import (
	"lexcanon/internal/diag"
)

type Options struct {
	// Reporter receives LEX diagnostics; nil drops them (scanning continues).
	Reporter diag.Reporter
}
