package canon

import "lexcanon/internal/diag"

type Options struct {
	// Reporter receives CAN diagnostics (and LEX ones when used via Source).
	Reporter diag.Reporter
	// KeepTrivia attaches spaces, newlines and comments to the following
	// token as Leading trivia.
	KeepTrivia bool
	// ReportUnknown emits a warning for every Unknown token.
	ReportUnknown bool
}
