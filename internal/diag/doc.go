// Package diag defines the diagnostic model shared by the tokenizer, the
// canonicalizer and the driver.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings such as
//     unterminated strings or tokens no locale rule could classify.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt;
// localized message templates live in the locale lexicons and are applied by
// internal/render.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – numeric identifier with a stable string form (LEX1001, CAN2001, …).
//   - Message – English text; Args keeps the substituted values so the message
//     can be re-rendered from a locale template.
//   - Primary – the source.Span in the original input.
//   - Notes and Fixes – optional context and structured edits.
//
// Unknown tokens are data in the token stream, not errors; the canonicalizer
// reports them as warnings only when asked to.
//
// # Emitting diagnostics
//
// Producers take a diag.Reporter. ReportBuilder (via ReportError, ReportWarning,
// ReportInfo) chains WithArgs / WithNote / WithFix before Emit. BagReporter
// collects into a Bag which supports sorting and filtering; DedupReporter
// drops repeats of the same code at the same span.
package diag
