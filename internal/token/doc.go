// Package token defines the canonical, locale-independent token kinds and the
// raw spans produced by the tokenizer.
// Invariants:
//   - Token.Span always points into the original source bytes, never into a
//     translated copy.
//   - Token.Text is the surface text as written (any locale); the canonical
//     identity is Kind only.
//   - Kind names (If, LParen, Identifier, ...) are stable and used by locale
//     data files and machine-readable output.
//   - Identifiers and literals carry their semantic value in Token.Value.
package token
