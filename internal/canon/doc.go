// Package canon turns the raw spans of one source file into canonical tokens.
//
// A Canonicalizer is bound to one lexicon table. At every significant raw span
// it walks the table's trie across consecutive spans, tries the candidate
// forms longest first and keeps the first one whose word boundaries and
// predicate hold. Whatever no form claims is classified as a literal, an
// identifier or Unknown. The result always ends with an EOF token.
//
// Canonicalization never fails: problems become Unknown tokens plus optional
// diagnostics. The same input and table always give the same tokens.
package canon
