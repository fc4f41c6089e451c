// Package lexicon holds the per-locale tables that map surface spellings to
// canonical token kinds.
//
// A Table is built once from locale Data (usually a TOML file) and is
// immutable afterwards; it can be shared by any number of goroutines.
// Lookups walk a rune trie so that the longest registered form wins.
// Forms that share a spelling must carry mutually exclusive predicates;
// Build rejects anything else with a *DuplicateEntryError.
package lexicon
