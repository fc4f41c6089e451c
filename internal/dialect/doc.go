// Package dialect guesses which locale a source file is written in.
//
// Every candidate table canonicalizes the file; keywords and locale-only
// punctuation it recognizes become scored hints, and the classifier picks
// the table with the most evidence. Detection never changes how a file is
// canonicalized afterwards.
package dialect
