package dialect

import (
	"fmt"

	"lexcanon/internal/lexicon"
	"lexcanon/internal/source"
)

// Detect observes every file under every table and classifies the result.
// Files that are not valid UTF-8 are skipped.
func Detect(files []*source.File, tables []*lexicon.Table) Classification {
	e := NewEvidence()
	for _, f := range files {
		for _, tbl := range tables {
			if err := Observe(e, f, tbl); err != nil {
				break
			}
		}
	}
	return Classifier{}.Classify(e)
}

// Pick returns the detected table, or an error when the evidence is empty
// or below minConfidence.
func Pick(c Classification, reg *lexicon.Registry, minConfidence float64) (*lexicon.Table, error) {
	if !c.Detected() {
		return nil, fmt.Errorf("cannot detect source locale: no keywords recognized")
	}
	if c.Confidence < minConfidence {
		return nil, fmt.Errorf("cannot detect source locale: %s (score %d) vs %s (score %d), use --locale",
			c.Locale, c.Score, c.RunnerUp, c.RunnerUpScore)
	}
	return reg.Table(c.Locale)
}
