package dialect

import (
	"slices"

	"lexcanon/internal/locale"
)

// Classification is the result of scoring evidence.
type Classification struct {
	Locale          locale.ID
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        locale.ID
	RunnerUpScore   int
	ObservedSignals int
}

// Detected reports whether any locale got positive evidence.
func (c Classification) Detected() bool { return c.Locale != "" }

// Classifier scores evidence and chooses a dominant locale.
// Callers apply their own confidence thresholds.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	hints := e.Hints()
	if len(hints) == 0 {
		return Classification{}
	}
	scores := e.Totals()
	total := 0
	for _, score := range scores {
		total += score
	}

	// порядок id делает ничью детерминированной
	ids := make([]locale.ID, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var (
		best, runner           locale.ID
		bestScore, runnerScore int
	)
	for _, id := range ids {
		score := scores[id]
		if score > bestScore {
			runner, runnerScore = best, bestScore
			best, bestScore = id, score
			continue
		}
		if score > runnerScore {
			runner, runnerScore = id, score
		}
	}

	conf := 0.0
	if total > 0 {
		conf = float64(bestScore) / float64(total)
	}
	return Classification{
		Locale:          best,
		Score:           bestScore,
		TotalScore:      total,
		Confidence:      conf,
		RunnerUp:        runner,
		RunnerUpScore:   runnerScore,
		ObservedSignals: len(hints),
	}
}
