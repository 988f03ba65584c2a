package quality

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/pkg/logger"
)

// buildWithDuplicates returns a healthy multi-day event set plus `extra`
// copies of one fixed tuple on the final day
func buildWithDuplicates(extra int) []contracts.Event {
	events := steadyDays(8, 20, 40)
	for i := 0; i < 20; i++ {
		events = append(events, ev(int64(1000+i), 8, i, contracts.EventPurchase, amt(9.99)))
	}
	for i := 0; i < 40; i++ {
		events = append(events, ev(int64(2000+i), 8, i, contracts.EventSessionStart, nil))
	}

	// The original plus its copies
	events = append(events, ev(7777, 8, 45, contracts.EventLevelComplete, nil))
	for i := 0; i < extra; i++ {
		events = append(events, ev(7777, 8, 45, contracts.EventLevelComplete, nil))
	}
	return events
}

func TestProperty_DuplicateMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	computer := NewSignalComputer(DefaultConfig(), logger.NewNop())

	properties.Property("adding duplicate rows never increases the uniqueness score", prop.ForAll(
		func(extra int) bool {
			before := computer.Compute(buildWithDuplicates(extra))
			after := computer.Compute(buildWithDuplicates(extra + 1))

			last := len(before) - 1
			return after[last].Scores.Uniqueness <= before[last].Scores.Uniqueness+1e-12
		},
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}

func TestProperty_ScoreBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	computer := NewSignalComputer(DefaultConfig(), logger.NewNop())

	properties.Property("every dimension stays in [0,1] and trust in [0,100]", prop.ForAll(
		func(days, purchases, sessions, dupExtra int) bool {
			events := steadyDays(days, purchases, sessions)
			for i := 0; i < dupExtra; i++ {
				events = append(events, ev(7777, 0, 45, contracts.EventLevelComplete, nil))
			}
			if len(events) == 0 {
				return true
			}

			for _, rec := range computer.Compute(events) {
				scores := []float64{
					rec.Scores.Completeness,
					rec.Scores.Schema,
					rec.Scores.Uniqueness,
					rec.Scores.Volume,
					rec.Scores.Validity,
				}
				for _, s := range scores {
					if s < 0 || s > 1 {
						return false
					}
				}
				trust := rec.Scores.Trust()
				if trust < 0 || trust > 100 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}

func TestProperty_Idempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	engine := NewEngine(DefaultConfig(), logger.NewNop())

	properties.Property("two runs over the same events are identical", prop.ForAll(
		func(days, purchases, sessions int) bool {
			events := steadyDays(days, purchases, sessions)
			if len(events) == 0 {
				return true
			}

			first, err := engine.Run(events)
			if err != nil {
				return false
			}
			second, err := engine.Run(events)
			if err != nil {
				return false
			}

			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i] != second[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 15),
		gen.IntRange(1, 40),
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t)
}
