package quality

import (
	"fmt"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/pkg/logger"
)

// Engine runs the full quality pass: signal computation, trust
// aggregation and reason tagging. It is stateless across calls — a pure
// function of its input event set — so re-running it with a superset of
// events is always well defined.
type Engine struct {
	signals *SignalComputer
	tagger  *ReasonTagger
	logger  *logger.Logger
}

// NewEngine creates a new quality engine
func NewEngine(cfg Config, log *logger.Logger) *Engine {
	return &Engine{
		signals: NewSignalComputer(cfg, log),
		tagger:  NewReasonTagger(cfg),
		logger:  log.WithComponent("quality.engine"),
	}
}

// Run produces the daily quality table for the given event set.
// Zero events yields an empty table; malformed events abort the run
// before any per-day aggregation begins.
func (e *Engine) Run(events []contracts.Event) ([]contracts.DailyQualityRecord, error) {
	if err := validate(events); err != nil {
		return nil, err
	}

	if len(events) == 0 {
		e.logger.Info("No events; quality table is empty")
		return []contracts.DailyQualityRecord{}, nil
	}

	records := e.signals.Compute(events)

	lowTrust := 0
	for i := range records {
		records[i].TrustScore = records[i].Scores.Trust()
		records[i].Reason = e.tagger.Tag(records[i])
		if records[i].TrustScore < 70 {
			lowTrust++
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"days":      len(records),
		"low_trust": lowTrust,
	}).Info("Quality pass completed")

	return records, nil
}

// validate checks the whole event set against the input contract before
// aggregation starts
func validate(events []contracts.Event) error {
	for i, ev := range events {
		if !contracts.ValidEventName(ev.EventName) {
			return fmt.Errorf("%w: event %d has unknown event_name %q", contracts.ErrMalformedInput, i, ev.EventName)
		}
		if ev.EventTS.IsZero() {
			return fmt.Errorf("%w: event %d has no timestamp", contracts.ErrMalformedInput, i)
		}
		if ev.UserID < 1 {
			return fmt.Errorf("%w: event %d has user_id %d", contracts.ErrMalformedInput, i, ev.UserID)
		}
	}
	return nil
}
