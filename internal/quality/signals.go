package quality

import (
	"math"
	"time"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/pkg/logger"
)

// SignalComputer derives the per-day counts, flags and the five quality
// dimension scores from a raw event set.
type SignalComputer struct {
	config Config
	logger *logger.Logger
}

// NewSignalComputer creates a new signal computer
func NewSignalComputer(cfg Config, log *logger.Logger) *SignalComputer {
	return &SignalComputer{
		config: cfg,
		logger: log.WithComponent("quality.signals"),
	}
}

// dayCounts accumulates raw per-day tallies before scoring
type dayCounts struct {
	purchaseEvents  int // purchase + in_app_purchase
	purchaseNamed   int // strictly event_name == "purchase"
	iapNamed        int // strictly event_name == "in_app_purchase"
	sessionEvents   int
	duplicateEvents int
	negAmountEvents int
}

// Compute builds one DailyQualityRecord per calendar day spanning
// [min event day, max event day]. Days absent from the event set get
// zero counts; their scores follow the documented fallbacks.
func (c *SignalComputer) Compute(events []contracts.Event) []contracts.DailyQualityRecord {
	if len(events) == 0 {
		return []contracts.DailyQualityRecord{}
	}

	days, counts := c.accumulate(events)

	// Dense count series, one slot per day in range
	purchase := make([]float64, len(days))
	sessions := make([]float64, len(days))
	dups := make([]float64, len(days))
	for i, day := range days {
		if dc, ok := counts[day]; ok {
			purchase[i] = float64(dc.purchaseEvents)
			sessions[i] = float64(dc.sessionEvents)
			dups[i] = float64(dc.duplicateEvents)
		}
	}

	// Volume statistics are a second pass over the completed series:
	// the population spans the whole range, so this signal is not
	// causally fair to early days. That asymmetry is deliberate.
	volMean, volStd := c.volumePopulation(sessions)
	if volStd == 0 {
		volStd = 1.0
	}

	records := make([]contracts.DailyQualityRecord, len(days))
	for i, day := range days {
		dc := counts[day]
		if dc == nil {
			dc = &dayCounts{}
		}

		rec := contracts.DailyQualityRecord{
			Date:            day,
			PurchaseEvents:  dc.purchaseEvents,
			SessionEvents:   dc.sessionEvents,
			DuplicateEvents: dc.duplicateEvents,
			NegAmountEvents: dc.negAmountEvents,
		}

		rec.Scores.Completeness = c.scoreCompleteness(purchase, i)

		drifted := dc.iapNamed > 0 && dc.purchaseNamed == 0
		if drifted {
			rec.SchemaDriftFlag = 1
			rec.Scores.Schema = c.config.DriftScore
		} else {
			rec.Scores.Schema = 1.0
		}

		rec.Scores.Uniqueness = c.scoreUniqueness(dups, i)

		z := (sessions[i] - volMean) / volStd
		if math.Abs(z) > c.config.VolumeZThreshold {
			rec.VolumeAnomalyFlag = 1
			rec.Scores.Volume = c.config.AnomalyScore
		} else {
			rec.Scores.Volume = 1.0
		}

		if dc.negAmountEvents > 0 {
			rec.Scores.Validity = 0.0
		} else {
			rec.Scores.Validity = 1.0
		}

		records[i] = rec
	}

	c.logger.WithFields(map[string]interface{}{
		"days":   len(days),
		"events": len(events),
	}).Debug("Computed quality signals")

	return records
}

// accumulate groups events by UTC day and tallies the raw counts
func (c *SignalComputer) accumulate(events []contracts.Event) ([]time.Time, map[time.Time]*dayCounts) {
	// Duplicate identity: every occurrence of a tuple that appears more
	// than once counts, not just the extras.
	occurrences := make(map[string]int, len(events))
	for _, ev := range events {
		occurrences[ev.DupKey()]++
	}

	counts := make(map[time.Time]*dayCounts)
	var minDay, maxDay time.Time
	for _, ev := range events {
		day := ev.Day()
		if minDay.IsZero() || day.Before(minDay) {
			minDay = day
		}
		if maxDay.IsZero() || day.After(maxDay) {
			maxDay = day
		}

		dc := counts[day]
		if dc == nil {
			dc = &dayCounts{}
			counts[day] = dc
		}

		switch ev.EventName {
		case contracts.EventSessionStart:
			dc.sessionEvents++
		case contracts.EventPurchase:
			dc.purchaseNamed++
			dc.purchaseEvents++
		case contracts.EventInAppPurchase:
			dc.iapNamed++
			dc.purchaseEvents++
		}

		if ev.IsPurchaseType() {
			// A nil amount is treated as zero for the validity check;
			// only genuinely negative values flag the day.
			if ev.Amount != nil && *ev.Amount < 0 {
				dc.negAmountEvents++
			}
		}

		if occurrences[ev.DupKey()] > 1 {
			dc.duplicateEvents++
		}
	}

	var days []time.Time
	for day := minDay; !day.After(maxDay); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}

	return days, counts
}

// scoreCompleteness compares a day's purchase volume against the
// trailing rolling-median baseline. A zero baseline means no defined
// expectation, which scores 0: no evidence is not proof of completeness.
func (c *SignalComputer) scoreCompleteness(purchase []float64, i int) float64 {
	baseline := rollingMedian(purchase, c.config.BaselineWindow, i)
	if baseline <= 0 {
		return 0.0
	}
	return clamp(purchase[i]/baseline, 0, 1)
}

// scoreUniqueness decays smoothly toward 0 as duplicate volume grows
// relative to the recent norm, and equals 1 when there are no duplicates
func (c *SignalComputer) scoreUniqueness(dups []float64, i int) float64 {
	baseline := rollingMedian(dups, c.config.BaselineWindow, i)
	return math.Exp(-dups[i] / (baseline + 1))
}

// volumePopulation returns mean/std of daily session counts per the
// configured zero-session-day policy
func (c *SignalComputer) volumePopulation(sessions []float64) (float64, float64) {
	if c.config.VolumePolicy == VolumePolicyExclude {
		nonzero := make([]float64, 0, len(sessions))
		for _, v := range sessions {
			if v > 0 {
				nonzero = append(nonzero, v)
			}
		}
		if len(nonzero) > 0 {
			return meanStd(nonzero)
		}
	}
	return meanStd(sessions)
}
