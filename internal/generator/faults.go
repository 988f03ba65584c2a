package generator

import (
	"math/rand"
	"time"

	"github.com/trustlens/trustlens/internal/contracts"
)

// Defect injection. Each fault mirrors a real pipeline failure mode the
// quality engine is expected to surface: a purchase-tracking outage,
// an upstream event rename, a bot traffic spike, a timezone
// misconfiguration and an at-least-once delivery duplicate burst.

const (
	outageDropRate   = 0.85
	botUserDraws     = 2200
	maxDuplicateRows = 1200
)

// injectDefects layers the configured faults over organic traffic.
// This is the only place events are ever rewritten.
func (g *Generator) injectDefects(rng *rand.Rand, start time.Time, events []contracts.Event) []contracts.Event {
	for _, d := range g.config.OutageDays {
		if d >= 0 && d < g.config.Days {
			events = g.dropPurchases(rng, start.AddDate(0, 0, d), events)
		}
	}

	if d := g.config.SchemaDriftDay; d >= 0 && d < g.config.Days {
		g.renamePurchases(start.AddDate(0, 0, d), events)
	}

	if d := g.config.BotSpikeDay; d >= 0 && d < g.config.Days {
		events = g.botSpike(rng, start.AddDate(0, 0, d), events)
	}

	if d := g.config.TimezoneShiftDay; d >= 0 && d < g.config.Days {
		g.shiftTimezone(start.AddDate(0, 0, d), events)
	}

	if d := g.config.DuplicateDay; d >= 0 && d < g.config.Days {
		events = g.duplicateBurst(rng, start.AddDate(0, 0, d), events)
	}

	return events
}

// dropPurchases removes most purchase-type events inside the outage day
func (g *Generator) dropPurchases(rng *rand.Rand, dayStart time.Time, events []contracts.Event) []contracts.Event {
	dayEnd := dayStart.AddDate(0, 0, 1)

	kept := events[:0]
	dropped := 0
	for _, ev := range events {
		inDay := !ev.EventTS.Before(dayStart) && ev.EventTS.Before(dayEnd)
		if inDay && ev.IsPurchaseType() && rng.Float64() < outageDropRate {
			dropped++
			continue
		}
		kept = append(kept, ev)
	}

	g.logger.WithFields(map[string]interface{}{
		"day":     dayStart.Format("2006-01-02"),
		"dropped": dropped,
	}).Debug("Injected purchase outage")

	return kept
}

// renamePurchases applies the schema drift: from the drift day onward,
// every purchase arrives under the new name
func (g *Generator) renamePurchases(driftStart time.Time, events []contracts.Event) {
	renamed := 0
	for i := range events {
		if !events[i].EventTS.Before(driftStart) && events[i].EventName == contracts.EventPurchase {
			events[i].EventName = contracts.EventInAppPurchase
			renamed++
		}
	}

	g.logger.WithFields(map[string]interface{}{
		"from":    driftStart.Format("2006-01-02"),
		"renamed": renamed,
	}).Debug("Injected schema drift")
}

// botSpike floods one day with scripted session_start traffic
func (g *Generator) botSpike(rng *rand.Rand, dayStart time.Time, events []contracts.Event) []contracts.Event {
	added := 0
	for i := 0; i < botUserDraws; i++ {
		uid := int64(1 + rng.Intn(g.config.Users))
		bursts := 10 + rng.Intn(30)
		for b := 0; b < bursts; b++ {
			events = append(events, contracts.Event{
				UserID:    uid,
				EventTS:   dayStart.Add(time.Duration(rng.Intn(1440)) * time.Minute),
				EventName: contracts.EventSessionStart,
			})
			added++
		}
	}

	g.logger.WithFields(map[string]interface{}{
		"day":   dayStart.Format("2006-01-02"),
		"added": added,
	}).Debug("Injected bot spike")

	return events
}

// shiftTimezone pushes one day's events forward an hour, the way a bad
// SDK timezone rollout would
func (g *Generator) shiftTimezone(dayStart time.Time, events []contracts.Event) {
	dayEnd := dayStart.AddDate(0, 0, 1)

	shifted := 0
	for i := range events {
		if !events[i].EventTS.Before(dayStart) && events[i].EventTS.Before(dayEnd) {
			events[i].EventTS = events[i].EventTS.Add(time.Hour)
			shifted++
		}
	}

	g.logger.WithFields(map[string]interface{}{
		"day":     dayStart.Format("2006-01-02"),
		"shifted": shifted,
	}).Debug("Injected timezone shift")
}

// duplicateBurst re-delivers a sample of one day's events
func (g *Generator) duplicateBurst(rng *rand.Rand, dayStart time.Time, events []contracts.Event) []contracts.Event {
	dayEnd := dayStart.AddDate(0, 0, 1)

	var dayIdx []int
	for i, ev := range events {
		if !ev.EventTS.Before(dayStart) && ev.EventTS.Before(dayEnd) {
			dayIdx = append(dayIdx, i)
		}
	}
	if len(dayIdx) == 0 {
		return events
	}

	n := maxDuplicateRows
	if n > len(dayIdx) {
		n = len(dayIdx)
	}

	rng.Shuffle(len(dayIdx), func(i, j int) {
		dayIdx[i], dayIdx[j] = dayIdx[j], dayIdx[i]
	})
	for _, idx := range dayIdx[:n] {
		events = append(events, events[idx])
	}

	g.logger.WithFields(map[string]interface{}{
		"day":        dayStart.Format("2006-01-02"),
		"duplicated": n,
	}).Debug("Injected duplicate burst")

	return events
}
