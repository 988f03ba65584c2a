package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/pkg/config"
	"github.com/trustlens/trustlens/pkg/logger"
)

func testConfig() config.GeneratorConfig {
	return config.GeneratorConfig{
		Seed:             7,
		StartDate:        "2025-11-01",
		Days:             20,
		Users:            300,
		OutageDays:       []int{10},
		SchemaDriftDay:   14,
		BotSpikeDay:      16,
		TimezoneShiftDay: 18,
		DuplicateDay:     6,
	}
}

func generate(t *testing.T, cfg config.GeneratorConfig) []contracts.Event {
	t.Helper()
	events, err := New(cfg, logger.NewNop()).Generate()
	require.NoError(t, err)
	require.NotEmpty(t, events)
	return events
}

func dayOf(start time.Time, ev contracts.Event) int {
	return int(ev.Day().Sub(start).Hours() / 24)
}

func TestGenerator_Deterministic(t *testing.T) {
	first := generate(t, testConfig())
	second := generate(t, testConfig())
	assert.Equal(t, first, second)
}

func TestGenerator_SeedChangesOutput(t *testing.T) {
	cfg := testConfig()
	first := generate(t, cfg)

	cfg.Seed = 8
	second := generate(t, cfg)
	assert.NotEqual(t, first, second)
}

func TestGenerator_SortedAndValid(t *testing.T) {
	events := generate(t, testConfig())

	for i, ev := range events {
		assert.True(t, contracts.ValidEventName(ev.EventName))
		assert.GreaterOrEqual(t, ev.UserID, int64(1))
		assert.False(t, ev.EventTS.IsZero())
		if ev.EventName == contracts.EventPurchase || ev.EventName == contracts.EventInAppPurchase {
			require.NotNil(t, ev.Amount)
			assert.Greater(t, *ev.Amount, 0.0)
		} else {
			assert.Nil(t, ev.Amount)
		}

		if i > 0 {
			assert.False(t, ev.EventTS.Before(events[i-1].EventTS), "events must be time sorted")
		}
	}
}

func TestGenerator_SchemaDriftRenamesEverything(t *testing.T) {
	cfg := testConfig()
	events := generate(t, cfg)
	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	sawIAP := false
	for _, ev := range events {
		d := dayOf(start, ev)
		if d >= cfg.SchemaDriftDay {
			assert.NotEqual(t, contracts.EventPurchase, ev.EventName,
				"no plain purchase may survive past the drift day")
			if ev.EventName == contracts.EventInAppPurchase {
				sawIAP = true
			}
		} else {
			assert.NotEqual(t, contracts.EventInAppPurchase, ev.EventName,
				"nothing before the drift day may carry the new name")
		}
	}
	assert.True(t, sawIAP, "drift day should produce in_app_purchase events")
}

func TestGenerator_OutageThinsPurchases(t *testing.T) {
	cfg := testConfig()
	events := generate(t, cfg)
	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	perDay := make(map[int]int)
	for _, ev := range events {
		if ev.IsPurchaseType() {
			perDay[dayOf(start, ev)]++
		}
	}

	// Compare the outage day against its neighbors
	neighbors := (perDay[cfg.OutageDays[0]-1] + perDay[cfg.OutageDays[0]+1]) / 2
	if neighbors > 3 {
		assert.Less(t, perDay[cfg.OutageDays[0]], neighbors,
			"outage day should carry visibly fewer purchases")
	}
}

func TestGenerator_BotSpikeInflatesSessions(t *testing.T) {
	cfg := testConfig()
	events := generate(t, cfg)
	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	perDay := make(map[int]int)
	for _, ev := range events {
		if ev.EventName == contracts.EventSessionStart {
			perDay[dayOf(start, ev)]++
		}
	}

	assert.Greater(t, perDay[cfg.BotSpikeDay], 5*perDay[cfg.BotSpikeDay-1],
		"bot spike day should dwarf organic session volume")
}

func TestGenerator_DuplicateBurst(t *testing.T) {
	events := generate(t, testConfig())

	seen := make(map[string]int)
	dups := 0
	for _, ev := range events {
		seen[ev.DupKey()]++
	}
	for _, n := range seen {
		if n > 1 {
			dups += n
		}
	}

	assert.Greater(t, dups, 0, "duplicate burst must produce duplicate tuples")
}

func TestGenerator_DefectsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.OutageDays = []int{-1}
	cfg.SchemaDriftDay = -1
	cfg.BotSpikeDay = -1
	cfg.TimezoneShiftDay = -1
	cfg.DuplicateDay = -1

	events := generate(t, cfg)
	for _, ev := range events {
		assert.NotEqual(t, contracts.EventInAppPurchase, ev.EventName)
	}
}

func TestGenerator_BadStartDate(t *testing.T) {
	cfg := testConfig()
	cfg.StartDate = "11/01/2025"

	_, err := New(cfg, logger.NewNop()).Generate()
	require.Error(t, err)
}
