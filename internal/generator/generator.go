package generator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/pkg/config"
	"github.com/trustlens/trustlens/pkg/logger"
)

// Generator produces a synthetic product-analytics event stream with
// known defects injected, so the quality engine has something real to
// catch. Generation is deterministic for a fixed seed.
type Generator struct {
	config config.GeneratorConfig
	logger *logger.Logger
}

// New creates a new event generator
func New(cfg config.GeneratorConfig, log *logger.Logger) *Generator {
	return &Generator{
		config: cfg,
		logger: log.WithComponent("generator"),
	}
}

// Generate builds the full event set: organic traffic first, then the
// configured defects layered on top
func (g *Generator) Generate() ([]contracts.Event, error) {
	start, err := time.Parse("2006-01-02", g.config.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parse start date %q: %w", g.config.StartDate, err)
	}
	start = start.UTC()

	rng := rand.New(rand.NewSource(g.config.Seed))

	events := g.organicTraffic(rng, start)
	organic := len(events)

	events = g.injectDefects(rng, start, events)

	sort.Slice(events, func(i, j int) bool {
		return events[i].EventTS.Before(events[j].EventTS)
	})

	g.logger.WithFields(map[string]interface{}{
		"organic": organic,
		"total":   len(events),
		"days":    g.config.Days,
		"users":   g.config.Users,
		"seed":    g.config.Seed,
	}).Info("Generated synthetic events")

	return events, nil
}

// organicTraffic simulates per-user sessions, level completions and
// purchases over the configured span
func (g *Generator) organicTraffic(rng *rand.Rand, start time.Time) []contracts.Event {
	joinProbs := softmaxDecay(g.config.Days, 10)

	var events []contracts.Event
	for uid := 1; uid <= g.config.Users; uid++ {
		joinDay := pickWeighted(rng, joinProbs)
		activity := beta(rng, 2, 6)
		purchaseProp := beta(rng, 1.2, 25)
		life := 3 + rng.Intn(25)

		lastDay := joinDay + life
		if lastDay > g.config.Days {
			lastDay = g.config.Days
		}

		for d := joinDay; d < lastDay; d++ {
			date := start.AddDate(0, 0, d)

			sessions := poisson(rng, 1+6*activity)
			for s := 0; s < sessions; s++ {
				ts := date.Add(time.Duration(rng.Intn(1440)) * time.Minute)
				events = append(events, contracts.Event{
					UserID:    int64(uid),
					EventTS:   ts,
					EventName: contracts.EventSessionStart,
				})

				completes := binomial(rng, 3, 0.25+0.35*activity)
				for c := 0; c < completes; c++ {
					ts2 := ts.Add(time.Duration(1+rng.Intn(24)) * time.Minute)
					events = append(events, contracts.Event{
						UserID:    int64(uid),
						EventTS:   ts2,
						EventName: contracts.EventLevelComplete,
					})
				}
			}

			if rng.Float64() < 0.015+0.08*purchaseProp+0.02*activity {
				amount := math.Round(logNormal(rng, 1.2, 0.7)*100) / 100
				ts := date.Add(time.Duration(rng.Intn(1440)) * time.Minute)
				events = append(events, contracts.Event{
					UserID:    int64(uid),
					EventTS:   ts,
					EventName: contracts.EventPurchase,
					Amount:    &amount,
				})
			}
		}
	}

	return events
}
