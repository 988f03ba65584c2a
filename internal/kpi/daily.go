package kpi

import (
	"time"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/pkg/logger"
)

// Aggregator computes the daily business KPI table from raw events.
// It consumes the same stream as the quality engine but independently;
// the two tables are joined only at reporting time, on date.
type Aggregator struct {
	logger *logger.Logger
}

// NewAggregator creates a new KPI aggregator
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{logger: log.WithComponent("kpi")}
}

type dayActivity struct {
	sessionUsers  map[int64]struct{}
	purchaseUsers map[int64]struct{}
	revenue       float64
}

// Compute builds one DailyKPI per calendar day spanning
// [min event day, max event day], zero-filled for quiet days
func (a *Aggregator) Compute(events []contracts.Event) []contracts.DailyKPI {
	if len(events) == 0 {
		return []contracts.DailyKPI{}
	}

	activity := make(map[time.Time]*dayActivity)
	var minDay, maxDay time.Time
	for _, ev := range events {
		day := ev.Day()
		if minDay.IsZero() || day.Before(minDay) {
			minDay = day
		}
		if maxDay.IsZero() || day.After(maxDay) {
			maxDay = day
		}

		act := activity[day]
		if act == nil {
			act = &dayActivity{
				sessionUsers:  make(map[int64]struct{}),
				purchaseUsers: make(map[int64]struct{}),
			}
			activity[day] = act
		}

		switch {
		case ev.EventName == contracts.EventSessionStart:
			act.sessionUsers[ev.UserID] = struct{}{}
		case ev.IsPurchaseType():
			act.purchaseUsers[ev.UserID] = struct{}{}
			if ev.Amount != nil {
				act.revenue += *ev.Amount
			}
		}
	}

	var kpis []contracts.DailyKPI
	for day := minDay; !day.After(maxDay); day = day.AddDate(0, 0, 1) {
		row := contracts.DailyKPI{Date: day}

		act := activity[day]
		if act != nil {
			row.DAU = len(act.sessionUsers)
			row.Purchasers = len(act.purchaseUsers)
			row.Revenue = act.revenue
		}

		if row.DAU > 0 {
			row.ConversionRate = float64(row.Purchasers) / float64(row.DAU)
			row.RevenuePerDAU = row.Revenue / float64(row.DAU)
		}

		row.D1RetentionProxy = a.retention(activity, day)

		kpis = append(kpis, row)
	}

	a.logger.WithFields(map[string]interface{}{
		"days":   len(kpis),
		"events": len(events),
	}).Debug("Computed daily KPIs")

	return kpis
}

// retention returns the share of yesterday's session users who came
// back today. Days with no prior activity report 0.
func (a *Aggregator) retention(activity map[time.Time]*dayActivity, day time.Time) float64 {
	today := activity[day]
	yesterday := activity[day.AddDate(0, 0, -1)]
	if today == nil || yesterday == nil || len(yesterday.sessionUsers) == 0 {
		return 0
	}

	retained := 0
	for uid := range today.sessionUsers {
		if _, ok := yesterday.sessionUsers[uid]; ok {
			retained++
		}
	}

	return float64(retained) / float64(len(yesterday.sessionUsers))
}
