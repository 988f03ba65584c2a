package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/pkg/logger"
)

// MemoBuilder renders the decision memo: a short markdown report that
// joins business KPIs with trust scores so a reader can tell a real KPI
// movement from a data-pipeline defect.
type MemoBuilder struct {
	logger *logger.Logger
}

// NewMemoBuilder creates a new memo builder
func NewMemoBuilder(log *logger.Logger) *MemoBuilder {
	return &MemoBuilder{logger: log.WithComponent("report")}
}

// memoRow is one joined KPI+quality day
type memoRow struct {
	date   time.Time
	trust  float64
	reason string
	kpi    contracts.DailyKPI
}

// Build renders the memo over the joined tables
func (b *MemoBuilder) Build(kpis []contracts.DailyKPI, quality []contracts.DailyQualityRecord) string {
	rows := join(kpis, quality)

	lowest := lowestTrust(rows, 3)
	highest := highestTrust(rows, 3)

	var sb strings.Builder
	sb.WriteString("# Decision Memo — KPI Integrity & Trust\n\n")

	sb.WriteString("## Executive summary\n")
	sb.WriteString("A conversion drop was observed, but **low trust scores** indicate the movement is likely caused by\n")
	sb.WriteString("tracking or data issues (outages / schema drift / bots / duplicates), not true performance.\n\n")
	sb.WriteString("**Recommendation:** Avoid acting on KPI movement when trust < 70. Investigate instrumentation first.\n\n")

	sb.WriteString("## Lowest trust days (investigate before acting)\n")
	sb.WriteString(markdownTable(lowest))
	sb.WriteString("\n\n## Highest trust days (baseline / safe to compare)\n")
	sb.WriteString(markdownTable(highest))

	sb.WriteString("\n\n## Real company next steps\n")
	sb.WriteString("1. Confirm event naming mapping (purchase vs in_app_purchase) and update tracking/ETL.\n")
	sb.WriteString("2. Investigate missing purchase events on outage days (SDK / pipeline).\n")
	sb.WriteString("3. Add bot filtering rules for traffic spikes and backfill metrics.\n")
	sb.WriteString("4. Automate alerts when trust score < 70.\n")

	b.logger.WithFields(map[string]interface{}{
		"days":   len(rows),
		"lowest": len(lowest),
	}).Debug("Built decision memo")

	return sb.String()
}

// join matches KPI and quality rows on date. Days present in only one
// table are dropped; both tables normally span the same range.
func join(kpis []contracts.DailyKPI, quality []contracts.DailyQualityRecord) []memoRow {
	byDate := make(map[time.Time]contracts.DailyQualityRecord, len(quality))
	for _, q := range quality {
		byDate[q.Date] = q
	}

	var rows []memoRow
	for _, k := range kpis {
		q, ok := byDate[k.Date]
		if !ok {
			continue
		}
		rows = append(rows, memoRow{
			date:   k.Date,
			trust:  q.TrustScore,
			reason: q.Reason,
			kpi:    k,
		})
	}
	return rows
}

func lowestTrust(rows []memoRow, n int) []memoRow {
	sorted := make([]memoRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].trust < sorted[j].trust })
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

func highestTrust(rows []memoRow, n int) []memoRow {
	sorted := make([]memoRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].trust > sorted[j].trust })
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

func markdownTable(rows []memoRow) string {
	lines := []string{
		"| date | trust | reason | conv% | dau | purchasers | revenue |",
		"|---|---:|---|---:|---:|---:|---:|",
	}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf(
			"| %s | %.1f | %s | %.2f | %d | %d | %.2f |",
			r.date.Format("2006-01-02"),
			r.trust,
			r.reason,
			100*r.kpi.ConversionRate,
			r.kpi.DAU,
			r.kpi.Purchasers,
			r.kpi.Revenue,
		))
	}
	return strings.Join(lines, "\n")
}
