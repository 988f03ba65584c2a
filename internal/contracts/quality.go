package contracts

import (
	"strings"
	"time"
)

// Trust score weights (sum = 1.0)
const (
	WeightCompleteness = 0.30
	WeightSchema       = 0.20
	WeightUniqueness   = 0.20
	WeightVolume       = 0.15
	WeightValidity     = 0.15
)

// Reason tags, in fixed priority order. Downstream reporting treats the
// first tag of a day's reason string as the primary reason.
const (
	TagPossiblePurchaseOutage = "possible_purchase_outage"
	TagSchemaDriftName        = "schema_drift_purchase_name"
	TagTrafficSpikeBots       = "traffic_spike_possible_bots"
	TagDuplicatesDetected     = "duplicates_detected"
	TagInvalidAmounts         = "invalid_amount_values"
	TagOK                     = "ok"
)

// DimensionScores holds the five per-day quality dimensions, each in [0, 1]
type DimensionScores struct {
	Completeness float64 `json:"score_completeness"`
	Schema       float64 `json:"score_schema"`
	Uniqueness   float64 `json:"score_uniqueness"`
	Volume       float64 `json:"score_volume"`
	Validity     float64 `json:"score_validity"`
}

// Trust combines the five dimensions into one score in [0, 100].
// A missing dimension is already a zero here, so it drags the score
// down rather than being silently excluded.
func (s DimensionScores) Trust() float64 {
	return 100 * (WeightCompleteness*s.Completeness +
		WeightSchema*s.Schema +
		WeightUniqueness*s.Uniqueness +
		WeightVolume*s.Volume +
		WeightValidity*s.Validity)
}

// DailyQualityRecord is one row of the daily quality table.
// Every calendar day in [min event day, max event day] has exactly one
// record, even when no events occurred that day.
type DailyQualityRecord struct {
	Date time.Time `json:"date"`

	// Counts
	PurchaseEvents  int `json:"purchase_events"`
	SessionEvents   int `json:"session_events"`
	DuplicateEvents int `json:"duplicate_events"`
	NegAmountEvents int `json:"neg_amount_events"`

	// Flags
	SchemaDriftFlag   int `json:"schema_drift_flag"`
	VolumeAnomalyFlag int `json:"volume_anomaly_flag"`

	Scores DimensionScores `json:"scores"`

	TrustScore float64 `json:"trust_score"`
	Reason     string  `json:"reason"`
}

// PrimaryReason returns the first tag of the reason string
func (r DailyQualityRecord) PrimaryReason() string {
	reason := strings.TrimSpace(r.Reason)
	if reason == "" {
		return TagOK
	}
	if i := strings.Index(reason, ","); i >= 0 {
		return strings.TrimSpace(reason[:i])
	}
	return reason
}
