package quality

import (
	"strings"

	"github.com/trustlens/trustlens/internal/contracts"
)

// ReasonTagger derives human-readable defect tags from a day's signals.
// Rules are evaluated independently, in fixed priority order; downstream
// reporting picks the first tag as the primary reason.
type ReasonTagger struct {
	config Config
}

// NewReasonTagger creates a new reason tagger
func NewReasonTagger(cfg Config) *ReasonTagger {
	return &ReasonTagger{config: cfg}
}

// Tag returns the comma-joined reason string for a day, or "ok" when
// no rule fires
func (t *ReasonTagger) Tag(rec contracts.DailyQualityRecord) string {
	var tags []string

	if rec.Scores.Completeness < t.config.CompletenessThreshold {
		tags = append(tags, contracts.TagPossiblePurchaseOutage)
	}
	if rec.Scores.Schema < 1.00 {
		tags = append(tags, contracts.TagSchemaDriftName)
	}
	if rec.Scores.Volume < 1.00 {
		tags = append(tags, contracts.TagTrafficSpikeBots)
	}
	// Raw count, not the uniqueness score: even a single duplicate is
	// worth surfacing while the score stays near 1.0.
	if rec.DuplicateEvents > 0 {
		tags = append(tags, contracts.TagDuplicatesDetected)
	}
	if rec.Scores.Validity < 1.00 {
		tags = append(tags, contracts.TagInvalidAmounts)
	}

	if len(tags) == 0 {
		return contracts.TagOK
	}
	return strings.Join(tags, ", ")
}
