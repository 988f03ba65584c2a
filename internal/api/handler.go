package api

import (
	"encoding/json"
	"net/http"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/internal/storage"
	"github.com/trustlens/trustlens/pkg/logger"
)

// Handler serves the computed tables read-only. It reads from the flat
// files on every request; the batch pipeline is the only writer.
type Handler struct {
	store  *storage.Store
	logger *logger.Logger
}

// NewHandler creates a new API handler over the table store
func NewHandler(store *storage.Store, log *logger.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: log.WithComponent("api.handler"),
	}
}

// Summary aggregates the quality table for the dashboard endpoint
type Summary struct {
	Days         int      `json:"days"`
	AvgTrust     float64  `json:"avg_trust"`
	MinTrust     float64  `json:"min_trust"`
	MaxTrust     float64  `json:"max_trust"`
	LowTrustDays []LowDay `json:"low_trust_days"`
}

// LowDay is one low-trust day with its primary reason
type LowDay struct {
	Date          string  `json:"date"`
	TrustScore    float64 `json:"trust_score"`
	PrimaryReason string  `json:"primary_reason"`
}

// GetQuality returns the daily quality table
func (h *Handler) GetQuality(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.LoadQuality()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, records)
}

// GetKPIs returns the daily KPI table
func (h *Handler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.store.LoadKPIs()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, kpis)
}

// GetSummary returns aggregate trust statistics plus the low-trust days
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.LoadQuality()
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, buildSummary(records))
}

func buildSummary(records []contracts.DailyQualityRecord) Summary {
	summary := Summary{
		Days:         len(records),
		LowTrustDays: []LowDay{},
	}
	if len(records) == 0 {
		return summary
	}

	summary.MinTrust = records[0].TrustScore
	summary.MaxTrust = records[0].TrustScore

	var total float64
	for _, rec := range records {
		total += rec.TrustScore
		if rec.TrustScore < summary.MinTrust {
			summary.MinTrust = rec.TrustScore
		}
		if rec.TrustScore > summary.MaxTrust {
			summary.MaxTrust = rec.TrustScore
		}
		if rec.TrustScore < 70 {
			summary.LowTrustDays = append(summary.LowTrustDays, LowDay{
				Date:          rec.Date.Format("2006-01-02"),
				TrustScore:    rec.TrustScore,
				PrimaryReason: rec.PrimaryReason(),
			})
		}
	}
	summary.AvgTrust = total / float64(len(records))

	return summary
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.logger.WithError(err).Error("Failed to load table")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "failed to load table"})
}
