package contracts

import "time"

// DailyKPI is one row of the daily business KPI table
type DailyKPI struct {
	Date             time.Time `json:"event_date"`
	DAU              int       `json:"dau"`
	Purchasers       int       `json:"purchasers"`
	Revenue          float64   `json:"revenue"`
	ConversionRate   float64   `json:"conversion_rate"`
	D1RetentionProxy float64   `json:"d1_retention_proxy"`
	RevenuePerDAU    float64   `json:"revenue_per_dau"`
}
