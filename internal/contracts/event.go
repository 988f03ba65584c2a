package contracts

import (
	"fmt"
	"time"
)

// Event names emitted by the product SDK
const (
	EventSessionStart  = "session_start"
	EventLevelComplete = "level_complete"
	EventPurchase      = "purchase"
	EventInAppPurchase = "in_app_purchase"
)

// Event represents a single raw analytics event.
// Events are immutable once generated; the pipeline never mutates them.
type Event struct {
	UserID    int64     `json:"user_id"`
	EventTS   time.Time `json:"event_ts"` // always UTC
	EventName string    `json:"event_name"`
	Amount    *float64  `json:"amount,omitempty"` // only for purchase-type events
}

// ValidEventName reports whether name is one of the known event names
func ValidEventName(name string) bool {
	switch name {
	case EventSessionStart, EventLevelComplete, EventPurchase, EventInAppPurchase:
		return true
	}
	return false
}

// IsPurchaseType reports whether the event carries revenue
// (purchase or its drifted alias in_app_purchase)
func (e Event) IsPurchaseType() bool {
	return e.EventName == EventPurchase || e.EventName == EventInAppPurchase
}

// Day returns the event's calendar day, floored to UTC midnight
func (e Event) Day() time.Time {
	ts := e.EventTS.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

// DupKey returns the identity tuple used for duplicate detection:
// (user_id, event_ts, event_name, amount). A nil amount and a zero
// amount are distinct identities.
func (e Event) DupKey() string {
	amount := "null"
	if e.Amount != nil {
		amount = fmt.Sprintf("%.10g", *e.Amount)
	}
	return fmt.Sprintf("%d|%d|%s|%s", e.UserID, e.EventTS.UTC().UnixNano(), e.EventName, amount)
}
