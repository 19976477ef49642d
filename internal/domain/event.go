package domain

import "time"

// Funnel stage and marker names written to events.event_name
const (
	EventSessionStart = "session_start"
	EventSessionEnd   = "session_end"
	EventViewHome     = "view_home"
	EventViewProduct  = "view_product"
	EventSearch       = "search"
	EventAddToCart    = "add_to_cart"
	EventPurchase     = "purchase"
)

// Event represents a single behavioral event inside a session
type Event struct {
	EventID   int64     `ch:"event_id"`
	SessionID string    `ch:"session_id"`
	UserID    int64     `ch:"user_id"`
	EventName string    `ch:"event_name"`
	EventTime time.Time `ch:"event_time"`
	// Amount is set only for purchase events and is always > 0
	Amount    *float64  `ch:"amount"`
	Segment   string    `ch:"segment"`
	EventDate time.Time `ch:"event_date"`
}

// IsPurchase reports whether the event carries a purchase amount
func (e Event) IsPurchase() bool {
	return e.EventName == EventPurchase && e.Amount != nil
}

// Purchase is the purchase-tagged projection of a purchase event
type Purchase struct {
	PurchaseID   int64     `ch:"purchase_id"`
	UserID       int64     `ch:"user_id"`
	SessionID    string    `ch:"session_id"`
	PurchaseTime time.Time `ch:"purchase_time"`
	Amount       float64   `ch:"amount"`
	ProductID    int64     `ch:"product_id"`
	CouponUsed   bool      `ch:"coupon_used"`
}
