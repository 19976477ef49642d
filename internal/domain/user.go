package domain

import "time"

// User is a simulated account. Users are immutable once created.
type User struct {
	UserID     int64     `ch:"user_id"`
	SignupDate time.Time `ch:"signup_date"`
	Device     string    `ch:"device"`
	Channel    string    `ch:"channel"`
	Segment    string    `ch:"segment"`
}

// Session groups the ordered events of one visit
type Session struct {
	SessionID      string    `ch:"session_id"`
	UserID         int64     `ch:"user_id"`
	SessionStart   time.Time `ch:"session_start"`
	SessionEnd     time.Time `ch:"session_end"`
	IsPromotionDay bool      `ch:"is_promotion_day"`
	LengthSec      int64     `ch:"session_length_sec"`
}
