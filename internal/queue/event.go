// Package queue defines message payloads exchanged over the message broker.
package queue

// CatchRecordedEvent is published when a fishing attempt lands a fish.  It
// carries enough context for downstream consumers to log or feed analytics
// without querying the primary database.
type CatchRecordedEvent struct {
	UserID     uint64 `json:"user_id"`
	FishTypeID uint64 `json:"fish_type_id"`
	FishName   string `json:"fish_name"`
	Reward     int64  `json:"reward"`
	NewBalance int64  `json:"new_balance"`
	CaughtAt   string `json:"caught_at"`
}

// PurchaseCompletedEvent is published when a store purchase commits.
type PurchaseCompletedEvent struct {
	UserID      uint64 `json:"user_id"`
	ItemTypeID  uint64 `json:"item_type_id"`
	Price       int64  `json:"price"`
	NewBalance  int64  `json:"new_balance"`
	PurchasedAt string `json:"purchased_at"`
}
