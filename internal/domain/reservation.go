package domain

import "time"

// Reservation is a time-boxed hold against a single lot. Lifecycle:
// created, then either released (ReleasedAt stamped) or converted to a
// shipment. A past ExpiresAt with a nil ReleasedAt marks the hold stale;
// an external sweep releases it.
type Reservation struct {
	ID            string
	ProductID     int
	LotID         int
	BatchID       int
	Quantity      int
	Actor         string
	CorrelationID string
	ExpiresAt     time.Time
	ReleasedAt    *time.Time
	CreatedAt     time.Time
}

func (r Reservation) Released() bool {
	return r.ReleasedAt != nil
}

func (r Reservation) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Active reports whether the hold still pins allocated quantity.
func (r Reservation) Active(now time.Time) bool {
	return !r.Released() && !r.Expired(now)
}
