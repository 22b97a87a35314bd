package domain

import "time"

// Product is catalog identity only. Name, SKU and pricing are owned by
// catalog management; the allocation core treats products as read-only.
type Product struct {
	ID           int
	SKU          string
	Name         string
	DefaultPrice float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
