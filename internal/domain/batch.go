package domain

import "time"

// Batch is one vendor intake of a product, the cost-basis parent of lots.
// Created once at intake and never quantity-mutated afterwards.
type Batch struct {
	ID         int
	ProductID  int
	VendorName string
	UnitCost   float64
	ReceivedAt time.Time
	CreatedAt  time.Time
}
