package domain

import "time"

// InventoryLot is the ledger row and the unit of allocation.
//
// Every mutation moves QuantityAvailable and its paired field in the same
// statement; the service never recomputes available from the other two.
type InventoryLot struct {
	ID                int
	ProductID         int
	BatchID           int
	QuantityOnHand    int
	QuantityAllocated int
	QuantityAvailable int
	LastMovementDate  time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// QuantitiesConsistent reports whether the lot satisfies the ledger
// invariant: onHand == available + allocated, with no negative field.
func (l InventoryLot) QuantitiesConsistent() bool {
	if l.QuantityOnHand < 0 || l.QuantityAllocated < 0 || l.QuantityAvailable < 0 {
		return false
	}
	return l.QuantityOnHand == l.QuantityAvailable+l.QuantityAllocated
}
