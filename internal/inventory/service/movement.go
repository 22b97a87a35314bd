package service

import (
	"time"

	"stockroom/internal/audit"
	"stockroom/internal/domain"
)

// movementEntry builds the audit record for a movement from the lot as
// read back inside the transaction; the before image is derived from the
// applied delta so it reflects the committed row, not a possibly stale
// selection snapshot.
func movementEntry(lot *domain.InventoryLot, action string, qty int, caller Caller, occurredAt time.Time) audit.Entry {
	entry := audit.Entry{
		LotID:          lot.ID,
		Action:         action,
		Quantity:       qty,
		OnHandAfter:    lot.QuantityOnHand,
		AllocatedAfter: lot.QuantityAllocated,
		Actor:          caller.Actor,
		CorrelationID:  caller.CorrelationID,
		OccurredAt:     occurredAt,
	}

	switch action {
	case audit.ActionAllocate, audit.ActionReserve:
		entry.OnHandBefore = lot.QuantityOnHand
		entry.AllocatedBefore = lot.QuantityAllocated - qty
	case audit.ActionRelease:
		entry.OnHandBefore = lot.QuantityOnHand
		entry.AllocatedBefore = lot.QuantityAllocated + qty
	case audit.ActionShip:
		entry.OnHandBefore = lot.QuantityOnHand + qty
		entry.AllocatedBefore = lot.QuantityAllocated + qty
	}

	return entry
}
