package inventory

import (
	"context"

	"stockroom/internal/domain"
	"stockroom/internal/inventory/service"
)

type AllocateUseCase interface {
	Allocate(ctx context.Context, productID, quantity int, caller service.Caller) (domain.Allocation, error)
}

type HoldUseCase interface {
	Reserve(ctx context.Context, req service.ReserveRequest) (*domain.Reservation, error)
	Release(ctx context.Context, reservationID string, caller service.Caller) (bool, error)
}

type FulfillUseCase interface {
	Ship(ctx context.Context, lotID, quantity int, caller service.Caller) (*domain.InventoryLot, error)
	ReleaseAllocation(ctx context.Context, lotID, quantity int, caller service.Caller) (*domain.InventoryLot, error)
}

// StockReader serves the read-only ledger view.
type StockReader interface {
	FindByProduct(ctx context.Context, productID int) ([]domain.InventoryLot, error)
}
