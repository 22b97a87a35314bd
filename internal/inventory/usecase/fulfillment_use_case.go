package usecase

import (
	"context"

	"go.uber.org/zap"

	"stockroom/internal/audit"
	"stockroom/internal/domain"
	"stockroom/internal/inventory/service"
)

type Shipper interface {
	Ship(ctx context.Context, lotID, quantity int, caller service.Caller) (*domain.InventoryLot, []audit.Entry, error)
}

type AllocationReleaser interface {
	ReleaseAllocation(ctx context.Context, lotID, quantity int, caller service.Caller) (*domain.InventoryLot, []audit.Entry, error)
}

// FulfillmentUseCase covers the two terminal movements on an allocation:
// ship it out of the warehouse, or cancel it back to available.
type FulfillmentUseCase struct {
	shipper          Shipper
	releaser         AllocationReleaser
	recorder         audit.Recorder
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewFulfillmentUseCase(
	shipper Shipper,
	releaser AllocationReleaser,
	recorder audit.Recorder,
	logger *zap.Logger,
	maxRetryAttempts int,
) *FulfillmentUseCase {
	return &FulfillmentUseCase{
		shipper:          shipper,
		releaser:         releaser,
		recorder:         recorder,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *FulfillmentUseCase) Ship(ctx context.Context, lotID, quantity int, caller service.Caller) (*domain.InventoryLot, error) {
	var (
		lot     *domain.InventoryLot
		entries []audit.Entry
	)

	err := withDeadlockRetry(uc.maxRetryAttempts, nil, func() error {
		var err error
		lot, entries, err = uc.shipper.Ship(ctx, lotID, quantity, caller)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, entries...)

	uc.logger.Info("shipment committed",
		zap.Int("lotId", lotID),
		zap.Int("quantity", quantity),
		zap.Int("onHand", lot.QuantityOnHand),
		zap.Int("allocated", lot.QuantityAllocated),
	)

	return lot, nil
}

func (uc *FulfillmentUseCase) ReleaseAllocation(ctx context.Context, lotID, quantity int, caller service.Caller) (*domain.InventoryLot, error) {
	var (
		lot     *domain.InventoryLot
		entries []audit.Entry
	)

	err := withDeadlockRetry(uc.maxRetryAttempts, nil, func() error {
		var err error
		lot, entries, err = uc.releaser.ReleaseAllocation(ctx, lotID, quantity, caller)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, entries...)

	uc.logger.Info("allocation released",
		zap.Int("lotId", lotID),
		zap.Int("quantity", quantity),
		zap.Int("available", lot.QuantityAvailable),
	)

	return lot, nil
}
