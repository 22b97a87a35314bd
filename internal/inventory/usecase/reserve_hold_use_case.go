package usecase

import (
	"context"

	"go.uber.org/zap"

	"stockroom/internal/audit"
	"stockroom/internal/domain"
	"stockroom/internal/inventory/service"
)

type HoldManager interface {
	Reserve(ctx context.Context, req service.ReserveRequest) (*domain.Reservation, []audit.Entry, error)
	Release(ctx context.Context, reservationID string, caller service.Caller) (bool, []audit.Entry, error)
}

// ReserveHoldUseCase drives cart-style holds: create with an expiry,
// release explicitly or via the sweep.
type ReserveHoldUseCase struct {
	holds            HoldManager
	recorder         audit.Recorder
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewReserveHoldUseCase(
	holds HoldManager,
	recorder audit.Recorder,
	logger *zap.Logger,
	maxRetryAttempts int,
) *ReserveHoldUseCase {
	return &ReserveHoldUseCase{
		holds:            holds,
		recorder:         recorder,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *ReserveHoldUseCase) Reserve(ctx context.Context, req service.ReserveRequest) (*domain.Reservation, error) {
	var (
		res     *domain.Reservation
		entries []audit.Entry
	)

	err := withDeadlockRetry(uc.maxRetryAttempts, nil, func() error {
		var err error
		res, entries, err = uc.holds.Reserve(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, entries...)

	uc.logger.Info("hold created",
		zap.String("reservationId", res.ID),
		zap.Int("productId", res.ProductID),
		zap.Int("lotId", res.LotID),
		zap.Int("quantity", res.Quantity),
		zap.Time("expiresAt", res.ExpiresAt),
	)

	return res, nil
}

// Release is an idempotent success when the hold is already released.
func (uc *ReserveHoldUseCase) Release(ctx context.Context, reservationID string, caller service.Caller) (bool, error) {
	var (
		released bool
		entries  []audit.Entry
	)

	err := withDeadlockRetry(uc.maxRetryAttempts, nil, func() error {
		var err error
		released, entries, err = uc.holds.Release(ctx, reservationID, caller)
		return err
	})
	if err != nil {
		return false, err
	}

	uc.recorder.Record(ctx, entries...)

	uc.logger.Info("hold release processed",
		zap.String("reservationId", reservationID),
		zap.Bool("released", released),
	)

	return released, nil
}
