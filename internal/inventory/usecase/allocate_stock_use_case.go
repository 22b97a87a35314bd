package usecase

import (
	"context"

	"go.uber.org/zap"

	"stockroom/internal/audit"
	"stockroom/internal/domain"
	"stockroom/internal/inventory/service"
)

type StockAllocator interface {
	Allocate(ctx context.Context, productID, quantity int, caller service.Caller) (domain.Allocation, []audit.Entry, error)
}

// AllocateStockUseCase wraps the FIFO allocator with deadlock retry and
// post-commit audit recording.
type AllocateStockUseCase struct {
	allocator        StockAllocator
	recorder         audit.Recorder
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewAllocateStockUseCase(
	allocator StockAllocator,
	recorder audit.Recorder,
	logger *zap.Logger,
	maxRetryAttempts int,
) *AllocateStockUseCase {
	return &AllocateStockUseCase{
		allocator:        allocator,
		recorder:         recorder,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *AllocateStockUseCase) Allocate(ctx context.Context, productID, quantity int, caller service.Caller) (domain.Allocation, error) {
	uc.logger.Info("allocation started",
		zap.Int("productId", productID),
		zap.Int("quantity", quantity),
		zap.String("correlationId", caller.CorrelationID),
	)

	var (
		allocation domain.Allocation
		entries    []audit.Entry
	)

	err := withDeadlockRetry(uc.maxRetryAttempts, uc.logRetry(productID), func() error {
		var err error
		allocation, entries, err = uc.allocator.Allocate(ctx, productID, quantity, caller)
		return err
	})
	if err != nil {
		return nil, err
	}

	// The transaction has committed; the audit trail is best-effort.
	uc.recorder.Record(ctx, entries...)

	uc.logger.Info("allocation committed",
		zap.Int("productId", productID),
		zap.Int("quantity", quantity),
		zap.Int("lotCount", len(allocation)),
	)

	return allocation, nil
}

func (uc *AllocateStockUseCase) logRetry(productID int) func(int) {
	return func(attempt int) {
		uc.logger.Warn("deadlock detected, retrying",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", uc.maxRetryAttempts),
			zap.Int("productId", productID),
		)
	}
}
