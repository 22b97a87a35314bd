package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"stockroom/internal/audit"
	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
)

// AllocationService converts available quantity into allocated quantity
// across lots in FIFO order: oldest movement first, oldest creation as the
// tie-break. The whole walk runs in one transaction and is all-or-nothing.
type AllocationService struct {
	txMgr  TransactionManager
	lots   LotRepository
	logger *zap.Logger
}

func NewAllocationService(txMgr TransactionManager, lots LotRepository, logger *zap.Logger) *AllocationService {
	return &AllocationService{
		txMgr:  txMgr,
		lots:   lots,
		logger: logger,
	}
}

// Allocate satisfies quantity for productID from the oldest lots first.
// It returns the exact lot takes that sum to quantity, or a typed error
// with every per-lot mutation rolled back.
func (s *AllocationService) Allocate(ctx context.Context, productID, quantity int, caller Caller) (domain.Allocation, []audit.Entry, error) {
	if quantity <= 0 {
		return nil, nil, apperrors.NewValidationError("quantity must be a positive integer", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	var (
		allocation domain.Allocation
		entries    []audit.Entry
	)

	err := s.txMgr.InTx(ctx, func(tx *sql.Tx) error {
		candidates, err := s.lots.FindAllocatable(ctx, tx, productID)
		if err != nil {
			return err
		}

		remaining := quantity
		for _, lot := range candidates {
			if remaining == 0 {
				break
			}

			take := remaining
			if lot.QuantityAvailable < take {
				take = lot.QuantityAvailable
			}

			now := time.Now().UTC()
			ok, err := s.lots.TakeAvailable(ctx, tx, lot.ID, take, now)
			if err != nil {
				return err
			}
			if !ok {
				// A concurrent allocator drained this lot between selection
				// and update. Move on; the next lot may still cover us.
				s.logger.Debug("lot skipped, availability moved",
					zap.Int("lotId", lot.ID),
					zap.Int("take", take),
				)
				continue
			}

			updated, err := s.lots.FindByIDTx(ctx, tx, lot.ID)
			if err != nil {
				return err
			}

			allocation = append(allocation, domain.LotAllocation{
				LotID:    lot.ID,
				BatchID:  lot.BatchID,
				Quantity: take,
			})
			entries = append(entries, movementEntry(updated, audit.ActionAllocate, take, caller, now))
			remaining -= take
		}

		if remaining > 0 {
			return apperrors.NewShortfallError(productID, quantity, remaining)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return allocation, entries, nil
}
