package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stockroom/internal/audit"
	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
)

// ReleaseService reverses allocations that were never shipped: allocated
// falls, available rises, on-hand is untouched. Used for order and quote
// cancellations; hold release goes through ReservationService.
type ReleaseService struct {
	txMgr  TransactionManager
	lots   LotRepository
	logger *zap.Logger
}

func NewReleaseService(txMgr TransactionManager, lots LotRepository, logger *zap.Logger) *ReleaseService {
	return &ReleaseService{
		txMgr:  txMgr,
		lots:   lots,
		logger: logger,
	}
}

func (s *ReleaseService) ReleaseAllocation(ctx context.Context, lotID, quantity int, caller Caller) (*domain.InventoryLot, []audit.Entry, error) {
	if quantity <= 0 {
		return nil, nil, apperrors.NewValidationError("quantity must be a positive integer", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	now := time.Now().UTC()
	var (
		released *domain.InventoryLot
		entries  []audit.Entry
	)

	err := s.txMgr.InTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.lots.ReleaseAllocated(ctx, tx, lotID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			lot, err := s.lots.FindByIDTx(ctx, tx, lotID)
			if err != nil {
				return err
			}
			return apperrors.NewInsufficientStateError(fmt.Sprintf(
				"lot %d cannot release %d units (allocated %d)",
				lotID, quantity, lot.QuantityAllocated,
			))
		}

		lot, err := s.lots.FindByIDTx(ctx, tx, lotID)
		if err != nil {
			return err
		}
		entries = append(entries, movementEntry(lot, audit.ActionRelease, quantity, caller, now))
		released = lot

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return released, entries, nil
}
