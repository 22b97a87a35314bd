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

// ShipmentService converts allocated quantity into a physical decrement:
// on-hand and allocated fall together, in one guarded statement. Shipping
// is irreversible here; corrections are a separate adjustment flow.
type ShipmentService struct {
	txMgr  TransactionManager
	lots   LotRepository
	logger *zap.Logger
}

func NewShipmentService(txMgr TransactionManager, lots LotRepository, logger *zap.Logger) *ShipmentService {
	return &ShipmentService{
		txMgr:  txMgr,
		lots:   lots,
		logger: logger,
	}
}

// Ship removes quantity units of previously allocated stock from lotID.
// Zero rows affected with the lot still present means the allocation record
// and the live lot diverged (double-ship, external adjustment) and surfaces
// as InsufficientStateError.
func (s *ShipmentService) Ship(ctx context.Context, lotID, quantity int, caller Caller) (*domain.InventoryLot, []audit.Entry, error) {
	if quantity <= 0 {
		return nil, nil, apperrors.NewValidationError("quantity must be a positive integer", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	now := time.Now().UTC()
	var (
		shipped *domain.InventoryLot
		entries []audit.Entry
	)

	err := s.txMgr.InTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.lots.ShipAllocated(ctx, tx, lotID, quantity, now)
		if err != nil {
			return err
		}
		if !ok {
			lot, err := s.lots.FindByIDTx(ctx, tx, lotID)
			if err != nil {
				return err
			}
			return apperrors.NewInsufficientStateError(fmt.Sprintf(
				"lot %d cannot ship %d units (on hand %d, allocated %d)",
				lotID, quantity, lot.QuantityOnHand, lot.QuantityAllocated,
			))
		}

		lot, err := s.lots.FindByIDTx(ctx, tx, lotID)
		if err != nil {
			return err
		}
		entries = append(entries, movementEntry(lot, audit.ActionShip, quantity, caller, now))
		shipped = lot

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return shipped, entries, nil
}
