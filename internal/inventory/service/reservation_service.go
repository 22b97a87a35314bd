package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/audit"
	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
)

// ReserveRequest describes a hold to create. LotID zero means "resolve the
// lot from the product". That only works while the product has exactly one
// lot; once more than one exists the caller must choose explicitly.
type ReserveRequest struct {
	ProductID int
	LotID     int
	Quantity  int
	ExpiresAt *time.Time
	Caller    Caller
}

// ReservationService creates and releases time-boxed holds. A hold moves
// lot quantity from available to allocated at creation and back at release.
type ReservationService struct {
	txMgr        TransactionManager
	lots         LotRepository
	reservations ReservationRepository
	logger       *zap.Logger
	holdTTL      time.Duration
}

func NewReservationService(
	txMgr TransactionManager,
	lots LotRepository,
	reservations ReservationRepository,
	logger *zap.Logger,
	holdTTL time.Duration,
) *ReservationService {
	return &ReservationService{
		txMgr:        txMgr,
		lots:         lots,
		reservations: reservations,
		logger:       logger,
		holdTTL:      holdTTL,
	}
}

func (s *ReservationService) Reserve(ctx context.Context, req ReserveRequest) (*domain.Reservation, []audit.Entry, error) {
	if req.Quantity <= 0 {
		return nil, nil, apperrors.NewValidationError("quantity must be a positive integer", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	lot, err := s.resolveLot(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.holdTTL)
	if req.ExpiresAt != nil {
		expiresAt = req.ExpiresAt.UTC()
	}

	res := domain.Reservation{
		ID:            uuid.New().String(),
		ProductID:     lot.ProductID,
		LotID:         lot.ID,
		BatchID:       lot.BatchID,
		Quantity:      req.Quantity,
		Actor:         req.Caller.Actor,
		CorrelationID: req.Caller.CorrelationID,
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
	}

	var entries []audit.Entry
	err = s.txMgr.InTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.lots.TakeAvailable(ctx, tx, lot.ID, req.Quantity, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewShortfallError(lot.ProductID, req.Quantity, req.Quantity)
		}

		if err := s.reservations.Insert(ctx, tx, res); err != nil {
			return err
		}

		updated, err := s.lots.FindByIDTx(ctx, tx, lot.ID)
		if err != nil {
			return err
		}
		entries = append(entries, movementEntry(updated, audit.ActionReserve, req.Quantity, req.Caller, now))

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &res, entries, nil
}

// resolveLot picks the lot a hold binds to, before any transaction opens.
// The take itself is guarded, so a stale read here cannot oversell.
func (s *ReservationService) resolveLot(ctx context.Context, req ReserveRequest) (*domain.InventoryLot, error) {
	if req.LotID != 0 {
		lot, err := s.lots.FindByID(ctx, req.LotID)
		if err != nil {
			return nil, err
		}
		if req.ProductID != 0 && lot.ProductID != req.ProductID {
			return nil, apperrors.NewValidationError("lot does not belong to product", apperrors.ValidationDetail{
				Field:   "lotId",
				Message: fmt.Sprintf("lot %d belongs to product %d", lot.ID, lot.ProductID),
			})
		}
		return lot, nil
	}

	lots, err := s.lots.FindByProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	switch len(lots) {
	case 0:
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no lots exist for product %d", req.ProductID))
	case 1:
		return &lots[0], nil
	default:
		return nil, apperrors.NewValidationError("lot selection is required", apperrors.ValidationDetail{
			Field:   "lotId",
			Message: fmt.Sprintf("product %d has %d lots; holds must name one", req.ProductID, len(lots)),
		})
	}
}

// Release reverses a hold that was never shipped. Releasing an already
// released hold is a no-op success. The returned bool reports whether this
// call performed the release.
func (s *ReservationService) Release(ctx context.Context, reservationID string, caller Caller) (bool, []audit.Entry, error) {
	res, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return false, nil, err
	}
	if res.Released() {
		return false, nil, nil
	}

	now := time.Now().UTC()
	released := false
	var entries []audit.Entry

	err = s.txMgr.InTx(ctx, func(tx *sql.Tx) error {
		claimed, err := s.reservations.ClaimRelease(ctx, tx, reservationID, now)
		if err != nil {
			return err
		}
		if !claimed {
			// Lost the race to another releaser; still a success.
			return nil
		}

		ok, err := s.lots.ReleaseAllocated(ctx, tx, res.LotID, res.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewInsufficientStateError(fmt.Sprintf(
				"lot %d no longer holds %d allocated units for reservation %s",
				res.LotID, res.Quantity, reservationID,
			))
		}

		updated, err := s.lots.FindByIDTx(ctx, tx, res.LotID)
		if err != nil {
			return err
		}
		entries = append(entries, movementEntry(updated, audit.ActionRelease, res.Quantity, caller, now))
		released = true

		return nil
	})
	if err != nil {
		return false, nil, err
	}

	return released, entries, nil
}

// ReleaseExpired releases every stale hold: past expiry and never released.
// Per-hold failures are logged and skipped so one bad hold cannot stall
// the sweep. Returns the number of holds released.
func (s *ReservationService) ReleaseExpired(ctx context.Context, limit int) (int, error) {
	now := time.Now().UTC()
	expired, err := s.reservations.FindExpired(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, res := range expired {
		did, _, err := s.Release(ctx, res.ID, Caller{Actor: "sweep"})
		if err != nil {
			s.logger.Warn("expired hold release failed",
				zap.String("reservationId", res.ID),
				zap.Int("lotId", res.LotID),
				zap.Error(err),
			)
			continue
		}
		if did {
			released++
		}
	}

	return released, nil
}
