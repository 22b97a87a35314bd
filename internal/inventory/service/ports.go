package service

import (
	"context"
	"database/sql"
	"time"

	"stockroom/internal/domain"
)

// TransactionManager runs fn inside one transaction; a non-nil error from
// fn rolls back every mutation made so far.
type TransactionManager interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// LotRepository is the ledger access the services need. All mutating
// methods are guarded single-statement updates: they return false when the
// WHERE predicate no longer held at update time (zero rows affected) and
// never read-modify-write quantities in application code.
type LotRepository interface {
	FindByID(ctx context.Context, lotID int) (*domain.InventoryLot, error)
	FindByIDTx(ctx context.Context, tx *sql.Tx, lotID int) (*domain.InventoryLot, error)
	FindByProduct(ctx context.Context, productID int) ([]domain.InventoryLot, error)
	FindAllocatable(ctx context.Context, tx *sql.Tx, productID int) ([]domain.InventoryLot, error)

	// TakeAvailable moves qty from available to allocated, guarded by
	// quantityAvailable >= qty, and stamps the movement date.
	TakeAvailable(ctx context.Context, tx *sql.Tx, lotID, qty int, now time.Time) (bool, error)

	// ReleaseAllocated moves qty from allocated back to available, guarded
	// by quantityAllocated >= qty. Never touches on-hand.
	ReleaseAllocated(ctx context.Context, tx *sql.Tx, lotID, qty int) (bool, error)

	// ShipAllocated decrements on-hand and allocated together, guarded by
	// both quantityOnHand >= qty and quantityAllocated >= qty.
	ShipAllocated(ctx context.Context, tx *sql.Tx, lotID, qty int, now time.Time) (bool, error)
}

type ReservationRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, res domain.Reservation) error
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)

	// ClaimRelease stamps releasedAt, guarded by releasedAt IS NULL. A
	// false return on an existing row means the hold was already released.
	ClaimRelease(ctx context.Context, tx *sql.Tx, id string, releasedAt time.Time) (bool, error)
	FindExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.Reservation, error)
}

// Caller identifies who asked for a movement, for audit trails.
type Caller struct {
	Actor         string
	CorrelationID string
}
