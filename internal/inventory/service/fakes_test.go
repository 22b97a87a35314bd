package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/errors"
)

// fakeLedger backs the service tests with guarded-update semantics: every
// mutating method re-checks its predicate under the lock and reports false
// instead of mutating when it no longer holds, exactly like the zero-rows
// path of the real repository. fakeLotRepo and fakeReservationRepo are the
// interface-shaped views over it.
type fakeLedger struct {
	txMu sync.Mutex
	mu   sync.Mutex

	lots         map[int]*domain.InventoryLot
	reservations map[string]*domain.Reservation

	// denyTake simulates a concurrent allocator that drained the lot
	// between selection and update.
	denyTake map[int]bool
}

func newFakeLedger(lots ...domain.InventoryLot) *fakeLedger {
	l := &fakeLedger{
		lots:         make(map[int]*domain.InventoryLot),
		reservations: make(map[string]*domain.Reservation),
		denyTake:     make(map[int]bool),
	}
	for i := range lots {
		lot := lots[i]
		l.lots[lot.ID] = &lot
	}
	return l
}

type ledgerSnapshot struct {
	lots         map[int]*domain.InventoryLot
	reservations map[string]*domain.Reservation
}

func (l *fakeLedger) snapshot() ledgerSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := ledgerSnapshot{
		lots:         make(map[int]*domain.InventoryLot, len(l.lots)),
		reservations: make(map[string]*domain.Reservation, len(l.reservations)),
	}
	for id, lot := range l.lots {
		c := *lot
		snap.lots[id] = &c
	}
	for id, res := range l.reservations {
		c := *res
		snap.reservations[id] = &c
	}
	return snap
}

func (l *fakeLedger) restore(snap ledgerSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lots = snap.lots
	l.reservations = snap.reservations
}

func (l *fakeLedger) lot(id int) domain.InventoryLot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.lots[id]
}

func (l *fakeLedger) reservation(id string) (domain.Reservation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	res, ok := l.reservations[id]
	if !ok {
		return domain.Reservation{}, false
	}
	return *res, true
}

func sortFIFO(lots []domain.InventoryLot) {
	sort.Slice(lots, func(i, j int) bool {
		if !lots[i].LastMovementDate.Equal(lots[j].LastMovementDate) {
			return lots[i].LastMovementDate.Before(lots[j].LastMovementDate)
		}
		return lots[i].CreatedAt.Before(lots[j].CreatedAt)
	})
}

type fakeLotRepo struct {
	ledger *fakeLedger
}

func (r *fakeLotRepo) FindByID(ctx context.Context, lotID int) (*domain.InventoryLot, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	lot, ok := l.lots[lotID]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("lot with id %d not found", lotID))
	}
	c := *lot
	return &c, nil
}

func (r *fakeLotRepo) FindByIDTx(ctx context.Context, tx *sql.Tx, lotID int) (*domain.InventoryLot, error) {
	return r.FindByID(ctx, lotID)
}

func (r *fakeLotRepo) FindByProduct(ctx context.Context, productID int) ([]domain.InventoryLot, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	var lots []domain.InventoryLot
	for _, lot := range l.lots {
		if lot.ProductID == productID {
			lots = append(lots, *lot)
		}
	}
	sortFIFO(lots)
	return lots, nil
}

func (r *fakeLotRepo) FindAllocatable(ctx context.Context, tx *sql.Tx, productID int) ([]domain.InventoryLot, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	var lots []domain.InventoryLot
	for _, lot := range l.lots {
		if lot.ProductID == productID && lot.QuantityAvailable > 0 {
			lots = append(lots, *lot)
		}
	}
	sortFIFO(lots)
	return lots, nil
}

func (r *fakeLotRepo) TakeAvailable(ctx context.Context, tx *sql.Tx, lotID, qty int, now time.Time) (bool, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	lot, ok := l.lots[lotID]
	if !ok || l.denyTake[lotID] || lot.QuantityAvailable < qty {
		return false, nil
	}
	lot.QuantityAllocated += qty
	lot.QuantityAvailable -= qty
	lot.LastMovementDate = now
	return true, nil
}

func (r *fakeLotRepo) ReleaseAllocated(ctx context.Context, tx *sql.Tx, lotID, qty int) (bool, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	lot, ok := l.lots[lotID]
	if !ok || lot.QuantityAllocated < qty {
		return false, nil
	}
	lot.QuantityAllocated -= qty
	lot.QuantityAvailable += qty
	return true, nil
}

func (r *fakeLotRepo) ShipAllocated(ctx context.Context, tx *sql.Tx, lotID, qty int, now time.Time) (bool, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	lot, ok := l.lots[lotID]
	if !ok || lot.QuantityOnHand < qty || lot.QuantityAllocated < qty {
		return false, nil
	}
	lot.QuantityOnHand -= qty
	lot.QuantityAllocated -= qty
	lot.LastMovementDate = now
	return true, nil
}

type fakeReservationRepo struct {
	ledger *fakeLedger
}

func (r *fakeReservationRepo) Insert(ctx context.Context, tx *sql.Tx, res domain.Reservation) error {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	c := res
	l.reservations[res.ID] = &c
	return nil
}

func (r *fakeReservationRepo) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	res, ok := l.reservations[id]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("reservation %s not found", id))
	}
	c := *res
	return &c, nil
}

func (r *fakeReservationRepo) ClaimRelease(ctx context.Context, tx *sql.Tx, id string, releasedAt time.Time) (bool, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	res, ok := l.reservations[id]
	if !ok || res.ReleasedAt != nil {
		return false, nil
	}
	t := releasedAt
	res.ReleasedAt = &t
	return true, nil
}

func (r *fakeReservationRepo) FindExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.Reservation, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	var expired []domain.Reservation
	for _, res := range l.reservations {
		if res.ReleasedAt == nil && res.ExpiresAt.Before(asOf) {
			expired = append(expired, *res)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ExpiresAt.Before(expired[j].ExpiresAt) })
	if len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}

// fakeTxManager serializes transactions and rolls the ledger back to its
// pre-transaction state when fn fails, mirroring the all-or-nothing
// behavior of the real runner.
type fakeTxManager struct {
	ledger *fakeLedger
}

func (m *fakeTxManager) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	m.ledger.txMu.Lock()
	defer m.ledger.txMu.Unlock()

	snap := m.ledger.snapshot()
	if err := fn(nil); err != nil {
		m.ledger.restore(snap)
		return err
	}
	return nil
}
