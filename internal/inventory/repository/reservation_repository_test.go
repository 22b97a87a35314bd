package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/domain"
	"stockroom/internal/errors"
	"stockroom/internal/testutil"
)

func TestReservationRepository_InsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	movement := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	productID, batchID, lotID := testutil.SeedLot(t, db, "SKU-RES", 5, 0, movement)

	repo := NewMySQLReservationRepository(db)
	res := domain.Reservation{
		ID:            uuid.New().String(),
		ProductID:     productID,
		LotID:         lotID,
		BatchID:       batchID,
		Quantity:      2,
		Actor:         "cart-svc",
		CorrelationID: "cart-42",
		ExpiresAt:     time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond),
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}

	tx := beginTx(t, db)
	require.NoError(t, repo.Insert(context.Background(), tx, res))
	require.NoError(t, tx.Commit())

	got, err := repo.FindByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, res.LotID, got.LotID)
	assert.Equal(t, res.Quantity, got.Quantity)
	assert.Equal(t, "cart-svc", got.Actor)
	assert.Nil(t, got.ReleasedAt)
	assert.WithinDuration(t, res.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestReservationRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLReservationRepository(db)
	_, err := repo.FindByID(context.Background(), uuid.New().String())

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestReservationRepository_ClaimRelease_OnlyOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	movement := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	productID, batchID, lotID := testutil.SeedLot(t, db, "SKU-CLAIM", 5, 2, movement)

	repo := NewMySQLReservationRepository(db)
	res := domain.Reservation{
		ID:        uuid.New().String(),
		ProductID: productID,
		LotID:     lotID,
		BatchID:   batchID,
		Quantity:  2,
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
		CreatedAt: time.Now().UTC(),
	}

	tx := beginTx(t, db)
	require.NoError(t, repo.Insert(context.Background(), tx, res))
	require.NoError(t, tx.Commit())

	tx = beginTx(t, db)
	claimed, err := repo.ClaimRelease(context.Background(), tx, res.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, claimed)
	require.NoError(t, tx.Commit())

	got, err := repo.FindByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ReleasedAt)

	// The second claim sees releasedAt already set and affects zero rows.
	tx = beginTx(t, db)
	claimed, err = repo.ClaimRelease(context.Background(), tx, res.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, claimed)
	require.NoError(t, tx.Commit())
}

func TestReservationRepository_FindExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	movement := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	productID, batchID, lotID := testutil.SeedLot(t, db, "SKU-EXP", 10, 6, movement)

	repo := NewMySQLReservationRepository(db)
	now := time.Now().UTC()

	newRes := func(expiresAt time.Time) domain.Reservation {
		return domain.Reservation{
			ID:        uuid.New().String(),
			ProductID: productID,
			LotID:     lotID,
			BatchID:   batchID,
			Quantity:  2,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}
	}

	staleOld := newRes(now.Add(-2 * time.Hour))
	staleNew := newRes(now.Add(-1 * time.Hour))
	active := newRes(now.Add(time.Hour))
	releasedStale := newRes(now.Add(-3 * time.Hour))

	tx := beginTx(t, db)
	for _, res := range []domain.Reservation{staleOld, staleNew, active, releasedStale} {
		require.NoError(t, repo.Insert(context.Background(), tx, res))
	}
	claimed, err := repo.ClaimRelease(context.Background(), tx, releasedStale.ID, now)
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, tx.Commit())

	expired, err := repo.FindExpired(context.Background(), now, 100)
	require.NoError(t, err)

	require.Len(t, expired, 2)
	assert.Equal(t, staleOld.ID, expired[0].ID)
	assert.Equal(t, staleNew.ID, expired[1].ID)

	// The limit caps the sweep batch, oldest expiry first.
	expired, err = repo.FindExpired(context.Background(), now, 1)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, staleOld.ID, expired[0].ID)
}
