package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockroom/internal/testutil"
)

func TestMySQLRecorder_Record(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	recorder := NewMySQLRecorder(db, zap.NewNop())
	now := time.Now().UTC().Truncate(time.Microsecond)

	recorder.Record(context.Background(),
		Entry{
			LotID: 1, Action: ActionAllocate, Quantity: 3,
			OnHandBefore: 5, OnHandAfter: 5,
			AllocatedBefore: 0, AllocatedAfter: 3,
			Actor: "oms", CorrelationID: "order-1", OccurredAt: now,
		},
		Entry{
			LotID: 1, Action: ActionShip, Quantity: 3,
			OnHandBefore: 5, OnHandAfter: 2,
			AllocatedBefore: 3, AllocatedAfter: 0,
			Actor: "wms", CorrelationID: "ship-1", OccurredAt: now,
		},
	)

	rows, err := db.Query(`SELECT action, quantity, onHandAfter, allocatedAfter, actor FROM InventoryAudits WHERE lotId = 1 ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		action         string
		quantity       int
		onHandAfter    int
		allocatedAfter int
		actor          string
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.action, &r.quantity, &r.onHandAfter, &r.allocatedAfter, &r.actor))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	assert.Equal(t, row{ActionAllocate, 3, 5, 3, "oms"}, got[0])
	assert.Equal(t, row{ActionShip, 3, 2, 0, "wms"}, got[1])
}

func TestMySQLRecorder_FailureDoesNotPanic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	recorder := NewMySQLRecorder(db, zap.NewNop())

	// A cancelled context fails the insert; Record only logs.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	recorder.Record(ctx, Entry{LotID: 1, Action: ActionReserve, Quantity: 1, OccurredAt: time.Now().UTC()})

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM InventoryAudits`).Scan(&count))
	assert.Equal(t, 0, count)
}
