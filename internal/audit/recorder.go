package audit

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

const (
	ActionAllocate = "ALLOCATE"
	ActionReserve  = "RESERVE"
	ActionRelease  = "RELEASE"
	ActionShip     = "SHIP"
)

// Entry is one audit record for a committed quantity movement on a lot.
type Entry struct {
	LotID           int
	Action          string
	Quantity        int
	OnHandBefore    int
	OnHandAfter     int
	AllocatedBefore int
	AllocatedAfter  int
	Actor           string
	CorrelationID   string
	OccurredAt      time.Time
}

// Recorder persists audit entries after the movement has committed.
// Recording is best-effort: a failed audit write must never undo or fail
// the movement it describes, so Record reports nothing to the caller.
type Recorder interface {
	Record(ctx context.Context, entries ...Entry)
}

type MySQLRecorder struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewMySQLRecorder(db *sql.DB, logger *zap.Logger) *MySQLRecorder {
	return &MySQLRecorder{db: db, logger: logger}
}

func (r *MySQLRecorder) Record(ctx context.Context, entries ...Entry) {
	const query = `
		INSERT INTO InventoryAudits
			(lotId, action, quantity, onHandBefore, onHandAfter,
			 allocatedBefore, allocatedAfter, actor, correlationId, occurredAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, e := range entries {
		_, err := r.db.ExecContext(ctx, query,
			e.LotID, e.Action, e.Quantity,
			e.OnHandBefore, e.OnHandAfter,
			e.AllocatedBefore, e.AllocatedAfter,
			e.Actor, e.CorrelationID, e.OccurredAt,
		)
		if err != nil {
			r.logger.Warn("audit write failed",
				zap.Int("lotId", e.LotID),
				zap.String("action", e.Action),
				zap.Error(err),
			)
		}
	}
}

// NopRecorder discards entries. Used in tests and in tools that run the
// core without an audit table.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, entries ...Entry) {}
