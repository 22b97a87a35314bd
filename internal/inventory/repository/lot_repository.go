package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/errors"
)

const lotColumns = `id, productId, batchId, quantityOnHand, quantityAllocated,
	       quantityAvailable, lastMovementDate, createdAt, updatedAt`

type MySQLLotRepository struct {
	db *sql.DB
}

func NewMySQLLotRepository(db *sql.DB) *MySQLLotRepository {
	return &MySQLLotRepository{db: db}
}

func (r *MySQLLotRepository) FindByID(ctx context.Context, lotID int) (*domain.InventoryLot, error) {
	query := fmt.Sprintf(`SELECT %s FROM InventoryLots WHERE id = ?`, lotColumns)
	return r.scanLot(r.db.QueryRowContext(ctx, query, lotID), lotID)
}

func (r *MySQLLotRepository) FindByIDTx(ctx context.Context, tx *sql.Tx, lotID int) (*domain.InventoryLot, error) {
	query := fmt.Sprintf(`SELECT %s FROM InventoryLots WHERE id = ?`, lotColumns)
	return r.scanLot(tx.QueryRowContext(ctx, query, lotID), lotID)
}

func (r *MySQLLotRepository) scanLot(row *sql.Row, lotID int) (*domain.InventoryLot, error) {
	var lot domain.InventoryLot
	err := row.Scan(
		&lot.ID, &lot.ProductID, &lot.BatchID,
		&lot.QuantityOnHand, &lot.QuantityAllocated, &lot.QuantityAvailable,
		&lot.LastMovementDate, &lot.CreatedAt, &lot.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("lot with id %d not found", lotID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying lot by id: %w", err)
	}
	return &lot, nil
}

func (r *MySQLLotRepository) FindByProduct(ctx context.Context, productID int) ([]domain.InventoryLot, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM InventoryLots
		WHERE productId = ?
		ORDER BY lastMovementDate ASC, createdAt ASC`, lotColumns)

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying lots by product: %w", err)
	}
	defer rows.Close()

	return scanLots(rows)
}

// FindAllocatable selects the FIFO candidates: every lot of the product
// with free quantity, oldest movement first, oldest creation breaking ties.
// Availability here is advisory; the guarded update re-checks it.
func (r *MySQLLotRepository) FindAllocatable(ctx context.Context, tx *sql.Tx, productID int) ([]domain.InventoryLot, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM InventoryLots
		WHERE productId = ?
		  AND quantityAvailable > 0
		ORDER BY lastMovementDate ASC, createdAt ASC`, lotColumns)

	rows, err := tx.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying allocatable lots: %w", err)
	}
	defer rows.Close()

	return scanLots(rows)
}

func scanLots(rows *sql.Rows) ([]domain.InventoryLot, error) {
	var lots []domain.InventoryLot
	for rows.Next() {
		var lot domain.InventoryLot
		err := rows.Scan(
			&lot.ID, &lot.ProductID, &lot.BatchID,
			&lot.QuantityOnHand, &lot.QuantityAllocated, &lot.QuantityAvailable,
			&lot.LastMovementDate, &lot.CreatedAt, &lot.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning lot row: %w", err)
		}
		lots = append(lots, lot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lot rows: %w", err)
	}

	return lots, nil
}

// TakeAvailable moves qty from available to allocated in one statement.
// The predicate re-checks availability at update time; zero rows affected
// means a concurrent taker got there first.
func (r *MySQLLotRepository) TakeAvailable(ctx context.Context, tx *sql.Tx, lotID, qty int, now time.Time) (bool, error) {
	query := `
		UPDATE InventoryLots
		SET quantityAllocated = quantityAllocated + ?,
		    quantityAvailable = quantityAvailable - ?,
		    lastMovementDate = ?
		WHERE id = ?
		  AND quantityAvailable >= ?
	`

	result, err := tx.ExecContext(ctx, query, qty, qty, now, lotID, qty)
	if err != nil {
		return false, fmt.Errorf("taking available quantity: %w", err)
	}

	return affectedRows(result)
}

func (r *MySQLLotRepository) ReleaseAllocated(ctx context.Context, tx *sql.Tx, lotID, qty int) (bool, error) {
	query := `
		UPDATE InventoryLots
		SET quantityAllocated = quantityAllocated - ?,
		    quantityAvailable = quantityAvailable + ?
		WHERE id = ?
		  AND quantityAllocated >= ?
	`

	result, err := tx.ExecContext(ctx, query, qty, qty, lotID, qty)
	if err != nil {
		return false, fmt.Errorf("releasing allocated quantity: %w", err)
	}

	return affectedRows(result)
}

func (r *MySQLLotRepository) ShipAllocated(ctx context.Context, tx *sql.Tx, lotID, qty int, now time.Time) (bool, error) {
	query := `
		UPDATE InventoryLots
		SET quantityOnHand = quantityOnHand - ?,
		    quantityAllocated = quantityAllocated - ?,
		    lastMovementDate = ?
		WHERE id = ?
		  AND quantityOnHand >= ?
		  AND quantityAllocated >= ?
	`

	result, err := tx.ExecContext(ctx, query, qty, qty, now, lotID, qty, qty)
	if err != nil {
		return false, fmt.Errorf("shipping allocated quantity: %w", err)
	}

	return affectedRows(result)
}

func affectedRows(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return n > 0, nil
}
