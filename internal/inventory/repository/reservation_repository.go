package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/errors"
)

type MySQLReservationRepository struct {
	db *sql.DB
}

func NewMySQLReservationRepository(db *sql.DB) *MySQLReservationRepository {
	return &MySQLReservationRepository{db: db}
}

func (r *MySQLReservationRepository) Insert(ctx context.Context, tx *sql.Tx, res domain.Reservation) error {
	query := `
		INSERT INTO Reservations
			(id, productId, lotId, batchId, quantity, actor, correlationId,
			 expiresAt, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		res.ID, res.ProductID, res.LotID, res.BatchID, res.Quantity,
		res.Actor, res.CorrelationID, res.ExpiresAt, res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting reservation: %w", err)
	}

	return nil
}

func (r *MySQLReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `
		SELECT id, productId, lotId, batchId, quantity, actor, correlationId,
		       expiresAt, releasedAt, createdAt
		FROM Reservations
		WHERE id = ?
	`

	var res domain.Reservation
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.ProductID, &res.LotID, &res.BatchID, &res.Quantity,
		&res.Actor, &res.CorrelationID,
		&res.ExpiresAt, &res.ReleasedAt, &res.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("reservation %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying reservation by id: %w", err)
	}

	return &res, nil
}

// ClaimRelease stamps releasedAt on an unreleased hold. Zero rows affected
// on an existing row means another releaser already claimed it; the double
// release stays idempotent because only the claimant touches the lot.
func (r *MySQLReservationRepository) ClaimRelease(ctx context.Context, tx *sql.Tx, id string, releasedAt time.Time) (bool, error) {
	query := `
		UPDATE Reservations
		SET releasedAt = ?
		WHERE id = ?
		  AND releasedAt IS NULL
	`

	result, err := tx.ExecContext(ctx, query, releasedAt, id)
	if err != nil {
		return false, fmt.Errorf("claiming reservation release: %w", err)
	}

	return affectedRows(result)
}

func (r *MySQLReservationRepository) FindExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.Reservation, error) {
	query := `
		SELECT id, productId, lotId, batchId, quantity, actor, correlationId,
		       expiresAt, releasedAt, createdAt
		FROM Reservations
		WHERE releasedAt IS NULL
		  AND expiresAt < ?
		ORDER BY expiresAt ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("querying expired reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		err := rows.Scan(
			&res.ID, &res.ProductID, &res.LotID, &res.BatchID, &res.Quantity,
			&res.Actor, &res.CorrelationID,
			&res.ExpiresAt, &res.ReleasedAt, &res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservation rows: %w", err)
	}

	return reservations, nil
}
