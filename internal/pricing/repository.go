package pricing

import (
	"context"
	"database/sql"
	"fmt"

	"stockroom/internal/errors"
)

type MySQLPriceRepository struct {
	db *sql.DB
}

func NewMySQLPriceRepository(db *sql.DB) *MySQLPriceRepository {
	return &MySQLPriceRepository{db: db}
}

// FindBestTierPrice returns the lowest tier price the buyer qualifies for.
// An empty customerGroup row applies to all groups. The second return is
// false when no tier matches.
func (r *MySQLPriceRepository) FindBestTierPrice(ctx context.Context, productID int, customerGroup string, qty int) (float64, bool, error) {
	const query = `
		SELECT price
		FROM TierPrices
		WHERE productId = ?
		  AND (customerGroup = ? OR customerGroup = '')
		  AND minQty <= ?
		ORDER BY price ASC
		LIMIT 1
	`

	var price float64
	err := r.db.QueryRowContext(ctx, query, productID, customerGroup, qty).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying tier price: %w", err)
	}

	return price, true, nil
}

func (r *MySQLPriceRepository) FindDefaultPrice(ctx context.Context, productID int) (float64, error) {
	const query = `SELECT defaultPrice FROM Products WHERE id = ?`

	var price float64
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	if err != nil {
		return 0, fmt.Errorf("querying default price: %w", err)
	}

	return price, nil
}
