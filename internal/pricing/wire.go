package pricing

import (
	"database/sql"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := NewMySQLPriceRepository(db)
	svc := NewService(repo, logger)
	return NewController(svc, logger)
}
