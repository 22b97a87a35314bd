package inventory

import (
	"database/sql"

	"go.uber.org/zap"

	"stockroom/internal/audit"
	"stockroom/internal/config"
	"stockroom/internal/infrastructure/mysql"
	"stockroom/internal/inventory/repository"
	"stockroom/internal/inventory/service"
	"stockroom/internal/inventory/usecase"
)

// Module bundles the controller with the pieces main and the sweeper need.
type Module struct {
	Controller   *Controller
	Reservations *service.ReservationService
}

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Module {
	lotRepo := repository.NewMySQLLotRepository(db)
	reservationRepo := repository.NewMySQLReservationRepository(db)
	txRunner := mysql.NewTxRunner(db, cfg.Inventory.TxTimeout)
	recorder := audit.NewMySQLRecorder(db, logger)

	allocationSvc := service.NewAllocationService(txRunner, lotRepo, logger)
	reservationSvc := service.NewReservationService(txRunner, lotRepo, reservationRepo, logger, cfg.Inventory.HoldTTL)
	shipmentSvc := service.NewShipmentService(txRunner, lotRepo, logger)
	releaseSvc := service.NewReleaseService(txRunner, lotRepo, logger)

	allocateUC := usecase.NewAllocateStockUseCase(allocationSvc, recorder, logger, cfg.Inventory.MaxRetryAttempts)
	holdUC := usecase.NewReserveHoldUseCase(reservationSvc, recorder, logger, cfg.Inventory.MaxRetryAttempts)
	fulfillUC := usecase.NewFulfillmentUseCase(shipmentSvc, releaseSvc, recorder, logger, cfg.Inventory.MaxRetryAttempts)

	return &Module{
		Controller:   NewController(allocateUC, holdUC, fulfillUC, lotRepo, logger),
		Reservations: reservationSvc,
	}
}
