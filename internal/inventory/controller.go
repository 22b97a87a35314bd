package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/inventory/service"
)

type Controller struct {
	allocate AllocateUseCase
	holds    HoldUseCase
	fulfill  FulfillUseCase
	stock    StockReader
	logger   *zap.Logger
}

func NewController(
	allocate AllocateUseCase,
	holds HoldUseCase,
	fulfill FulfillUseCase,
	stock StockReader,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		allocate: allocate,
		holds:    holds,
		fulfill:  fulfill,
		stock:    stock,
		logger:   logger,
	}
}

func (c *Controller) HandleAllocate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, ok := c.pathID(w, r, traceID, "productId")
	if !ok {
		return
	}

	var req AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Quantity <= 0 {
		c.writeValidationError(w, "quantity must be a positive integer", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
		return
	}

	allocation, err := c.allocate.Allocate(r.Context(), productID, req.Quantity, service.Caller{
		Actor:         req.Actor,
		CorrelationID: req.CorrelationID,
	})
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	lines := make([]AllocationLineDTO, len(allocation))
	for i, la := range allocation {
		lines[i] = AllocationLineDTO{LotID: la.LotID, BatchID: la.BatchID, Quantity: la.Quantity}
	}

	c.writeJSON(w, http.StatusOK, AllocateResponse{
		TraceID:   traceID,
		ProductID: productID,
		Quantity:  req.Quantity,
		Lines:     lines,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) HandleReserve(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := c.validateReserveRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	res, err := c.holds.Reserve(r.Context(), service.ReserveRequest{
		ProductID: req.ProductID,
		LotID:     req.LotID,
		Quantity:  req.Quantity,
		ExpiresAt: req.ExpiresAt,
		Caller: service.Caller{
			Actor:         req.Actor,
			CorrelationID: req.CorrelationID,
		},
	})
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, ReserveResponse{
		TraceID:     traceID,
		Reservation: toReservationDTO(*res),
		Timestamp:   time.Now().UTC(),
	})
}

func (c *Controller) validateReserveRequest(req ReserveRequest) error {
	var details []apperrors.ValidationDetail

	if req.ProductID <= 0 && req.LotID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId or lotId is required",
		})
	}

	if req.Quantity <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "expiresAt",
			Message: "expiresAt must be in the future",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *Controller) HandleReleaseReservation(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	reservationID := chi.URLParam(r, "reservationId")
	if _, err := uuid.Parse(reservationID); err != nil {
		c.writeValidationError(w, "invalid reservationId", apperrors.ValidationDetail{
			Field:   "reservationId",
			Message: "reservationId must be a UUID",
		})
		return
	}

	released, err := c.holds.Release(r.Context(), reservationID, service.Caller{
		Actor: r.Header.Get("X-Actor"),
	})
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, ReleaseReservationResponse{
		TraceID:         traceID,
		ReservationID:   reservationID,
		Released:        released,
		AlreadyReleased: !released,
		Timestamp:       time.Now().UTC(),
	})
}

func (c *Controller) HandleShip(w http.ResponseWriter, r *http.Request) {
	c.handleLotMove(w, r, c.fulfill.Ship)
}

func (c *Controller) HandleReleaseLot(w http.ResponseWriter, r *http.Request) {
	c.handleLotMove(w, r, c.fulfill.ReleaseAllocation)
}

func (c *Controller) handleLotMove(
	w http.ResponseWriter,
	r *http.Request,
	move func(ctx context.Context, lotID, quantity int, caller service.Caller) (*domain.InventoryLot, error),
) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	lotID, ok := c.pathID(w, r, traceID, "lotId")
	if !ok {
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Quantity <= 0 {
		c.writeValidationError(w, "quantity must be a positive integer", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
		return
	}

	lot, err := move(r.Context(), lotID, req.Quantity, service.Caller{
		Actor:         req.Actor,
		CorrelationID: req.CorrelationID,
	})
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, LotResponse{
		TraceID:   traceID,
		Lot:       toLotDTO(*lot),
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) HandleListLots(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, ok := c.pathID(w, r, traceID, "productId")
	if !ok {
		return
	}

	lots, err := c.stock.FindByProduct(r.Context(), productID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	dtos := make([]LotDTO, len(lots))
	for i, lot := range lots {
		dtos[i] = toLotDTO(lot)
	}

	c.writeJSON(w, http.StatusOK, LotListResponse{
		TraceID:   traceID,
		ProductID: productID,
		Lots:      dtos,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) pathID(w http.ResponseWriter, r *http.Request, traceID, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		c.writeValidationError(w, "invalid "+name, apperrors.ValidationDetail{
			Field:   name,
			Message: name + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func (c *Controller) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	if se, ok := apperrors.IsShortfallError(err); ok {
		c.writeError(w, traceID, http.StatusUnprocessableEntity, "SHORTFALL", se.Error(), se.Remainder)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), 0)
		return
	}

	if _, ok := apperrors.IsInsufficientStateError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), 0)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "DEADLOCK", err.Error(), 0)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", 0)
}

func toReservationDTO(res domain.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:         res.ID,
		ProductID:  res.ProductID,
		LotID:      res.LotID,
		BatchID:    res.BatchID,
		Quantity:   res.Quantity,
		ExpiresAt:  res.ExpiresAt,
		ReleasedAt: res.ReleasedAt,
		CreatedAt:  res.CreatedAt,
	}
}

func toLotDTO(lot domain.InventoryLot) LotDTO {
	return LotDTO{
		ID:                lot.ID,
		ProductID:         lot.ProductID,
		BatchID:           lot.BatchID,
		QuantityOnHand:    lot.QuantityOnHand,
		QuantityAllocated: lot.QuantityAllocated,
		QuantityAvailable: lot.QuantityAvailable,
		LastMovementDate:  lot.LastMovementDate,
		CreatedAt:         lot.CreatedAt,
	}
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeError(w http.ResponseWriter, traceID string, status int, code, message string, remainder int) {
	c.writeJSON(w, status, ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Remainder: remainder,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
