package pricing

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "stockroom/internal/errors"
)

type Controller struct {
	service *Service
	logger  *zap.Logger
}

func NewController(service *Service, logger *zap.Logger) *Controller {
	return &Controller{service: service, logger: logger}
}

type priceResponse struct {
	TraceID       string    `json:"traceId"`
	ProductID     int       `json:"productId"`
	CustomerGroup string    `json:"customerGroup,omitempty"`
	Qty           int       `json:"qty"`
	UnitPrice     float64   `json:"unitPrice"`
	Timestamp     time.Time `json:"timestamp"`
}

func (c *Controller) HandleResolvePrice(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()

	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil || productID <= 0 {
		c.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "VALIDATION_ERROR",
			"message": "productId must be a positive integer",
		})
		return
	}

	qty := 1
	if raw := r.URL.Query().Get("qty"); raw != "" {
		qty, err = strconv.Atoi(raw)
		if err != nil {
			c.writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":   "VALIDATION_ERROR",
				"message": "qty must be a positive integer",
			})
			return
		}
	}
	group := r.URL.Query().Get("group")

	price, err := c.service.ResolvePrice(r.Context(), productID, group, qty)
	if err != nil {
		if ve, ok := apperrors.IsValidationError(err); ok {
			c.writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":   "VALIDATION_ERROR",
				"message": ve.Message,
			})
			return
		}
		if _, ok := apperrors.IsNotFoundError(err); ok {
			c.writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "NOT_FOUND",
				"message": err.Error(),
			})
			return
		}
		c.logger.Error("price resolution failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, priceResponse{
		TraceID:       traceID,
		ProductID:     productID,
		CustomerGroup: group,
		Qty:           qty,
		UnitPrice:     price,
		Timestamp:     time.Now().UTC(),
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
