package inventory

import "time"

type AllocateRequest struct {
	Quantity      int    `json:"quantity"`
	Actor         string `json:"actor,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

type AllocationLineDTO struct {
	LotID    int `json:"lotId"`
	BatchID  int `json:"batchId"`
	Quantity int `json:"quantity"`
}

type AllocateResponse struct {
	TraceID   string              `json:"traceId"`
	ProductID int                 `json:"productId"`
	Quantity  int                 `json:"quantity"`
	Lines     []AllocationLineDTO `json:"lines"`
	Timestamp time.Time           `json:"timestamp"`
}

type ReserveRequest struct {
	ProductID     int        `json:"productId"`
	LotID         int        `json:"lotId,omitempty"`
	Quantity      int        `json:"quantity"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Actor         string     `json:"actor,omitempty"`
	CorrelationID string     `json:"correlationId,omitempty"`
}

type ReservationDTO struct {
	ID         string     `json:"id"`
	ProductID  int        `json:"productId"`
	LotID      int        `json:"lotId"`
	BatchID    int        `json:"batchId"`
	Quantity   int        `json:"quantity"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	ReleasedAt *time.Time `json:"releasedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type ReserveResponse struct {
	TraceID     string         `json:"traceId"`
	Reservation ReservationDTO `json:"reservation"`
	Timestamp   time.Time      `json:"timestamp"`
}

type ReleaseReservationResponse struct {
	TraceID         string    `json:"traceId"`
	ReservationID   string    `json:"reservationId"`
	Released        bool      `json:"released"`
	AlreadyReleased bool      `json:"alreadyReleased"`
	Timestamp       time.Time `json:"timestamp"`
}

type MoveRequest struct {
	Quantity      int    `json:"quantity"`
	Actor         string `json:"actor,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

type LotDTO struct {
	ID                int       `json:"id"`
	ProductID         int       `json:"productId"`
	BatchID           int       `json:"batchId"`
	QuantityOnHand    int       `json:"quantityOnHand"`
	QuantityAllocated int       `json:"quantityAllocated"`
	QuantityAvailable int       `json:"quantityAvailable"`
	LastMovementDate  time.Time `json:"lastMovementDate"`
	CreatedAt         time.Time `json:"createdAt"`
}

type LotResponse struct {
	TraceID   string    `json:"traceId"`
	Lot       LotDTO    `json:"lot"`
	Timestamp time.Time `json:"timestamp"`
}

type LotListResponse struct {
	TraceID   string    `json:"traceId"`
	ProductID int       `json:"productId"`
	Lots      []LotDTO  `json:"lots"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Remainder int       `json:"remainder,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
