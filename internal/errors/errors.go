package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

// ShortfallError reports a FIFO allocation that could not be satisfied in
// full. Remainder is the quantity left unsatisfied after every eligible lot
// was drained; the transaction that produced it has been rolled back.
type ShortfallError struct {
	ProductID int
	Requested int
	Remainder int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: %d of %d units unavailable", e.ProductID, e.Remainder, e.Requested)
}

func NewShortfallError(productID, requested, remainder int) *ShortfallError {
	return &ShortfallError{
		ProductID: productID,
		Requested: requested,
		Remainder: remainder,
	}
}

func IsShortfallError(err error) (*ShortfallError, bool) {
	if se, ok := err.(*ShortfallError); ok {
		return se, true
	}
	return nil, false
}

// InsufficientStateError means a guarded update on ship or release matched
// zero rows: the lot moved under the caller (double-ship, external
// adjustment). The caller must refresh its view before retrying.
type InsufficientStateError struct {
	Message string
}

func (e *InsufficientStateError) Error() string {
	return e.Message
}

func NewInsufficientStateError(message string) *InsufficientStateError {
	return &InsufficientStateError{Message: message}
}

func IsInsufficientStateError(err error) (*InsufficientStateError, bool) {
	if ie, ok := err.(*InsufficientStateError); ok {
		return ie, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if ne, ok := err.(*NotFoundError); ok {
		return ne, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	if de, ok := err.(*DeadlockError); ok {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
