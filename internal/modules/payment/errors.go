package payment

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrMalformedPayload is returned when a notification is missing
	// required fields. Non-retryable; reported to the caller as 4xx.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrInvalidSignature is returned when the provider signature does not
	// match the payload. Nothing is mutated.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrAlreadySettled is returned when a settlement conflicts with an
	// existing terminal outcome for the same reference. It signals a
	// provider inconsistency and is surfaced, never silently accepted.
	ErrAlreadySettled = errors.New("payment already settled with a different outcome")

	// ErrPaymentNotFound is returned when no ledger record exists for the
	// given reference.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrNotReconcilable is returned when repair is requested for a payment
	// that is not flagged for reconciliation.
	ErrNotReconcilable = errors.New("payment does not need reconciliation")
)

// PartialReconciliationError reports a payment that was marked paid while a
// downstream effect (order confirmation or stock decrement) failed. The
// ledger record stays flagged until a repair completes the missing work.
type PartialReconciliationError struct {
	Reference string
	OrderID   uuid.UUID
	Step      string
	Err       error
}

func (e *PartialReconciliationError) Error() string {
	return fmt.Sprintf("payment %s settled but %s failed for order %s: %v",
		e.Reference, e.Step, e.OrderID, e.Err)
}

func (e *PartialReconciliationError) Unwrap() error { return e.Err }
