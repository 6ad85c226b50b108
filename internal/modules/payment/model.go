package payment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle of a payment attempt. Terminal states are success
// and failed; transition out of pending happens at most once per reference.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Terminal reports whether the status is settled.
func (s Status) Terminal() bool { return s == StatusSuccess || s == StatusFailed }

// EventChargeSuccess is the provider event kind that settles a payment.
const EventChargeSuccess = "charge.success"

// PaymentRecord is the durable ledger row for one payment attempt, keyed by
// the provider-issued reference. Exactly one record exists per reference.
type PaymentRecord struct {
	ID          uuid.UUID       `json:"id"`
	Reference   string          `json:"reference"`
	OrderID     uuid.UUID       `json:"order_id"`
	Status      Status          `json:"status"`
	AmountMinor int64           `json:"amount_minor"`
	Currency    string          `json:"currency"`
	RawPayload  json.RawMessage `json:"raw_payload,omitempty"`

	// ReconciliationPending marks a payment that settled successfully but
	// whose order confirmation or stock decrement did not complete. The
	// repair endpoint clears it.
	ReconciliationPending bool `json:"reconciliation_pending"`

	SettledAt *time.Time `json:"settled_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PaymentEvent is the canonical form of an inbound provider notification.
type PaymentEvent struct {
	Kind        string
	Reference   string
	AmountMinor int64
	RawPayload  json.RawMessage
}

// InitiatePaymentRequest starts a payment attempt for an order.
type InitiatePaymentRequest struct {
	OrderID     string `json:"order_id"`
	Email       string `json:"email"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// InitiatePaymentResponse carries what the storefront needs to redirect the
// shopper to the provider's checkout page.
type InitiatePaymentResponse struct {
	Record           *PaymentRecord `json:"record"`
	AuthorizationURL string         `json:"authorization_url"`
	AccessCode       string         `json:"access_code,omitempty"`
}
