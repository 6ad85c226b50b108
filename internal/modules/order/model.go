package order

import (
	"time"

	"github.com/google/uuid"
)

// Status is the fulfilment lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus tracks whether the order has been paid for.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is a customer order. status and payment_status move together:
// confirming payment flips (pending, pending) to (processing, paid) in one
// atomic update, so no reader ever sees a paid order still pending.
type Order struct {
	ID            uuid.UUID     `json:"id"`
	OrderNumber   string        `json:"order_number"`
	UserID        uuid.UUID     `json:"user_id"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	SubtotalMinor int64         `json:"subtotal_minor"`
	DiscountMinor int64         `json:"discount_minor"`
	ShippingMinor int64         `json:"shipping_minor"`
	TotalMinor    int64         `json:"total_minor"`
	Notes         string        `json:"notes,omitempty"`
	Items         []*Item       `json:"items,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Item is one order line. Name and price are snapshots taken at checkout and
// never change afterwards, regardless of later catalog edits.
type Item struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	PriceMinor  int64     `json:"price_minor"`
	CreatedAt   time.Time `json:"created_at"`
}

// CartItem describes what a customer wants at checkout.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	UserID        string     `json:"user_id"`
	Items         []CartItem `json:"items"`
	DiscountMinor int64      `json:"discount_minor,omitempty"`
	ShippingMinor int64      `json:"shipping_minor,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}
