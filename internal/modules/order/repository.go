package order

import "context"

// ProductPricing is the catalog snapshot an order line is built from.
type ProductPricing struct {
	Name       string
	PriceMinor int64
	IsActive   bool
}

// Repository defines data access for orders.
//
// ConfirmPayment must update status and payment_status in a single atomic
// statement guarded on the current (pending, pending) state, and report
// whether that guard matched. Everything the state machine needs to stay
// consistent under concurrent webhooks hangs off that contract.
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*Order, error)
	ConfirmPayment(ctx context.Context, id string) (applied bool, err error)
	GetProductPricing(ctx context.Context, productID string) (ProductPricing, error)
}
