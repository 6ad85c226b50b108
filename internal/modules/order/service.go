package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrOrderNotFound is returned when no order exists for the given id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrAlreadyPaid is returned when payment confirmation targets an order
	// whose payment_status is already paid.
	ErrAlreadyPaid = errors.New("order already paid")
	// ErrInvalidTransition is returned when the order is in a state from
	// which payment cannot be confirmed (cancelled, refunded, ...).
	ErrInvalidTransition = errors.New("invalid order state transition")
)

// Service defines order management business logic.
type Service interface {
	// PlaceOrder validates the cart, snapshots prices, and persists the
	// order atomically.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	// GetOrder retrieves a full order with its items by UUID.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListUserOrders returns all orders placed by a user.
	ListUserOrders(ctx context.Context, userID string) ([]*Order, error)

	// ConfirmPayment atomically moves a (pending, pending) order to
	// (processing, paid). Only a settled payment may trigger it.
	ConfirmPayment(ctx context.Context, id string) (*Order, error)
}

type service struct {
	repo Repository
}

// NewService creates a new order service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}

	var items []*Item
	var subtotal int64
	for _, ci := range req.Items {
		if ci.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be > 0 for product %s", ci.ProductID)
		}
		pid, err := uuid.Parse(ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		pricing, err := s.repo.GetProductPricing(ctx, ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", ci.ProductID)
		}
		if !pricing.IsActive {
			return nil, fmt.Errorf("product %s is not available", ci.ProductID)
		}

		subtotal += pricing.PriceMinor * int64(ci.Quantity)
		items = append(items, &Item{
			ID:          uuid.New(),
			ProductID:   pid,
			ProductName: pricing.Name,
			Quantity:    ci.Quantity,
			PriceMinor:  pricing.PriceMinor,
		})
	}

	discount := req.DiscountMinor
	if discount < 0 {
		discount = 0
	}
	total := subtotal - discount + req.ShippingMinor
	if total < 0 {
		total = 0
	}

	o := &Order{
		ID:            uuid.New(),
		OrderNumber:   generateOrderNumber(),
		UserID:        userID,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		SubtotalMinor: subtotal,
		DiscountMinor: discount,
		ShippingMinor: req.ShippingMinor,
		TotalMinor:    total,
		Notes:         req.Notes,
		Items:         items,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) ListUserOrders(ctx context.Context, userID string) ([]*Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}

func (s *service) ConfirmPayment(ctx context.Context, id string) (*Order, error) {
	applied, err := s.repo.ConfirmPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if applied {
		return s.GetOrder(ctx, id)
	}

	// The guard did not match; work out why.
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if o.PaymentStatus == PaymentPaid {
		return o, ErrAlreadyPaid
	}
	return o, fmt.Errorf("%w: cannot confirm payment from (%s, %s)",
		ErrInvalidTransition, o.Status, o.PaymentStatus)
}

// generateOrderNumber creates a human-readable order number: LUX-YYYYMMDD-XXXX
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("LUX-%s-%s", date, suffix)
}
