package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the inventory adjuster and audit API.
//
// ApplyOrderDecrement assumes at-most-once invocation per order; the payment
// orchestrator guarantees that through its settlement gate. It does not
// inspect the log to re-derive idempotency.
type Service interface {
	ApplyOrderDecrement(ctx context.Context, orderID uuid.UUID, items []LineItem) error

	// CompleteOrderDecrement is the repair path: it applies only the line
	// items that have no audit row yet, so a partially decremented order can
	// be finished without double-counting the items that did land.
	CompleteOrderDecrement(ctx context.Context, orderID uuid.UUID, items []LineItem) error

	// AdjustStock records a manual correction or restock.
	AdjustStock(ctx context.Context, req AdjustStockRequest) (*InventoryLog, error)

	ListLogs(ctx context.Context, productID string) ([]*InventoryLog, error)

	// Reconcile replays a product's audit log from its baseline and checks
	// the sum of deltas against current stock.
	Reconcile(ctx context.Context, productID string) (*ReconcileReport, error)
}

type service struct {
	repo Repository
	zl   *zap.Logger
}

// NewService creates a new inventory service.
func NewService(repo Repository, zl *zap.Logger) Service {
	return &service{repo: repo, zl: zl}
}

func (s *service) ApplyOrderDecrement(ctx context.Context, orderID uuid.UUID, items []LineItem) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("invalid quantity %d for product %s", item.Quantity, item.ProductID)
		}
		entry, err := s.repo.Apply(ctx, s.orderMovement(orderID, item))
		if err != nil {
			return fmt.Errorf("decrement product %s for order %s: %w", item.ProductID, orderID, err)
		}
		s.noteOversold(entry)
	}
	return nil
}

func (s *service) CompleteOrderDecrement(ctx context.Context, orderID uuid.UUID, items []LineItem) error {
	for _, item := range items {
		entry, applied, err := s.repo.ApplyOnce(ctx, s.orderMovement(orderID, item))
		if err != nil {
			return fmt.Errorf("decrement product %s for order %s: %w", item.ProductID, orderID, err)
		}
		if !applied {
			continue
		}
		s.noteOversold(entry)
	}
	return nil
}

func (s *service) AdjustStock(ctx context.Context, req AdjustStockRequest) (*InventoryLog, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}
	if req.Delta == 0 {
		return nil, fmt.Errorf("delta must be non-zero")
	}
	logType := TypeAdjustment
	if req.Delta > 0 {
		logType = TypeStockIn
	}
	entry, err := s.repo.Apply(ctx, Movement{
		ProductID:     productID,
		Type:          logType,
		QuantityDelta: req.Delta,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.noteOversold(entry)
	return entry, nil
}

func (s *service) ListLogs(ctx context.Context, productID string) ([]*InventoryLog, error) {
	return s.repo.ListLogs(ctx, productID)
}

func (s *service) Reconcile(ctx context.Context, productID string) (*ReconcileReport, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}
	actual, err := s.repo.GetStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.ListLogs(ctx, productID)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{ProductID: pid, Entries: len(logs), ActualQuantity: actual}
	if len(logs) == 0 {
		report.BaselineQuantity = actual
		report.ExpectedQuantity = actual
		report.Consistent = true
		return report, nil
	}

	report.BaselineQuantity = logs[0].PreviousQuantity
	expected := report.BaselineQuantity
	for _, entry := range logs {
		expected += entry.QuantityDelta
	}
	report.ExpectedQuantity = expected
	report.Consistent = expected == actual
	if !report.Consistent {
		s.zl.Error("inventory audit mismatch",
			zap.String("product_id", productID),
			zap.Int("expected", expected),
			zap.Int("actual", actual))
	}
	return report, nil
}

func (s *service) orderMovement(orderID uuid.UUID, item LineItem) Movement {
	return Movement{
		ProductID:     item.ProductID,
		Type:          TypeStockOut,
		QuantityDelta: -item.Quantity,
		ReferenceType: RefOrder,
		ReferenceID:   orderID,
		Notes:         "stock deducted for paid order",
	}
}

// noteOversold flags products driven below zero. Oversell is a data-integrity
// warning, not a failure: blocking here would leave a paid order unfulfilled.
func (s *service) noteOversold(entry *InventoryLog) {
	if entry.NewQuantity < 0 {
		s.zl.Warn("product oversold",
			zap.String("product_id", entry.ProductID.String()),
			zap.Int("stock_quantity", entry.NewQuantity),
			zap.String("reference_id", entry.ReferenceID.String()))
	}
}
