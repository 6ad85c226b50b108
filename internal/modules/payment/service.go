package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxefurniture/luxe-backend/internal/modules/inventory"
	"github.com/luxefurniture/luxe-backend/internal/modules/order"
)

// OrderService is the slice of the order module the orchestrator needs.
type OrderService interface {
	GetOrder(ctx context.Context, id string) (*order.Order, error)
	ConfirmPayment(ctx context.Context, id string) (*order.Order, error)
}

// InventoryAdjuster is the slice of the inventory module the orchestrator
// needs.
type InventoryAdjuster interface {
	ApplyOrderDecrement(ctx context.Context, orderID uuid.UUID, items []inventory.LineItem) error
	CompleteOrderDecrement(ctx context.Context, orderID uuid.UUID, items []inventory.LineItem) error
}

// Service is the payment ledger and reconciliation orchestrator.
type Service interface {
	// Initiate creates the ledger record for an order and opens a checkout
	// session at the provider.
	Initiate(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error)

	// HandleEvent processes one inbound provider notification. Duplicate
	// deliveries are no-ops; unknown event kinds are accepted and ignored.
	HandleEvent(ctx context.Context, ev *PaymentEvent) error

	// VerifyAndSettle asks the provider for the transaction status and, on a
	// confirmed outcome, runs the same settlement path as the webhook.
	VerifyAndSettle(ctx context.Context, reference string) (*PaymentRecord, error)

	GetByReference(ctx context.Context, reference string) (*PaymentRecord, error)

	// ListReconciliationPending returns settled payments whose downstream
	// effects have not completed.
	ListReconciliationPending(ctx context.Context) ([]*PaymentRecord, error)

	// Reconcile completes the order confirmation and stock decrement for a
	// payment flagged reconciliation_pending.
	Reconcile(ctx context.Context, reference string) (*PaymentRecord, error)
}

type service struct {
	repo    Repository
	gateway Gateway
	orders  OrderService
	stock   InventoryAdjuster
	locks   *refLocks
	zl      *zap.Logger
}

// NewService creates the payment service.
func NewService(repo Repository, gateway Gateway, orders OrderService, stock InventoryAdjuster, zl *zap.Logger) Service {
	return &service{
		repo:    repo,
		gateway: gateway,
		orders:  orders,
		stock:   stock,
		locks:   newRefLocks(),
		zl:      zl,
	}
}

func (s *service) Initiate(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order_id: %w", err)
	}
	o, err := s.orders.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("order %s not found", req.OrderID)
	}
	if o.PaymentStatus != order.PaymentPending {
		return nil, fmt.Errorf("order %s payment is already %s", req.OrderID, o.PaymentStatus)
	}

	// Persist the ledger record before calling the provider so a crashed
	// initialize never loses the attempt.
	rec, err := s.repo.CreateIfAbsent(ctx, &PaymentRecord{
		ID:          uuid.New(),
		Reference:   generateReference(),
		OrderID:     orderID,
		Status:      StatusPending,
		AmountMinor: o.TotalMinor,
		Currency:    "NGN",
	})
	if err != nil {
		return nil, err
	}

	init, err := s.gateway.Initialize(ctx, GatewayInitRequest{
		Reference:   rec.Reference,
		Email:       req.Email,
		AmountMinor: rec.AmountMinor,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("provider initialize failed: %w", err)
	}
	return &InitiatePaymentResponse{
		Record:           rec,
		AuthorizationURL: init.AuthorizationURL,
		AccessCode:       init.AccessCode,
	}, nil
}

func (s *service) HandleEvent(ctx context.Context, ev *PaymentEvent) error {
	if ev.Kind != EventChargeSuccess {
		s.zl.Debug("ignoring webhook event", zap.String("event", ev.Kind))
		return nil
	}

	rec, err := s.repo.GetByReference(ctx, ev.Reference)
	if errors.Is(err, ErrPaymentNotFound) {
		// The provider may notify about transactions this system never
		// initiated. Accept and ignore, but leave a trace.
		s.zl.Warn("webhook for unknown reference", zap.String("reference", ev.Reference))
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Status == StatusSuccess && !rec.ReconciliationPending {
		// Duplicate delivery after a fully reconciled settlement.
		return nil
	}

	s.locks.lock(ev.Reference)
	defer s.locks.unlock(ev.Reference)
	return s.settleSuccess(ctx, rec, ev.RawPayload)
}

func (s *service) VerifyAndSettle(ctx context.Context, reference string) (*PaymentRecord, error) {
	rec, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if rec.Status == StatusSuccess && !rec.ReconciliationPending {
		return rec, nil
	}

	verify, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("provider verify failed: %w", err)
	}
	payload, _ := json.Marshal(verify)

	s.locks.lock(reference)
	defer s.locks.unlock(reference)

	switch verify.Status {
	case "success":
		if err := s.settleSuccess(ctx, rec, payload); err != nil {
			return nil, err
		}
	case "failed", "abandoned":
		if err := s.settleFailed(ctx, reference, payload); err != nil {
			return nil, err
		}
	default:
		// Still pending at the provider; nothing to settle.
	}
	return s.repo.GetByReference(ctx, reference)
}

func (s *service) GetByReference(ctx context.Context, reference string) (*PaymentRecord, error) {
	return s.repo.GetByReference(ctx, reference)
}

func (s *service) ListReconciliationPending(ctx context.Context) ([]*PaymentRecord, error) {
	return s.repo.ListReconciliationPending(ctx)
}

func (s *service) Reconcile(ctx context.Context, reference string) (*PaymentRecord, error) {
	s.locks.lock(reference)
	defer s.locks.unlock(reference)

	rec, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusSuccess || !rec.ReconciliationPending {
		return nil, ErrNotReconcilable
	}
	if err := s.applyDownstream(ctx, rec, false); err != nil {
		return nil, err
	}
	return s.repo.GetByReference(ctx, reference)
}

// ── settlement ───────────────────────────────────────────────────────────────

// settleSuccess drives the ledger compare-and-set and, for the winner, the
// downstream order and inventory effects. Callers hold the reference lock.
func (s *service) settleSuccess(ctx context.Context, rec *PaymentRecord, payload []byte) error {
	settled, err := s.repo.Settle(ctx, rec.Reference, StatusSuccess, payload)
	if err != nil {
		return err
	}
	if settled {
		return s.applyDownstream(ctx, rec, true)
	}

	// Lost the compare-and-set: the record was already terminal.
	current, err := s.repo.GetByReference(ctx, rec.Reference)
	if err != nil {
		return err
	}
	switch {
	case current.Status == StatusSuccess && current.ReconciliationPending:
		// An earlier delivery settled but died mid-reconciliation. This
		// redelivery is the retry that finishes the job.
		return s.applyDownstream(ctx, current, false)
	case current.Status == StatusSuccess:
		return nil
	default:
		s.zl.Error("conflicting settlement outcome",
			zap.String("reference", rec.Reference),
			zap.String("existing_status", string(current.Status)))
		return fmt.Errorf("%w: reference %s is already %s",
			ErrAlreadySettled, rec.Reference, current.Status)
	}
}

func (s *service) settleFailed(ctx context.Context, reference string, payload []byte) error {
	settled, err := s.repo.Settle(ctx, reference, StatusFailed, payload)
	if err != nil {
		return err
	}
	if settled {
		return nil
	}
	current, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	if current.Status == StatusFailed {
		return nil
	}
	return fmt.Errorf("%w: reference %s is already %s",
		ErrAlreadySettled, reference, current.Status)
}

// applyDownstream confirms the order and decrements stock. firstRun selects
// the plain decrement; the repair path uses the once-only variant so items
// that already landed are not applied twice.
func (s *service) applyDownstream(ctx context.Context, rec *PaymentRecord, firstRun bool) error {
	o, err := s.orders.ConfirmPayment(ctx, rec.OrderID.String())
	if err != nil && !errors.Is(err, order.ErrAlreadyPaid) {
		return s.partial(rec, "order confirmation", err)
	}

	items := make([]inventory.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, inventory.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	if firstRun {
		err = s.stock.ApplyOrderDecrement(ctx, rec.OrderID, items)
	} else {
		err = s.stock.CompleteOrderDecrement(ctx, rec.OrderID, items)
	}
	if err != nil {
		return s.partial(rec, "inventory decrement", err)
	}

	// Settlement left the record flagged; only a completed reconciliation
	// takes the flag off. A failed clear surfaces as an error so the next
	// delivery retries it.
	if err := s.repo.SetReconciliationPending(ctx, rec.Reference, false); err != nil {
		return err
	}
	s.zl.Info("payment reconciled",
		zap.String("reference", rec.Reference),
		zap.String("order_id", rec.OrderID.String()),
		zap.Int("items", len(items)))
	return nil
}

// partial reports a settled payment with missing downstream effects. The
// record is already flagged reconciliation_pending from the settlement write
// itself, so no further state change is needed here and the discrepancy is
// never swallowed.
func (s *service) partial(rec *PaymentRecord, step string, cause error) error {
	perr := &PartialReconciliationError{
		Reference: rec.Reference,
		OrderID:   rec.OrderID,
		Step:      step,
		Err:       cause,
	}
	s.zl.Error("partial reconciliation",
		zap.String("reference", rec.Reference),
		zap.String("step", step),
		zap.Error(cause))
	return perr
}

func generateReference() string {
	return fmt.Sprintf("LXP-%s", uuid.New())
}
