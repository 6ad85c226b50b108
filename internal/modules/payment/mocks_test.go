package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luxefurniture/luxe-backend/internal/modules/inventory"
	"github.com/luxefurniture/luxe-backend/internal/modules/order"
)

// ── ledger fake ──────────────────────────────────────────────────────────────

// memLedger mirrors the Postgres repository's atomicity: CreateIfAbsent is
// insert-or-ignore, Settle is a compare-and-set out of pending that flags a
// success reconciliation_pending in the same step.
type memLedger struct {
	mu             sync.Mutex
	recs           map[string]*PaymentRecord
	failFlagWrites bool
}

func newMemLedger() *memLedger {
	return &memLedger{recs: make(map[string]*PaymentRecord)}
}

func (l *memLedger) CreateIfAbsent(ctx context.Context, rec *PaymentRecord) (*PaymentRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.recs[rec.Reference]; ok {
		cp := *existing
		return &cp, nil
	}
	stored := *rec
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	l.recs[rec.Reference] = &stored
	cp := stored
	return &cp, nil
}

func (l *memLedger) GetByReference(ctx context.Context, reference string) (*PaymentRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.recs[reference]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	cp := *rec
	return &cp, nil
}

func (l *memLedger) Settle(ctx context.Context, reference string, status Status, rawPayload []byte) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.recs[reference]
	if !ok || rec.Status != StatusPending {
		return false, nil
	}
	now := time.Now()
	rec.Status = status
	rec.RawPayload = rawPayload
	rec.ReconciliationPending = status == StatusSuccess
	rec.SettledAt = &now
	rec.UpdatedAt = now
	return true, nil
}

func (l *memLedger) setFlagWritesFailing(failing bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failFlagWrites = failing
}

func (l *memLedger) SetReconciliationPending(ctx context.Context, reference string, pending bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failFlagWrites {
		return fmt.Errorf("injected storage failure")
	}
	rec, ok := l.recs[reference]
	if !ok {
		return ErrPaymentNotFound
	}
	rec.ReconciliationPending = pending
	return nil
}

func (l *memLedger) ListReconciliationPending(ctx context.Context) ([]*PaymentRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []*PaymentRecord{}
	for _, rec := range l.recs {
		if rec.ReconciliationPending {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── order repository fake ────────────────────────────────────────────────────

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*order.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*order.Order)}
}

func (r *memOrderRepo) CreateOrder(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) GetOrderByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	o, ok := r.orders[uid]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("no rows")
}

func (r *memOrderRepo) ListOrdersByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	return nil, nil
}

func (r *memOrderRepo) ConfirmPayment(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, err
	}
	o, ok := r.orders[uid]
	if !ok || o.Status != order.StatusPending || o.PaymentStatus != order.PaymentPending {
		return false, nil
	}
	o.Status = order.StatusProcessing
	o.PaymentStatus = order.PaymentPaid
	return true, nil
}

func (r *memOrderRepo) GetProductPricing(ctx context.Context, productID string) (order.ProductPricing, error) {
	return order.ProductPricing{}, fmt.Errorf("no rows")
}

// ── inventory repository fake ────────────────────────────────────────────────

// memInvRepo serializes all movements under one lock and supports failure
// injection per product for partial-reconciliation tests.
type memInvRepo struct {
	mu    sync.Mutex
	stock map[uuid.UUID]int
	logs  []*inventory.InventoryLog
	fail  map[uuid.UUID]bool
}

func newMemInvRepo() *memInvRepo {
	return &memInvRepo{
		stock: make(map[uuid.UUID]int),
		fail:  make(map[uuid.UUID]bool),
	}
}

func (r *memInvRepo) setFailing(productID uuid.UUID, failing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[productID] = failing
}

func (r *memInvRepo) Apply(ctx context.Context, m inventory.Movement) (*inventory.InventoryLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applyLocked(m)
}

func (r *memInvRepo) ApplyOnce(ctx context.Context, m inventory.Movement) (*inventory.InventoryLog, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.logs {
		if entry.ReferenceType == m.ReferenceType &&
			entry.ReferenceID == m.ReferenceID &&
			entry.ProductID == m.ProductID {
			return nil, false, nil
		}
	}
	entry, err := r.applyLocked(m)
	return entry, err == nil, err
}

func (r *memInvRepo) applyLocked(m inventory.Movement) (*inventory.InventoryLog, error) {
	if r.fail[m.ProductID] {
		return nil, fmt.Errorf("injected storage failure")
	}
	previous, ok := r.stock[m.ProductID]
	if !ok {
		return nil, fmt.Errorf("product %s not found", m.ProductID)
	}
	current := previous + m.QuantityDelta
	r.stock[m.ProductID] = current
	entry := &inventory.InventoryLog{
		ID:               uuid.New(),
		ProductID:        m.ProductID,
		Type:             m.Type,
		QuantityDelta:    m.QuantityDelta,
		PreviousQuantity: previous,
		NewQuantity:      current,
		ReferenceType:    m.ReferenceType,
		ReferenceID:      m.ReferenceID,
		Notes:            m.Notes,
		CreatedAt:        time.Now(),
	}
	r.logs = append(r.logs, entry)
	return entry, nil
}

func (r *memInvRepo) ListLogs(ctx context.Context, productID string) ([]*inventory.InventoryLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, err
	}
	var out []*inventory.InventoryLog
	for _, entry := range r.logs {
		if entry.ProductID == pid {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *memInvRepo) GetStock(ctx context.Context, productID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pid, err := uuid.Parse(productID)
	if err != nil {
		return 0, err
	}
	qty, ok := r.stock[pid]
	if !ok {
		return 0, fmt.Errorf("product %s not found", productID)
	}
	return qty, nil
}

// ── gateway fake ─────────────────────────────────────────────────────────────

type fakeGateway struct {
	mu         sync.Mutex
	initCalls  []GatewayInitRequest
	initResp   *GatewayInitResponse
	initErr    error
	verifyResp *GatewayVerifyResponse
	verifyErr  error
}

func (g *fakeGateway) Initialize(ctx context.Context, req GatewayInitRequest) (*GatewayInitResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initCalls = append(g.initCalls, req)
	if g.initErr != nil {
		return nil, g.initErr
	}
	if g.initResp != nil {
		return g.initResp, nil
	}
	return &GatewayInitResponse{
		AuthorizationURL: "https://checkout.paystack.com/" + req.Reference,
		AccessCode:       "AC_" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (g *fakeGateway) Verify(ctx context.Context, reference string) (*GatewayVerifyResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	if g.verifyResp != nil {
		return g.verifyResp, nil
	}
	return &GatewayVerifyResponse{Status: "pending", Reference: reference}, nil
}
