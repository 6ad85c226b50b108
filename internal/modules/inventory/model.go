package inventory

import (
	"time"

	"github.com/google/uuid"
)

// LogType classifies an inventory movement.
type LogType string

const (
	TypeStockOut   LogType = "stock_out"
	TypeStockIn    LogType = "stock_in"
	TypeAdjustment LogType = "adjustment"
)

// RefOrder marks movements driven by a paid order.
const RefOrder = "order"

// InventoryLog is one append-only audit row. previous_quantity and
// new_quantity are captured from the same atomic update that moved the stock,
// so replaying quantity_delta in creation order from the first row's baseline
// always reproduces the product's current stock_quantity.
type InventoryLog struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	Type             LogType   `json:"type"`
	QuantityDelta    int       `json:"quantity_delta"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	ReferenceType    string    `json:"reference_type,omitempty"`
	ReferenceID      uuid.UUID `json:"reference_id,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Movement describes a stock change to apply.
type Movement struct {
	ProductID     uuid.UUID
	Type          LogType
	QuantityDelta int // negative for stock_out
	ReferenceType string
	ReferenceID   uuid.UUID
	Notes         string
}

// LineItem is the (product, quantity) pair an order decrement operates on.
type LineItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// ReconcileReport is the result of replaying a product's audit log against
// its current stock.
type ReconcileReport struct {
	ProductID        uuid.UUID `json:"product_id"`
	Entries          int       `json:"entries"`
	BaselineQuantity int       `json:"baseline_quantity"`
	ExpectedQuantity int       `json:"expected_quantity"`
	ActualQuantity   int       `json:"actual_quantity"`
	Consistent       bool      `json:"consistent"`
}

// AdjustStockRequest is the payload for a manual stock correction.
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	Notes     string `json:"notes,omitempty"`
}
