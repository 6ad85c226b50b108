package inventory

import "context"

// Repository defines data access for stock movements and the audit log.
//
// Apply must perform the stock update and the log append atomically, with the
// stock read-modify-write serialized per product: two concurrent movements on
// the same product may never observe each other between read and write.
type Repository interface {
	Apply(ctx context.Context, m Movement) (*InventoryLog, error)

	// ApplyOnce applies the movement only if no log row exists yet for the
	// same (reference_type, reference_id, product_id). Used by reconciliation
	// repair to complete a partially applied order without double-counting.
	ApplyOnce(ctx context.Context, m Movement) (*InventoryLog, bool, error)

	ListLogs(ctx context.Context, productID string) ([]*InventoryLog, error)
	GetStock(ctx context.Context, productID string) (int, error)
}
