package catalog

import "context"

// Repository defines data access for the product catalog.
//
// stock_quantity is read here but never written: every stock change goes
// through the inventory module's movements, which pair the atomic update
// with an audit log row in one transaction.
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListProducts(ctx context.Context, categoryID string, activeOnly bool) ([]*Product, error)
	ListLowStock(ctx context.Context) ([]*Product, error)
}
