package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSQL = `
	SELECT id, category_id, name, slug, description, price_minor, sale_price_minor,
	       sku, stock_quantity, low_stock_threshold, material, color,
	       is_featured, is_active, created_at, updated_at
	FROM products`

func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, category_id, name, slug, description, price_minor, sale_price_minor,
		   sku, stock_quantity, low_stock_threshold, material, color, is_featured, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		p.ID, p.CategoryID, p.Name, p.Slug, nilIfEmpty(p.Description),
		p.PriceMinor, p.SalePriceMinor, nilIfEmpty(p.SKU),
		p.StockQuantity, p.LowStockThreshold,
		nilIfEmpty(p.Material), nilIfEmpty(p.Color), p.IsFeatured, p.IsActive)
	return err
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id string) (*Product, error) {
	return r.scan(r.db.QueryRowContext(ctx, selectSQL+" WHERE id=$1", id))
}

func (r *postgresRepo) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return r.scan(r.db.QueryRowContext(ctx, selectSQL+" WHERE slug=$1", slug))
}

func (r *postgresRepo) ListProducts(ctx context.Context, categoryID string, activeOnly bool) ([]*Product, error) {
	query := selectSQL + ` WHERE 1=1`
	args := []interface{}{}
	if categoryID != "" {
		args = append(args, categoryID)
		query += fmt.Sprintf(` AND category_id=$%d`, len(args))
	}
	if activeOnly {
		query += ` AND is_active=true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRows(rows)
}

func (r *postgresRepo) ListLowStock(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx,
		selectSQL+` WHERE stock_quantity <= low_stock_threshold AND is_active=true
		ORDER BY stock_quantity ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRows(rows)
}

// ── scanner ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scan(row rowScanner) (*Product, error) {
	p := &Product{}
	var desc, sku, material, color sql.NullString
	var salePrice sql.NullInt64
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Slug, &desc,
		&p.PriceMinor, &salePrice, &sku,
		&p.StockQuantity, &p.LowStockThreshold,
		&material, &color, &p.IsFeatured, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		p.Description = desc.String
	}
	if sku.Valid {
		p.SKU = sku.String
	}
	if material.Valid {
		p.Material = material.String
	}
	if color.Valid {
		p.Color = color.String
	}
	if salePrice.Valid {
		v := salePrice.Int64
		p.SalePriceMinor = &v
	}
	return p, nil
}

func (r *postgresRepo) scanRows(rows *sql.Rows) ([]*Product, error) {
	products := []*Product{}
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
