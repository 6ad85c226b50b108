package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSQL = `
	SELECT id, order_number, user_id, status, payment_status,
	       subtotal_minor, discount_minor, shipping_minor, total_minor,
	       notes, created_at, updated_at
	FROM orders`

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, order_number, user_id, status, payment_status,
		   subtotal_minor, discount_minor, shipping_minor, total_minor, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, o.OrderNumber, o.UserID, o.Status, o.PaymentStatus,
		o.SubtotalMinor, o.DiscountMinor, o.ShippingMinor, o.TotalMinor,
		nilIfEmpty(o.Notes))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, product_name, quantity, price_minor)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			item.ID, o.ID, item.ProductID, item.ProductName,
			item.Quantity, item.PriceMinor)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, selectSQL+" WHERE id=$1", id))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID.String())
	return o, err
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, selectSQL+" WHERE order_number=$1", orderNumber))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID.String())
	return o, err
}

func (r *postgresRepo) ListOrdersByUser(ctx context.Context, userID string) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, selectSQL+" WHERE user_id=$1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ConfirmPayment flips (pending, pending) to (processing, paid). The WHERE
// guard makes the statement a compare-and-set: under concurrent confirmations
// exactly one caller sees applied=true.
func (r *postgresRepo) ConfirmPayment(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status=$1, payment_status=$2, updated_at=$3
		WHERE id=$4 AND status=$5 AND payment_status=$6`,
		StatusProcessing, PaymentPaid, time.Now(),
		id, StatusPending, PaymentPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *postgresRepo) GetProductPricing(ctx context.Context, productID string) (ProductPricing, error) {
	var p ProductPricing
	var salePrice sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT name, price_minor, sale_price_minor, is_active
		FROM products WHERE id=$1`, productID).
		Scan(&p.Name, &p.PriceMinor, &salePrice, &p.IsActive)
	if err != nil {
		return ProductPricing{}, err
	}
	if salePrice.Valid && salePrice.Int64 > 0 {
		p.PriceMinor = salePrice.Int64
	}
	return p, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scanOrder(row rowScanner) (*Order, error) {
	o := &Order{}
	var notes sql.NullString
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.PaymentStatus,
		&o.SubtotalMinor, &o.DiscountMinor, &o.ShippingMinor, &o.TotalMinor,
		&notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		o.Notes = notes.String
	}
	return o, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID string) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price_minor, created_at
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.PriceMinor, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
