package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Expects a unique index on inventory_logs (reference_type, reference_id,
// product_id) as the cross-process backstop for ApplyOnce.
type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Apply(ctx context.Context, m Movement) (*InventoryLog, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := r.applyInTx(ctx, tx, m)
	if err != nil {
		return nil, err
	}
	return entry, tx.Commit()
}

func (r *postgresRepo) ApplyOnce(ctx context.Context, m Movement) (*InventoryLog, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM inventory_logs
			WHERE reference_type=$1 AND reference_id=$2 AND product_id=$3
		)`, m.ReferenceType, m.ReferenceID, m.ProductID).Scan(&exists)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, false, nil
	}

	entry, err := r.applyInTx(ctx, tx, m)
	if err != nil {
		return nil, false, err
	}
	return entry, true, tx.Commit()
}

// applyInTx moves the stock and appends the audit row. The UPDATE computes
// the new quantity server-side under the row lock, so previous/new come from
// the same read the write used.
func (r *postgresRepo) applyInTx(ctx context.Context, tx *sql.Tx, m Movement) (*InventoryLog, error) {
	var current int
	err := tx.QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = $2
		WHERE id = $3
		RETURNING stock_quantity`,
		m.QuantityDelta, time.Now(), m.ProductID).Scan(&current)
	if err != nil {
		return nil, fmt.Errorf("adjust stock for product %s: %w", m.ProductID, err)
	}

	entry := &InventoryLog{
		ID:               uuid.New(),
		ProductID:        m.ProductID,
		Type:             m.Type,
		QuantityDelta:    m.QuantityDelta,
		PreviousQuantity: current - m.QuantityDelta,
		NewQuantity:      current,
		ReferenceType:    m.ReferenceType,
		ReferenceID:      m.ReferenceID,
		Notes:            m.Notes,
		CreatedAt:        time.Now(),
	}
	// Manual adjustments carry no reference; both columns stay NULL rather
	// than recording the zero UUID.
	var refType, refID interface{}
	if entry.ReferenceType != "" {
		refType = entry.ReferenceType
		refID = entry.ReferenceID
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory_logs
		  (id, product_id, type, quantity_delta, previous_quantity, new_quantity,
		   reference_type, reference_id, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		entry.ID, entry.ProductID, entry.Type, entry.QuantityDelta,
		entry.PreviousQuantity, entry.NewQuantity,
		refType, refID, nilIfEmpty(entry.Notes))
	if err != nil {
		return nil, fmt.Errorf("append inventory log: %w", err)
	}
	return entry, nil
}

func (r *postgresRepo) ListLogs(ctx context.Context, productID string) ([]*InventoryLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, type, quantity_delta, previous_quantity, new_quantity,
		       reference_type, reference_id, notes, created_at
		FROM inventory_logs
		WHERE product_id=$1 ORDER BY created_at ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*InventoryLog{}
	for rows.Next() {
		entry := &InventoryLog{}
		var refType, notes sql.NullString
		var refID uuid.NullUUID
		if err := rows.Scan(&entry.ID, &entry.ProductID, &entry.Type,
			&entry.QuantityDelta, &entry.PreviousQuantity, &entry.NewQuantity,
			&refType, &refID, &notes, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if refType.Valid {
			entry.ReferenceType = refType.String
			entry.ReferenceID = refID.UUID
		}
		if notes.Valid {
			entry.Notes = notes.String
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

func (r *postgresRepo) GetStock(ctx context.Context, productID string) (int, error) {
	var qty int
	err := r.db.QueryRowContext(ctx,
		`SELECT stock_quantity FROM products WHERE id=$1`, productID).Scan(&qty)
	return qty, err
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
