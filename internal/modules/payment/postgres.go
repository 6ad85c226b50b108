package payment

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Expects a unique constraint on payments(reference).
type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSQL = `
	SELECT id, reference, order_id, status, amount_minor, currency, raw_payload,
	       reconciliation_pending, settled_at, created_at, updated_at
	FROM payments`

func (r *postgresRepo) CreateIfAbsent(ctx context.Context, rec *PaymentRecord) (*PaymentRecord, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, reference, order_id, status, amount_minor, currency)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (reference) DO NOTHING`,
		rec.ID, rec.Reference, rec.OrderID, rec.Status, rec.AmountMinor, rec.Currency)
	if err != nil {
		return nil, err
	}
	return r.GetByReference(ctx, rec.Reference)
}

func (r *postgresRepo) GetByReference(ctx context.Context, reference string) (*PaymentRecord, error) {
	rec, err := r.scan(r.db.QueryRowContext(ctx, selectSQL+" WHERE reference=$1", reference))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return rec, err
}

// Settle is the compare-and-set out of pending: under concurrent duplicate
// webhooks exactly one caller gets settled=true. A success settles with
// reconciliation_pending=true in the same statement; the flag comes off only
// once the order confirm and stock decrement have landed, so a crash between
// settlement and those effects cannot hide the missing work.
func (r *postgresRepo) Settle(ctx context.Context, reference string, status Status, rawPayload []byte) (bool, error) {
	now := time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status=$1, raw_payload=$2, reconciliation_pending=$3, settled_at=$4, updated_at=$4
		WHERE reference=$5 AND status=$6`,
		status, rawPayload, status == StatusSuccess, now, reference, StatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *postgresRepo) SetReconciliationPending(ctx context.Context, reference string, pending bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments SET reconciliation_pending=$1, updated_at=$2 WHERE reference=$3`,
		pending, time.Now(), reference)
	return err
}

func (r *postgresRepo) ListReconciliationPending(ctx context.Context) ([]*PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		selectSQL+` WHERE reconciliation_pending=true ORDER BY settled_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*PaymentRecord{}
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scan(row rowScanner) (*PaymentRecord, error) {
	rec := &PaymentRecord{}
	var rawPayload []byte
	var settledAt sql.NullTime
	err := row.Scan(
		&rec.ID, &rec.Reference, &rec.OrderID, &rec.Status,
		&rec.AmountMinor, &rec.Currency, &rawPayload,
		&rec.ReconciliationPending, &settledAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.RawPayload = rawPayload
	if settledAt.Valid {
		rec.SettledAt = &settledAt.Time
	}
	return rec, nil
}
