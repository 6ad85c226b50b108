package payment

import "context"

// Repository is the durable payment ledger, keyed by provider reference.
//
// CreateIfAbsent and Settle are the two synchronization points the whole
// reconciliation flow leans on: the first must be an atomic insert-or-ignore
// on the reference uniqueness constraint, the second an atomic
// compare-and-set out of pending. A plain check-then-act for either admits
// the duplicate-webhook race.
type Repository interface {
	// CreateIfAbsent inserts the record unless one already exists for the
	// reference, and returns the stored record either way.
	CreateIfAbsent(ctx context.Context, rec *PaymentRecord) (*PaymentRecord, error)

	GetByReference(ctx context.Context, reference string) (*PaymentRecord, error)

	// Settle transitions pending -> status and stores the raw payload.
	// A success is written with reconciliation_pending=true in the same
	// atomic statement; callers clear the flag only after the downstream
	// effects complete. Returns false when the record was no longer pending.
	Settle(ctx context.Context, reference string, status Status, rawPayload []byte) (bool, error)

	SetReconciliationPending(ctx context.Context, reference string, pending bool) error
	ListReconciliationPending(ctx context.Context) ([]*PaymentRecord, error)
}
