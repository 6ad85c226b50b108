package payment

import "sync"

// refLocks hands out one mutex per payment reference so a single process
// never runs two reconciliations for the same reference at once. Entries are
// refcounted and dropped on last release; the ledger's compare-and-set stays
// the cross-process guarantee.
type refLocks struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newRefLocks() *refLocks {
	return &refLocks{locks: make(map[string]*refLock)}
}

func (r *refLocks) lock(key string) {
	r.mu.Lock()
	l, ok := r.locks[key]
	if !ok {
		l = &refLock{}
		r.locks[key] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
}

func (r *refLocks) unlock(key string) {
	r.mu.Lock()
	l := r.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(r.locks, key)
	}
	r.mu.Unlock()

	l.mu.Unlock()
}
