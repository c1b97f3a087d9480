package oauth

import (
	"sync"
	"time"

	"linkmcp/pkg/logging"
)

// TransactionStore provides thread-safe storage for pending authorization
// transactions. A transaction is created when a client hits the authorize
// endpoint and consumed exactly once when the upstream callback arrives.
type TransactionStore struct {
	mu           sync.RWMutex
	transactions map[string]*Transaction

	ttl time.Duration
	now func() time.Time
}

// NewTransactionStore creates a transaction store whose entries expire
// after ttl.
func NewTransactionStore(ttl time.Duration) *TransactionStore {
	return &TransactionStore{
		transactions: make(map[string]*Transaction),
		ttl:          ttl,
		now:          time.Now,
	}
}

// Put stores a transaction under the given ID, stamping its creation time.
func (ts *TransactionStore) Put(id string, txn *Transaction) {
	txn.CreatedAt = ts.now()

	ts.mu.Lock()
	ts.transactions[id] = txn
	ts.mu.Unlock()

	logging.Debug("OAuth", "Stored transaction id=%s client=%s", id, txn.ClientID)
}

// Get returns the transaction for the given ID without consuming it.
// Expired transactions are treated as absent.
func (ts *TransactionStore) Get(id string) (*Transaction, bool) {
	ts.mu.RLock()
	txn, ok := ts.transactions[id]
	ts.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if ts.now().Sub(txn.CreatedAt) > ts.ttl {
		return nil, false
	}
	return txn, true
}

// Consume returns the transaction for the given ID and removes it from the
// store. A transaction can be consumed at most once; unknown or expired IDs
// fail identically.
func (ts *TransactionStore) Consume(id string) (*Transaction, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	txn, ok := ts.transactions[id]
	if !ok {
		return nil, false
	}
	delete(ts.transactions, id)

	if ts.now().Sub(txn.CreatedAt) > ts.ttl {
		logging.Warn("OAuth", "Transaction expired: id=%s age=%v", id, ts.now().Sub(txn.CreatedAt))
		return nil, false
	}
	return txn, true
}

// Delete removes a transaction from the store.
func (ts *TransactionStore) Delete(id string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	delete(ts.transactions, id)
}

// Len reports the number of stored transactions, including expired ones
// not yet swept.
func (ts *TransactionStore) Len() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.transactions)
}

// SweepExpired removes all expired transactions and returns how many were
// removed.
func (ts *TransactionStore) SweepExpired() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	count := 0
	for id, txn := range ts.transactions {
		if ts.now().Sub(txn.CreatedAt) > ts.ttl {
			delete(ts.transactions, id)
			count++
		}
	}
	return count
}
