package loyalty

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryStore mirrors MongoStore semantics for local runs and tests.
type MemoryStore struct {
	mu           sync.Mutex
	balances     map[string]decimal.Decimal
	transactions []Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{balances: make(map[string]decimal.Decimal)}
}

func (m *MemoryStore) SetBalance(userID string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
}

func (m *MemoryStore) Balance(_ context.Context, userID string) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, ErrUserRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return clampBalance(m.balances[userID]), nil
}

func (m *MemoryStore) Settle(_ context.Context, userID string, used, earned decimal.Decimal) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, ErrUserRequired
	}
	if used.IsNegative() || earned.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.balances[userID]
	if current.LessThan(used) {
		return decimal.Zero, ErrInsufficientCoins
	}

	next := current.Sub(used).Add(earned)
	m.balances[userID] = next
	return next, nil
}

func (m *MemoryStore) AppendTransaction(_ context.Context, tx Transaction) error {
	if tx.UserID == "" {
		return ErrUserRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, tx)
	return nil
}

func (m *MemoryStore) Transactions(userID string) []Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Transaction
	for _, tx := range m.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out
}
