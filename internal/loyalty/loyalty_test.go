package loyalty

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Settle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.SetBalance("u1", decimal.NewFromInt(80))

	balance, err := s.Settle(ctx, "u1", decimal.NewFromInt(50), decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(50)))

	_, err = s.Settle(ctx, "u1", decimal.NewFromInt(51), decimal.Zero)
	assert.ErrorIs(t, err, ErrInsufficientCoins)

	got, err := s.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(50)))
}

func TestMemoryStore_UnknownUserStartsAtZero(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	b, err := s.Balance(ctx, "new")
	require.NoError(t, err)
	assert.True(t, b.IsZero())

	b, err = s.Settle(ctx, "new", decimal.Zero, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.NewFromInt(5)))
}

func TestMemoryStore_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Balance(ctx, "")
	assert.ErrorIs(t, err, ErrUserRequired)

	_, err = s.Settle(ctx, "u", decimal.NewFromInt(-1), decimal.Zero)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	assert.ErrorIs(t, s.AppendTransaction(ctx, Transaction{}), ErrUserRequired)
}

func TestMemoryStore_Transactions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.AppendTransaction(ctx, Transaction{UserID: "a", Type: TransactionOrder}))
	require.NoError(t, s.AppendTransaction(ctx, Transaction{UserID: "b", Type: TransactionSent}))

	txs := s.Transactions("a")
	require.Len(t, txs, 1)
	assert.Equal(t, TransactionOrder, txs[0].Type)
}

func TestToDocument(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("KGT", 6*3600))
	doc := toDocument(Transaction{
		UserID:      "u1",
		Type:        TransactionOrder,
		Amount:      decimal.RequireFromString("850.50"),
		CoinsUsed:   decimal.NewFromInt(50),
		CoinsEarned: decimal.NewFromInt(45),
		OrderID:     "o1",
		Timestamp:   ts,
	})

	assert.Equal(t, "order", doc.Type)
	assert.InDelta(t, 850.5, doc.Amount, 1e-9)
	assert.InDelta(t, 45, doc.CoinsEarned, 1e-9)
	assert.Equal(t, time.UTC, doc.Timestamp.Location())
	assert.True(t, doc.Timestamp.Equal(ts))
}

func TestClampBalance(t *testing.T) {
	assert.True(t, clampBalance(decimal.NewFromInt(-3)).IsZero())
	assert.True(t, clampBalance(decimal.NewFromInt(3)).Equal(decimal.NewFromInt(3)))
}
