package loyalty

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionSent     TransactionType = "sent"
	TransactionReceived TransactionType = "received"
	TransactionOrder    TransactionType = "order"
)

type Transaction struct {
	UserID      string
	Type        TransactionType
	Amount      decimal.Decimal
	CoinsUsed   decimal.Decimal
	CoinsEarned decimal.Decimal
	OrderID     string
	BranchID    string
	Timestamp   time.Time
}

// profileDocument is the part of a user document this service touches.
type profileDocument struct {
	ID          string  `bson:"_id"`
	BoodaiCoins float64 `bson:"boodaiCoins"`
}

type transactionDocument struct {
	UserID      string    `bson:"userId"`
	Type        string    `bson:"type"`
	Amount      float64   `bson:"amount"`
	CoinsUsed   float64   `bson:"coinsUsed,omitempty"`
	CoinsEarned float64   `bson:"coinsEarned,omitempty"`
	OrderID     string    `bson:"orderId,omitempty"`
	BranchID    string    `bson:"branchId,omitempty"`
	Timestamp   time.Time `bson:"timestamp"`
}

func toDocument(tx Transaction) transactionDocument {
	return transactionDocument{
		UserID:      tx.UserID,
		Type:        string(tx.Type),
		Amount:      tx.Amount.InexactFloat64(),
		CoinsUsed:   tx.CoinsUsed.InexactFloat64(),
		CoinsEarned: tx.CoinsEarned.InexactFloat64(),
		OrderID:     tx.OrderID,
		BranchID:    tx.BranchID,
		Timestamp:   tx.Timestamp.UTC(),
	}
}
