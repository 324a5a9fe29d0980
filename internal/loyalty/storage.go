package loyalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LoyaltyLogHook struct{}

func (h *LoyaltyLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Loyalty: " + entry.Message
	return nil
}

func (h *LoyaltyLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

const (
	usersCollection        = "users"
	transactionsCollection = "transactions"
)

// MongoStore keeps coin balances on user documents and an append-only
// transaction log next to them.
type MongoStore struct {
	users        *mongo.Collection
	transactions *mongo.Collection
	log          *logrus.Entry
}

func NewMongoStore(db *mongo.Database, log *logrus.Entry) *MongoStore {
	return &MongoStore{
		users:        db.Collection(usersCollection),
		transactions: db.Collection(transactionsCollection),
		log:          log,
	}
}

// Balance of a user without a profile document is zero.
func (s *MongoStore) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, ErrUserRequired
	}

	var doc profileDocument
	opts := options.FindOne().SetProjection(bson.M{"boodaiCoins": 1})
	err := s.users.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read balance - %w", err)
	}

	return clampBalance(decimal.NewFromFloat(doc.BoodaiCoins)), nil
}

// Settle takes used coins and credits earned ones in one atomic update and
// returns the new balance. It fails with ErrInsufficientCoins instead of
// going negative.
func (s *MongoStore) Settle(ctx context.Context, userID string, used, earned decimal.Decimal) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, ErrUserRequired
	}
	if used.IsNegative() || earned.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}

	filter := bson.M{"_id": userID}
	if used.IsPositive() {
		filter["boodaiCoins"] = bson.M{"$gte": used.InexactFloat64()}
	}

	update := bson.M{"$inc": bson.M{"boodaiCoins": earned.Sub(used).InexactFloat64()}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(!used.IsPositive())

	var doc profileDocument
	err := s.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return decimal.Zero, ErrInsufficientCoins
		}
		return decimal.Zero, fmt.Errorf("failed to settle coins - %w", err)
	}

	s.log.Infof("settled %s: used %s, earned %s, balance %.2f", userID, used.StringFixed(2), earned.StringFixed(2), doc.BoodaiCoins)
	return clampBalance(decimal.NewFromFloat(doc.BoodaiCoins)), nil
}

func (s *MongoStore) AppendTransaction(ctx context.Context, tx Transaction) error {
	if tx.UserID == "" {
		return ErrUserRequired
	}

	if _, err := s.transactions.InsertOne(ctx, toDocument(tx)); err != nil {
		return fmt.Errorf("failed to append transaction - %w", err)
	}
	return nil
}

func clampBalance(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
