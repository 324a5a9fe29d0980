package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mserebryaakov/boodai-storefront-service/internal/backend"
	"github.com/mserebryaakov/boodai-storefront-service/internal/cart"
	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
	"github.com/mserebryaakov/boodai-storefront-service/internal/loyalty"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OrderSender interface {
	SendOrder(ctx context.Context, payload backend.OrderPayload) (*backend.OrderConfirmation, error)
}

type Wallet interface {
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
	Settle(ctx context.Context, userID string, used, earned decimal.Decimal) (decimal.Decimal, error)
	AppendTransaction(ctx context.Context, tx loyalty.Transaction) error
}

type Cart interface {
	Items() []cart.LineItem
	Clear(ctx context.Context)
}

type Order struct {
	Details      OrderDetails
	BranchID     catalog.ID
	PromoCode    string
	PromoPercent int
	UserID       string
	UseCoins     bool
}

type Receipt struct {
	Confirmation *backend.OrderConfirmation
	Totals       Totals
	Balance      *decimal.Decimal
	LoyaltyError string
}

type Submitter struct {
	sender OrderSender
	wallet Wallet
	log    *logrus.Entry
	now    func() time.Time
}

// NewSubmitter builds the checkout flow. wallet may be nil when loyalty is off.
func NewSubmitter(sender OrderSender, wallet Wallet, log *logrus.Entry) *Submitter {
	return &Submitter{
		sender: sender,
		wallet: wallet,
		log:    log,
		now:    time.Now,
	}
}

// Quote prices the cart for order without submitting anything.
func (s *Submitter) Quote(ctx context.Context, items []cart.LineItem, order Order) (Totals, error) {
	useCoins := order.UseCoins && order.UserID != "" && s.wallet != nil

	balance := decimal.Zero
	if useCoins {
		b, err := s.wallet.Balance(ctx, order.UserID)
		if err != nil {
			s.log.Errorf("quote: failed to read balance of %s - %v", order.UserID, err)
			return Totals{}, fmt.Errorf("%w: %v", ErrLoyaltyUnavailable, err)
		}
		balance = b
	}

	return ComputeTotal(items, order.PromoPercent, balance, useCoins), nil
}

// Submit sends the order. Until the backend accepts it the cart is left as is.
func (s *Submitter) Submit(ctx context.Context, c Cart, order Order) (*Receipt, error) {
	if err := order.Details.Validate(); err != nil {
		return nil, err
	}

	if order.BranchID == "" {
		return nil, ErrBranchNotChosen
	}

	items := c.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	totals, err := s.Quote(ctx, items, order)
	if err != nil {
		return nil, err
	}

	payload := backend.OrderPayload{
		CartItems:       items,
		Discount:        order.PromoPercent,
		PromoCode:       order.PromoCode,
		BranchID:        order.BranchID,
		CoinsUsed:       totals.CoinsUsed,
		TotalAfterCoins: totals.FinalTotal,
		IdempotencyKey:  uuid.NewString(),
	}
	if order.Details.Mode == ModeDelivery {
		payload.DeliveryDetails = order.Details.contact()
	} else {
		payload.OrderDetails = order.Details.contact()
	}

	conf, err := s.sender.SendOrder(ctx, payload)
	if err != nil {
		s.log.Errorf("submit: send order failed - %v", err)
		return nil, err
	}

	s.log.Infof("submit: order %s accepted, branch %s, total %s", conf.OrderID, order.BranchID, totals.FinalTotal.StringFixed(2))

	c.Clear(ctx)

	receipt := &Receipt{Confirmation: conf, Totals: totals}
	if order.UserID != "" && s.wallet != nil {
		s.settle(ctx, order, conf, receipt)
	}

	return receipt, nil
}

func (s *Submitter) settle(ctx context.Context, order Order, conf *backend.OrderConfirmation, receipt *Receipt) {
	totals := receipt.Totals

	balance, err := s.wallet.Settle(ctx, order.UserID, totals.CoinsUsed, totals.CoinsEarned())
	if err != nil {
		s.log.Errorf("submit: failed to settle coins of %s for order %s - %v", order.UserID, conf.OrderID, err)
		receipt.LoyaltyError = err.Error()
		return
	}
	receipt.Balance = &balance

	err = s.wallet.AppendTransaction(ctx, loyalty.Transaction{
		UserID:      order.UserID,
		Type:        loyalty.TransactionOrder,
		Amount:      totals.FinalTotal,
		CoinsUsed:   totals.CoinsUsed,
		CoinsEarned: totals.CoinsEarned(),
		OrderID:     string(conf.OrderID),
		BranchID:    string(order.BranchID),
		Timestamp:   s.now(),
	})
	if err != nil {
		s.log.Errorf("submit: failed to append transaction for order %s - %v", conf.OrderID, err)
		receipt.LoyaltyError = err.Error()
	}
}
