package checkout

import (
	"github.com/mserebryaakov/boodai-storefront-service/internal/cart"
	"github.com/shopspring/decimal"
)

// AccrualRate is the share of the undiscounted order value paid back in coins.
var AccrualRate = decimal.RequireFromString("0.05")

var hundred = decimal.NewFromInt(100)

// Totals are kept at full precision, Format rounds them for display.
type Totals struct {
	Original           decimal.Decimal
	DiscountedSubtotal decimal.Decimal
	AfterPromo         decimal.Decimal
	CoinsUsed          decimal.Decimal
	FinalTotal         decimal.Decimal
}

// ComputeTotal sums the ledger, takes the promo percentage off the already
// discounted subtotal and then spends loyalty coins. useLoyalty must only be
// true for an authenticated user.
func ComputeTotal(items []cart.LineItem, promoPercent int, loyaltyBalance decimal.Decimal, useLoyalty bool) Totals {
	var t Totals

	for _, it := range items {
		t.Original = t.Original.Add(it.OriginalTotal())
		t.DiscountedSubtotal = t.DiscountedSubtotal.Add(it.Total())
	}

	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(promoPercent)).Div(hundred))
	t.AfterPromo = t.DiscountedSubtotal.Mul(factor)

	t.FinalTotal = t.AfterPromo
	if useLoyalty && loyaltyBalance.IsPositive() {
		t.CoinsUsed = decimal.Min(loyaltyBalance, t.AfterPromo)
		t.FinalTotal = decimal.Max(decimal.Zero, t.AfterPromo.Sub(t.CoinsUsed))
	}

	return t
}

// CoinsEarned is always based on the gross order value.
func (t Totals) CoinsEarned() decimal.Decimal {
	return t.Original.Mul(AccrualRate)
}

// SettledBalance is the balance after an order using these totals went through.
func (t Totals) SettledBalance(balance decimal.Decimal) decimal.Decimal {
	return balance.Sub(t.CoinsUsed).Add(t.CoinsEarned())
}

type TotalsView struct {
	Original           string `json:"original"`
	DiscountedSubtotal string `json:"discountedSubtotal"`
	AfterPromo         string `json:"afterPromo"`
	CoinsUsed          string `json:"coinsUsed"`
	FinalTotal         string `json:"finalTotal"`
	CoinsEarned        string `json:"coinsEarned"`
	Savings            string `json:"savings"`
}

func (t Totals) Format() TotalsView {
	return TotalsView{
		Original:           t.Original.StringFixed(2),
		DiscountedSubtotal: t.DiscountedSubtotal.StringFixed(2),
		AfterPromo:         t.AfterPromo.StringFixed(2),
		CoinsUsed:          t.CoinsUsed.StringFixed(2),
		FinalTotal:         t.FinalTotal.StringFixed(2),
		CoinsEarned:        t.CoinsEarned().StringFixed(2),
		Savings:            t.Original.Sub(t.FinalTotal).StringFixed(2),
	}
}
