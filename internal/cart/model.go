package cart

import (
	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
	"github.com/shopspring/decimal"
)

// LineItem is a price snapshot of one product configuration taken when it
// was first added. Later catalog changes never touch it.
type LineItem struct {
	ID              string          `json:"id"`
	ProductID       catalog.ID      `json:"productId"`
	Name            string          `json:"name"`
	VariantKey      string          `json:"variantKey,omitempty"`
	Taste           string          `json:"taste,omitempty"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	DiscountPercent int             `json:"discountPercent"`
}

func (l LineItem) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) OriginalTotal() decimal.Decimal {
	return l.OriginalPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) valid() bool {
	if l.ID == "" || l.Quantity <= 0 {
		return false
	}
	if l.Price.IsNegative() || l.OriginalPrice.IsNegative() {
		return false
	}
	return l.DiscountPercent <= 0 || l.Price.LessThanOrEqual(l.OriginalPrice)
}
