package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// BestSellersCategory marks products shown only in the best sellers section.
const BestSellersCategory = "Часто заказывают"

// ID accepts both JSON strings and numbers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

type TasteVariant struct {
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additionalPrice"`
}

type Product struct {
	ID              ID                  `json:"id"`
	Name            LocalizedText       `json:"name"`
	Description     LocalizedText       `json:"description"`
	Category        string              `json:"category"`
	Price           decimal.NullDecimal `json:"price"`
	PriceSingle     decimal.NullDecimal `json:"price_single"`
	PriceSmall      decimal.NullDecimal `json:"price_small"`
	PriceMedium     decimal.NullDecimal `json:"price_medium"`
	PriceLarge      decimal.NullDecimal `json:"price_large"`
	DiscountPercent int                 `json:"discount_percent"`
	Variants        []TasteVariant      `json:"variants,omitempty"`
	ImageURL        string              `json:"image,omitempty"`
}

func (p *Product) HasTasteVariants() bool {
	return len(p.Variants) > 0
}

func (p *Product) Taste(name string) (TasteVariant, bool) {
	for _, v := range p.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return TasteVariant{}, false
}

func (p *Product) IsBestSeller() bool {
	return p.Category == BestSellersCategory
}

var drinkMarkers = []string{"напит", "drink", "суусундук"}

func IsDrinkCategory(category string) bool {
	c := strings.ToLower(category)
	for _, m := range drinkMarkers {
		if strings.Contains(c, m) {
			return true
		}
	}
	return false
}

type Branch struct {
	ID      ID      `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
}

type HistoricalOrder struct {
	ID        ID              `json:"id"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt string          `json:"created_at"`
	Status    string          `json:"status"`
}
