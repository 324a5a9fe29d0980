package catalog

import (
	"github.com/shopspring/decimal"
)

const (
	OptionSingle = "single"
	OptionPrice  = "price"
	OptionSmall  = "small"
	OptionMedium = "medium"
	OptionLarge  = "large"
)

var hundred = decimal.NewFromInt(100)

type PriceOption struct {
	Key   string          `json:"key"`
	Price decimal.Decimal `json:"price"`
	Label string          `json:"label"`
}

func sizeLabels(drink bool) [3]string {
	if drink {
		return [3]string{"0.5 л", "1 л", "1.5 л"}
	}
	return [3]string{"Маленькая", "Средняя", "Большая"}
}

// ResolvePriceOptions lists the purchasable price options of p in display
// order. An empty result means the product has no usable price.
func ResolvePriceOptions(p *Product) []PriceOption {
	var opts []PriceOption

	if p.PriceSingle.Valid {
		opts = append(opts, PriceOption{Key: OptionSingle, Price: p.PriceSingle.Decimal, Label: "Стандарт"})
	}

	hasSizes := p.PriceSmall.Valid || p.PriceMedium.Valid || p.PriceLarge.Valid
	if p.Price.Valid && !hasSizes {
		opts = append(opts, PriceOption{Key: OptionPrice, Price: p.Price.Decimal, Label: "Базовая"})
	}

	labels := sizeLabels(IsDrinkCategory(p.Category))
	sizes := []struct {
		key   string
		price decimal.NullDecimal
	}{
		{OptionSmall, p.PriceSmall},
		{OptionMedium, p.PriceMedium},
		{OptionLarge, p.PriceLarge},
	}
	for i, s := range sizes {
		if s.price.Valid {
			opts = append(opts, PriceOption{Key: s.key, Price: s.price.Decimal, Label: labels[i]})
		}
	}

	return opts
}

// HasPriceVariants reports whether a size has to be picked explicitly.
func HasPriceVariants(p *Product) bool {
	n := 0
	for _, v := range []decimal.NullDecimal{p.PriceSingle, p.Price, p.PriceSmall, p.PriceMedium, p.PriceLarge} {
		if v.Valid {
			n++
		}
	}
	return n >= 2
}

func FindOption(opts []PriceOption, key string) (PriceOption, bool) {
	for _, o := range opts {
		if o.Key == key {
			return o, true
		}
	}
	return PriceOption{}, false
}

// ApplyDiscount reduces base by discountPercent and then adds the surcharge,
// which is never discounted.
func ApplyDiscount(base decimal.Decimal, discountPercent int, additional decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(discountPercent)).Div(hundred))
	return base.Mul(factor).Add(additional)
}

// MinPriceWithDiscount is the cheapest discounted option of p, used for the
// "from X" tile price. ok is false when p has no price at all.
func MinPriceWithDiscount(p *Product) (lowest decimal.Decimal, ok bool) {
	for _, o := range ResolvePriceOptions(p) {
		price := ApplyDiscount(o.Price, p.DiscountPercent, decimal.Zero)
		if !ok || price.LessThan(lowest) {
			lowest, ok = price, true
		}
	}
	return lowest, ok
}
