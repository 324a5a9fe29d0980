package cart

import (
	"fmt"
	"strings"

	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
	"github.com/shopspring/decimal"
)

const defaultTaste = "default"

// LineKey separates configurations of a product that must not merge.
// Products without any choice use their bare id.
func LineKey(p *catalog.Product, variantKey, taste string) string {
	if !catalog.HasPriceVariants(p) && !p.HasTasteVariants() {
		return string(p.ID)
	}

	if taste == "" {
		taste = defaultTaste
	}
	return fmt.Sprintf("%s_%s_%s", p.ID, variantKey, taste)
}

// NewLine prices one unit of p for the given size and taste selection.
func NewLine(p *catalog.Product, variantKey, taste, lang string) (LineItem, error) {
	if p == nil {
		return LineItem{}, newValidationError("product", ErrMsgProductRequired)
	}

	opts := catalog.ResolvePriceOptions(p)
	if len(opts) == 0 {
		return LineItem{}, newValidationError("product", ErrMsgNoPrice)
	}

	var opt catalog.PriceOption
	if catalog.HasPriceVariants(p) {
		if variantKey == "" {
			return LineItem{}, newValidationError("variantKey", ErrMsgSizeRequired)
		}
		o, ok := catalog.FindOption(opts, variantKey)
		if !ok {
			return LineItem{}, newValidationError("variantKey", ErrMsgUnknownSize)
		}
		opt = o
	} else {
		opt = opts[0]
	}

	surcharge := decimal.Zero
	if p.HasTasteVariants() {
		if taste == "" {
			return LineItem{}, newValidationError("taste", ErrMsgTasteRequired)
		}
		v, ok := p.Taste(taste)
		if !ok {
			return LineItem{}, newValidationError("taste", ErrMsgUnknownTaste)
		}
		surcharge = v.AdditionalPrice
	} else {
		taste = ""
	}

	name := p.Name.Resolve(lang)
	var details []string
	if catalog.HasPriceVariants(p) {
		details = append(details, opt.Label)
	}
	if taste != "" {
		details = append(details, taste)
	}
	if len(details) > 0 {
		name = fmt.Sprintf("%s (%s)", name, strings.Join(details, ", "))
	}

	return LineItem{
		ID:              LineKey(p, opt.Key, taste),
		ProductID:       p.ID,
		Name:            name,
		VariantKey:      opt.Key,
		Taste:           taste,
		Quantity:        1,
		Price:           catalog.ApplyDiscount(opt.Price, p.DiscountPercent, surcharge),
		OriginalPrice:   opt.Price.Add(surcharge),
		DiscountPercent: p.DiscountPercent,
	}, nil
}
