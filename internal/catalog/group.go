package catalog

import "github.com/shopspring/decimal"

type CategoryGroup struct {
	Category string    `json:"category"`
	Products []Product `json:"products"`
}

// GroupByCategory splits products into category groups in first-seen order
// and the best sellers section, which never appears among the groups.
func GroupByCategory(products []Product) (groups []CategoryGroup, bestSellers []Product) {
	index := make(map[string]int)

	for _, p := range products {
		if p.IsBestSeller() {
			bestSellers = append(bestSellers, p)
			continue
		}

		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, CategoryGroup{Category: p.Category})
		}
		groups[i].Products = append(groups[i].Products, p)
	}

	return groups, bestSellers
}

// TilePrice is the price shown on a catalog tile and whether it is a "from" price.
func TilePrice(p *Product) (price decimal.Decimal, from bool, ok bool) {
	if HasPriceVariants(p) {
		price, ok = MinPriceWithDiscount(p)
		return price, true, ok
	}

	opts := ResolvePriceOptions(p)
	if len(opts) == 0 {
		return decimal.Zero, false, false
	}
	return ApplyDiscount(opts[0].Price, p.DiscountPercent, decimal.Zero), false, true
}
