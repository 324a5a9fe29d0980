package storefront

import (
	"github.com/mserebryaakov/boodai-storefront-service/internal/branch"
	"github.com/mserebryaakov/boodai-storefront-service/internal/cart"
	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
	"github.com/mserebryaakov/boodai-storefront-service/internal/checkout"
	"github.com/shopspring/decimal"
)

type optionView struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Price      string `json:"price"`
	FinalPrice string `json:"finalPrice"`
}

type tasteView struct {
	Name            string `json:"name"`
	AdditionalPrice string `json:"additionalPrice"`
}

type productView struct {
	ID              catalog.ID   `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Category        string       `json:"category"`
	Image           string       `json:"image,omitempty"`
	Price           string       `json:"price,omitempty"`
	FromPrice       bool         `json:"fromPrice"`
	DiscountPercent int          `json:"discountPercent"`
	SizeRequired    bool         `json:"sizeRequired"`
	Options         []optionView `json:"options"`
	Tastes          []tasteView  `json:"tastes,omitempty"`
}

type groupView struct {
	Category string        `json:"category"`
	Products []productView `json:"products"`
}

type catalogView struct {
	BranchID    catalog.ID    `json:"branchId"`
	Status      branch.Status `json:"status"`
	Error       string        `json:"error,omitempty"`
	Groups      []groupView   `json:"groups"`
	BestSellers []productView `json:"bestSellers"`
}

type branchView struct {
	BranchID catalog.ID                `json:"branchId"`
	Status   branch.Status             `json:"status"`
	Error    string                    `json:"error,omitempty"`
	Products int                       `json:"products"`
	Orders   []catalog.HistoricalOrder `json:"orders"`
}

type lineView struct {
	ID              string     `json:"id"`
	ProductID       catalog.ID `json:"productId"`
	Name            string     `json:"name"`
	Quantity        int        `json:"quantity"`
	Price           string     `json:"price"`
	OriginalPrice   string     `json:"originalPrice"`
	DiscountPercent int        `json:"discountPercent"`
	Total           string     `json:"total"`
}

type cartView struct {
	Items        []lineView          `json:"items"`
	PromoCode    string              `json:"promoCode,omitempty"`
	PromoPercent int                 `json:"promoPercent"`
	Totals       checkout.TotalsView `json:"totals"`
}

func newProductView(p *catalog.Product, lang string) productView {
	v := productView{
		ID:              p.ID,
		Name:            p.Name.Resolve(lang),
		Description:     p.Description.Resolve(lang),
		Category:        p.Category,
		Image:           p.ImageURL,
		DiscountPercent: p.DiscountPercent,
		SizeRequired:    catalog.HasPriceVariants(p),
		Options:         []optionView{},
	}

	if price, from, ok := catalog.TilePrice(p); ok {
		v.Price = price.StringFixed(2)
		v.FromPrice = from
	}

	for _, o := range catalog.ResolvePriceOptions(p) {
		v.Options = append(v.Options, optionView{
			Key:        o.Key,
			Label:      o.Label,
			Price:      o.Price.StringFixed(2),
			FinalPrice: catalog.ApplyDiscount(o.Price, p.DiscountPercent, decimal.Zero).StringFixed(2),
		})
	}

	for _, t := range p.Variants {
		v.Tastes = append(v.Tastes, tasteView{Name: t.Name, AdditionalPrice: t.AdditionalPrice.StringFixed(2)})
	}

	return v
}

func newCatalogView(s branch.Snapshot, lang string) catalogView {
	v := catalogView{
		BranchID:    s.BranchID,
		Status:      s.Status,
		Groups:      []groupView{},
		BestSellers: []productView{},
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}

	groups, best := catalog.GroupByCategory(s.Products)
	for _, g := range groups {
		gv := groupView{Category: g.Category}
		for i := range g.Products {
			gv.Products = append(gv.Products, newProductView(&g.Products[i], lang))
		}
		v.Groups = append(v.Groups, gv)
	}
	for i := range best {
		v.BestSellers = append(v.BestSellers, newProductView(&best[i], lang))
	}

	return v
}

func newBranchView(s branch.Snapshot) branchView {
	v := branchView{
		BranchID: s.BranchID,
		Status:   s.Status,
		Products: len(s.Products),
		Orders:   s.Orders,
	}
	if v.Orders == nil {
		v.Orders = []catalog.HistoricalOrder{}
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	return v
}

func newLineView(l cart.LineItem) lineView {
	return lineView{
		ID:              l.ID,
		ProductID:       l.ProductID,
		Name:            l.Name,
		Quantity:        l.Quantity,
		Price:           l.Price.StringFixed(2),
		OriginalPrice:   l.OriginalPrice.StringFixed(2),
		DiscountPercent: l.DiscountPercent,
		Total:           l.Total().StringFixed(2),
	}
}

func newCartView(items []cart.LineItem, code string, percent int, totals checkout.Totals) cartView {
	v := cartView{
		Items:        make([]lineView, 0, len(items)),
		PromoCode:    code,
		PromoPercent: percent,
		Totals:       totals.Format(),
	}
	for _, it := range items {
		v.Items = append(v.Items, newLineView(it))
	}
	return v
}
