package catalog

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestDecodeProduct(t *testing.T) {
	raw := `{
		"id": 17,
		"name": {"ru": "Пицца", "en": "Pizza"},
		"description": "Острая",
		"category": "Пицца",
		"price_small": 400,
		"price_medium": "550.50",
		"price_large": null,
		"discount_percent": 10,
		"variants": [{"name": "Сырный борт", "additionalPrice": 80}]
	}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, ID("17"), p.ID)
	assert.Equal(t, "Pizza", p.Name.Resolve(LangEN))
	assert.Equal(t, "Острая", p.Description.Resolve(LangKY))
	assert.True(t, p.PriceSmall.Valid)
	assert.True(t, p.PriceMedium.Decimal.Equal(decimal.RequireFromString("550.50")))
	assert.False(t, p.PriceLarge.Valid)
	assert.False(t, p.Price.Valid)
	assert.Equal(t, 10, p.DiscountPercent)
	require.Len(t, p.Variants, 1)
	assert.True(t, p.Variants[0].AdditionalPrice.Equal(decimal.NewFromInt(80)))
}

func TestLocalizedText_Fallback(t *testing.T) {
	tests := []struct {
		name string
		text LocalizedText
		lang string
		want string
	}{
		{"requested", Translated(Translations{RU: "Суп", KY: "Шорпо", EN: "Soup"}), LangKY, "Шорпо"},
		{"ru first", Translated(Translations{RU: "Суп", EN: "Soup"}), LangKY, "Суп"},
		{"then en", Translated(Translations{EN: "Soup", KY: "Шорпо"}), "de", "Soup"},
		{"then ky", Translated(Translations{KY: "Шорпо"}), LangEN, "Шорпо"},
		{"placeholder", Translated(Translations{}), LangRU, MissingText},
		{"plain", Text("Суп"), LangEN, "Суп"},
		{"empty plain", LocalizedText{}, LangEN, MissingText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.text.Resolve(tt.lang))
		})
	}
}

func TestLocalizedText_RoundTripShape(t *testing.T) {
	b, err := json.Marshal(Text("Чай"))
	require.NoError(t, err)
	assert.JSONEq(t, `"Чай"`, string(b))

	b, err = json.Marshal(Translated(Translations{RU: "Чай", EN: "Tea"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ru":"Чай","en":"Tea"}`, string(b))
}

func TestResolvePriceOptions_Sizes(t *testing.T) {
	p := &Product{Category: "Пицца", PriceSmall: price(400), PriceMedium: price(550), PriceLarge: price(700)}

	opts := ResolvePriceOptions(p)

	require.Len(t, opts, 3)
	assert.Equal(t, []string{"Маленькая", "Средняя", "Большая"}, []string{opts[0].Label, opts[1].Label, opts[2].Label})
	assert.Equal(t, OptionMedium, opts[1].Key)
	assert.True(t, HasPriceVariants(p))
}

func TestResolvePriceOptions_DrinkVolumes(t *testing.T) {
	p := &Product{Category: "Напитки", PriceSmall: price(60), PriceLarge: price(120)}

	opts := ResolvePriceOptions(p)

	require.Len(t, opts, 2)
	assert.Equal(t, "0.5 л", opts[0].Label)
	assert.Equal(t, "1.5 л", opts[1].Label)
}

func TestResolvePriceOptions_Single(t *testing.T) {
	single := &Product{PriceSingle: price(300)}
	opts := ResolvePriceOptions(single)
	require.Len(t, opts, 1)
	assert.Equal(t, "Стандарт", opts[0].Label)
	assert.False(t, HasPriceVariants(single))

	bare := &Product{Price: price(250)}
	opts = ResolvePriceOptions(bare)
	require.Len(t, opts, 1)
	assert.Equal(t, "Базовая", opts[0].Label)
	assert.Equal(t, OptionPrice, opts[0].Key)
}

func TestResolvePriceOptions_BarePriceIgnoredWithSizes(t *testing.T) {
	p := &Product{Price: price(250), PriceSmall: price(200)}

	opts := ResolvePriceOptions(p)

	require.Len(t, opts, 1)
	assert.Equal(t, OptionSmall, opts[0].Key)
	assert.True(t, HasPriceVariants(p))
}

func TestResolvePriceOptions_NoPrice(t *testing.T) {
	p := &Product{}
	assert.Empty(t, ResolvePriceOptions(p))
	assert.False(t, HasPriceVariants(p))

	_, ok := MinPriceWithDiscount(p)
	assert.False(t, ok)
}

func TestHasPriceVariants_AnyTwoFields(t *testing.T) {
	fields := []func(p *Product){
		func(p *Product) { p.PriceSingle = price(1) },
		func(p *Product) { p.Price = price(2) },
		func(p *Product) { p.PriceSmall = price(3) },
		func(p *Product) { p.PriceMedium = price(4) },
		func(p *Product) { p.PriceLarge = price(5) },
	}

	for i := range fields {
		for j := range fields {
			if i == j {
				continue
			}
			p := &Product{}
			fields[i](p)
			fields[j](p)
			assert.True(t, HasPriceVariants(p), "fields %d and %d", i, j)
		}
	}
}

func TestApplyDiscount(t *testing.T) {
	base := decimal.NewFromInt(1000)

	assert.True(t, ApplyDiscount(base, 0, decimal.Zero).Equal(base))
	assert.True(t, ApplyDiscount(base, 100, decimal.Zero).IsZero())
	assert.True(t, ApplyDiscount(base, 15, decimal.NewFromInt(50)).Equal(decimal.NewFromInt(900)))

	prev := ApplyDiscount(base, 0, decimal.NewFromInt(30))
	for d := 1; d <= 100; d++ {
		cur := ApplyDiscount(base, d, decimal.NewFromInt(30))
		want := base.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(d)).Div(decimal.NewFromInt(100)))).Add(decimal.NewFromInt(30))
		assert.True(t, cur.Equal(want), "discount %d", d)
		assert.True(t, cur.LessThanOrEqual(prev), "discount %d", d)
		prev = cur
	}
}

func TestApplyDiscount_SurchargeNotDiscounted(t *testing.T) {
	got := ApplyDiscount(decimal.NewFromInt(200), 50, decimal.NewFromInt(40))
	assert.True(t, got.Equal(decimal.NewFromInt(140)))
}

func TestMinPriceWithDiscount(t *testing.T) {
	p := &Product{PriceSmall: price(500), PriceMedium: price(400), PriceLarge: price(900), DiscountPercent: 20}

	got, ok := MinPriceWithDiscount(p)

	require.True(t, ok)
	assert.True(t, got.Equal(decimal.NewFromInt(320)))
}

func TestGroupByCategory(t *testing.T) {
	products := []Product{
		{ID: "1", Category: "Пицца"},
		{ID: "2", Category: BestSellersCategory},
		{ID: "3", Category: "Супы"},
		{ID: "4", Category: "Пицца"},
	}

	groups, best := GroupByCategory(products)

	require.Len(t, groups, 2)
	assert.Equal(t, "Пицца", groups[0].Category)
	assert.Len(t, groups[0].Products, 2)
	assert.Equal(t, "Супы", groups[1].Category)
	require.Len(t, best, 1)
	assert.Equal(t, ID("2"), best[0].ID)
}

func TestTilePrice(t *testing.T) {
	sized := &Product{PriceSmall: price(300), PriceLarge: price(500), DiscountPercent: 10}
	v, from, ok := TilePrice(sized)
	require.True(t, ok)
	assert.True(t, from)
	assert.True(t, v.Equal(decimal.NewFromInt(270)))

	single := &Product{PriceSingle: price(300)}
	v, from, ok = TilePrice(single)
	require.True(t, ok)
	assert.False(t, from)
	assert.True(t, v.Equal(decimal.NewFromInt(300)))

	_, _, ok = TilePrice(&Product{})
	assert.False(t, ok)
}
