package backend

import (
	"github.com/mserebryaakov/boodai-storefront-service/internal/cart"
	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
	"github.com/shopspring/decimal"
)

type PromoResponse struct {
	Discount int `json:"discount"`
}

type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// OrderPayload is the body of /send-order. Exactly one of OrderDetails
// (pickup) and DeliveryDetails is set.
type OrderPayload struct {
	OrderDetails    *Contact        `json:"orderDetails,omitempty"`
	DeliveryDetails *Contact        `json:"deliveryDetails,omitempty"`
	CartItems       []cart.LineItem `json:"cartItems"`
	Discount        int             `json:"discount"`
	PromoCode       string          `json:"promoCode,omitempty"`
	BranchID        catalog.ID      `json:"branchId"`
	CoinsUsed       decimal.Decimal `json:"boodaiCoinsUsed"`
	TotalAfterCoins decimal.Decimal `json:"totalAfterCoins"`
	IdempotencyKey  string          `json:"idempotencyKey,omitempty"`
}

type OrderConfirmation struct {
	OrderID catalog.ID `json:"orderId"`
	Message string     `json:"message"`
}

type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (p errorPayload) text() string {
	if p.Message != "" {
		return p.Message
	}
	return p.Error
}
