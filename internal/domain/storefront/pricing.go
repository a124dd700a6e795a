package storefront

import (
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Shipping rates in BRL
var (
	DiscountedShippingRate = decimal.NewFromInt(25)
	StandardShippingRate   = decimal.NewFromInt(35)
)

var discountedShippingStates = map[string]struct{}{
	"RJ": {},
	"SP": {},
	"MG": {},
	"ES": {},
}

// OrderTotals is derived from quantity, price and state. It is never stored.
type OrderTotals struct {
	Subtotal     valueobject.Money `json:"subtotal"`
	ShippingCost valueobject.Money `json:"shippingCost"`
	GrandTotal   valueobject.Money `json:"grandTotal"`
}

// ComputeTotals prices an order: subtotal is quantity/100 packages times the
// package price, shipping depends on the delivery state only.
func ComputeTotals(quantity int, unitPricePer100 decimal.Decimal, stateCode string) OrderTotals {
	subtotal := decimal.NewFromInt(int64(quantity)).
		Div(decimal.NewFromInt(PackageSize)).
		Mul(unitPricePer100)
	shipping := ShippingCost(stateCode)

	return OrderTotals{
		Subtotal:     valueobject.NewMoneyBRL(subtotal),
		ShippingCost: valueobject.NewMoneyBRL(shipping),
		GrandTotal:   valueobject.NewMoneyBRL(subtotal.Add(shipping)),
	}
}

// ShippingCost returns 0 for no state, the discounted rate for nearby states
// and the standard rate for every other state.
func ShippingCost(stateCode string) decimal.Decimal {
	state := NormalizeState(stateCode)
	if state == "" {
		return decimal.Zero
	}
	if _, ok := discountedShippingStates[state]; ok {
		return DiscountedShippingRate
	}
	return StandardShippingRate
}

// ShippingTable lists the shipping rate for every state, for display
func ShippingTable() map[string]decimal.Decimal {
	table := make(map[string]decimal.Decimal, len(BrazilianStates))
	for _, uf := range BrazilianStates {
		table[uf] = ShippingCost(uf)
	}
	return table
}
