package storefront

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	price := decimal.RequireFromString("25.21")

	tests := []struct {
		name     string
		quantity int
		state    string
		subtotal string
		shipping string
		grand    string
	}{
		{"discounted state fixture", 500, "RJ", "126.05", "25.00", "151.05"},
		{"no state selected", 500, "", "126.05", "0.00", "126.05"},
		{"standard state", 500, "BA", "126.05", "35.00", "161.05"},
		{"lower case state", 1000, "sp", "252.10", "25.00", "277.10"},
		{"maximum quantity", 5000, "AM", "1260.50", "35.00", "1295.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(tt.quantity, price, tt.state)
			assert.Equal(t, tt.subtotal, totals.Subtotal.StringFixed(2))
			assert.Equal(t, tt.shipping, totals.ShippingCost.StringFixed(2))
			assert.Equal(t, tt.grand, totals.GrandTotal.StringFixed(2))
		})
	}
}

func TestShippingCost(t *testing.T) {
	for _, uf := range []string{"RJ", "SP", "MG", "ES"} {
		assert.True(t, ShippingCost(uf).Equal(decimal.NewFromInt(25)), uf)
	}
	for _, uf := range BrazilianStates {
		switch uf {
		case "RJ", "SP", "MG", "ES":
			continue
		}
		assert.True(t, ShippingCost(uf).Equal(decimal.NewFromInt(35)), uf)
	}
	assert.True(t, ShippingCost("").IsZero())
	assert.True(t, ShippingCost("  ").IsZero())
	assert.True(t, ShippingCost("XX").Equal(decimal.NewFromInt(35)), "unknown non-empty state pays the standard rate")
}

func TestComputeTotals_SubtotalProperties(t *testing.T) {
	prices := []string{"0", "0.01", "25.21", "31.52", "100"}
	for _, p := range prices {
		price := decimal.RequireFromString(p)
		prev := decimal.NewFromInt(-1)
		for q := PackageSize; q <= MaximumUnits; q += PackageSize {
			totals := ComputeTotals(q, price, "")
			expected := decimal.NewFromInt(int64(q / PackageSize)).Mul(price)
			assert.True(t, totals.Subtotal.Amount().Equal(expected), "q=%d p=%s", q, p)
			assert.True(t, totals.Subtotal.Amount().GreaterThanOrEqual(prev), "monotonic in quantity")
			prev = totals.Subtotal.Amount()
		}
	}

	low := ComputeTotals(500, decimal.RequireFromString("25.21"), "RJ")
	high := ComputeTotals(500, decimal.RequireFromString("31.52"), "RJ")
	assert.True(t, high.Subtotal.Amount().GreaterThan(low.Subtotal.Amount()), "monotonic in price")
}

func TestComputeTotals_Deterministic(t *testing.T) {
	price := decimal.RequireFromString("25.21")
	first := ComputeTotals(700, price, "MG")
	second := ComputeTotals(700, price, "MG")
	assert.True(t, first.GrandTotal.Equals(second.GrandTotal))
	assert.True(t, first.Subtotal.Equals(second.Subtotal))
	assert.True(t, first.ShippingCost.Equals(second.ShippingCost))
}

func TestShippingTable(t *testing.T) {
	table := ShippingTable()
	assert.Len(t, table, 27)
	assert.Equal(t, "25", table["ES"].String())
	assert.Equal(t, "35", table["RS"].String())
}

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		raw, want int
	}{
		{-10, 500},
		{0, 500},
		{499, 500},
		{540, 500},
		{550, 600},
		{1234, 1200},
		{5000, 5000},
		{5049, 5000},
		{9000, 5000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeQuantity(tt.raw), "raw=%d", tt.raw)
	}
}

func TestValidQuantity(t *testing.T) {
	assert.True(t, ValidQuantity(500))
	assert.True(t, ValidQuantity(5000))
	assert.False(t, ValidQuantity(400))
	assert.False(t, ValidQuantity(550))
	assert.False(t, ValidQuantity(5100))
}
