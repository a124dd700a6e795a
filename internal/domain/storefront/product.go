// Package storefront holds the order form domain: product, pricing,
// flavor allocation, delivery address, admin settings and notification outcomes.
package storefront

import (
	"strings"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Order quantity rules
const (
	PackageSize  = 100
	MinimumUnits = 500
	MaximumUnits = 5000
)

// DefaultProductID is the fixed id of the only product on sale
const DefaultProductID = "etiquetas_comestiveis"

var (
	defaultProductPrice = decimal.RequireFromString("25.21")
	// ListPrice is the undiscounted price per package shown next to the product price
	ListPrice = decimal.RequireFromString("31.52")
)

// ProductDetails describes the product a customer orders.
// Price is per package of PackageSize units.
type ProductDetails struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// DefaultProduct returns the compiled-in product used until an admin edits it
func DefaultProduct() ProductDetails {
	return ProductDetails{
		ID:   DefaultProductID,
		Name: "Etiquetas Comestíveis Personalizadas",
		Description: "Etiquetas personalizadas com o sabor à sua escolha para aplicar nos seus crepes.\n" +
			"Desconto exclusivo de 20% para alunas do curso Minha Fábrica de Crepes.",
		Price: defaultProductPrice,
	}
}

// Validate checks the product can be priced and displayed
func (p ProductDetails) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "product name cannot be empty")
	}
	if p.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRODUCT", "product price cannot be negative")
	}
	return nil
}

// Packages returns how many packages a unit quantity spans
func Packages(quantity int) int {
	return quantity / PackageSize
}

// NormalizeQuantity applies the order form quantity rules: values below the
// minimum become the minimum, values are rounded to the nearest package and
// capped at the maximum.
func NormalizeQuantity(raw int) int {
	if raw < MinimumUnits {
		return MinimumUnits
	}
	q := ((raw + PackageSize/2) / PackageSize) * PackageSize
	if q < MinimumUnits {
		q = MinimumUnits
	}
	if q > MaximumUnits {
		q = MaximumUnits
	}
	return q
}

// ValidQuantity reports whether quantity satisfies the order rules without normalization
func ValidQuantity(quantity int) bool {
	return quantity >= MinimumUnits && quantity <= MaximumUnits && quantity%PackageSize == 0
}
