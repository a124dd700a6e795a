package notification

import (
	"net/mail"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
)

// FixtureOrder is the order used by the admin test sends: 500 units
// delivered to RJ, which prices at 151.05 with the default product.
func FixtureOrder(settings storefront.AdminSettings) (*storefront.Order, error) {
	email := settings.AdminEmail
	if _, err := mail.ParseAddress(email); err != nil {
		email = storefront.DefaultAdminEmail
	}
	return storefront.NewOrder(storefront.NewOrderInput{
		Customer: storefront.Customer{
			Name:     "Cliente Teste",
			WhatsApp: "21999990000",
			Email:    email,
		},
		Address: storefront.DeliveryAddress{
			CEP:      "20040-020",
			Street:   "Avenida Rio Branco",
			Number:   "1",
			District: "Centro",
			City:     "Rio de Janeiro",
			State:    "RJ",
		},
		Model:    storefront.ModelRect22x10,
		Quantity: storefront.MinimumUnits,
		Flavors: []storefront.FlavorAllocation{
			{Name: "Chocolate", Quantity: 300},
			{Name: "Morango", Quantity: 200},
		},
	})
}
