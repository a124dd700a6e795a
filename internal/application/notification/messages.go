package notification

import (
	"fmt"
	"strings"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
)

// OrderMessage is everything the message builders need about one order
type OrderMessage struct {
	Order   *storefront.Order
	Product storefront.ProductDetails
	Totals  storefront.OrderTotals
}

// NewOrderMessage prices order with product
func NewOrderMessage(order *storefront.Order, product storefront.ProductDetails) OrderMessage {
	return OrderMessage{Order: order, Product: product, Totals: order.Totals(product)}
}

func (m OrderMessage) quantityText() string {
	return fmt.Sprintf("%d unidades (%d pacotes)", m.Order.Quantity, m.Order.Packages())
}

// flavorLines lists one "Pacote i: flavor" line per package
func (m OrderMessage) flavorLines() string {
	flavors := m.Order.PackageFlavors()
	lines := make([]string, len(flavors))
	for i, f := range flavors {
		if strings.TrimSpace(f) == "" {
			f = "Não especificado"
		}
		lines[i] = fmt.Sprintf("Pacote %d: %s", i+1, f)
	}
	return strings.Join(lines, "\n")
}

func (m OrderMessage) flavorsPlain() string {
	flavors := m.Order.PackageFlavors()
	out := make([]string, len(flavors))
	for i, f := range flavors {
		if strings.TrimSpace(f) == "" {
			f = "N/A"
		}
		out[i] = f
	}
	return strings.Join(out, ", ")
}

// WhatsAppText renders the admin chat message
func WhatsAppText(m OrderMessage) string {
	return fmt.Sprintf(
		"Novo Pedido Print Foods: %dx %s por %s. Entrega: %s. Sabores: %s. Total: R$%s (Produtos R$%s + Frete R$%s). Contato: %s",
		m.Order.Quantity,
		m.Product.Name,
		m.Order.Customer.Name,
		m.Order.Address.State,
		m.flavorsPlain(),
		m.Totals.GrandTotal.StringFixed(2),
		m.Totals.Subtotal.StringFixed(2),
		m.Totals.ShippingCost.StringFixed(2),
		m.Order.Customer.WhatsApp,
	)
}

// AdminEmailParams are the template params of the store notification email
func AdminEmailParams(m OrderMessage, settings storefront.AdminSettings) map[string]string {
	return map[string]string{
		"product_name":          m.Product.Name,
		"quantity":              m.quantityText(),
		"sabores_list":          m.flavorLines(),
		"subtotal":              m.Totals.Subtotal.StringFixed(2),
		"shipping_cost":         m.Totals.ShippingCost.StringFixed(2),
		"grand_total":           m.Totals.GrandTotal.StringFixed(2),
		"user_name":             m.Order.Customer.Name,
		"user_whatsapp":         m.Order.Customer.WhatsApp,
		"user_email":            m.Order.Customer.Email,
		"delivery_state":        m.Order.Address.State,
		"full_address":          m.Order.Address.String(),
		"model":                 m.Order.Model.Label(),
		"admin_recipient_email": settings.AdminEmail,
		"reply_to":              m.Order.Customer.Email,
	}
}

// CustomerEmailParams are the template params of the customer confirmation email
func CustomerEmailParams(m OrderMessage, settings storefront.AdminSettings) map[string]string {
	return map[string]string{
		"user_name":              m.Order.Customer.Name,
		"user_recipient_email":   m.Order.Customer.Email,
		"product_name":           m.Product.Name,
		"quantity":               m.quantityText(),
		"sabores_list":           m.flavorLines(),
		"subtotal":               m.Totals.Subtotal.StringFixed(2),
		"shipping_cost":          m.Totals.ShippingCost.StringFixed(2),
		"grand_total":            m.Totals.GrandTotal.StringFixed(2),
		"delivery_state":         m.Order.Address.State,
		"full_address":           m.Order.Address.String(),
		"orientation_video_url":  settings.OrientationVideoURL,
		"admin_whatsapp_contact": settings.AdminWhatsApp,
		"admin_reply_to_email":   settings.AdminEmail,
		"company_cnpj":           settings.CNPJ,
		"pix_key_info":           settings.PixDisplay(),
	}
}
