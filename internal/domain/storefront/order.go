package storefront

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
)

// LabelModel identifies the label shape and size
type LabelModel string

const (
	ModelRect22x10     LabelModel = "rect22x10"
	ModelRect30x14     LabelModel = "rect30x14"
	ModelQuadrada20x20 LabelModel = "quadrada20x20"
	ModelOval17x25     LabelModel = "oval17x25"
)

// LabelModels lists every model in display order
var LabelModels = []LabelModel{ModelRect22x10, ModelRect30x14, ModelQuadrada20x20, ModelOval17x25}

// IsValid reports whether m is a known model
func (m LabelModel) IsValid() bool {
	for _, known := range LabelModels {
		if m == known {
			return true
		}
	}
	return false
}

// Label returns the human readable model name used in messages
func (m LabelModel) Label() string {
	switch m {
	case ModelRect22x10:
		return "Retangular 22x10"
	case ModelRect30x14:
		return "Retangular 30x14"
	case ModelQuadrada20x20:
		return "Quadrada 20x20"
	case ModelOval17x25:
		return "Oval 17x25"
	default:
		return string(m)
	}
}

// Customer identifies who placed the order
type Customer struct {
	Name     string `json:"nome"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email"`
}

// Order is a submitted order form. It is immutable once created.
type Order struct {
	ID          uuid.UUID          `json:"id"`
	Customer    Customer           `json:"customer"`
	Address     DeliveryAddress    `json:"address"`
	Model       LabelModel         `json:"model"`
	Quantity    int                `json:"quantity"`
	Flavors     []FlavorAllocation `json:"flavorDetails"`
	SubmittedAt time.Time          `json:"submittedAt"`
}

// NewOrderInput carries the raw order form fields
type NewOrderInput struct {
	Customer Customer
	Address  DeliveryAddress
	Model    LabelModel
	Quantity int
	Flavors  []FlavorAllocation
}

// NewOrder validates the form and creates an order
func NewOrder(in NewOrderInput) (*Order, error) {
	name := strings.TrimSpace(in.Customer.Name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Nome é obrigatório.")
	}
	if digits(in.Customer.WhatsApp) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "WhatsApp é obrigatório.")
	}
	email := strings.TrimSpace(in.Customer.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "E-mail inválido.")
	}

	if err := in.Address.Validate(); err != nil {
		return nil, err
	}
	if !in.Model.IsValid() {
		return nil, shared.NewDomainError("INVALID_MODEL", fmt.Sprintf("Modelo de etiqueta desconhecido: %q", in.Model))
	}
	if !ValidQuantity(in.Quantity) {
		return nil, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Quantidade deve estar entre %d e %d, em múltiplos de %d.", MinimumUnits, MaximumUnits, PackageSize))
	}
	if err := ValidateAllocations(in.Quantity, in.Flavors); err != nil {
		return nil, err
	}

	flavors := make([]FlavorAllocation, len(in.Flavors))
	for i, f := range in.Flavors {
		flavors[i] = FlavorAllocation{Name: strings.TrimSpace(f.Name), Quantity: f.Quantity}
	}

	addr := in.Address
	addr.CEP, _ = NormalizeCEP(addr.CEP)
	addr.State = NormalizeState(addr.State)

	return &Order{
		ID: uuid.New(),
		Customer: Customer{
			Name:     name,
			WhatsApp: strings.TrimSpace(in.Customer.WhatsApp),
			Email:    email,
		},
		Address:     addr,
		Model:       in.Model,
		Quantity:    in.Quantity,
		Flavors:     flavors,
		SubmittedAt: time.Now(),
	}, nil
}

// Packages returns the number of packages in the order
func (o *Order) Packages() int {
	return Packages(o.Quantity)
}

// PackageFlavors expands the allocation rows into one flavor per package.
// Blank flavors are returned as empty strings.
func (o *Order) PackageFlavors() []string {
	out := make([]string, 0, o.Packages())
	for _, f := range o.Flavors {
		for i := 0; i < f.Quantity/PackageSize; i++ {
			out = append(out, f.Name)
		}
	}
	return out
}

// Totals prices the order with the given product
func (o *Order) Totals(product ProductDetails) OrderTotals {
	return ComputeTotals(o.Quantity, product.Price, o.Address.State)
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DigitsOnly strips every non-digit from a phone number
func DigitsOnly(phone string) string {
	return digits(phone)
}
