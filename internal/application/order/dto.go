package order

import (
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/shopspring/decimal"
)

// QuoteInput is a draft order to price
type QuoteInput struct {
	Quantity int
	State    string
}

// QuoteResult prices a draft order with the stored product
type QuoteResult struct {
	Quantity  int
	Packages  int
	UnitPrice decimal.Decimal
	ListPrice decimal.Decimal
	State     string
	Totals    storefront.OrderTotals
}

// AllocationEditKind names an allocation form edit
type AllocationEditKind string

const (
	EditSetQuantity AllocationEditKind = "set_quantity"
	EditSetName     AllocationEditKind = "set_name"
	EditReset       AllocationEditKind = "reset"
)

// AllocationEdit is one change made on the flavor form
type AllocationEdit struct {
	Kind     AllocationEditKind
	Row      int
	Quantity int
	Name     string
}

// AllocateInput is a draft allocation plus the edits to apply in order
type AllocateInput struct {
	Quantity int
	Rows     []storefront.FlavorAllocation
	Edits    []AllocationEdit
}

// AllocationRow is a row with the quantities the form may offer for it
type AllocationRow struct {
	storefront.FlavorAllocation
	Choices []int
}

// AllocationResult is the allocation after every edit
type AllocationResult struct {
	Quantity  int
	Rows      []AllocationRow
	Remaining int
	Balanced  bool
}

// SubmitInput is a submitted order form
type SubmitInput struct {
	IdempotencyKey string
	Order          storefront.NewOrderInput
}

// SuccessPage is what the customer sees once the order is placed
type SuccessPage struct {
	CustomerName        string
	GrandTotal          string
	PixKey              string
	PixQR               string
	CNPJ                string
	AdminWhatsApp       string
	OrientationVideoURL string
}

// SubmitResult describes a placed order
type SubmitResult struct {
	OrderID       string
	State         storefront.FlowState
	Product       storefront.ProductDetails
	Totals        storefront.OrderTotals
	Notifications storefront.DispatchReport
	SuccessPage   SuccessPage
}
