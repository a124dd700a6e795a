package storefront

import (
	"fmt"
	"strings"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
)

// Allocation errors
var (
	ErrAllocationRowOutOfRange = shared.NewDomainError("ALLOCATION_ROW_OUT_OF_RANGE", "Linha de sabor inexistente.")
	ErrAllocationQuantity      = shared.NewDomainError("INVALID_ALLOCATION_QUANTITY", "Quantidade do sabor deve ser múltiplo de 100 e não pode exceder o restante.")
	ErrAllocationMismatch      = shared.NewDomainError("ALLOCATION_MISMATCH", "A soma das quantidades dos sabores deve ser igual à quantidade total.")
	ErrAllocationTotal         = shared.NewDomainError("INVALID_QUANTITY", "Quantidade total deve ser um múltiplo positivo de 100.")
)

// FlavorAllocation is one row of the flavor form: a label text and how many
// units carry it.
type FlavorAllocation struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Allocation splits a total unit quantity into flavor rows.
// After every edit the rows sum to the total.
type Allocation struct {
	total int
	rows  []FlavorAllocation
}

// NewAllocation returns an allocation with a single row covering total
func NewAllocation(total int) (*Allocation, error) {
	if total <= 0 || total%PackageSize != 0 {
		return nil, ErrAllocationTotal
	}
	return &Allocation{
		total: total,
		rows:  []FlavorAllocation{{Quantity: total}},
	}, nil
}

// RestoreAllocation rebuilds an allocation from rows sent by a client.
// Rows must be package multiples whose sum does not exceed total; a positive
// remainder is appended as a new row.
func RestoreAllocation(total int, rows []FlavorAllocation) (*Allocation, error) {
	a, err := NewAllocation(total)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return a, nil
	}

	sum := 0
	for _, r := range rows {
		if r.Quantity <= 0 || r.Quantity%PackageSize != 0 {
			return nil, ErrAllocationQuantity
		}
		sum += r.Quantity
	}
	if sum > total {
		return nil, ErrAllocationMismatch
	}

	a.rows = append(make([]FlavorAllocation, 0, len(rows)+1), rows...)
	a.appendRemainder()
	return a, nil
}

// Total returns the order quantity being allocated
func (a *Allocation) Total() int {
	return a.total
}

// Rows returns a copy of the allocation rows
func (a *Allocation) Rows() []FlavorAllocation {
	out := make([]FlavorAllocation, len(a.rows))
	copy(out, a.rows)
	return out
}

// Sum returns the allocated units
func (a *Allocation) Sum() int {
	return sumRows(a.rows)
}

// Remaining returns the unallocated units
func (a *Allocation) Remaining() int {
	return a.total - a.Sum()
}

// Balanced reports whether rows sum exactly to the total
func (a *Allocation) Balanced() bool {
	return a.Remaining() == 0
}

// Capacity returns the most units row index may hold: its own quantity plus
// whatever is unallocated.
func (a *Allocation) Capacity(index int) (int, error) {
	if index < 0 || index >= len(a.rows) {
		return 0, ErrAllocationRowOutOfRange
	}
	return a.rows[index].Quantity + a.Remaining(), nil
}

// Choices returns the quantities the form offers for row index: package
// multiples from one package up to the row capacity.
func (a *Allocation) Choices(index int) ([]int, error) {
	capacity, err := a.Capacity(index)
	if err != nil {
		return nil, err
	}
	choices := make([]int, 0, capacity/PackageSize)
	for q := PackageSize; q <= capacity; q += PackageSize {
		choices = append(choices, q)
	}
	return choices, nil
}

// SetRowQuantity changes the units of one row. Lowering a row leaves a
// remainder, which is appended as a new unnamed row.
func (a *Allocation) SetRowQuantity(index, quantity int) error {
	if index < 0 || index >= len(a.rows) {
		return ErrAllocationRowOutOfRange
	}
	if quantity <= 0 || quantity%PackageSize != 0 {
		return ErrAllocationQuantity
	}

	others := a.Sum() - a.rows[index].Quantity
	if others+quantity > a.total {
		return ErrAllocationQuantity
	}

	a.rows[index].Quantity = quantity
	a.appendRemainder()
	return nil
}

// SetRowName sets the flavor text of one row
func (a *Allocation) SetRowName(index int, name string) error {
	if index < 0 || index >= len(a.rows) {
		return ErrAllocationRowOutOfRange
	}
	a.rows[index].Name = strings.TrimSpace(name)
	return nil
}

// Reset replaces every row with a single row covering the new total
func (a *Allocation) Reset(total int) error {
	if total <= 0 || total%PackageSize != 0 {
		return ErrAllocationTotal
	}
	a.total = total
	a.rows = []FlavorAllocation{{Quantity: total}}
	return nil
}

func (a *Allocation) appendRemainder() {
	if remaining := a.Remaining(); remaining > 0 {
		a.rows = append(a.rows, FlavorAllocation{Quantity: remaining})
	}
}

func sumRows(rows []FlavorAllocation) int {
	sum := 0
	for _, r := range rows {
		sum += r.Quantity
	}
	return sum
}

// ValidateAllocations checks that rows are well formed and sum to total
func ValidateAllocations(total int, rows []FlavorAllocation) error {
	if len(rows) == 0 {
		return ErrAllocationMismatch
	}
	for i, r := range rows {
		if r.Quantity <= 0 || r.Quantity%PackageSize != 0 {
			return fmt.Errorf("row %d: %w", i+1, ErrAllocationQuantity)
		}
	}
	if sumRows(rows) != total {
		return ErrAllocationMismatch
	}
	return nil
}
