package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
)

// Address lookup errors. Messages are shown to the customer as-is.
var (
	ErrCEPInvalidLength = shared.NewDomainError("INVALID_CEP", "CEP deve conter 8 dígitos.")
	ErrCEPNotFound      = shared.NewDomainError("CEP_NOT_FOUND", "CEP não encontrado.")
	ErrCEPLookupFailed  = shared.NewDomainError("CEP_LOOKUP_FAILED", "Erro ao buscar CEP. Verifique a conexão.")
)

// CEPLength is the number of digits in a Brazilian postal code
const CEPLength = 8

// DeliveryAddress is where the labels are shipped
type DeliveryAddress struct {
	CEP      string `json:"cep"`
	Street   string `json:"logradouro"`
	Number   string `json:"numero"`
	District string `json:"bairro"`
	City     string `json:"cidade"`
	State    string `json:"estado"`
}

// AddressLookupResult is what a postal directory returns for a CEP
type AddressLookupResult struct {
	CEP      string `json:"cep"`
	Street   string `json:"logradouro"`
	District string `json:"bairro"`
	City     string `json:"cidade"`
	State    string `json:"estado"`
}

// AddressLookup resolves a CEP into street, district, city and state
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (*AddressLookupResult, error)
}

// NormalizeCEP strips every non-digit and checks the remaining length.
// The all-zero CEP is never assigned and is rejected the same way.
func NormalizeCEP(raw string) (string, error) {
	cep := digits(raw)
	if len(cep) != CEPLength || strings.Trim(cep, "0") == "" {
		return "", ErrCEPInvalidLength
	}
	return cep, nil
}

// ApplyLookup returns a copy of the address with the looked-up fields
// overwritten. Number and CEP entered by the customer are kept.
func (a DeliveryAddress) ApplyLookup(result *AddressLookupResult) DeliveryAddress {
	if result == nil {
		return a
	}
	a.Street = result.Street
	a.District = result.District
	a.City = result.City
	a.State = NormalizeState(result.State)
	return a
}

// Validate checks required address fields
func (a DeliveryAddress) Validate() error {
	if _, err := NormalizeCEP(a.CEP); err != nil {
		return err
	}
	if strings.TrimSpace(a.Street) == "" || strings.TrimSpace(a.Number) == "" ||
		strings.TrimSpace(a.City) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Endereço de entrega incompleto.")
	}
	if !IsValidState(a.State) {
		return shared.NewDomainError("INVALID_STATE_CODE", fmt.Sprintf("Estado inválido: %q", a.State))
	}
	return nil
}

// String renders the address on one line for messages
func (a DeliveryAddress) String() string {
	parts := []string{}
	street := strings.TrimSpace(a.Street)
	if n := strings.TrimSpace(a.Number); n != "" {
		street = street + ", " + n
	}
	for _, p := range []string{street, a.District, a.City + " - " + NormalizeState(a.State), "CEP " + a.CEP} {
		if p = strings.TrimSpace(p); p != "" && p != "-" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
