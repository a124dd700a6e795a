package storefront

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BrazilianStates are the delivery state codes offered by the order form
var BrazilianStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG", "PA",
	"PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// NormalizeState trims and upper-cases a state code
func NormalizeState(stateCode string) string {
	return cases.Upper(language.BrazilianPortuguese).String(strings.TrimSpace(stateCode))
}

// IsValidState reports whether stateCode is one of BrazilianStates
func IsValidState(stateCode string) bool {
	return slices.Contains(BrazilianStates, NormalizeState(stateCode))
}
