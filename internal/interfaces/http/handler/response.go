package handler

import "github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/dto"

// APIResponse is the envelope every storefront and admin endpoint answers
// with. Only used to type the swagger annotations.
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse is the envelope of a failed request
// @Description Failed request with a stable error code and a customer facing message
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
