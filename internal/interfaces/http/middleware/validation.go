package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/dto"
)

// StateCodeTag validates a Brazilian state code (UF)
const StateCodeTag = "uf"

// SetupValidator configures the gin validator: JSON field names in errors
// and the custom storefront tags.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	_ = v.RegisterValidation(StateCodeTag, func(fl validator.FieldLevel) bool {
		return storefront.IsValidState(fl.Field().String())
	})
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Dados inválidos", requestID, details)
}

// HandleValidationError answers a failed ShouldBind call. Malformed JSON and
// oversized bodies get their own codes; everything else is a validation error.
func HandleValidationError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	var (
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		maxErr     *http.MaxBytesError
		validation validator.ValidationErrors
	)
	switch {
	case errors.As(err, &maxErr):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeRequestTooLarge, "Requisição muito grande", requestID))
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, requestID))
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, "JSON inválido", requestID))
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, err.Error(), requestID))
	}
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Campo obrigatório"
	case "email":
		return "E-mail inválido"
	case "min":
		if e.Kind() == reflect.Slice {
			return "Informe pelo menos " + e.Param() + " item(ns)"
		}
		if e.Kind() == reflect.String {
			return "Mínimo de " + e.Param() + " caracteres"
		}
		return "Deve ser no mínimo " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Máximo de " + e.Param() + " caracteres"
		}
		return "Deve ser no máximo " + e.Param()
	case "oneof":
		return "Deve ser um de: " + e.Param()
	case "gte":
		return "Deve ser maior ou igual a " + e.Param()
	case "lte":
		return "Deve ser menor ou igual a " + e.Param()
	case StateCodeTag:
		return "UF inválida"
	default:
		return "Valor inválido"
	}
}
