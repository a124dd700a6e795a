package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
)

// Resource error codes
const (
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeConflict     = "ERR_CONFLICT"
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Integration error codes
const (
	ErrCodeNotConfigured   = "ERR_NOT_CONFIGURED"
	ErrCodeExternalService = "ERR_EXTERNAL_SERVICE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Storefront
// domain codes are listed as the domain defines them.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotConfigured:   http.StatusUnprocessableEntity,
	ErrCodeExternalService: http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	// Order form
	"INVALID_CUSTOMER":            http.StatusBadRequest,
	"INVALID_ADDRESS":             http.StatusBadRequest,
	"INVALID_STATE_CODE":          http.StatusBadRequest,
	"INVALID_MODEL":               http.StatusBadRequest,
	"INVALID_QUANTITY":            http.StatusBadRequest,
	"INVALID_ALLOCATION_QUANTITY": http.StatusBadRequest,
	"INVALID_ALLOCATION_EDIT":     http.StatusBadRequest,
	"ALLOCATION_ROW_OUT_OF_RANGE": http.StatusBadRequest,
	"ALLOCATION_MISMATCH":         http.StatusUnprocessableEntity,
	"DUPLICATE_SUBMISSION":        http.StatusConflict,
	"ADMIN_NOT_NOTIFIED":          http.StatusBadGateway,

	// CEP lookup
	"INVALID_CEP":       http.StatusBadRequest,
	"CEP_NOT_FOUND":     http.StatusNotFound,
	"CEP_LOOKUP_FAILED": http.StatusBadGateway,

	// Admin panel
	"INVALID_CREDENTIALS":    http.StatusUnauthorized,
	"INVALID_PRODUCT":        http.StatusBadRequest,
	"INVALID_ASSET":          http.StatusBadRequest,
	"INVALID_ASSET_SLOT":     http.StatusNotFound,
	"INVALID_ASSET_TYPE":     http.StatusUnsupportedMediaType,
	"ASSET_TOO_LARGE":        http.StatusRequestEntityTooLarge,
	"SETTINGS_LOAD_FAILED":   http.StatusServiceUnavailable,
	"SETTINGS_SAVE_FAILED":   http.StatusInternalServerError,
	"JSONBIN_NOT_CONFIGURED": http.StatusUnprocessableEntity,
	"JSONBIN_SYNC_FAILED":    http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// sharedErrorCodes maps the shared domain error codes to the ERR_ form
var sharedErrorCodes = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"NOT_CONFIGURED":         ErrCodeNotConfigured,
	"EXTERNAL_SERVICE_ERROR": ErrCodeExternalService,
	"VALIDATION_ERROR":       ErrCodeValidation,
	"BAD_REQUEST":            ErrCodeBadRequest,
	"INTERNAL_ERROR":         ErrCodeInternal,
}

// NormalizeErrorCode converts a shared domain code to the ERR_ format.
// Storefront codes and codes already in the new format are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := sharedErrorCodes[code]; ok {
		return newCode
	}
	return code
}
