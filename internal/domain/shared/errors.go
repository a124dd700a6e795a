package shared

// DomainError is an error with a stable code for clients and a message
// that can be shown to the customer as is
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError with the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

var (
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Dados inválidos.")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Acesso restrito ao administrador.")
	ErrDuplicateSubmission = NewDomainError("DUPLICATE_SUBMISSION", "Este pedido já foi enviado.")
	ErrNotConfigured       = NewDomainError("NOT_CONFIGURED", "Integração não configurada.")
)
