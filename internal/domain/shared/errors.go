package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrTaskTypeNotFound     = NewDomainError("TASK_TYPE_NOT_FOUND", "Unknown task type")
	ErrTaskNotFound         = NewDomainError("TASK_NOT_FOUND", "Task not found")
	ErrInvalidFilter        = NewDomainError("INVALID_FILTER", "Filter key not supported by this task type")
	ErrAlreadyInProgress    = NewDomainError("ALREADY_IN_PROGRESS", "Task is already taken by another user")
	ErrInsufficientQuantity = NewDomainError("INSUFFICIENT_QUANTITY", "Withdrawal exceeds available pallet content")
	ErrMalformedContent     = NewDomainError("MALFORMED_CONTENT", "Content payload does not match the declared shape")
)
