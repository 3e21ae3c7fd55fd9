package serviceerrors

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindConflict
	KindUnprocessableEntity
	KindInvalidRequest
	KindInsufficientStock
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnprocessableEntity:
		return "unprocessable_entity"
	case KindInvalidRequest:
		return "invalid_request"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindPersistence:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

func IsOfKind(err error, kind ErrorKind) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind == kind
	}
	return false
}

type ServiceError struct {
	Kind    ErrorKind
	Message string

	// Fields lists the offending input fields of a validation error.
	Fields []string
	// Available and Requested are set on insufficient stock errors.
	Available int
	Requested int

	Err error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: message}
}

func NewUnprocessableEntityError(message string) *ServiceError {
	return &ServiceError{Kind: KindUnprocessableEntity, Message: message}
}

func NewInvalidRequestError(message string) *ServiceError {
	return &ServiceError{Kind: KindInvalidRequest, Message: message}
}

// NewValidationError reports every violated field at once.
func NewValidationError(fields ...string) *ServiceError {
	return &ServiceError{
		Kind:    KindInvalidRequest,
		Message: "missing or invalid fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

func NewInsufficientStockError(available, requested int) *ServiceError {
	return &ServiceError{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("insufficient stock: %d available, %d requested", available, requested),
		Available: available,
		Requested: requested,
	}
}

func NewPersistenceError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindPersistence, Message: message, Err: err}
}
