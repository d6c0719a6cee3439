package serviceerrors

import "errors"

type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindInvalidArgument
	KindConflict
	KindConcurrencyConflict
	KindForbidden
	KindStorageFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	case KindConcurrencyConflict:
		return "concurrency_conflict"
	case KindForbidden:
		return "forbidden"
	case KindStorageFailure:
		return "storage_failure"
	default:
		return "unknown"
	}
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

type ServiceError struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func IsOfKind(err error, kind ErrorKind) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind == kind
	}
	return false
}

// As returns the first ServiceError in err's chain.
func As(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func NewInvalidArgumentError(message string) *ServiceError {
	return &ServiceError{Kind: KindInvalidArgument, Message: message}
}

func NewValidationError(message string, fields []FieldError) *ServiceError {
	return &ServiceError{Kind: KindInvalidArgument, Message: message, Fields: fields}
}

func NewConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: message}
}

func NewConcurrencyConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConcurrencyConflict, Message: message}
}

func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{Kind: KindForbidden, Message: message}
}

func NewStorageError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindStorageFailure, Message: message, Err: err}
}
